package quote

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// refreshConcurrency bounds the number of parallel upstream fetches
// during a bulk refresh.
const refreshConcurrency = 4

// Cache wraps a Client with an in-memory TTL cache. GetQuote serves
// cached entries while fresh and falls through to the upstream client
// otherwise. Refresh warms the cache for a set of symbols in parallel.
type Cache struct {
	client Client
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]cachedQuote
}

type cachedQuote struct {
	quote     Quote
	fetchedAt time.Time
}

// NewCache creates a quote cache over the given upstream client.
func NewCache(client Client, ttl time.Duration) *Cache {
	return &Cache{
		client:  client,
		ttl:     ttl,
		entries: make(map[string]cachedQuote),
	}
}

// GetQuote returns the cached quote for symbol if still within TTL,
// otherwise fetches from the upstream client and caches the result.
func (c *Cache) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < c.ttl {
		return entry.quote, nil
	}

	q, err := c.client.GetQuote(ctx, symbol)
	if err != nil {
		// Serve a stale entry rather than failing the read.
		if ok {
			return entry.quote, nil
		}
		return Quote{}, err
	}

	c.mu.Lock()
	c.entries[symbol] = cachedQuote{quote: q, fetchedAt: time.Now()}
	c.mu.Unlock()

	return q, nil
}

// Refresh fetches quotes for all given symbols in parallel and caches
// them. The first upstream error aborts the group and is returned;
// already-fetched entries remain cached.
func (c *Cache) Refresh(ctx context.Context, symbols []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			q, err := c.client.GetQuote(ctx, symbol)
			if err != nil {
				return err
			}
			c.mu.Lock()
			c.entries[symbol] = cachedQuote{quote: q, fetchedAt: time.Now()}
			c.mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}
