package request

// ImportTransactionsRequest is the body for a CSV import call. DryRun
// runs the full validation pipeline without persisting; Preview echoes
// the parsed rows back in the response.
type ImportTransactionsRequest struct {
	CSV     string `json:"csv"`
	DryRun  bool   `json:"dryRun,omitempty"`
	Preview bool   `json:"preview,omitempty"`
}
