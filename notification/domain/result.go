package domain

// Result summarizes a notification fan-out. Success means at least one
// message went out. Skipped marks a fan-out with no recipients, which is
// not a failure.
type Result struct {
	Success bool   `json:"success"`
	Sent    int    `json:"sent,omitempty"`
	Failed  int    `json:"failed,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}
