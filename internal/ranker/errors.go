package ranker

import "fmt"

// ErrUnavailable indicates the scoring service could not be reached or
// returned something that is not a scoring response at all.
type ErrUnavailable struct {
	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int
	Err        error
}

func (e *ErrUnavailable) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("scoring service unavailable (status %d): %v", e.StatusCode, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("scoring service unavailable: %v", e.Err)
	}
	return "scoring service unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }
