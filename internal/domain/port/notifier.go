package port

import "context"

// DegradationNotifier alerts an operator when a corpus build had to skip
// examples that failed fingerprint extraction.
type DegradationNotifier interface {
	NotifyCorpusDegraded(ctx context.Context, to string, skipped int, details string) error
}
