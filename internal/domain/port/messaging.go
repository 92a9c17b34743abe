package port

import "context"

// EventPublisher pushes classification result events to interested
// consumers. Publishing is best-effort: a failure must never fail the
// request that produced the event.
type EventPublisher interface {
	PublishClassification(ctx context.Context, msg []byte) error
}
