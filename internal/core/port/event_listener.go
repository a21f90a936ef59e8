package port

import "context"

type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
