package dispatcher

import (
	"context"

	"github.com/garyjia/servicehub/internal/domain/event"
)

// Handler is a post-commit hook for one event
type Handler func(ctx context.Context, evt *event.Event) error

type hook struct {
	name string
	run  Handler
}
