// Package mirror keeps write-only copies of the todo collection in sync with
// the store. Mirrors are never read back at startup.
package mirror

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/nick-dorsch/todoboard/internal/store"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

type Sink interface {
	Name() string
	Write(ctx context.Context, todos []models.Todo) error
	Close() error
}

type subscriber interface {
	Subscribe(fn store.Listener) func()
}

// Attach writes every snapshot published by src to sink, starting with the
// current one. Write errors are logged and never surface to the mutation
// that triggered them.
func Attach(src subscriber, sink Sink, logger *log.Logger) (detach func()) {
	return src.Subscribe(func(todos []models.Todo) {
		if err := sink.Write(context.Background(), todos); err != nil {
			logger.Error("failed to write mirror", "mirror", sink.Name(), "err", err)
			return
		}
		logger.Debug("wrote mirror", "mirror", sink.Name(), "count", len(todos))
	})
}
