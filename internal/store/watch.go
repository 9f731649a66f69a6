package store

import (
	"context"
	"sync"

	"github.com/nick-dorsch/todoboard/pkg/models"
)

// Watch adapts Subscribe to a channel. The channel holds a single snapshot;
// a newer snapshot replaces one that has not been received yet. The channel
// is closed once ctx is done.
func (s *Store) Watch(ctx context.Context) <-chan []models.Todo {
	return watch(ctx, s.Subscribe)
}

func watch(ctx context.Context, subscribe func(Listener) func()) <-chan []models.Todo {
	out := make(chan []models.Todo, 1)

	var mu sync.Mutex
	closed := false

	unsubscribe := subscribe(func(todos []models.Todo) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case <-out:
		default:
		}
		out <- todos
	})

	go func() {
		<-ctx.Done()
		unsubscribe()

		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()

	return out
}
