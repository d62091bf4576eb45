package generation

import (
	"context"
	"time"
)

// StatusReader is the read side of the registry consumed by watchers.
type StatusReader interface {
	Status(id string) Status
}

// Watcher polls one generation's status at a fixed interval and invokes
// a callback with each observation. It stops itself as soon as a
// terminal status is observed, or when Stop is called, whichever comes
// first. Polling is the only notification mechanism; there is no push.
type Watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Watch starts polling. The callback runs on the watcher's goroutine;
// the first observation happens immediately, not one interval in.
func Watch(ctx context.Context, reader StatusReader, id string, interval time.Duration, fn func(Status)) *Watcher {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(w.done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			status := reader.Status(id)
			fn(status)
			if status.Terminal() {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return w
}

// Stop cancels polling. Safe to call repeatedly and after auto-stop.
func (w *Watcher) Stop() {
	w.cancel()
}

// Done is closed once polling has stopped, for either reason.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}
