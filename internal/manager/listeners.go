// Package manager contains the stateful components owning the application's
// mutable state. Each manager serializes its mutations and pushes consistent
// snapshots to registered listeners.
//
// Listener registration works by interface assertion: an object subscribes to
// every event whose listener interface it implements, so one object can
// observe many managers by implementing the corresponding methods.
package manager

import (
	"github.com/mateusz-kow/Auto-Subs/internal/logging"
)

// notify fans data out to every callback in registration order. A panicking
// listener is logged and does not prevent the remaining listeners from
// running.
func notify[T any](log *logging.Logger, event string, callbacks []func(T), data T) {
	log.Debugw("Notifying listeners", "event", event, "count", len(callbacks))
	for _, callback := range callbacks {
		invoke(log, event, callback, data)
	}
}

func invoke[T any](log *logging.Logger, event string, callback func(T), data T) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("Listener panicked", "event", event, "panic", r)
		}
	}()
	callback(data)
}
