// Package debounce provides a simple trailing-edge debounce helper.
package debounce

import (
	"sync"
	"time"
)

// Debounce returns a function that delays invoking fn until duration has
// elapsed since the last call. Rapid successive calls reset the timer, so fn
// runs once per burst.
func Debounce(duration time.Duration, fn func()) func() {
	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(duration, fn)
	}
}
