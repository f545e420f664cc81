// Package reconcile holds helpers shared by the per-record sync loops.
package reconcile

import "fmt"

// Isolate runs fn and converts a panic into an error, so that one bad remote
// record cannot take down a whole batch.
func Isolate(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
		}
	}()
	return fn()
}
