package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsolate(t *testing.T) {
	assert.NoError(t, Isolate(func() error { return nil }))

	sentinel := errors.New("bad record")
	assert.ErrorIs(t, Isolate(func() error { return sentinel }), sentinel)

	err := Isolate(func() error {
		var m map[string]int
		m["boom"] = 1
		return nil
	})
	assert.ErrorContains(t, err, "recovered from panic")
}
