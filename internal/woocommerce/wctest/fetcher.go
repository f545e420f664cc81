// Package wctest provides an in-memory remote collection source for tests.
package wctest

import (
	"context"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// Fetcher serves canned collections keyed by resource.
type Fetcher struct {
	mu          sync.Mutex
	Collections map[string][]json.RawMessage
	Err         error
	Calls       map[string]int
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		Collections: map[string][]json.RawMessage{},
		Calls:       map[string]int{},
	}
}

// Add appends records to a resource collection. Values that are already
// raw JSON are stored untouched so tests can inject malformed records.
func (f *Fetcher) Add(t *testing.T, resource string, records ...any) *Fetcher {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range records {
		f.Collections[resource] = append(f.Collections[resource], Raw(t, r))
	}
	return f
}

func (f *Fetcher) FetchAll(ctx context.Context, resource string, pageSize int) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[resource]++
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]json.RawMessage, len(f.Collections[resource]))
	copy(out, f.Collections[resource])
	return out, nil
}

func Raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	switch r := v.(type) {
	case json.RawMessage:
		return r
	case string:
		return json.RawMessage(r)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}
