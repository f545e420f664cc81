package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-catalog-sync/config"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	docs     map[string]map[string]any
	exists   bool
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/products":
		if f.exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/products":
		f.exists = true
		io.WriteString(w, `{"acknowledged":true}`)
	case strings.HasPrefix(r.URL.Path, "/products/_doc/"):
		var doc map[string]any
		_ = json.NewDecoder(r.Body).Decode(&doc)
		f.docs[strings.TrimPrefix(r.URL.Path, "/products/_doc/")] = doc
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"unexpected"}`)
	}
}

func TestIndexProductCreatesIndexOnce(t *testing.T) {
	fake := &fakeES{docs: map[string]map[string]any{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	idx, err := NewProductIndexer(&config.ElasticsearchConfig{Addresses: []string{srv.URL}, Index: "products"}, logger.NewNop())
	require.NoError(t, err)

	rid := int64(7)
	p := &model.Product{
		BaseModel: model.BaseModel{ID: "p-1"},
		RemoteID:  &rid,
		Name:      "Irish Stew",
		Category:  model.CategoryTraditionalIrish,
		Tags:      pq.StringArray{"hearty"},
		Price:     9.5,
		IsActive:  true,
	}
	require.NoError(t, idx.IndexProduct(context.Background(), p))
	require.NoError(t, idx.IndexProduct(context.Background(), p))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "HEAD /products", fake.requests[0])
	assert.Equal(t, "PUT /products", fake.requests[1])
	assert.Len(t, fake.requests, 4, "index existence is checked only once")

	doc := fake.docs["p-1"]
	require.NotNil(t, doc)
	assert.Equal(t, "Irish Stew", doc["name"])
	assert.Equal(t, model.CategoryTraditionalIrish, doc["category"])
	assert.Equal(t, float64(7), doc["remote_id"])
}

func TestIndexProductReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":"cluster_block_exception"}`)
	}))
	defer srv.Close()

	idx, err := NewProductIndexer(&config.ElasticsearchConfig{Addresses: []string{srv.URL}}, logger.NewNop())
	require.NoError(t, err)

	err = idx.IndexProduct(context.Background(), &model.Product{BaseModel: model.BaseModel{ID: "p-2"}, Name: "Boxty"})
	assert.Error(t, err)
}
