package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/config"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string, attempts int) *Client {
	t.Helper()
	return NewClient(&config.WooCommerceConfig{
		BaseURL:        url,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		PageSize:       2,
		RequestTimeout: time.Second,
		MaxAttempts:    attempts,
		RetryDelay:     time.Millisecond,
	}, logger.NewNop())
}

func TestFetchAllDrainsEveryPage(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ck_test", user)
		assert.Equal(t, "cs_test", pass)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("X-WP-TotalPages", "3")
		switch page {
		case 1:
			fmt.Fprint(w, `[{"id":1},{"id":2}]`)
		case 2:
			fmt.Fprint(w, `[{"id":3},{"id":4}]`)
		case 3:
			fmt.Fprint(w, `[{"id":5}]`)
		default:
			t.Errorf("unexpected page %d", page)
			fmt.Fprint(w, `[]`)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 1)
	records, err := c.FetchAll(context.Background(), ResourceProducts, 0)
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.JSONEq(t, `{"id":1}`, string(records[0]))
	assert.JSONEq(t, `{"id":5}`, string(records[4]))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchAllWithoutPageCountStopsOnShortPage(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			fmt.Fprint(w, `[{"id":1},{"id":2}]`)
			return
		}
		fmt.Fprint(w, `[{"id":3}]`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 1)
	records, err := c.FetchAll(context.Background(), ResourceCategories, 2)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchAllRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "upstream busy", http.StatusBadGateway)
			return
		}
		w.Header().Set("X-WP-TotalPages", "1")
		fmt.Fprint(w, `[{"id":9}]`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 4)
	records, err := c.FetchAll(context.Background(), ResourceOrders, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchAllClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"code":"woocommerce_rest_cannot_view"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 4)
	records, err := c.FetchAll(context.Background(), ResourceProducts, 0)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrFetchFailed)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchAllAbortsOnFailedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-TotalPages", "2")
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `[{"id":1},{"id":2}]`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	records, err := c.FetchAll(context.Background(), ResourceProducts, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, err.Error(), "page 2")
	assert.Nil(t, records)
}

func TestFetchAllHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, srv.URL, 5)
	_, err := c.FetchAll(ctx, ResourceProducts, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestDecodeValidatesRequiredFields(t *testing.T) {
	p, err := Decode[RemoteProduct]([]byte(`{"id":7,"name":"Beef Stew","price":"9.50","meta_data":[{"key":"calories","value":"450"}]}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "450", p.MetaData[0].Value)

	_, err = Decode[RemoteProduct]([]byte(`{"id":8,"name":""}`))
	assert.Error(t, err)

	_, err = Decode[RemoteOrder]([]byte(`{"id":8,"number":`))
	assert.Error(t, err)

	c, err := Decode[RemoteCategory]([]byte(`{"id":3,"name":"Soups","parent":1}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Parent)
}
