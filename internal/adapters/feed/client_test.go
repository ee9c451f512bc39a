package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchListings(t *testing.T) {
	end := time.Now().Add(2 * time.Hour).UTC().Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"item_id":"A1","title":"MacBook Pro 13 M1","current_price":899,"original_price":1299,"bids":7,"end_time":"` + end + `","url":"https://www.ebay.com/itm/A1"},
			{"item_id":"","title":"sin id","current_price":500,"bids":4,"end_time":"` + end + `","url":"https://www.ebay.com/itm/x"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	listings, err := c.FetchListings(context.Background())
	require.NoError(t, err)

	// El registro sin item_id se descarta en el mapeo
	require.Len(t, listings, 1)
	assert.Equal(t, "A1", listings[0].ID)
	assert.Equal(t, 899.0, listings[0].CurrentPrice)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	end := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"item_id":"A1","title":"MacBook Air","current_price":700,"bids":5,"end_time":"` + end + `","url":"https://www.ebay.com/itm/A1"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	listings, err := c.FetchListings(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.FetchListings(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
