package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine stands in for Elasticsearch over plain HTTP. The product
// header is what the official client checks before trusting a response.
func fakeEngine(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	return client
}

func TestSearchReturnsIDsInRankedOrder(t *testing.T) {
	client := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/"+IndexName+"/_search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"7"},{"_id":"not-a-number"},{"_id":"2"}]}}`))
	})

	ids := client.Search(context.Background(), "golang")
	assert.Equal(t, []uint{7, 2}, ids)
}

func TestSearchEngineErrorYieldsEmptySet(t *testing.T) {
	client := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Empty(t, client.Search(context.Background(), "golang"))
}

func TestSearchUnreachableEngineYieldsEmptySet(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	require.NoError(t, err)

	assert.Empty(t, client.Search(context.Background(), "golang"))
}

func TestUpsertWritesDocumentKeyedByID(t *testing.T) {
	var path string
	client := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	client.Upsert(context.Background(), Document{ID: 42, Title: "Hello"})
	assert.Equal(t, "/"+IndexName+"/_doc/42", path)
}

func TestEnsureIndexFallsBackToStandardAnalyzer(t *testing.T) {
	var creates int
	client := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			creates++
			if creates == 1 {
				// Cluster without the analysis-smartcn plugin rejects the
				// first mapping.
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"unknown analyzer"}`))
				return
			}
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	})

	client.EnsureIndex(context.Background())
	assert.Equal(t, 2, creates)
}

func TestEnsureIndexSkipsExistingIndex(t *testing.T) {
	var creates int
	client := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			creates++
		}
		w.WriteHeader(http.StatusOK)
	})

	client.EnsureIndex(context.Background())
	assert.Zero(t, creates)
}
