package elastic

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(b))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"p2"},{"_id":"p1"}]}}`)
	case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/gone"):
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func newIndex(t *testing.T) (*ProductIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(es, "products"), fake
}

func TestProductIndexRoundTrip(t *testing.T) {
	idx, fake := newIndex(t)
	ctx := t.Context()

	require.NoError(t, idx.Index(ctx, &entity.Product{ID: "p1", Name: "Lamp", Price: decimal.RequireFromString("19.9"), StockQuantity: 2}))
	ids, err := idx.Search(ctx, "lamp", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids)
	require.NoError(t, idx.Remove(ctx, "gone"))

	require.Len(t, fake.requests, 3)
	assert.Equal(t, "PUT /products/_doc/p1", fake.requests[0])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.bodies[0]), &doc))
	assert.Equal(t, "19.90", doc["price"])
	assert.NotContains(t, doc, "stock_status")

	assert.Equal(t, "POST /products/_search", fake.requests[1])
	assert.Contains(t, fake.bodies[1], `"multi_match"`)
}

func TestNewProductIndexDisabled(t *testing.T) {
	assert.Nil(t, NewProductIndex(nil, "products"))
}
