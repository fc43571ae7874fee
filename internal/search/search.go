// Package search mirrors articles into Elasticsearch. The relational store
// stays authoritative: every operation here is best-effort, failures are
// logged and swallowed, and divergence is repaired by the reindex endpoint.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"itsour/internal/middleware"

	"github.com/elastic/go-elasticsearch/v8"
)

// IndexName is the Elasticsearch index holding article documents.
const IndexName = "articles"

// Document is the denormalized projection of an article used purely for
// query matching. It is keyed by the article id and always reconstructible
// from the relational store.
type Document struct {
	ID       uint   `json:"-"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
	Slug     string `json:"slug"`
}

// Indexer is the search-index adapter consumed by the article service.
// Upsert and Delete swallow engine failures; Search degrades to an empty
// result set when the engine is unreachable.
type Indexer interface {
	EnsureIndex(ctx context.Context)
	Upsert(ctx context.Context, doc Document)
	Delete(ctx context.Context, id uint)
	Search(ctx context.Context, query string) []uint
}

// Client implements Indexer against Elasticsearch.
type Client struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

// NewClient builds an Elasticsearch-backed Indexer. The timeout bounds every
// engine call so an unreachable engine cannot hold a request open.
func NewClient(url string, timeout time.Duration) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, err
	}
	return &Client{es: es, timeout: timeout}, nil
}

// Preferred mapping uses the smartcn analyzer for language-aware CJK
// tokenization; the fallback sticks to the standard analyzer for clusters
// without the analysis-smartcn plugin.
const (
	mappingSmartCN = `{
  "mappings": {
    "properties": {
      "title":    {"type": "text", "analyzer": "smartcn"},
      "content":  {"type": "text", "analyzer": "smartcn"},
      "author":   {"type": "text"},
      "category": {"type": "text"},
      "tags":     {"type": "text"},
      "slug":     {"type": "keyword"}
    }
  }
}`
	mappingStandard = `{
  "mappings": {
    "properties": {
      "title":    {"type": "text"},
      "content":  {"type": "text"},
      "author":   {"type": "text"},
      "category": {"type": "text"},
      "tags":     {"type": "text"},
      "slug":     {"type": "keyword"}
    }
  }
}`
)

// EnsureIndex creates the articles index if it does not exist. Idempotent;
// failures are logged and swallowed like every other engine call.
func (c *Client) EnsureIndex(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.es.Indices.Exists([]string{IndexName}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		middleware.Logger.WarnContext(ctx, "search index existence check failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == 200 {
		return
	}

	if c.createIndex(ctx, mappingSmartCN) {
		middleware.Logger.InfoContext(ctx, "search index created", slog.String("analyzer", "smartcn"))
		return
	}
	if c.createIndex(ctx, mappingStandard) {
		middleware.Logger.InfoContext(ctx, "search index created", slog.String("analyzer", "standard"))
		return
	}
	middleware.Logger.WarnContext(ctx, "search index creation failed; continuing without index")
}

func (c *Client) createIndex(ctx context.Context, mapping string) bool {
	res, err := c.es.Indices.Create(
		IndexName,
		c.es.Indices.Create.WithBody(strings.NewReader(mapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return false
	}
	defer func() { _ = res.Body.Close() }()
	return !res.IsError()
}

// Upsert writes the document keyed by its article id, overwriting any prior
// document for that id.
func (c *Client) Upsert(ctx context.Context, doc Document) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(doc)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "search document encode failed", slog.String("error", err.Error()))
		return
	}

	res, err := c.es.Index(
		IndexName,
		bytes.NewReader(body),
		c.es.Index.WithDocumentID(docID(doc.ID)),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "search index upsert failed",
			slog.Uint64("article_id", uint64(doc.ID)), slog.String("error", err.Error()))
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		middleware.Logger.WarnContext(ctx, "search index upsert rejected",
			slog.Uint64("article_id", uint64(doc.ID)), slog.String("status", res.Status()))
	}
}

// Delete removes the document for the given article id.
func (c *Client) Delete(ctx context.Context, id uint) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.es.Delete(IndexName, docID(id), c.es.Delete.WithContext(ctx))
	if err != nil {
		middleware.Logger.WarnContext(ctx, "search index delete failed",
			slog.Uint64("article_id", uint64(id)), slog.String("error", err.Error()))
		return
	}
	defer func() { _ = res.Body.Close() }()
}

// Search runs a relevance-ranked multi-field match and returns the matching
// article ids in the engine's ranked order. Any failure yields an empty set.
func (c *Client) Search(ctx context.Context, query string) []uint {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^3", "tags^2", "category^2", "author^2", "content"},
				"fuzziness": "AUTO",
			},
		},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(IndexName),
		c.es.Search.WithBody(bytes.NewReader(encoded)),
		c.es.Search.WithSize(50),
	)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "search query failed", slog.String("error", err.Error()))
		return nil
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		middleware.Logger.WarnContext(ctx, "search query rejected", slog.String("status", res.Status()))
		return nil
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		middleware.Logger.WarnContext(ctx, "search response decode failed", slog.String("error", err.Error()))
		return nil
	}

	ids := make([]uint, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
