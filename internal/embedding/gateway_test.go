package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pgvector/pgvector-go"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func embeddingHandler(t *testing.T, vectors [][]float32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Input) != len(vectors) {
			t.Errorf("expected %d inputs, got %d", len(vectors), len(req.Input))
		}

		type datum struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]datum, len(vectors))
		// respond out of order to exercise index-based reassembly
		for i := range vectors {
			j := len(vectors) - 1 - i
			data[i] = datum{Index: j, Embedding: vectors[j]}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}
}

func TestEmbedDocumentsPreservesOrder(t *testing.T) {
	srv := newTestServer(t, embeddingHandler(t, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}))

	g := NewGateway("key", srv.URL, "test-model", 3)
	vectors, err := g.EmbedDocuments(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedDocuments failed: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	if vectors[0].Slice()[0] != 1 || vectors[1].Slice()[1] != 1 || vectors[2].Slice()[2] != 1 {
		t.Errorf("vectors not in input order: %v", vectors)
	}
}

func TestEmbedQuery(t *testing.T) {
	srv := newTestServer(t, embeddingHandler(t, [][]float32{{0.5, 0.25, 0.125}}))

	g := NewGateway("key", srv.URL, "test-model", 3)
	vec, err := g.EmbedQuery(context.Background(), "question")
	if err != nil {
		t.Fatalf("EmbedQuery failed: %v", err)
	}
	if got := len(vec.Slice()); got != 3 {
		t.Errorf("expected dimension 3, got %d", got)
	}
}

func TestEmbedDocumentsUpstreamError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	})

	g := NewGateway("key", srv.URL, "test-model", 3)
	_, err := g.EmbedDocuments(context.Background(), []string{"a"})
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
}

func TestEmbedDocumentsAtomicOnShortResponse(t *testing.T) {
	// upstream returns fewer embeddings than inputs: no partial batch
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{1, 2, 3}},
			},
		})
	})

	g := NewGateway("key", srv.URL, "test-model", 3)
	vectors, err := g.EmbedDocuments(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
	if vectors != nil {
		t.Errorf("no partial batch may be returned, got %d vectors", len(vectors))
	}
}

func TestEmbedDocumentsEmptyInput(t *testing.T) {
	g := NewGateway("key", "http://unused.invalid", "test-model", 3)
	vectors, err := g.EmbedDocuments(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if vectors != nil {
		t.Errorf("expected nil result for empty input")
	}
}

func TestSanitizeCoercesNonFinite(t *testing.T) {
	g := NewGateway("key", "", "", 4)

	vec := g.Sanitize(pgvector.NewVector([]float32{
		float32(math.NaN()),
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
		0.5,
	}))

	values := vec.Slice()
	for i, v := range values[:3] {
		if v != 0 {
			t.Errorf("component %d: expected 0, got %v", i, v)
		}
	}
	if values[3] != 0.5 {
		t.Errorf("finite component changed: %v", values[3])
	}
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Errorf("component %d still non-finite: %v", i, v)
		}
	}
}

func TestSanitizeRoundsToSixDecimals(t *testing.T) {
	g := NewGateway("key", "", "", 2)

	vec := g.Sanitize(pgvector.NewVector([]float32{0.1234567, -0.9876543}))
	values := vec.Slice()

	if values[0] != 0.123457 {
		t.Errorf("expected 0.123457, got %v", values[0])
	}
	if values[1] != -0.987654 {
		t.Errorf("expected -0.987654, got %v", values[1])
	}
}

func TestSanitizeKeepsMismatchedLength(t *testing.T) {
	g := NewGateway("key", "", "", 5)

	vec := g.Sanitize(pgvector.NewVector([]float32{1, 2, 3}))
	if got := len(vec.Slice()); got != 3 {
		t.Errorf("mismatched vector must keep its length, got %d", got)
	}
}
