// Package embedding converts text to fixed-dimension vectors through an
// OpenAI-compatible embeddings API and guarantees every vector leaving it is
// safe to store and compare.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/pgvector/pgvector-go"
)

// ErrEmbeddingFailed wraps any upstream embedding capability error. Callers
// surface it without retrying.
var ErrEmbeddingFailed = errors.New("embedding failed")

type Gateway struct {
	apiKey     string
	baseURL    string
	model      string
	dimension  int
	httpClient *http.Client
}

func NewGateway(apiKey, baseURL, model string, dimension int) *Gateway {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	if dimension == 0 {
		dimension = 768
	}
	return &Gateway{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// embeddingRequest is the OpenAI embedding API request body
type embeddingRequest struct {
	Input      interface{} `json:"input"`
	Model      string      `json:"model"`
	Dimensions int         `json:"dimensions,omitempty"`
}

// embeddingResponse is the OpenAI embedding API response body
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

// EmbedQuery embeds a single question text.
func (g *Gateway) EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error) {
	vectors, err := g.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return pgvector.Vector{}, err
	}
	if len(vectors) == 0 {
		return pgvector.Vector{}, fmt.Errorf("%w: no embedding returned", ErrEmbeddingFailed)
	}
	return vectors[0], nil
}

// EmbedDocuments embeds a batch of texts, preserving input order. The call is
// atomic: either every text gets a vector or the whole call fails.
func (g *Gateway) EmbedDocuments(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embeddingRequest{
		Input:      texts,
		Model:      g.model,
		Dimensions: g.dimension,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrEmbeddingFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrEmbeddingFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrEmbeddingFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API error (status %d): %s", ErrEmbeddingFailed, resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", ErrEmbeddingFailed, err)
	}

	if len(embResp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrEmbeddingFailed, len(texts), len(embResp.Data))
	}

	vectors := make([]pgvector.Vector, len(embResp.Data))
	for _, data := range embResp.Data {
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", ErrEmbeddingFailed, data.Index)
		}
		vectors[data.Index] = g.Sanitize(pgvector.NewVector(data.Embedding))
	}

	return vectors, nil
}

// Sanitize coerces non-finite components to 0 and rounds each component to 6
// decimal places so stored vectors are stable. A dimension mismatch is logged
// as a data-quality signal but the vector is returned unchanged in length,
// never truncated or padded.
func (g *Gateway) Sanitize(vec pgvector.Vector) pgvector.Vector {
	values := vec.Slice()
	if len(values) != g.dimension {
		log.Printf("[Embedding] Dimension mismatch: expected %d, got %d", g.dimension, len(values))
	}

	sanitized := make([]float32, len(values))
	nonFinite := 0
	for i, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			nonFinite++
			sanitized[i] = 0
			continue
		}
		sanitized[i] = float32(math.Round(f*1e6) / 1e6)
	}
	if nonFinite > 0 {
		log.Printf("[Embedding] Coerced %d non-finite components to 0", nonFinite)
	}

	return pgvector.NewVector(sanitized)
}

// Dimension returns the configured embedding dimension D.
func (g *Gateway) Dimension() int {
	return g.dimension
}
