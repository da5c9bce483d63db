// Package retrieval implements the adaptive two-phase similarity search used
// to ground answers in transcript chunks.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

var ErrNoVideosInScope = errors.New("retrieval scope has no videos")

// Chunk is one retrieved transcript fragment with its cosine similarity to
// the query, in [-1, 1].
type Chunk struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
}

// Searcher runs a nearest-neighbor search over the chunks of the given
// videos, ordered by descending similarity. A minSimilarity of 0 disables
// the similarity floor.
type Searcher interface {
	NearestNeighbors(ctx context.Context, query pgvector.Vector, videoIDs []uuid.UUID, k int, minSimilarity float64) ([]Chunk, error)
}

type Config struct {
	MinChunks           int
	MaxChunks           int
	SimilarityThreshold float64
}

// Strategy retrieves chunks in two phases: a thresholded top-k pass, then a
// fallback pass with no similarity floor when the first pass comes up short.
// The fallback guarantees the generation step always receives some grounding
// context, at the cost of possibly irrelevant chunks.
type Strategy struct {
	searcher Searcher
	cfg      Config
}

func NewStrategy(searcher Searcher, cfg Config) (*Strategy, error) {
	if searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if cfg.MinChunks <= 0 || cfg.MinChunks > cfg.MaxChunks {
		return nil, fmt.Errorf("invalid retrieval config: minChunks=%d maxChunks=%d", cfg.MinChunks, cfg.MaxChunks)
	}
	return &Strategy{searcher: searcher, cfg: cfg}, nil
}

// Retrieve returns the most relevant chunks for the query among the given
// videos, descending by similarity. The caller must have verified the chat
// has at least one video; an empty scope is a contract violation.
func (s *Strategy) Retrieve(ctx context.Context, query pgvector.Vector, videoIDs []uuid.UUID) ([]Chunk, error) {
	if len(videoIDs) == 0 {
		return nil, ErrNoVideosInScope
	}

	chunks, err := s.searcher.NearestNeighbors(ctx, query, videoIDs, s.cfg.MaxChunks, s.cfg.SimilarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("nearest neighbor search: %w", err)
	}

	if len(chunks) < s.cfg.MinChunks {
		log.Printf("[Retrieval] Only %d chunks above threshold %.2f, retrieving top %d without floor",
			len(chunks), s.cfg.SimilarityThreshold, s.cfg.MinChunks)
		chunks, err = s.searcher.NearestNeighbors(ctx, query, videoIDs, s.cfg.MinChunks, 0)
		if err != nil {
			return nil, fmt.Errorf("fallback neighbor search: %w", err)
		}
	}

	return chunks, nil
}
