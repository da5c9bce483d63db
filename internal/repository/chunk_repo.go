package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/tgo/tubechat/internal/model"
	"github.com/tgo/tubechat/internal/retrieval"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) BulkCreate(ctx context.Context, chunks []model.TranscriptChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&chunks).Error
}

func (r *ChunkRepository) CountByVideoID(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TranscriptChunk{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	return count, err
}

// NearestNeighbors performs cosine similarity search using pgvector.
// Results come back ordered by descending similarity; when minSimilarity is
// positive, rows below the floor are dropped after the query.
func (r *ChunkRepository) NearestNeighbors(ctx context.Context, query pgvector.Vector, videoIDs []uuid.UUID, k int, minSimilarity float64) ([]retrieval.Chunk, error) {
	var rows []struct {
		ID       uuid.UUID `gorm:"column:id"`
		Title    string    `gorm:"column:title"`
		Content  string    `gorm:"column:content"`
		Distance float64   `gorm:"column:distance"`
	}

	err := r.db.WithContext(ctx).
		Table("transcript_chunks").
		Select("id, title, content, embedding <=> ? AS distance", query).
		Where("video_id IN ?", videoIDs).
		Order("distance ASC").
		Limit(k).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	chunks := make([]retrieval.Chunk, 0, len(rows))
	for _, row := range rows {
		// cosine distance to similarity
		similarity := 1 - row.Distance

		if minSimilarity > 0 && similarity < minSimilarity {
			continue
		}

		chunks = append(chunks, retrieval.Chunk{
			ID:         row.ID,
			Title:      row.Title,
			Content:    row.Content,
			Similarity: similarity,
		})
	}

	return chunks, nil
}
