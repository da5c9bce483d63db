package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/tgo/tubechat/internal/chunker"
	"github.com/tgo/tubechat/internal/ingest"
	"github.com/tgo/tubechat/internal/model"
	"github.com/tgo/tubechat/internal/repository"
)

// DocumentEmbedder batch-embeds chunk texts, preserving order.
type DocumentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([]pgvector.Vector, error)
}

// VideoService imports videos: fetch transcript, chunk, embed, store.
type VideoService struct {
	videos   *repository.VideoRepository
	chunks   *repository.ChunkRepository
	loader   ingest.Loader
	splitter *chunker.Chunker
	embedder DocumentEmbedder
}

func NewVideoService(videos *repository.VideoRepository, chunks *repository.ChunkRepository, loader ingest.Loader, splitter *chunker.Chunker, embedder DocumentEmbedder) *VideoService {
	return &VideoService{
		videos:   videos,
		chunks:   chunks,
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
	}
}

// Import fetches the video at url, rejects duplicates by source id, and
// indexes its transcript as embedded chunks.
func (s *VideoService) Import(ctx context.Context, url string) (*model.Video, error) {
	info, err := s.loader.Load(ctx, url)
	if err != nil {
		return nil, err
	}

	existing, err := s.videos.FindBySourceID(ctx, info.SourceID)
	if err != nil {
		return nil, fmt.Errorf("check for existing video: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoAlreadyExists, info.SourceID)
	}

	video := &model.Video{
		URL:         info.URL,
		SourceID:    info.SourceID,
		Title:       info.Title,
		Description: info.Description,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	// carry the title into every chunk so retrieval stays self-describing
	content := "Title: " + info.Title + " | Content: " + info.Transcript
	texts := s.splitter.Split(content)
	log.Printf("[Video] Split transcript of %s into %d chunks", video.ID, len(texts))

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	chunks := make([]model.TranscriptChunk, len(texts))
	for i, text := range texts {
		chunks[i] = model.TranscriptChunk{
			VideoID:   video.ID,
			Title:     info.Title,
			Content:   text,
			Embedding: vectors[i],
		}
	}
	if err := s.chunks.BulkCreate(ctx, chunks); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	log.Printf("[Video] Imported %s (%s): %d chunks", video.ID, info.SourceID, len(chunks))
	return video, nil
}

func (s *VideoService) List(ctx context.Context) ([]model.Video, error) {
	return s.videos.FindAll(ctx)
}

// Delete removes a video and, through the cascade, its chunks. Chats that
// referenced it keep working with one fewer source of grounding.
func (s *VideoService) Delete(ctx context.Context, videoID uuid.UUID) error {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video == nil {
		return fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	log.Printf("[Video] Deleted video %s (%s)", videoID, video.Title)
	return nil
}
