// Package ingest acquires video metadata and transcripts for indexing.
package ingest

import (
	"context"
	"errors"
)

var (
	ErrInvalidURL   = errors.New("invalid video url")
	ErrNoTranscript = errors.New("video has no transcript")
)

// VideoInfo is the raw material for indexing a video.
type VideoInfo struct {
	SourceID    string
	URL         string
	Title       string
	Description string
	Transcript  string
}

// Loader fetches a video's metadata and transcript from its source.
type Loader interface {
	Load(ctx context.Context, url string) (*VideoInfo, error)
}
