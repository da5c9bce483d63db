package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/tgo/tubechat/internal/history"
	"github.com/tgo/tubechat/internal/llm"
	"github.com/tgo/tubechat/internal/model"
	"github.com/tgo/tubechat/internal/prompt"
	"github.com/tgo/tubechat/internal/retrieval"
	"github.com/tgo/tubechat/internal/streaming"
)

const previewLength = 100

// Embedder produces the sanitized query vector for a question.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error)
}

// Retriever returns grounding chunks for a query vector over a video scope.
type Retriever interface {
	Retrieve(ctx context.Context, query pgvector.Vector, videoIDs []uuid.UUID) ([]retrieval.Chunk, error)
}

// ChatDirectory is the chat-side storage the pipeline depends on.
type ChatDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Chat, error)
	VideosForChat(ctx context.Context, chatID uuid.UUID) ([]model.Video, error)
	Touch(ctx context.Context, id uuid.UUID) error
}

// AskResult is the answer payload shared by batch and streaming modes.
type AskResult struct {
	Answer string                   `json:"answer"`
	Chunks []streaming.ChunkPreview `json:"chunks"`
}

// AnswerService orchestrates question answering: validate, embed, retrieve,
// assemble context, generate, persist. Batch and streaming modes share every
// step except generation.
type AnswerService struct {
	chats       ChatDirectory
	embedder    Embedder
	retriever   Retriever
	history     history.Store
	generator   llm.Generator
	maxMessages int
}

func NewAnswerService(chats ChatDirectory, embedder Embedder, retriever Retriever, hist history.Store, generator llm.Generator, maxMessages int) *AnswerService {
	if maxMessages <= 0 {
		maxMessages = 50
	}
	return &AnswerService{
		chats:       chats,
		embedder:    embedder,
		retriever:   retriever,
		history:     hist,
		generator:   generator,
		maxMessages: maxMessages,
	}
}

// promptContext is everything the generation step needs, assembled by the
// shared pipeline front half.
type promptContext struct {
	prompt string
	chunks []retrieval.Chunk
}

// prepare runs the Validating, Embedding, Retrieving and ContextBuilding
// steps. The chat must exist and have at least one video before any
// embedding call is made.
func (s *AnswerService) prepare(ctx context.Context, chatID uuid.UUID, question string) (*promptContext, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("look up chat: %w", err)
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	videos, err := s.chats.VideosForChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load chat videos: %w", err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoVideos, chatID)
	}

	videoIDs := make([]uuid.UUID, len(videos))
	titles := make([]string, len(videos))
	for i, v := range videos {
		videoIDs[i] = v.ID
		titles[i] = v.Title
	}

	chunks, err := s.retriever.Retrieve(ctx, queryVector, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieve chunks: %w", err)
	}

	msgs, err := s.history.Recent(ctx, chatID, s.maxMessages)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	snippets := make([]prompt.Snippet, len(chunks))
	for i, c := range chunks {
		snippets[i] = prompt.Snippet{Title: c.Title, Content: c.Content}
	}
	turns := make([]prompt.Turn, len(msgs))
	for i, m := range msgs {
		turns[i] = prompt.Turn{Role: string(m.Role), Content: m.Content}
	}

	return &promptContext{
		prompt: prompt.Build(titles, snippets, turns, question),
		chunks: chunks,
	}, nil
}

// persistTurn appends the user question and the assistant answer, in that
// order, then bumps the chat timestamp.
func (s *AnswerService) persistTurn(ctx context.Context, chatID uuid.UUID, question, answer string) error {
	if err := s.history.Append(ctx, chatID, model.Message{ChatID: chatID, Role: model.RoleUser, Content: question}); err != nil {
		return fmt.Errorf("persist question: %w", err)
	}
	if err := s.history.Append(ctx, chatID, model.Message{ChatID: chatID, Role: model.RoleAssistant, Content: answer}); err != nil {
		return fmt.Errorf("persist answer: %w", err)
	}
	if err := s.chats.Touch(ctx, chatID); err != nil {
		return fmt.Errorf("touch chat: %w", err)
	}
	return nil
}

// Ask answers a question in batch mode, blocking until the full answer is
// generated and persisted.
func (s *AnswerService) Ask(ctx context.Context, chatID uuid.UUID, question string) (*AskResult, error) {
	pc, err := s.prepare(ctx, chatID, question)
	if err != nil {
		return nil, err
	}

	log.Printf("[Answer] Invoking LLM: chat=%s chunks=%d", chatID, len(pc.chunks))
	answer, err := s.generator.Generate(ctx, pc.prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	if err := s.persistTurn(ctx, chatID, question, answer); err != nil {
		return nil, err
	}

	return &AskResult{Answer: answer, Chunks: chunkPreviews(pc.chunks)}, nil
}

// AskStream answers a question in streaming mode. Every token is forwarded
// in arrival order; the channel carries exactly one terminal done or error
// event and is closed afterwards. Cancelling ctx (consumer disconnect) stops
// the stream and skips persistence entirely.
func (s *AnswerService) AskStream(ctx context.Context, chatID uuid.UUID, question string) <-chan streaming.Event {
	events := make(chan streaming.Event, 16)

	go func() {
		defer close(events)
		s.streamAnswer(ctx, chatID, question, events)
	}()

	return events
}

func (s *AnswerService) streamAnswer(ctx context.Context, chatID uuid.UUID, question string, events chan<- streaming.Event) {
	emit := func(ev streaming.Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	pc, err := s.prepare(ctx, chatID, question)
	if err != nil {
		emit(streaming.NewErrorEvent(err.Error()))
		return
	}

	stream, err := s.generator.Stream(ctx, pc.prompt)
	if err != nil {
		emit(streaming.NewErrorEvent(fmt.Sprintf("generate answer: %v", err)))
		return
	}
	defer stream.Close()

	var answer strings.Builder
	for {
		if ctx.Err() != nil {
			// consumer disconnected: stop forwarding, persist nothing
			return
		}

		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			emit(streaming.NewErrorEvent(fmt.Sprintf("generate answer: %v", err)))
			return
		}
		if delta == "" {
			continue
		}

		answer.WriteString(delta)
		if !emit(streaming.NewTokenEvent(delta)) {
			return
		}
	}

	// Generation completed: persist even if the consumer goes away now.
	if err := s.persistTurn(context.WithoutCancel(ctx), chatID, question, answer.String()); err != nil {
		emit(streaming.NewErrorEvent(err.Error()))
		return
	}

	emit(streaming.NewDoneEvent(answer.String(), chunkPreviews(pc.chunks)))
}

func chunkPreviews(chunks []retrieval.Chunk) []streaming.ChunkPreview {
	previews := make([]streaming.ChunkPreview, len(chunks))
	for i, c := range chunks {
		previews[i] = streaming.ChunkPreview{
			Content:    preview(c.Content, previewLength),
			Similarity: c.Similarity,
		}
	}
	return previews
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
