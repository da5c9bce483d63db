package llm

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// TokenStream is a lazy, finite, non-restartable sequence of text deltas.
// Recv returns io.EOF when the sequence ends; Close releases the underlying
// stream and is the only other terminal action.
type TokenStream interface {
	Recv() (string, error)
	Close()
}

// Generator produces answer text from an assembled prompt, either in one
// call or as a token stream.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, prompt string) (TokenStream, error)
}

// ChatModelGenerator adapts an eino chat model to the Generator interface.
// The underlying model handle is immutable and safe to share across requests.
type ChatModelGenerator struct {
	chatModel model.ToolCallingChatModel
}

func NewChatModelGenerator(chatModel model.ToolCallingChatModel) *ChatModelGenerator {
	return &ChatModelGenerator{chatModel: chatModel}
}

func (g *ChatModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func (g *ChatModelGenerator) Stream(ctx context.Context, prompt string) (TokenStream, error) {
	reader, err := g.chatModel.Stream(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return nil, err
	}
	return &messageTokenStream{reader: reader}, nil
}

type messageTokenStream struct {
	reader *schema.StreamReader[*schema.Message]
}

func (s *messageTokenStream) Recv() (string, error) {
	msg, err := s.reader.Recv()
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func (s *messageTokenStream) Close() {
	s.reader.Close()
}
