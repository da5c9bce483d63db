// Package streaming defines the event surface for streamed answers: token
// events in arrival order, closed by exactly one done or error event.
package streaming

// EventType represents the type of streaming event
type EventType string

const (
	EventTypeToken EventType = "token"
	EventTypeDone  EventType = "done"
	EventTypeError EventType = "error"
)

// Event is one frame of a streamed answer.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// ChunkPreview is a retrieved chunk trimmed for display.
type ChunkPreview struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// DonePayload carries the full answer and retrieval metadata on completion.
type DonePayload struct {
	Answer string         `json:"answer"`
	Chunks []ChunkPreview `json:"chunks"`
}

func NewTokenEvent(delta string) Event {
	return Event{Type: EventTypeToken, Data: delta}
}

func NewDoneEvent(answer string, chunks []ChunkPreview) Event {
	return Event{Type: EventTypeDone, Data: DonePayload{Answer: answer, Chunks: chunks}}
}

func NewErrorEvent(message string) Event {
	return Event{Type: EventTypeError, Data: message}
}
