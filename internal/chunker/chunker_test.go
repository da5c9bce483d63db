package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	c := New(100, 20)
	chunks := c.Split("short transcript")
	if len(chunks) != 1 || chunks[0] != "short transcript" {
		t.Fatalf("expected single chunk, got %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	c := New(100, 20)
	if chunks := c.Split("   \n  "); chunks != nil {
		t.Fatalf("expected no chunks for blank text, got %v", chunks)
	}
}

func TestSplitSizeAndOverlap(t *testing.T) {
	c := New(10, 4)
	text := strings.Repeat("abcdefghij", 3) // 30 runes
	chunks := c.Split(text)

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 10 {
			t.Errorf("chunk %d exceeds size: %d runes", i, n)
		}
	}
	// consecutive chunks share the trailing overlap runes
	first := []rune(chunks[0])
	second := []rune(chunks[1])
	if string(first[len(first)-4:]) != string(second[:4]) {
		t.Errorf("overlap not carried over: %q vs %q", chunks[0], chunks[1])
	}
}

func TestSplitCoversAllText(t *testing.T) {
	c := New(50, 10)
	text := strings.Repeat("0123456789", 20)
	chunks := c.Split(text)

	var rebuilt strings.Builder
	step := 50 - 10
	for i, chunk := range chunks {
		runes := []rune(chunk)
		if i == len(chunks)-1 {
			rebuilt.WriteString(string(runes))
		} else {
			rebuilt.WriteString(string(runes[:step]))
		}
	}
	if !strings.HasPrefix(text, rebuilt.String()[:step]) {
		t.Error("chunks do not cover text from the start")
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("final chunk must end where the text ends")
	}
}

func TestNewGuardsDegenerateConfig(t *testing.T) {
	c := New(10, 10) // overlap == size would never advance
	chunks := c.Split(strings.Repeat("x", 100))
	if len(chunks) == 0 {
		t.Fatal("expected chunks despite degenerate overlap")
	}
}
