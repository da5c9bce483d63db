// Package prompt assembles the generation prompt from retrieved chunks,
// video titles and conversation history. Pure text formatting, no I/O.
package prompt

import "strings"

type Snippet struct {
	Title   string
	Content string
}

type Turn struct {
	Role    string
	Content string
}

// Build renders the prompt deterministically: the video titles as
// conversational grounding, the grounding instructions, every retrieved
// snippet, the prior conversation, the question, and a closing instruction.
// Empty snippet or history sections render empty rather than erroring.
func Build(titles []string, snippets []Snippet, history []Turn, question string) string {
	snippetLines := make([]string, 0, len(snippets))
	for _, s := range snippets {
		snippetLines = append(snippetLines, "- "+s.Title+": "+s.Content)
	}

	historyLines := make([]string, 0, len(history))
	for _, t := range history {
		historyLines = append(historyLines, t.Role+": "+t.Content)
	}

	return strings.Join([]string{
		"We are discussing the YouTube videos: " + strings.Join(titles, ", "),
		"Use the transcript snippets and conversation history to ground the answer.",
		"If information is missing, be honest about not knowing rather than guessing.",
		"",
		"Transcript snippets:",
		strings.Join(snippetLines, "\n"),
		"",
		"Relevant conversation memories:",
		strings.Join(historyLines, "\n"),
		"",
		"User question: " + question,
		"",
		"Craft a helpful and concise reply that addresses the user's question based on the provided context.",
	}, "\n")
}
