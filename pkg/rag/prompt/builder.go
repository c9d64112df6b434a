package prompt

import (
	"fmt"
	"strings"

	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/rag/retrieval"
)

// HistoryLimit caps how many prior turns are replayed to the model.
const HistoryLimit = 10

// BuildContext renders ranked sources into the context block injected into
// the system prompt. Rank order doubles as presentation order. Empty input
// yields an empty string with no header.
func BuildContext(sources []retrieval.Source) string {
	if len(sources) == 0 {
		return ""
	}

	var b strings.Builder
	for i, src := range sources {
		b.WriteString(fmt.Sprintf("[Source %d] %s", i+1, src.Title))
		if src.Citation != "" {
			b.WriteString(fmt.Sprintf(" (%s)", src.Citation))
		}
		b.WriteString(fmt.Sprintf(" | type: %s | relevance: %.0f%%\n", src.Type, src.Similarity*100))
		b.WriteString(src.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

// BuildMessages composes the model-ready message sequence: system prompt
// (persona, formatting directives, context block when present), prior turns
// oldest-first capped at HistoryLimit, then the current user message last.
func BuildMessages(sources []retrieval.Source, history []llm.Message, userMessage string) []llm.Message {
	system := buildSystemPrompt(sources)

	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})
	return messages
}

func buildSystemPrompt(sources []retrieval.Source) string {
	var b strings.Builder

	b.WriteString("You are a meticulous legal research assistant. ")
	b.WriteString("You help lawyers and researchers analyze legal questions with precision.\n\n")

	b.WriteString("Response principles:\n")
	b.WriteString("1. Ground every claim in the provided sources; cite them as [Source N]\n")
	b.WriteString("2. Distinguish clearly between what the sources state and general legal background\n")
	b.WriteString("3. If the sources do not cover the question, say so honestly\n")
	b.WriteString("4. Use plain structured markdown: short paragraphs, numbered lists for multi-part analysis\n")
	b.WriteString("5. Never invent citations, case names, or statute numbers\n")

	context := BuildContext(sources)
	if context != "" {
		b.WriteString("\n")
		if sources[0].Origin == retrieval.OriginWebSearch {
			b.WriteString("The following web search results were retrieved for the user's question. Treat them as leads to verify, not settled authority:\n\n")
		} else {
			b.WriteString("The following excerpts from the user's document library are relevant to their question:\n\n")
		}
		b.WriteString(context)
	}

	return b.String()
}
