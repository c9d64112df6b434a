package prompt

import (
	"fmt"
	"strings"
	"testing"

	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/rag/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docSource(title, citation string, similarity float64) retrieval.Source {
	return retrieval.Source{
		Title:      title,
		Citation:   citation,
		Type:       "case_law",
		Content:    "The court held that the duty of care extends to foreseeable plaintiffs.",
		Similarity: similarity,
		Origin:     retrieval.OriginDocuments,
	}
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
	assert.Equal(t, "", BuildContext([]retrieval.Source{}))
}

func TestBuildContextFormat(t *testing.T) {
	sources := []retrieval.Source{
		docSource("Palsgraf v. Long Island R.R.", "248 N.Y. 339", 0.87),
		docSource("Restatement excerpt", "", 0.61),
	}

	ctx := BuildContext(sources)

	assert.Contains(t, ctx, "[Source 1] Palsgraf v. Long Island R.R. (248 N.Y. 339)")
	assert.Contains(t, ctx, "relevance: 87%")
	assert.Contains(t, ctx, "[Source 2] Restatement excerpt |")
	assert.NotContains(t, ctx, "Restatement excerpt (")
	assert.Contains(t, ctx, "type: case_law")
	assert.Contains(t, ctx, "duty of care")
}

func TestBuildContextPreservesRankOrder(t *testing.T) {
	sources := []retrieval.Source{
		docSource("Second by similarity", "", 0.5),
		docSource("First by similarity", "", 0.9),
	}

	ctx := BuildContext(sources)

	// Input order is presentation order, even when similarity disagrees.
	assert.Less(t,
		strings.Index(ctx, "Second by similarity"),
		strings.Index(ctx, "First by similarity"),
	)
}

func TestBuildMessagesShape(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	messages := BuildMessages([]retrieval.Source{docSource("Doc", "", 0.7)}, history, "current question")

	require.Len(t, messages, 4)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "earlier question", messages[1].Content)
	assert.Equal(t, "earlier answer", messages[2].Content)
	assert.Equal(t, "user", messages[3].Role)
	assert.Equal(t, "current question", messages[3].Content)
}

func TestBuildMessagesCapsHistory(t *testing.T) {
	var history []llm.Message
	for i := 0; i < 25; i++ {
		history = append(history, llm.Message{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}

	messages := BuildMessages(nil, history, "latest")

	// system + HistoryLimit turns + current user message
	require.Len(t, messages, HistoryLimit+2)
	// The newest prior turns survive the cap.
	assert.Equal(t, "turn 15", messages[1].Content)
	assert.Equal(t, "turn 24", messages[HistoryLimit].Content)
}

func TestBuildMessagesIntroSwitchesOnOrigin(t *testing.T) {
	webSources := []retrieval.Source{{
		Title:      "Search hit",
		Content:    "snippet",
		Type:       "web",
		Similarity: retrieval.WebResultScore,
		Origin:     retrieval.OriginWebSearch,
	}}

	webSystem := BuildMessages(webSources, nil, "q")[0].Content
	docSystem := BuildMessages([]retrieval.Source{docSource("Doc", "", 0.7)}, nil, "q")[0].Content

	assert.Contains(t, webSystem, "web search results")
	assert.NotContains(t, webSystem, "document library")
	assert.Contains(t, docSystem, "document library")
	assert.NotContains(t, docSystem, "web search results")
}

func TestBuildMessagesNoContextBlockWhenEmpty(t *testing.T) {
	system := BuildMessages(nil, nil, "q")[0].Content

	assert.NotContains(t, system, "[Source")
	assert.Contains(t, system, "legal research assistant")
}
