package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"legal-research-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(handler http.HandlerFunc) (*OpenAIProvider, func()) {
	srv := httptest.NewServer(handler)
	return NewOpenAIProvider("test-key", srv.URL, "gpt-4o-mini"), srv.Close
}

func TestChatSuccess(t *testing.T) {
	provider, done := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"model": "gpt-4o-mini-2024-07-18",
			"choices": [{"message": {"content": "The statute provides..."}}],
			"usage": {"total_tokens": 321}
		}`))
	})
	defer done()

	res, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "The statute provides...", res.Content)
	assert.Equal(t, 321, res.TokensUsed)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", res.Model)
}

func TestChatErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, llm.ErrRateLimited},
		{"bad api key", http.StatusUnauthorized, `{"error":{"message":"invalid key"}}`, llm.ErrServiceMisconfigured},
		{"forbidden", http.StatusForbidden, `{"error":{"message":"no access"}}`, llm.ErrServiceMisconfigured},
		{"unknown model 404", http.StatusNotFound, `{"error":{"message":"nope"}}`, llm.ErrModelNotFound},
		{"unknown model 400", http.StatusBadRequest, `{"error":{"message":"The model 'x' does not exist","code":"model_not_found"}}`, llm.ErrModelNotFound},
		{"server blew up", http.StatusInternalServerError, `oops`, llm.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, done := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			defer done()

			_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestChatEmptyContentIsInvalidUpstream(t *testing.T) {
	provider, done := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": ""}}]}`))
	})
	defer done()

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, llm.ErrInvalidUpstreamResponse)
}
