package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-warden/internal/config"
)

func TestNewGenerator_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewGenerator(ctx, config.AIConfig{LLMProvider: "gemini", Model: "gemini-2.5-flash"}, discardLogger())
	require.ErrorContains(t, err, "GEMINI_API_KEY")

	_, err = NewGenerator(ctx, config.AIConfig{LLMProvider: "bard", Model: "x"}, discardLogger())
	require.ErrorContains(t, err, "unsupported LLM provider")
}

func TestOpenAIGenerator(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "### Summary\nLooks fine."}
			}]
		}`)
	}))
	t.Cleanup(srv.Close)

	gen, err := NewGenerator(context.Background(), config.AIConfig{
		LLMProvider:  "openai",
		Model:        "gpt-4o-mini",
		OpenAIAPIKey: "sk-test",
		OpenAIURL:    srv.URL + "/",
		Temperature:  0.3,
		MaxTokens:    1000,
	}, discardLogger())
	require.NoError(t, err)

	resp, err := gen.Generate(context.Background(), "review this")
	require.NoError(t, err)
	assert.Equal(t, "### Summary\nLooks fine.", resp)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.InDelta(t, 0.3, body["temperature"], 1e-9)
	assert.EqualValues(t, 1000, body["max_completion_tokens"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "review this", messages[0].(map[string]any)["content"])
}

func TestOpenAIGenerator_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	}))
	t.Cleanup(srv.Close)

	gen := newOpenAIGenerator(config.AIConfig{Model: "m", OpenAIAPIKey: "k", OpenAIURL: srv.URL + "/"})
	_, err := gen.Generate(context.Background(), "p")
	require.ErrorContains(t, err, "no choices")
}

// recordingModel is an llms.Model that remembers the options of its last call.
type recordingModel struct {
	prompt string
	opts   llms.CallOptions
}

func (m *recordingModel) GenerateContent(_ context.Context, _ []schema.MessageContent, _ ...llms.CallOption) (*schema.ContentResponse, error) {
	return nil, fmt.Errorf("not used")
}

func (m *recordingModel) Call(_ context.Context, prompt string, options ...llms.CallOption) (string, error) {
	m.prompt = prompt
	m.opts = llms.CallOptions{}
	for _, opt := range options {
		opt(&m.opts)
	}
	return "### Summary\nok", nil
}

func TestModelGenerator_AppliesSamplingBounds(t *testing.T) {
	model := &recordingModel{}
	cfg := config.AIConfig{LLMProvider: "gemini", Temperature: 0.3, MaxTokens: 1000, Timeout: time.Second}
	pm, err := NewPromptManager()
	require.NoError(t, err)

	rev := NewReviewer(newModelGenerator(model, cfg), pm, cfg, discardLogger())
	resp, err := rev.GenerateReview(context.Background(), "diff --git a/x.go b/x.go")
	require.NoError(t, err)

	assert.Equal(t, "### Summary\nok", resp)
	assert.Contains(t, model.prompt, "diff --git a/x.go b/x.go")
	assert.InDelta(t, 0.3, model.opts.Temperature, 1e-9)
	assert.Equal(t, 1000, model.opts.MaxTokens)
}

func TestModelGenerator_ZeroMaxTokensLeavesProviderDefault(t *testing.T) {
	model := &recordingModel{}
	gen := newModelGenerator(model, config.AIConfig{Temperature: 0.7})

	_, err := gen.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, model.opts.Temperature, 1e-9)
	assert.Zero(t, model.opts.MaxTokens)
}
