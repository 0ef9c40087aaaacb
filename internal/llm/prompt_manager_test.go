package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptManager_Render(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	data := ReviewPromptData{Rules: DefaultReviewRules, Diff: "diff --git a/main.go b/main.go"}

	prompt, err := pm.Render(CodeReviewPrompt, "gemini", data)
	require.NoError(t, err)
	assert.Contains(t, prompt, "### Import Organization")
	assert.Contains(t, prompt, "- Check every returned error")
	assert.Contains(t, prompt, "### Summary")
	assert.Contains(t, prompt, "### Suggestions")
	assert.Contains(t, prompt, "### Issues")
	assert.Contains(t, prompt, "diff --git a/main.go b/main.go")

	ollamaPrompt, err := pm.Render(CodeReviewPrompt, "ollama", data)
	require.NoError(t, err)
	assert.NotEqual(t, prompt, ollamaPrompt)
	assert.Contains(t, ollamaPrompt, "diff --git a/main.go b/main.go")
}

func TestPromptManager_UnknownKey(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	_, err = pm.Get("summarize", DefaultProvider)
	assert.Error(t, err)
}
