package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkdownFence_Security(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "trailing content after fence",
			input: "```markdown\n" +
				"header\n" +
				"```\n" +
				"some trailing garbage",
			expected: "header",
		},
		{
			name: "no closing fence",
			input: "```markdown\n" +
				"header\n" +
				"body",
			expected: "header\nbody",
		},
		{
			name: "nested fences (should take outer)",
			input: "```markdown\n" +
				"code:\n" +
				"```go\n" +
				"func main() {}\n" +
				"```\n" +
				"```",
			expected: "code:\n```go\nfunc main() {}\n```",
		},
		{
			name:     "md shorthand",
			input:    "```md\n### Summary\nok\n```",
			expected: "### Summary\nok",
		},
		{
			name:     "other fences are kept",
			input:    "```go\nfunc main() {}\n```",
			expected: "```go\nfunc main() {}\n```",
		},
		{
			name:     "fence line only",
			input:    "```markdown",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripMarkdownFence(tt.input))
		})
	}
}

func TestParseReview_HostileInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "only headers", input: strings.Repeat("### Issues\n", 1000)},
		{name: "only separators", input: "### Issues\n- - - - -\n-  - \n- :\n- : - :"},
		{name: "very long bullet", input: "### Suggestions\n- " + strings.Repeat("a", 1<<20) + ":1 - x"},
		{name: "header injection inside bullet", input: "### Issues\n- a.go:1 - ### Summary\n- b.go:2 - ok"},
		{name: "unicode paths", input: "### Issues\n- 日本/ファイル.go:3 - 問題\n### Suggestions\n- 日本/ファイル.go:3 - 提案"},
		{name: "control characters", input: "### Summary\n\x1b[31mred\x1b[0m\n### Issues\n- a.go:1\t- tab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan struct{})
			go func() {
				defer close(done)
				review, err := ParseReview(tt.input)
				if !assert.NoError(t, err) {
					return
				}
				for _, s := range review.Suggestions {
					key, ok := ExtractLocation(s)
					if !ok {
						continue
					}
					for _, i := range review.Issues {
						other, ok := ExtractLocation(i)
						assert.False(t, ok && other == key, "suggestion %q collides with issue %q", s, i)
					}
				}
			}()

			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("parsing took too long")
			}
		})
	}
}
