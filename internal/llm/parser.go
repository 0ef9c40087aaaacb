package llm

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sevigo/pr-warden/internal/core"
)

var (
	// ErrEmptyReview is returned when the model produced no text at all.
	ErrEmptyReview = errors.New("review text is empty")
	// ErrMalformedReview is returned for text that is not valid UTF-8 or contains NUL bytes.
	ErrMalformedReview = errors.New("review text is malformed")
)

const (
	sectionSummary     = "summary"
	sectionSuggestions = "suggestions"
	sectionIssues      = "issues"

	headerPrefix    = "### "
	bulletPrefix    = "- "
	entrySeparator  = " - "
	locationDivider = ":"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineHeader
	lineBullet
	lineProse
)

// classifyLine trims line and returns its kind together with the text that
// matters for that kind: the section name of a header, the entry of a bullet,
// the whole line otherwise.
func classifyLine(line string) (lineKind, string) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return lineBlank, ""
	case strings.HasPrefix(line, headerPrefix):
		return lineHeader, strings.TrimSpace(line[len(headerPrefix):])
	case strings.HasPrefix(line, bulletPrefix):
		return lineBullet, strings.TrimSpace(line[len(bulletPrefix):])
	default:
		return lineProse, line
	}
}

// ParseReview turns raw model output into a StructuredReview. It recognizes
// the Summary, Suggestions and Issues sections (case-insensitive), drops
// everything else, including bullets under Summary, and removes suggestions
// that point at the same location as an issue.
func ParseReview(text string) (*core.StructuredReview, error) {
	if !utf8.ValidString(text) || strings.ContainsRune(text, 0) {
		return nil, ErrMalformedReview
	}
	text = stripMarkdownFence(text)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyReview
	}

	var (
		section     string
		summary     []string
		suggestions []string
		issues      []string
	)

	for _, raw := range strings.Split(text, "\n") {
		kind, value := classifyLine(raw)
		switch kind {
		case lineBlank:
			continue
		case lineHeader:
			section = strings.ToLower(value)
		case lineBullet:
			switch section {
			case sectionSuggestions:
				if value != "" {
					suggestions = append(suggestions, value)
				}
			case sectionIssues:
				if value != "" {
					issues = append(issues, value)
				}
			}
		case lineProse:
			if section == sectionSummary {
				summary = append(summary, value)
			}
		}
	}

	return &core.StructuredReview{
		Summary:     strings.Join(summary, "\n"),
		Suggestions: Deduplicate(suggestions, issues),
		Issues:      issues,
	}, nil
}

// ExtractLocation returns the LocationKey of a bullet entry such as
// "main.go:42 - missing error check". The text before the first " - " (or the
// whole entry when there is none) must contain a colon; the path is what comes
// before the first colon and the position is the first word after it.
func ExtractLocation(entry string) (core.LocationKey, bool) {
	head, _, _ := strings.Cut(entry, entrySeparator)
	path, rest, found := strings.Cut(head, locationDivider)
	if !found {
		return core.LocationKey{}, false
	}
	path = strings.TrimSpace(path)
	fields := strings.Fields(rest)
	if path == "" || len(fields) == 0 {
		return core.LocationKey{}, false
	}
	return core.LocationKey{Path: path, Position: fields[0]}, true
}

// Deduplicate drops every suggestion whose location is also named by an issue.
// Suggestions without a location are always kept, issues are never touched and
// suggestions are not compared with each other.
func Deduplicate(suggestions, issues []string) []string {
	taken := make(map[core.LocationKey]struct{}, len(issues))
	for _, issue := range issues {
		if key, ok := ExtractLocation(issue); ok {
			taken[key] = struct{}{}
		}
	}

	kept := make([]string, 0, len(suggestions))
	for _, suggestion := range suggestions {
		if key, ok := ExtractLocation(suggestion); ok {
			if _, dup := taken[key]; dup {
				continue
			}
		}
		kept = append(kept, suggestion)
	}
	return kept
}

// stripMarkdownFence removes ```markdown ... ``` wrapping that some LLMs add around their output.
func stripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```markdown") && !strings.HasPrefix(trimmed, "```md") {
		return s
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return ""
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}
