package core

import "strings"

// Disposition is the event attached to a posted pull request review.
type Disposition string

const (
	DispositionApprove Disposition = "APPROVE"
	DispositionComment Disposition = "COMMENT"
)

// LocationKey identifies the file position a review entry talks about. It is only
// used to detect a suggestion and an issue pointing at the same spot.
type LocationKey struct {
	Path     string
	Position string
}

// StructuredReview is the model output after parsing and deduplication.
// No suggestion shares a LocationKey with an issue.
type StructuredReview struct {
	Summary     string
	Suggestions []string
	Issues      []string
}

// Disposition approves the pull request when the review has nothing to report.
func (r *StructuredReview) Disposition() Disposition {
	if len(r.Suggestions) == 0 && len(r.Issues) == 0 {
		return DispositionApprove
	}
	return DispositionComment
}

// CommentSection is one "### Heading" block of a posted comment.
type CommentSection struct {
	Heading string
	Lines   []string
	// Bulleted renders every line as a "- " list entry.
	Bulleted bool
}

func (s CommentSection) render() string {
	var sb strings.Builder
	sb.WriteString("### ")
	sb.WriteString(s.Heading)
	for _, line := range s.Lines {
		sb.WriteString("\n")
		if s.Bulleted {
			sb.WriteString("- ")
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// Comment is the review body handed to GitHub, kept structured until it is posted
// so that later stages can insert sections without string surgery.
type Comment struct {
	Title       string
	Sections    []CommentSection
	Footer      string
	Disposition Disposition
}

// Prepend inserts a section right after the title, ahead of all existing sections.
func (c *Comment) Prepend(section CommentSection) {
	c.Sections = append([]CommentSection{section}, c.Sections...)
}

// Body renders the comment as markdown.
func (c *Comment) Body() string {
	parts := make([]string, 0, len(c.Sections)+2)
	parts = append(parts, c.Title)
	for _, s := range c.Sections {
		parts = append(parts, s.render())
	}
	if c.Footer != "" {
		parts = append(parts, c.Footer)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
