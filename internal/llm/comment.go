package llm

import (
	"github.com/sevigo/pr-warden/internal/core"
)

const (
	CommentTitle   = "🚀 **AI Code Review**"
	ApprovalFooter = "LGTM 👍 No issues found"

	headingSummary      = "Summary"
	headingSuggestions  = "Suggestions"
	headingIssues       = "Issues"
	headingSyntaxIssues = "Syntax Validation Issues"
)

// BuildComment lays out a parsed review as the comment posted on the pull
// request. A review with nothing to report approves with a footer.
func BuildComment(review *core.StructuredReview) *core.Comment {
	comment := &core.Comment{
		Title:       CommentTitle,
		Disposition: review.Disposition(),
	}
	if review.Summary != "" {
		comment.Sections = append(comment.Sections, core.CommentSection{
			Heading: headingSummary,
			Lines:   []string{review.Summary},
		})
	}
	if len(review.Suggestions) > 0 {
		comment.Sections = append(comment.Sections, core.CommentSection{
			Heading:  headingSuggestions,
			Lines:    review.Suggestions,
			Bulleted: true,
		})
	}
	if len(review.Issues) > 0 {
		comment.Sections = append(comment.Sections, core.CommentSection{
			Heading:  headingIssues,
			Lines:    review.Issues,
			Bulleted: true,
		})
	}
	if comment.Disposition == core.DispositionApprove {
		comment.Footer = ApprovalFooter
	}
	return comment
}

// MergeSyntaxIssues puts the pre-check findings right after the title of
// comment, creating a bare comment when there was no model review. Any
// finding turns an approval into a plain comment. It returns nil when there
// is neither a comment nor a finding.
func MergeSyntaxIssues(comment *core.Comment, issues []core.SyntaxIssue) *core.Comment {
	if len(issues) == 0 {
		return comment
	}
	if comment == nil {
		comment = &core.Comment{Title: CommentTitle}
	}

	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, issue.String())
	}
	comment.Prepend(core.CommentSection{
		Heading:  headingSyntaxIssues,
		Lines:    lines,
		Bulleted: true,
	})
	comment.Disposition = core.DispositionComment
	comment.Footer = ""
	return comment
}
