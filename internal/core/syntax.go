package core

import "fmt"

// IssueKind classifies a finding of the syntax pre-checker.
type IssueKind string

const (
	SyntaxError     IssueKind = "SyntaxError"
	CompileError    IssueKind = "CompileError"
	ValidationError IssueKind = "ValidationError"
)

// SyntaxIssue is a single finding of the syntax pre-checker. Line is 0 when the
// position is unknown.
type SyntaxIssue struct {
	Path    string
	Line    int
	Kind    IssueKind
	Message string
}

func (i SyntaxIssue) String() string {
	return fmt.Sprintf("%s:%d - %s: %s", i.Path, i.Line, i.Kind, i.Message)
}
