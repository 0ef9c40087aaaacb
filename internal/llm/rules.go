package llm

// ReviewRule is one category of conventions the model checks the diff against.
type ReviewRule struct {
	Name        string
	Description string
	Rules       []string
}

// ReviewPromptData is the input of the code review prompt.
type ReviewPromptData struct {
	Rules []ReviewRule
	Diff  string
}

// DefaultReviewRules are the conventions every review is measured against.
var DefaultReviewRules = []ReviewRule{
	{
		Name:        "Import Organization",
		Description: "Import organization rules",
		Rules: []string{
			"Group imports: standard library, then third-party, then local packages",
			"Keep each group sorted alphabetically as goimports does",
			"Remove unused or blank imports that have no side effect",
		},
	},
	{
		Name:        "Code Formatting",
		Description: "Code formatting rules",
		Rules: []string{
			"Code must be gofmt clean",
			"Single blank lines between logical sections",
			"Keep lines under 120 characters where practical",
		},
	},
	{
		Name:        "Naming Conventions",
		Description: "Naming conventions",
		Rules: []string{
			"Descriptive names for exported identifiers, short names for small scopes",
			"MixedCaps instead of underscores",
			"Initialisms keep a consistent case (ID, URL, HTTP)",
		},
	},
	{
		Name:        "Documentation",
		Description: "Documentation standards",
		Rules: []string{
			"Doc comments on exported types and functions, starting with the identifier name",
			"Package comment on one file of every package",
			"Avoid comments that repeat the code",
		},
	},
	{
		Name:        "Error Handling",
		Description: "Error handling and logging",
		Rules: []string{
			"Check every returned error",
			"Wrap errors with context using fmt.Errorf and %w",
			"Structured logging with log/slog key/value pairs at the right level",
			"Release resources with defer on every path",
		},
	},
}
