package core

// State is a step of the review pipeline state machine.
type State int

const (
	StateVerified State = iota
	StateSkipped
	StateFilesFetched
	StateSyntaxChecked
	StateDiffFetched
	StateReviewGenerated
	StateMerged
	StatePosted
	StateCommitted
	StateNoAction
	StateFailed
)

var stateNames = map[State]string{
	StateVerified:        "VERIFIED",
	StateSkipped:         "SKIPPED",
	StateFilesFetched:    "FILES_FETCHED",
	StateSyntaxChecked:   "SYNTAX_CHECKED",
	StateDiffFetched:     "DIFF_FETCHED",
	StateReviewGenerated: "REVIEW_GENERATED",
	StateMerged:          "MERGED",
	StatePosted:          "POSTED",
	StateCommitted:       "COMMITTED",
	StateNoAction:        "NO_ACTION",
	StateFailed:          "FAILED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Outcome describes how the pipeline finished for one event.
type Outcome struct {
	State       State
	Reason      string
	Disposition Disposition
	SyntaxCount int
	Warnings    []string
	// Trail lists every state the pipeline entered, in order.
	Trail []State
}

// Advance moves the outcome to state s and records it in the trail.
func (o *Outcome) Advance(s State) {
	o.State = s
	o.Trail = append(o.Trail, s)
}

// Posted reports whether a review reached GitHub. A post whose tracker update
// failed is still posted.
func (o *Outcome) Posted() bool {
	return o.State == StatePosted || o.State == StateCommitted
}

// Absorb appends the warnings of a stage result.
func (o *Outcome) Absorb(warnings []string) {
	o.Warnings = append(o.Warnings, warnings...)
}
