package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sevigo/pr-warden/internal/core"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

// stepTimer tracks timing for verbose output
type stepTimer struct {
	stepNum    int
	totalSteps int
	start      time.Time
	verbose    bool
}

func newStepTimer(totalSteps int, verbose bool) *stepTimer {
	return &stepTimer{totalSteps: totalSteps, verbose: verbose}
}

func (t *stepTimer) step(name string) {
	t.stepNum++
	t.start = time.Now()
	if t.verbose {
		titleColor.Printf("\nStep %d/%d: %s...\n", t.stepNum, t.totalSteps, name)
	} else {
		fmt.Printf("%s...\n", name)
	}
}

func (t *stepTimer) done(details ...string) {
	if t.verbose {
		elapsed := time.Since(t.start).Round(time.Millisecond)
		successColor.Printf("   done (%s)\n", elapsed)
		for _, d := range details {
			dimColor.Printf("   └── %s\n", d)
		}
	}
}

func (t *stepTimer) info(format string, args ...any) {
	if t.verbose {
		dimColor.Printf("   ├── "+format+"\n", args...)
	}
}

func truncateSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func printIssues(path string, issues []core.SyntaxIssue) {
	if len(issues) == 0 {
		successColor.Print("ok   ")
		fmt.Println(path)
		return
	}
	errorColor.Print("FAIL ")
	boldColor.Println(path)
	for _, issue := range issues {
		printKindBadge(issue.Kind)
		dimColor.Printf(" line %d ", issue.Line)
		fmt.Println(issue.Message)
	}
}

func printKindBadge(kind core.IssueKind) {
	switch kind {
	case core.SyntaxError:
		color.New(color.BgRed, color.FgWhite, color.Bold).Printf(" %s ", kind)
	case core.CompileError:
		color.New(color.BgYellow, color.FgBlack).Printf(" %s ", kind)
	default:
		color.New(color.BgWhite, color.FgBlack).Printf(" %s ", kind)
	}
}

func printDisposition(disposition core.Disposition) {
	switch disposition {
	case core.DispositionApprove:
		color.New(color.BgGreen, color.FgWhite, color.Bold).Printf(" %s ", disposition)
	default:
		color.New(color.BgBlue, color.FgWhite).Printf(" %s ", disposition)
	}
	fmt.Println()
}

func printOutcome(outcome *core.Outcome) {
	separator := strings.Repeat("═", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Printf("OUTCOME: %s\n", outcome.State)
	titleColor.Println(separator)
	if outcome.Reason != "" {
		dimColor.Printf("Reason: %s\n", outcome.Reason)
	}
	if outcome.SyntaxCount > 0 {
		warnColor.Printf("Syntax issues: %d\n", outcome.SyntaxCount)
	}
	for _, w := range outcome.Warnings {
		warnColor.Printf("warning: %s\n", w)
	}
}
