// Package precheck runs a cheap structural and type check over changed source
// files before the diff is sent to the model.
package precheck

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"go/version"
	"log/slog"
	"path"
	"strings"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
)

// isolationNoise lists type checker messages caused only by checking a single
// file without its package and dependencies.
var isolationNoise = []string{
	"could not import",
	"undefined: ",
	"imported and not used",
	"imported as ",
}

// Checker validates single source files against a minimum Go version.
type Checker struct {
	goVersion string
	extension string
	exclude   []string
	logger    *slog.Logger
}

// NewChecker creates a Checker from the pre-check configuration.
func NewChecker(cfg config.PrecheckConfig, logger *slog.Logger) *Checker {
	ext := cfg.Extension
	if ext == "" {
		ext = ".go"
	}
	return &Checker{
		goVersion: cfg.GoVersion,
		extension: ext,
		exclude:   cfg.Exclude,
		logger:    logger,
	}
}

// Matches reports whether filename should be checked. A file is skipped when
// it has another extension or when its path or base name equals or matches one
// of the configured or extra exclude patterns. Patterns ending in "/" exclude
// a whole directory.
func (c *Checker) Matches(filename string, extraExcludes ...string) bool {
	if !strings.HasSuffix(filename, c.extension) {
		return false
	}
	base := path.Base(filename)
	patterns := make([]string, 0, len(c.exclude)+len(extraExcludes))
	patterns = append(patterns, c.exclude...)
	patterns = append(patterns, extraExcludes...)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "/") {
			if strings.HasPrefix(filename, pattern) {
				return false
			}
			continue
		}
		if pattern == filename || pattern == base {
			return false
		}
		if ok, _ := path.Match(pattern, filename); ok {
			return false
		}
		if ok, _ := path.Match(pattern, base); ok {
			return false
		}
	}
	return true
}

// CheckFile returns the problems found in content. It runs a parse check and a
// type check; each contributes at most one issue. An empty result means the
// file passed.
func (c *Checker) CheckFile(filename string, content []byte) (issues []core.SyntaxIssue) {
	if !version.IsValid(c.goVersion) {
		return []core.SyntaxIssue{{
			Path:    filename,
			Kind:    core.ValidationError,
			Message: fmt.Sprintf("invalid minimum Go version %q", c.goVersion),
		}}
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("syntax pre-check panicked", "file", filename, "panic", r)
			issues = append(issues, core.SyntaxIssue{
				Path:    filename,
				Kind:    core.ValidationError,
				Message: fmt.Sprintf("validation failed: %v", r),
			})
		}
	}()

	if issue := c.parseCheck(filename, content); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := c.compileCheck(filename, content); issue != nil {
		issues = append(issues, *issue)
	}

	if len(issues) > 0 {
		c.logger.Debug("syntax pre-check found issues", "file", filename, "count", len(issues))
	}
	return issues
}

func (c *Checker) parseCheck(filename string, content []byte) *core.SyntaxIssue {
	_, err := parser.ParseFile(token.NewFileSet(), filename, content, parser.AllErrors|parser.SkipObjectResolution)
	if err == nil {
		return nil
	}
	line, msg := firstParseError(err)
	return &core.SyntaxIssue{
		Path:    filename,
		Line:    line,
		Kind:    core.SyntaxError,
		Message: fmt.Sprintf("%s (Go %s)", msg, strings.TrimPrefix(c.goVersion, "go")),
	}
}

// compileCheck parses the file again and type checks it in isolation. Imports
// resolve to fake packages so only errors local to the file remain.
func (c *Checker) compileCheck(filename string, content []byte) *core.SyntaxIssue {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, content, parser.SkipObjectResolution)
	if err != nil {
		line, msg := firstParseError(err)
		return &core.SyntaxIssue{Path: filename, Line: line, Kind: core.CompileError, Message: msg}
	}

	var first *types.Error
	conf := types.Config{
		GoVersion: c.goVersion,
		Importer:  unresolvedImporter{},
		Error: func(err error) {
			var terr types.Error
			if first != nil || !errors.As(err, &terr) || isIsolationNoise(terr.Msg) {
				return
			}
			first = &terr
		},
	}
	_, _ = conf.Check(file.Name.Name, fset, []*ast.File{file}, nil)

	if first == nil {
		return nil
	}
	return &core.SyntaxIssue{
		Path:    filename,
		Line:    first.Fset.Position(first.Pos).Line,
		Kind:    core.CompileError,
		Message: first.Msg,
	}
}

func firstParseError(err error) (int, string) {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return list[0].Pos.Line, list[0].Msg
	}
	return 0, err.Error()
}

func isIsolationNoise(msg string) bool {
	for _, noise := range isolationNoise {
		if strings.Contains(msg, noise) {
			return true
		}
	}
	return false
}

// unresolvedImporter fails every import. The type checker then substitutes a
// fake package and stops reporting selector errors on it.
type unresolvedImporter struct{}

func (unresolvedImporter) Import(importPath string) (*types.Package, error) {
	return nil, fmt.Errorf("package %s is not available to the pre-checker", importPath)
}
