package core

import "fmt"

// Result carries the value of a stage that may degrade instead of failing, together
// with the warnings describing what was lost on the way.
type Result[T any] struct {
	Value    T
	Warnings []string
}

// Warn records a degradation.
func (r *Result[T]) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
