package interpreter

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// RuntimeError reports a failure while executing statements: type mismatches,
// bad operands, undefined names, arity errors.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func runtimeErrorAt(line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// LibraryError reports a failure raised by a builtin function.
type LibraryError struct {
	Builtin string
	Message string
}

func (e *LibraryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Builtin, e.Message)
}

// undefinedNameError builds the error for an unresolved identifier,
// appending a did-you-mean hint when a close candidate exists.
func undefinedNameError(line int, name string, candidates []string) *RuntimeError {
	if best := closestName(name, candidates); best != "" {
		return runtimeErrorAt(line, "undefined variable '%s' (did you mean '%s'?)", name, best)
	}
	return runtimeErrorAt(line, "undefined variable '%s'", name)
}

// closestName returns the best fuzzy match for target among candidates, or
// "" when nothing is close.
func closestName(target string, candidates []string) string {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		best := ranks[0]
		for _, r := range ranks[1:] {
			if r.Distance < best.Distance {
				best = r
			}
		}
		return best.Target
	}
	return ""
}

// Control-flow signals travel as error values so a deep statement can unwind
// to the loop or call that handles it.

type returnSignal struct {
	value Value
}

func (returnSignal) Error() string { return "return outside function" }

type breakSignal struct{}

func (breakSignal) Error() string { return "break outside loop" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue outside loop" }
