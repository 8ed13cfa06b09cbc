// Package bridge exposes the Lamina interpreter through a string-only
// surface, for hosts that can marshal nothing richer than primitives
// (WASM/JS, FFI). Every operation returns a plain string: success is either
// a fixed sentinel or a rendered value, and every failure is flattened to a
// "<Kind>: <message>" diagnostic. No error or panic escapes the boundary.
package bridge

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lamina-lang/lamina/pkgs/ast"
	"github.com/lamina-lang/lamina/pkgs/interpreter"
	"github.com/lamina-lang/lamina/pkgs/lexer"
	"github.com/lamina-lang/lamina/pkgs/parser"
)

const (
	// SuccessMessage is returned by Execute when a script ran to completion.
	SuccessMessage = "Execution completed successfully"

	// ResultVariable is the reserved global Eval assigns its expression to
	// before reading the value back. The name is part of the embedding
	// contract: host code must never define it.
	ResultVariable = "__lamina_result__"

	// retrieveFailure is returned by Eval when execution succeeded but the
	// result variable could not be read back.
	retrieveFailure = "Error: Could not retrieve result"

	version = "Lamina.go 1.0.0"
)

// Kind tags the origin of a translated failure. The tag is the prefix of
// the diagnostic string callers parse, so the values are contract, not
// decoration.
type Kind string

const (
	KindLexical Kind = "LexicalError" // malformed source during tokenization
	KindSyntax  Kind = "SyntaxError"  // malformed token stream during parsing
	KindRuntime Kind = "RuntimeError" // failure during execution
	KindLibrary Kind = "LibraryError" // failure raised by a builtin
	KindUnknown Kind = "Error"        // anything else, including panics
)

// Bridge owns exactly one interpreter instance and drives the tokenize,
// parse, execute pipeline for it. A Bridge is not safe for concurrent use;
// callers must serialize access to an instance.
type Bridge struct {
	interp *interpreter.Interpreter
	opts   []interpreter.Option
}

// Option configures the interpreter a Bridge owns. Reset applies the same
// options to the replacement instance.
type Option func(*Bridge)

// WithOutput directs script print output to w. Defaults to stdout; hosts
// running several bridges in one process should give each its own sink.
func WithOutput(w io.Writer) Option {
	return func(b *Bridge) {
		b.opts = append(b.opts, interpreter.WithOutput(w))
	}
}

// WithRegistry supplies the builtin-function table for the owned
// interpreter. This is the hook for platforms that must install their own
// builtins at construction time.
func WithRegistry(r *interpreter.Registry) Option {
	return func(b *Bridge) {
		b.opts = append(b.opts, interpreter.WithRegistry(r))
	}
}

// New creates a bridge owning a fresh interpreter.
func New(opts ...Option) *Bridge {
	b := &Bridge{}
	for _, opt := range opts {
		opt(b)
	}
	b.interp = interpreter.New(b.opts...)
	return b
}

// outcome is the internal discriminated result the pipeline produces before
// it is flattened to a string at the boundary.
type outcome struct {
	ok    bool
	value string
	kind  Kind
	msg   string
}

func success(value string) outcome {
	return outcome{ok: true, value: value}
}

func failure(kind Kind, msg string) outcome {
	return outcome{kind: kind, msg: msg}
}

func (o outcome) flatten() string {
	if o.ok {
		return o.value
	}
	return fmt.Sprintf("%s: %s", o.kind, o.msg)
}

// Execute runs code for its side effects. It returns SuccessMessage on
// success; print output goes to the configured sink, not the return value.
func (b *Bridge) Execute(code string) string {
	out := b.run(code)
	if out.ok {
		return SuccessMessage
	}
	return out.flatten()
}

// Eval evaluates a single expression and returns its rendered value. The
// expression is wrapped as an assignment to ResultVariable, executed, and
// the variable read back, since the interpreter has no direct
// evaluate-and-return entry point. A blank expression returns the literal
// string "null".
func (b *Bridge) Eval(expression string) string {
	if strings.TrimSpace(expression) == "" {
		return "null"
	}

	code := "var " + ResultVariable + " = (" + expression + ");"
	out := b.runWith(code, func(block *ast.Block) outcome {
		if err := b.interp.Execute(block); err != nil {
			return classify(err)
		}
		v, err := b.interp.GetVariable(ResultVariable)
		if err != nil {
			return success(retrieveFailure)
		}
		return success(v.String())
	})
	return out.flatten()
}

// SetVariable binds name to a numeric value in the interpreter's global
// scope. Failures are swallowed silently; this mirrors the historical
// embedding behavior and is recorded as a known gap rather than a feature.
func (b *Bridge) SetVariable(name string, value float64) {
	defer func() { _ = recover() }()
	b.interp.SetVariable(name, interpreter.NumberVal(value))
}

// SetStringVariable binds name to a string value in the global scope.
// Failures are swallowed silently, as in SetVariable.
func (b *Bridge) SetStringVariable(name, value string) {
	defer func() { _ = recover() }()
	b.interp.SetVariable(name, interpreter.StringVal(value))
}

// GetVariable returns the rendered value of name, or a tagged error string
// when the name is unbound.
func (b *Bridge) GetVariable(name string) string {
	out := b.translate(func() outcome {
		v, err := b.interp.GetVariable(name)
		if err != nil {
			return classify(err)
		}
		return success(v.String())
	})
	return out.flatten()
}

// Reset discards the interpreter and every variable bound in it, replacing
// it with a fresh instance built from the same options. Calling Reset twice
// is the same as calling it once.
func (b *Bridge) Reset() {
	b.interp = interpreter.New(b.opts...)
}

// Version returns the fixed identifying string for this bridge build.
func Version() string {
	return version
}

// EvaluateExpression evaluates expression on a throwaway bridge. No state
// persists between calls.
func EvaluateExpression(expression string) string {
	return New().Eval(expression)
}

// ExecuteCode runs code on a throwaway bridge. No state persists between
// calls.
func ExecuteCode(code string) string {
	return New().Execute(code)
}

// run drives the full pipeline for Execute.
func (b *Bridge) run(code string) outcome {
	return b.runWith(code, func(block *ast.Block) outcome {
		if err := b.interp.Execute(block); err != nil {
			return classify(err)
		}
		return success("")
	})
}

// runWith tokenizes and parses code, then hands the block to exec. All
// three stages run under panic translation.
func (b *Bridge) runWith(code string, exec func(*ast.Block) outcome) outcome {
	return b.translate(func() outcome {
		tokens, err := lexer.Tokenize(code)
		if err != nil {
			return classify(err)
		}
		block, err := parser.Parse(tokens)
		if err != nil {
			return classify(err)
		}
		return exec(block)
	})
}

// translate runs fn and converts any panic into an UnknownError outcome, so
// nothing can cross the boundary as a native failure.
func (b *Bridge) translate(fn func() outcome) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failure(KindUnknown, fmt.Sprintf("%v", r))
		}
	}()
	return fn()
}

// classify maps an error from any pipeline stage to its failure kind. The
// library check precedes the runtime check because builtin failures may be
// wrapped in runtime errors.
func classify(err error) outcome {
	var scanErr *lexer.ScanError
	var parseErr *parser.ParseError
	var libErr *interpreter.LibraryError
	var rtErr *interpreter.RuntimeError

	switch {
	case errors.As(err, &scanErr):
		return failure(KindLexical, scanErr.Error())
	case errors.As(err, &parseErr):
		return failure(KindSyntax, parseErr.Error())
	case errors.As(err, &libErr):
		return failure(KindLibrary, libErr.Error())
	case errors.As(err, &rtErr):
		return failure(KindRuntime, rtErr.Error())
	default:
		return failure(KindUnknown, err.Error())
	}
}
