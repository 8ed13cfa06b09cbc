package interpreter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Registry holds the builtin-function table. Hosts that embed the
// interpreter can hand a customized registry to New, so platform-specific
// builtins are registered at construction time instead of relying on package
// initialization order.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]*Function
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builtins: make(map[string]*Function)}
}

// StandardRegistry creates a registry with the standard library installed.
func StandardRegistry() *Registry {
	r := NewRegistry()
	r.registerStandardBuiltins()
	return r
}

// Register installs or replaces a builtin.
func (r *Registry) Register(name string, fn NativeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[name] = &Function{Name: name, Native: fn}
}

// Lookup returns the builtin bound to name.
func (r *Registry) Lookup(name string) (*Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.builtins[name]
	return fn, ok
}

// Names returns all registered builtin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func libraryError(builtin, format string, args ...any) *LibraryError {
	return &LibraryError{Builtin: builtin, Message: fmt.Sprintf(format, args...)}
}

func wantArgs(builtin string, args []Value, n int) error {
	if len(args) != n {
		return libraryError(builtin, "expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

func wantNumber(builtin string, args []Value, i int) (float64, error) {
	if args[i].Kind != KindNumber {
		return 0, libraryError(builtin, "argument %d must be a number, got %s", i+1, args[i].Kind)
	}
	return args[i].Num, nil
}

func (r *Registry) registerStandardBuiltins() {
	r.Register("print", func(in *Interpreter, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		if _, err := fmt.Fprint(in.Output(), strings.Join(parts, " ")); err != nil {
			return Value{}, libraryError("print", "write failed: %v", err)
		}
		return Null(), nil
	})

	r.Register("println", func(in *Interpreter, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		if _, err := fmt.Fprintln(in.Output(), strings.Join(parts, " ")); err != nil {
			return Value{}, libraryError("println", "write failed: %v", err)
		}
		return Null(), nil
	})

	r.Register("len", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("len", args, 1); err != nil {
			return Value{}, err
		}
		switch args[0].Kind {
		case KindString:
			return NumberVal(float64(len([]rune(args[0].Str)))), nil
		case KindArray:
			return NumberVal(float64(len(args[0].Arr.Elems))), nil
		default:
			return Value{}, libraryError("len", "argument must be a string or array, got %s", args[0].Kind)
		}
	})

	r.Register("abs", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("abs", args, 1); err != nil {
			return Value{}, err
		}
		n, err := wantNumber("abs", args, 0)
		if err != nil {
			return Value{}, err
		}
		return NumberVal(math.Abs(n)), nil
	})

	r.Register("sqrt", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("sqrt", args, 1); err != nil {
			return Value{}, err
		}
		n, err := wantNumber("sqrt", args, 0)
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, libraryError("sqrt", "square root of negative number %s", NumberVal(n))
		}
		return NumberVal(math.Sqrt(n)), nil
	})

	r.Register("floor", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("floor", args, 1); err != nil {
			return Value{}, err
		}
		n, err := wantNumber("floor", args, 0)
		if err != nil {
			return Value{}, err
		}
		return NumberVal(math.Floor(n)), nil
	})

	r.Register("ceil", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("ceil", args, 1); err != nil {
			return Value{}, err
		}
		n, err := wantNumber("ceil", args, 0)
		if err != nil {
			return Value{}, err
		}
		return NumberVal(math.Ceil(n)), nil
	})

	r.Register("min", func(in *Interpreter, args []Value) (Value, error) {
		return pickExtreme("min", args, func(a, b float64) bool { return a < b })
	})

	r.Register("max", func(in *Interpreter, args []Value) (Value, error) {
		return pickExtreme("max", args, func(a, b float64) bool { return a > b })
	})

	r.Register("typeof", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("typeof", args, 1); err != nil {
			return Value{}, err
		}
		return StringVal(args[0].Kind.String()), nil
	})

	r.Register("str", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("str", args, 1); err != nil {
			return Value{}, err
		}
		return StringVal(args[0].String()), nil
	})

	r.Register("number", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("number", args, 1); err != nil {
			return Value{}, err
		}
		switch args[0].Kind {
		case KindNumber:
			return args[0], nil
		case KindString:
			n, err := strconv.ParseFloat(strings.TrimSpace(args[0].Str), 64)
			if err != nil {
				return Value{}, libraryError("number", "cannot convert %q to a number", args[0].Str)
			}
			return NumberVal(n), nil
		case KindBool:
			if args[0].Bool {
				return NumberVal(1), nil
			}
			return NumberVal(0), nil
		default:
			return Value{}, libraryError("number", "cannot convert %s to a number", args[0].Kind)
		}
	})

	r.Register("push", func(in *Interpreter, args []Value) (Value, error) {
		if err := wantArgs("push", args, 2); err != nil {
			return Value{}, err
		}
		if args[0].Kind != KindArray {
			return Value{}, libraryError("push", "argument 1 must be an array, got %s", args[0].Kind)
		}
		args[0].Arr.Elems = append(args[0].Arr.Elems, args[1])
		return args[0], nil
	})
}

func pickExtreme(builtin string, args []Value, better func(a, b float64) bool) (Value, error) {
	if len(args) == 0 {
		return Value{}, libraryError(builtin, "expected at least 1 argument")
	}
	best, err := wantNumber(builtin, args, 0)
	if err != nil {
		return Value{}, err
	}
	for i := 1; i < len(args); i++ {
		n, err := wantNumber(builtin, args, i)
		if err != nil {
			return Value{}, err
		}
		if better(n, best) {
			best = n
		}
	}
	return NumberVal(best), nil
}
