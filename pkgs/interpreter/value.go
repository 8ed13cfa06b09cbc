package interpreter

import (
	"strconv"
	"strings"

	"github.com/lamina-lang/lamina/pkgs/ast"
)

// Kind represents the type of a Lamina value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindFunction
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindArray:    "array",
	KindFunction: "function",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a Lamina runtime value. The zero value is null.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
	Arr  *Array
	Fn   *Function
}

// Array is a mutable element list. Values holding the same *Array alias the
// same storage, so index assignment through one binding is visible through
// the others.
type Array struct {
	Elems []Value
}

// Function is a callable value: either a user-declared function with a body
// and closure, or a native builtin.
type Function struct {
	Name    string
	Params  []string
	Body    *ast.Block
	Closure *Environment
	Native  NativeFunc // non-nil for builtins
}

// NativeFunc is the implementation signature for builtin functions. Returned
// errors surface to scripts as library failures.
type NativeFunc func(in *Interpreter, args []Value) (Value, error)

// Constructors

func Null() Value                { return Value{} }
func BoolVal(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func NumberVal(n float64) Value  { return Value{Kind: KindNumber, Num: n} }
func StringVal(s string) Value   { return Value{Kind: KindString, Str: s} }
func ArrayVal(e []Value) Value   { return Value{Kind: KindArray, Arr: &Array{Elems: e}} }
func FuncVal(f *Function) Value  { return Value{Kind: KindFunction, Fn: f} }

// Truthy reports whether the value counts as true in a condition: null and
// false are false, 0 and "" are false, everything else is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0
	case KindString:
		return v.Str != ""
	default:
		return true
	}
}

// Equals reports deep value equality. Values of different kinds are never
// equal; functions compare by identity.
func (v Value) Equals(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindArray:
		if v.Arr == o.Arr {
			return true
		}
		if len(v.Arr.Elems) != len(o.Arr.Elems) {
			return false
		}
		for i := range v.Arr.Elems {
			if !v.Arr.Elems[i].Equals(o.Arr.Elems[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		return v.Fn == o.Fn
	default:
		return false
	}
}

// String is the canonical rendering used by print, getVariable and eval.
// Numbers render without a trailing ".0": 4 is "4" and 3.5 is "3.5".
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindArray:
		parts := make([]string, len(v.Arr.Elems))
		for i, e := range v.Arr.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindFunction:
		if v.Fn.Name == "" {
			return "<function>"
		}
		return "<function " + v.Fn.Name + ">"
	default:
		return "unknown"
	}
}
