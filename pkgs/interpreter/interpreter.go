// Package interpreter executes Lamina syntax trees. An Interpreter owns the
// global variable scope, the builtin-function table and the output sink, so
// separate instances never share state.
package interpreter

import (
	"io"
	"math"
	"os"

	"github.com/lamina-lang/lamina/pkgs/ast"
	"github.com/lamina-lang/lamina/pkgs/lexer"
)

// Interpreter is a tree-walk evaluator. It is not safe for concurrent use;
// callers running scripts from multiple goroutines must serialize access.
type Interpreter struct {
	globals *Environment
	env     *Environment
	out     io.Writer
	reg     *Registry
}

// Option configures an Interpreter at construction.
type Option func(*Interpreter)

// WithOutput directs print output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithRegistry replaces the standard builtin table.
func WithRegistry(r *Registry) Option {
	return func(in *Interpreter) { in.reg = r }
}

// New creates an interpreter with an empty global scope.
func New(opts ...Option) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals: globals,
		env:     globals,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.reg == nil {
		in.reg = StandardRegistry()
	}
	return in
}

// Output returns the sink print builtins write to.
func (in *Interpreter) Output() io.Writer { return in.out }

// Registry returns the builtin-function table.
func (in *Interpreter) Registry() *Registry { return in.reg }

// Execute runs a top-level block against the global scope. Unlike a nested
// block it does not open a new scope, so declarations persist across calls.
func (in *Interpreter) Execute(block *ast.Block) error {
	for _, stmt := range block.Stmts {
		if err := in.execute(stmt); err != nil {
			// A control-flow signal that unwound to the top level is a
			// plain runtime error from the caller's point of view.
			switch err.(type) {
			case returnSignal, breakSignal, continueSignal:
				line, _ := stmt.Pos()
				return runtimeErrorAt(line, "%s", err.Error())
			}
			return err
		}
	}
	return nil
}

// GetVariable reads a name from the global scope.
func (in *Interpreter) GetVariable(name string) (Value, error) {
	if v, ok := in.globals.Get(name); ok {
		return v, nil
	}
	return Value{}, undefinedNameError(0, name, in.globals.Names())
}

// SetVariable binds a name in the global scope, overwriting any previous
// binding.
func (in *Interpreter) SetVariable(name string, v Value) {
	in.globals.Define(name, v)
}

// ---- statement execution ----

func (in *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		value := Null()
		if s.Init != nil {
			var err error
			value, err = in.evaluate(s.Init)
			if err != nil {
				return err
			}
		}
		in.env.Define(s.Name.Value, value)
		return nil

	case *ast.ExprStmt:
		_, err := in.evaluate(s.E)
		return err

	case *ast.Block:
		return in.executeBlock(s, NewEnvironment(in.env))

	case *ast.If:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return nil

	case *ast.While:
		for {
			cond, err := in.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !cond.Truthy() {
				return nil
			}
			if err := in.execute(s.Body); err != nil {
				if _, ok := err.(breakSignal); ok {
					return nil
				}
				if _, ok := err.(continueSignal); ok {
					continue
				}
				return err
			}
		}

	case *ast.For:
		return in.executeFor(s)

	case *ast.FuncDecl:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Value
		}
		fn := &Function{
			Name:    s.Name.Value,
			Params:  params,
			Body:    s.Body,
			Closure: in.env,
		}
		in.env.Define(s.Name.Value, FuncVal(fn))
		return nil

	case *ast.Return:
		value := Null()
		if s.Value != nil {
			var err error
			value, err = in.evaluate(s.Value)
			if err != nil {
				return err
			}
		}
		return returnSignal{value: value}

	case *ast.Break:
		return breakSignal{}

	case *ast.Continue:
		return continueSignal{}

	default:
		line, _ := stmt.Pos()
		return runtimeErrorAt(line, "unsupported statement")
	}
}

func (in *Interpreter) executeBlock(block *ast.Block, env *Environment) error {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, stmt := range block.Stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) executeFor(s *ast.For) error {
	// The init declaration gets its own scope so the loop variable does not
	// leak into the surrounding block.
	env := NewEnvironment(in.env)
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	if s.Init != nil {
		if err := in.execute(s.Init); err != nil {
			return err
		}
	}

	for {
		if s.Cond != nil {
			cond, err := in.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !cond.Truthy() {
				return nil
			}
		}

		if err := in.execute(s.Body); err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if _, ok := err.(continueSignal); !ok {
				return err
			}
		}

		if s.Post != nil {
			if err := in.execute(s.Post); err != nil {
				return err
			}
		}
	}
}

// ---- expression evaluation ----

func (in *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return NumberVal(e.Value), nil

	case *ast.StringLit:
		return StringVal(e.Value), nil

	case *ast.BoolLit:
		return BoolVal(e.Value), nil

	case *ast.NullLit:
		return Null(), nil

	case *ast.Ident:
		return in.resolve(e)

	case *ast.Grouping:
		return in.evaluate(e.Inner)

	case *ast.Unary:
		return in.evalUnary(e)

	case *ast.Binary:
		return in.evalBinary(e)

	case *ast.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return Value{}, err
		}
		if e.Op.Type == lexer.OR {
			if left.Truthy() {
				return left, nil
			}
		} else if !left.Truthy() {
			return left, nil
		}
		return in.evaluate(e.Right)

	case *ast.Assign:
		value, err := in.evaluate(e.Value)
		if err != nil {
			return Value{}, err
		}
		if !in.env.Assign(e.Name.Value, value) {
			return Value{}, undefinedNameError(e.Name.Line, e.Name.Value, in.env.Names())
		}
		return value, nil

	case *ast.IndexAssign:
		return in.evalIndexAssign(e)

	case *ast.Index:
		return in.evalIndex(e)

	case *ast.ArrayLit:
		elems := make([]Value, len(e.Elems))
		for i, el := range e.Elems {
			v, err := in.evaluate(el)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return ArrayVal(elems), nil

	case *ast.Call:
		return in.evalCall(e)

	default:
		line, _ := expr.Pos()
		return Value{}, runtimeErrorAt(line, "unsupported expression")
	}
}

// resolve looks an identifier up in the scope chain, then in the builtin
// table.
func (in *Interpreter) resolve(e *ast.Ident) (Value, error) {
	if v, ok := in.env.Get(e.Name); ok {
		return v, nil
	}
	if fn, ok := in.reg.Lookup(e.Name); ok {
		return FuncVal(fn), nil
	}
	candidates := append(in.env.Names(), in.reg.Names()...)
	return Value{}, undefinedNameError(e.Token.Line, e.Name, candidates)
}

func (in *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}
	switch e.Op.Type {
	case lexer.MINUS:
		if right.Kind != KindNumber {
			return Value{}, runtimeErrorAt(e.Op.Line, "operand of '-' must be a number, got %s", right.Kind)
		}
		return NumberVal(-right.Num), nil
	case lexer.BANG:
		return BoolVal(!right.Truthy()), nil
	default:
		return Value{}, runtimeErrorAt(e.Op.Line, "unsupported unary operator '%s'", e.Op.Value)
	}
}

func (in *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}

	op := e.Op
	switch op.Type {
	case lexer.EQ:
		return BoolVal(left.Equals(right)), nil
	case lexer.NEQ:
		return BoolVal(!left.Equals(right)), nil
	}

	// '+' concatenates when either side is a string.
	if op.Type == lexer.PLUS && (left.Kind == KindString || right.Kind == KindString) {
		return StringVal(left.String() + right.String()), nil
	}

	if left.Kind != KindNumber || right.Kind != KindNumber {
		return Value{}, runtimeErrorAt(op.Line, "operands of '%s' must be numbers, got %s and %s",
			op.Value, left.Kind, right.Kind)
	}

	a, b := left.Num, right.Num
	switch op.Type {
	case lexer.PLUS:
		return NumberVal(a + b), nil
	case lexer.MINUS:
		return NumberVal(a - b), nil
	case lexer.STAR:
		return NumberVal(a * b), nil
	case lexer.SLASH:
		if b == 0 {
			return Value{}, runtimeErrorAt(op.Line, "division by zero")
		}
		return NumberVal(a / b), nil
	case lexer.PERCENT:
		if b == 0 {
			return Value{}, runtimeErrorAt(op.Line, "modulo by zero")
		}
		return NumberVal(math.Mod(a, b)), nil
	case lexer.CARET:
		return NumberVal(math.Pow(a, b)), nil
	case lexer.LT:
		return BoolVal(a < b), nil
	case lexer.LTE:
		return BoolVal(a <= b), nil
	case lexer.GT:
		return BoolVal(a > b), nil
	case lexer.GTE:
		return BoolVal(a >= b), nil
	default:
		return Value{}, runtimeErrorAt(op.Line, "unsupported operator '%s'", op.Value)
	}
}

func (in *Interpreter) evalIndex(e *ast.Index) (Value, error) {
	target, err := in.evaluate(e.Target)
	if err != nil {
		return Value{}, err
	}
	idx, err := in.indexOf(e.Bracket, e.Subscript)
	if err != nil {
		return Value{}, err
	}

	switch target.Kind {
	case KindArray:
		if idx < 0 || idx >= len(target.Arr.Elems) {
			return Value{}, runtimeErrorAt(e.Bracket.Line, "index %d out of range for array of length %d",
				idx, len(target.Arr.Elems))
		}
		return target.Arr.Elems[idx], nil
	case KindString:
		runes := []rune(target.Str)
		if idx < 0 || idx >= len(runes) {
			return Value{}, runtimeErrorAt(e.Bracket.Line, "index %d out of range for string of length %d",
				idx, len(runes))
		}
		return StringVal(string(runes[idx])), nil
	default:
		return Value{}, runtimeErrorAt(e.Bracket.Line, "cannot index a %s value", target.Kind)
	}
}

func (in *Interpreter) evalIndexAssign(e *ast.IndexAssign) (Value, error) {
	target, err := in.evaluate(e.Target)
	if err != nil {
		return Value{}, err
	}
	if target.Kind != KindArray {
		return Value{}, runtimeErrorAt(e.Bracket.Line, "cannot assign into a %s value", target.Kind)
	}

	idx, err := in.indexOf(e.Bracket, e.Subscript)
	if err != nil {
		return Value{}, err
	}
	if idx < 0 || idx >= len(target.Arr.Elems) {
		return Value{}, runtimeErrorAt(e.Bracket.Line, "index %d out of range for array of length %d",
			idx, len(target.Arr.Elems))
	}

	value, err := in.evaluate(e.Value)
	if err != nil {
		return Value{}, err
	}
	target.Arr.Elems[idx] = value
	return value, nil
}

func (in *Interpreter) indexOf(bracket lexer.Token, sub ast.Expr) (int, error) {
	v, err := in.evaluate(sub)
	if err != nil {
		return 0, err
	}
	if v.Kind != KindNumber {
		return 0, runtimeErrorAt(bracket.Line, "index must be a number, got %s", v.Kind)
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, runtimeErrorAt(bracket.Line, "index must be an integer, got %s", v)
	}
	return int(v.Num), nil
}

func (in *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return Value{}, err
	}
	if callee.Kind != KindFunction {
		return Value{}, runtimeErrorAt(e.LParen.Line, "cannot call a %s value", callee.Kind)
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evaluate(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	fn := callee.Fn
	if fn.Native != nil {
		result, err := fn.Native(in, args)
		if err != nil {
			if _, ok := err.(*LibraryError); ok {
				return Value{}, err
			}
			return Value{}, &LibraryError{Builtin: fn.Name, Message: err.Error()}
		}
		return result, nil
	}

	if len(args) != len(fn.Params) {
		return Value{}, runtimeErrorAt(e.LParen.Line, "function '%s' expects %d argument(s), got %d",
			fn.Name, len(fn.Params), len(args))
	}

	env := NewEnvironment(fn.Closure)
	for i, param := range fn.Params {
		env.Define(param, args[i])
	}

	err = in.executeBlock(fn.Body, env)
	if err == nil {
		return Null(), nil
	}
	switch sig := err.(type) {
	case returnSignal:
		return sig.value, nil
	case breakSignal, continueSignal:
		// Loop signals stop at the call boundary; a caller's loop must never
		// consume a break or continue raised inside the callee.
		return Value{}, runtimeErrorAt(e.LParen.Line, "%s", err.Error())
	}
	return Value{}, err
}
