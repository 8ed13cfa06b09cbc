package interpreter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamina-lang/lamina/pkgs/lexer"
	"github.com/lamina-lang/lamina/pkgs/parser"
)

// run executes src on a fresh interpreter and returns it together with
// captured print output.
func run(t *testing.T, src string) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	in := New(WithOutput(&out))
	require.NoError(t, execute(in, src), "source: %s", src)
	return in, &out
}

func execute(in *Interpreter, src string) error {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	block, err := parser.Parse(tokens)
	if err != nil {
		return err
	}
	return in.Execute(block)
}

// global fetches a global variable and fails the test if it is unbound.
func global(t *testing.T, in *Interpreter, name string) Value {
	t.Helper()
	v, err := in.GetVariable(name)
	require.NoError(t, err)
	return v
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"var r = 1 + 2 * 3;", "7"},
		{"var r = (1 + 2) * 3;", "9"},
		{"var r = 7 / 2;", "3.5"},
		{"var r = 10 % 3;", "1"},
		{"var r = 2 ^ 10;", "1024"},
		{"var r = 2 ^ 3 ^ 2;", "512"},
		{"var r = -3 + 1;", "-2"},
		{"var r = 0.1 + 0.2 == 0.3;", "false"},
		{"var r = 1 < 2 && 2 <= 2;", "true"},
		{"var r = !null;", "true"},
		{"var r = \"a\" + 1;", "a1"},
		{"var r = \"ab\" == \"ab\";", "true"},
	}
	for _, tc := range cases {
		in, _ := run(t, tc.src)
		assert.Equal(t, tc.want, global(t, in, "r").String(), "source: %s", tc.src)
	}
}

func TestVariableScoping(t *testing.T) {
	in, _ := run(t, `
var x = 1;
{
	var x = 2;
	var y = x + 1;
}
var z = x;`)
	assert.Equal(t, "1", global(t, in, "z").String())

	// Block-local y must not leak.
	_, err := in.GetVariable("y")
	require.Error(t, err)
}

func TestAssignmentWalksScopeChain(t *testing.T) {
	in, _ := run(t, `
var x = 1;
{
	x = 42;
}`)
	assert.Equal(t, "42", global(t, in, "x").String())
}

func TestIfElse(t *testing.T) {
	in, _ := run(t, `
var sign = 0;
var x = -5;
if (x < 0) {
	sign = -1;
} else if (x > 0) {
	sign = 1;
} else {
	sign = 0;
}`)
	assert.Equal(t, "-1", global(t, in, "sign").String())
}

func TestWhileLoop(t *testing.T) {
	in, _ := run(t, `
var sum = 0;
var i = 1;
while (i <= 10) {
	sum = sum + i;
	i = i + 1;
}`)
	assert.Equal(t, "55", global(t, in, "sum").String())
}

func TestForLoopWithBreakContinue(t *testing.T) {
	in, _ := run(t, `
var evens = 0;
for (var i = 0; i < 100; i = i + 1) {
	if (i >= 10) {
		break;
	}
	if (i % 2 == 1) {
		continue;
	}
	evens = evens + 1;
}`)
	assert.Equal(t, "5", global(t, in, "evens").String())

	// Loop variable stays scoped to the loop.
	_, err := in.GetVariable("i")
	require.Error(t, err)
}

func TestLoopSignalsStopAtCallBoundary(t *testing.T) {
	// A break inside a called function must surface as an error, not unwind
	// into the caller's loop and stop it early.
	in := New(WithOutput(&bytes.Buffer{}))
	err := execute(in, `
var n = 0;
func f() {
	break;
}
while (n < 3) {
	n = n + 1;
	f();
}`)
	require.Error(t, err)
	var rtErr *RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Contains(t, rtErr.Message, "break outside loop")

	in = New(WithOutput(&bytes.Buffer{}))
	err = execute(in, `
func g() {
	continue;
}
for (var i = 0; i < 3; i = i + 1) {
	g();
}`)
	require.Error(t, err)
	require.ErrorAs(t, err, &rtErr)
	assert.Contains(t, rtErr.Message, "continue outside loop")
}

func TestFunctionsAndRecursion(t *testing.T) {
	in, _ := run(t, `
func fib(n) {
	if (n < 2) {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}
var r = fib(12);`)
	assert.Equal(t, "144", global(t, in, "r").String())
}

func TestClosuresCaptureDefiningScope(t *testing.T) {
	in, _ := run(t, `
var counter = 0;
func bump() {
	counter = counter + 1;
	return counter;
}
bump();
bump();
var r = bump();`)
	assert.Equal(t, "3", global(t, in, "r").String())
	assert.Equal(t, "3", global(t, in, "counter").String())
}

func TestFunctionReturnsNullWithoutReturn(t *testing.T) {
	in, _ := run(t, `
func noop() {}
var r = noop();`)
	assert.Equal(t, KindNull, global(t, in, "r").Kind)
}

func TestArrays(t *testing.T) {
	in, _ := run(t, `
var xs = [1, 2, 3];
xs[1] = 20;
var total = xs[0] + xs[1] + xs[2];
var s = "hello";
var ch = s[1];
push(xs, 4);
var n = len(xs);`)
	assert.Equal(t, "24", global(t, in, "total").String())
	assert.Equal(t, "e", global(t, in, "ch").String())
	assert.Equal(t, "4", global(t, in, "n").String())
	assert.Equal(t, "[1, 20, 3, 4]", global(t, in, "xs").String())
}

func TestPrintOutputGoesToSink(t *testing.T) {
	_, out := run(t, `
print("a", 1);
println("");
println("x =", 3.5);`)
	assert.Equal(t, "a 1\nx = 3.5\n", out.String())
}

func TestSetGetVariable(t *testing.T) {
	in := New()
	in.SetVariable("x", NumberVal(3.5))
	v, err := in.GetVariable("x")
	require.NoError(t, err)
	assert.Equal(t, "3.5", v.String())

	// Scripts see host-injected globals.
	require.NoError(t, execute(in, "var y = x * 2;"))
	assert.Equal(t, "7", global(t, in, "y").String())
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"undefined variable", "var r = nope;", "undefined variable 'nope'"},
		{"assign undefined", "nope = 1;", "undefined variable 'nope'"},
		{"division by zero", "var r = 1 / 0;", "division by zero"},
		{"modulo by zero", "var r = 1 % 0;", "modulo by zero"},
		{"bad unary operand", "var r = -\"a\";", "must be a number"},
		{"bad binary operands", "var r = true + 1;", "must be numbers"},
		{"call non-function", "var x = 1; x();", "cannot call a number value"},
		{"wrong arity", "func f(a) {} f(1, 2);", "expects 1 argument(s), got 2"},
		{"index out of range", "var xs = [1]; var r = xs[3];", "out of range"},
		{"fractional index", "var xs = [1]; var r = xs[0.5];", "index must be an integer"},
		{"index non-array", "var r = true[0];", "cannot index a bool value"},
		{"top-level break", "break;", "break outside loop"},
		{"top-level return", "return 1;", "return outside function"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := New(WithOutput(&bytes.Buffer{}))
			err := execute(in, tc.src)
			require.Error(t, err)
			var rtErr *RuntimeError
			require.ErrorAs(t, err, &rtErr)
			assert.Contains(t, rtErr.Message, tc.want)
		})
	}
}

func TestUndefinedVariableSuggestion(t *testing.T) {
	in := New(WithOutput(&bytes.Buffer{}))
	require.NoError(t, execute(in, "var counter = 1;"))

	err := execute(in, "var r = ounter;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean 'counter'?")
}

func TestLibraryErrorsKeepTheirType(t *testing.T) {
	in := New(WithOutput(&bytes.Buffer{}))
	err := execute(in, "var r = sqrt(-1);")
	require.Error(t, err)

	var libErr *LibraryError
	require.ErrorAs(t, err, &libErr)
	assert.Equal(t, "sqrt", libErr.Builtin)
}

func TestInstancesAreIsolated(t *testing.T) {
	a := New(WithOutput(&bytes.Buffer{}))
	b := New(WithOutput(&bytes.Buffer{}))

	require.NoError(t, execute(a, "var x = 1;"))
	_, err := b.GetVariable("x")
	require.Error(t, err)
}
