package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tokenExpectation is an expected token, positions ignored.
type tokenExpectation struct {
	Type  TokenType
	Value string
}

// assertTokens compares scanned tokens with expected, positions excluded.
func assertTokens(t *testing.T, input string, expected []tokenExpectation) {
	t.Helper()

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", input, err)
	}

	actual := make([]tokenExpectation, len(tokens))
	for i, tok := range tokens {
		actual[i] = tokenExpectation{Type: tok.Type, Value: tok.Value}
	}

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("token mismatch for %q (-want +got):\n%s", input, diff)
		return
	}

	for i, tok := range tokens {
		if tok.Line <= 0 || tok.Column <= 0 {
			t.Errorf("token[%d] %s has invalid position %d:%d", i, tok.Type, tok.Line, tok.Column)
		}
	}
}

func TestTokenizeVarDeclaration(t *testing.T) {
	assertTokens(t, `var x = 3.5;`, []tokenExpectation{
		{VAR, "var"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{NUMBER, "3.5"},
		{SEMICOLON, ";"},
		{EOF, ""},
	})
}

func TestTokenizeOperators(t *testing.T) {
	assertTokens(t, `+ - * / % ^ = == != < <= > >= ! && ||`, []tokenExpectation{
		{PLUS, "+"},
		{MINUS, "-"},
		{STAR, "*"},
		{SLASH, "/"},
		{PERCENT, "%"},
		{CARET, "^"},
		{ASSIGN, "="},
		{EQ, "=="},
		{NEQ, "!="},
		{LT, "<"},
		{LTE, "<="},
		{GT, ">"},
		{GTE, ">="},
		{BANG, "!"},
		{AND, "&&"},
		{OR, "||"},
		{EOF, ""},
	})
}

func TestTokenizeKeywords(t *testing.T) {
	assertTokens(t, `var func if else while for return break continue true false null`, []tokenExpectation{
		{VAR, "var"},
		{FUNC, "func"},
		{IF, "if"},
		{ELSE, "else"},
		{WHILE, "while"},
		{FOR, "for"},
		{RETURN, "return"},
		{BREAK, "break"},
		{CONTINUE, "continue"},
		{TRUE, "true"},
		{FALSE, "false"},
		{NULL, "null"},
		{EOF, ""},
	})
}

func TestTokenizeStringEscapes(t *testing.T) {
	assertTokens(t, `"a\tb\n\"c\""`, []tokenExpectation{
		{STRING, "a\tb\n\"c\""},
		{EOF, ""},
	})
}

func TestTokenizeCallExpression(t *testing.T) {
	assertTokens(t, `print("hi", items[0]);`, []tokenExpectation{
		{IDENT, "print"},
		{LPAREN, "("},
		{STRING, "hi"},
		{COMMA, ","},
		{IDENT, "items"},
		{LBRACKET, "["},
		{NUMBER, "0"},
		{RBRACKET, "]"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{EOF, ""},
	})
}

func TestTokenizeComments(t *testing.T) {
	input := `var a = 1; // trailing
/* block
   comment */ var b = 2;`
	assertTokens(t, input, []tokenExpectation{
		{VAR, "var"},
		{IDENT, "a"},
		{ASSIGN, "="},
		{NUMBER, "1"},
		{SEMICOLON, ";"},
		{VAR, "var"},
		{IDENT, "b"},
		{ASSIGN, "="},
		{NUMBER, "2"},
		{SEMICOLON, ";"},
		{EOF, ""},
	})
}

func TestTokenizeEmptyInput(t *testing.T) {
	assertTokens(t, "", []tokenExpectation{{EOF, ""}})
	assertTokens(t, "  \n\t  ", []tokenExpectation{{EOF, ""}})
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("var x;\n  x = 1;")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}

	type position struct{ Line, Column int }
	want := []position{
		{1, 1},  // var
		{1, 5},  // x
		{1, 6},  // ;
		{2, 3},  // x
		{2, 5},  // =
		{2, 7},  // 1
		{2, 8},  // ;
		{2, 9},  // EOF
	}
	got := make([]position, len(tokens))
	for i, tok := range tokens {
		got[i] = position{tok.Line, tok.Column}
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"unterminated string", `var s = "abc`, "unterminated string literal"},
		{"newline in string", "\"ab\nc\"", "unterminated string literal"},
		{"unterminated block comment", "var a = 1; /* oops", "unterminated block comment"},
		{"bad escape", `"\q"`, "unknown escape sequence"},
		{"single ampersand", "a & b", "unexpected character '&'"},
		{"single pipe", "a | b", "unexpected character '|'"},
		{"dangling dot", "1. + 2", "expected digit after '.'"},
		{"stray character", "a $ b", "unexpected character"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.input)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want error containing %q", tc.input, tc.wantMsg)
			}
			scanErr, ok := err.(*ScanError)
			if !ok {
				t.Fatalf("Tokenize(%q) returned %T, want *ScanError", tc.input, err)
			}
			if !strings.Contains(scanErr.Message, tc.wantMsg) {
				t.Errorf("Tokenize(%q) error %q, want containing %q", tc.input, scanErr.Message, tc.wantMsg)
			}
			if scanErr.Line <= 0 || scanErr.Column <= 0 {
				t.Errorf("Tokenize(%q) error has invalid position %d:%d", tc.input, scanErr.Line, scanErr.Column)
			}
		})
	}
}
