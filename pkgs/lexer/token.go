package lexer

import "fmt"

// TokenType represents the type of a token in Lamina source.
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals and identifiers
	IDENT  // x, total, print
	NUMBER // 42, 3.14
	STRING // "hello"

	// Keywords
	VAR      // var
	FUNC     // func
	IF       // if
	ELSE     // else
	WHILE    // while
	FOR      // for
	RETURN   // return
	BREAK    // break
	CONTINUE // continue
	TRUE     // true
	FALSE    // false
	NULL     // null

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	CARET   // ^
	ASSIGN  // =
	EQ      // ==
	NEQ     // !=
	LT      // <
	LTE     // <=
	GT      // >
	GTE     // >=
	BANG    // !
	AND     // &&
	OR      // ||

	// Punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
)

// Pre-computed token name lookup for fast debugging
var tokenNames = [...]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	VAR:       "VAR",
	FUNC:      "FUNC",
	IF:        "IF",
	ELSE:      "ELSE",
	WHILE:     "WHILE",
	FOR:       "FOR",
	RETURN:    "RETURN",
	BREAK:     "BREAK",
	CONTINUE:  "CONTINUE",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	NULL:      "NULL",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	STAR:      "STAR",
	SLASH:     "SLASH",
	PERCENT:   "PERCENT",
	CARET:     "CARET",
	ASSIGN:    "ASSIGN",
	EQ:        "EQ",
	NEQ:       "NEQ",
	LT:        "LT",
	LTE:       "LTE",
	GT:        "GT",
	GTE:       "GTE",
	BANG:      "BANG",
	AND:       "AND",
	OR:        "OR",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	LBRACKET:  "LBRACKET",
	RBRACKET:  "RBRACKET",
	COMMA:     "COMMA",
	SEMICOLON: "SEMICOLON",
}

func (t TokenType) String() string {
	if int(t) >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"var":      VAR,
	"func":     FUNC,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
}

// LookupIdent returns the keyword type for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) TokenType {
	if kw, ok := keywords[ident]; ok {
		return kw
	}
	return IDENT
}

// Token is a single lexical unit with its source position.
type Token struct {
	Type   TokenType
	Value  string
	Line   int // 1-based
	Column int // 1-based
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Value, t.Line, t.Column)
}
