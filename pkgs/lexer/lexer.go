package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ASCII character lookup tables for fast classification
var (
	isWhitespace [128]bool
	isDigit      [128]bool
	isIdentStart [128]bool
	isIdentPart  [128]bool

	singleCharTokens [128]TokenType
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
		singleCharTokens[i] = ILLEGAL
	}

	singleCharTokens['+'] = PLUS
	singleCharTokens['-'] = MINUS
	singleCharTokens['*'] = STAR
	singleCharTokens['%'] = PERCENT
	singleCharTokens['^'] = CARET
	singleCharTokens['('] = LPAREN
	singleCharTokens[')'] = RPAREN
	singleCharTokens['{'] = LBRACE
	singleCharTokens['}'] = RBRACE
	singleCharTokens['['] = LBRACKET
	singleCharTokens[']'] = RBRACKET
	singleCharTokens[','] = COMMA
	singleCharTokens[';'] = SEMICOLON
}

// ScanError reports a lexical failure with its source position.
type ScanError struct {
	Line    int
	Column  int
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Lexer is a single-pass scanner over Lamina source text.
type Lexer struct {
	input    string
	position int  // byte offset of ch
	readPos  int  // byte offset after ch
	ch       rune // current rune, 0 at EOF
	line     int
	column   int
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0, // incremented to 1 by the first readChar
	}
	l.readChar()
	return l
}

// Tokenize scans src to completion. The returned slice always ends with an
// EOF token on success.
func Tokenize(src string) ([]Token, error) {
	return New(src).Tokenize()
}

// Tokenize scans the remaining input to completion.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	line, column := l.line, l.column

	switch {
	case l.ch == 0:
		return Token{Type: EOF, Line: line, Column: column}, nil

	case l.ch < 128 && isIdentStart[l.ch]:
		ident := l.readIdentifier()
		return Token{Type: LookupIdent(ident), Value: ident, Line: line, Column: column}, nil

	case l.ch < 128 && isDigit[l.ch]:
		num, err := l.readNumber()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: NUMBER, Value: num, Line: line, Column: column}, nil

	case l.ch == '"':
		str, err := l.readString()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: STRING, Value: str, Line: line, Column: column}, nil

	case l.ch == '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: EQ, Value: "==", Line: line, Column: column}, nil
		}
		return Token{Type: ASSIGN, Value: "=", Line: line, Column: column}, nil

	case l.ch == '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: NEQ, Value: "!=", Line: line, Column: column}, nil
		}
		return Token{Type: BANG, Value: "!", Line: line, Column: column}, nil

	case l.ch == '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: LTE, Value: "<=", Line: line, Column: column}, nil
		}
		return Token{Type: LT, Value: "<", Line: line, Column: column}, nil

	case l.ch == '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: GTE, Value: ">=", Line: line, Column: column}, nil
		}
		return Token{Type: GT, Value: ">", Line: line, Column: column}, nil

	case l.ch == '&':
		l.readChar()
		if l.ch == '&' {
			l.readChar()
			return Token{Type: AND, Value: "&&", Line: line, Column: column}, nil
		}
		return Token{}, &ScanError{Line: line, Column: column, Message: "unexpected character '&' (did you mean '&&'?)"}

	case l.ch == '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			return Token{Type: OR, Value: "||", Line: line, Column: column}, nil
		}
		return Token{}, &ScanError{Line: line, Column: column, Message: "unexpected character '|' (did you mean '||'?)"}

	case l.ch == '/':
		// Comments are consumed by skipWhitespaceAndComments, so a slash
		// here is always the division operator.
		l.readChar()
		return Token{Type: SLASH, Value: "/", Line: line, Column: column}, nil

	case l.ch < 128 && singleCharTokens[l.ch] != ILLEGAL:
		typ := singleCharTokens[l.ch]
		value := string(l.ch)
		l.readChar()
		return Token{Type: typ, Value: value, Line: line, Column: column}, nil

	default:
		ch := l.ch
		return Token{}, &ScanError{Line: line, Column: column, Message: fmt.Sprintf("unexpected character %q", ch)}
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.column++
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.ch = r
	l.position = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch {
		case l.ch != 0 && l.ch < 128 && isWhitespace[l.ch]:
			l.readChar()

		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}

		case l.ch == '/' && l.peekChar() == '*':
			line, column := l.line, l.column
			l.readChar() // consume '/'
			l.readChar() // consume '*'
			for {
				if l.ch == 0 {
					return &ScanError{Line: line, Column: column, Message: "unterminated block comment"}
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}

		default:
			return nil
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for (l.ch < 128 && isIdentPart[l.ch]) || (l.ch >= 128 && unicode.IsLetter(l.ch)) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() (string, error) {
	start := l.position
	for l.ch < 128 && l.ch != 0 && isDigit[l.ch] {
		l.readChar()
	}
	if l.ch == '.' {
		if p := l.peekChar(); !(p < 128 && p != 0 && isDigit[p]) {
			return "", &ScanError{Line: l.line, Column: l.column, Message: "malformed number: expected digit after '.'"}
		}
		l.readChar()
		for l.ch < 128 && l.ch != 0 && isDigit[l.ch] {
			l.readChar()
		}
	}
	return l.input[start:l.position], nil
}

func (l *Lexer) readString() (string, error) {
	line, column := l.line, l.column
	l.readChar() // consume opening quote

	var sb strings.Builder
	for {
		switch l.ch {
		case 0, '\n':
			return "", &ScanError{Line: line, Column: column, Message: "unterminated string literal"}
		case '"':
			l.readChar()
			return sb.String(), nil
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				return "", &ScanError{Line: l.line, Column: l.column, Message: fmt.Sprintf("unknown escape sequence '\\%c'", l.ch)}
			}
			l.readChar()
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}
