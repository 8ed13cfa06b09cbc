// Package parser turns a token stream into a syntax tree by recursive
// descent. The whole program is returned as a single top-level block.
package parser

import (
	"fmt"
	"strconv"

	"github.com/lamina-lang/lamina/pkgs/ast"
	"github.com/lamina-lang/lamina/pkgs/lexer"
)

// ParseError reports a syntax failure with its source position.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func errorAt(tok lexer.Token, format string, args ...any) *ParseError {
	return &ParseError{
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// Parse consumes a token stream and returns the program as one top-level
// block. The stream must end with an EOF token; an empty program parses to
// an empty block.
func Parse(tokens []lexer.Token) (*ast.Block, error) {
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

type parser struct {
	tokens  []lexer.Token
	current int
}

func (p *parser) parseProgram() (*ast.Block, error) {
	block := &ast.Block{}
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, nil
}

// ---- token helpers ----

func (p *parser) peek() lexer.Token {
	if p.current >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return lexer.Token{Type: lexer.EOF, Line: 1, Column: 1}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *parser) atEnd() bool {
	return p.peek().Type == lexer.EOF
}

func (p *parser) advance() lexer.Token {
	tok := p.peek()
	if !p.atEnd() {
		p.current++
	}
	return tok
}

func (p *parser) check(typ lexer.TokenType) bool {
	return p.peek().Type == typ
}

func (p *parser) match(types ...lexer.TokenType) (lexer.Token, bool) {
	for _, typ := range types {
		if p.check(typ) {
			return p.advance(), true
		}
	}
	return lexer.Token{}, false
}

func (p *parser) expect(typ lexer.TokenType, what string) (lexer.Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	tok := p.peek()
	if tok.Type == lexer.EOF {
		return lexer.Token{}, errorAt(tok, "expected %s, found end of input", what)
	}
	return lexer.Token{}, errorAt(tok, "expected %s, found '%s'", what, tok.Value)
}

// ---- statements ----

func (p *parser) declaration() (ast.Stmt, error) {
	switch p.peek().Type {
	case lexer.VAR:
		return p.varDecl()
	case lexer.FUNC:
		return p.funcDecl()
	default:
		return p.statement()
	}
}

func (p *parser) varDecl() (ast.Stmt, error) {
	p.advance() // var
	name, err := p.expect(lexer.IDENT, "variable name")
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if _, ok := p.match(lexer.ASSIGN); ok {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.SEMICOLON, "';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Name: name, Init: init}, nil
}

func (p *parser) funcDecl() (ast.Stmt, error) {
	p.advance() // func
	name, err := p.expect(lexer.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "'(' after function name"); err != nil {
		return nil, err
	}

	var params []lexer.Token
	if !p.check(lexer.RPAREN) {
		for {
			param, err := p.expect(lexer.IDENT, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if _, ok := p.match(lexer.COMMA); !ok {
				break
			}
		}
	}
	if _, err := p.expect(lexer.RPAREN, "')' after parameters"); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: name, Params: params, Body: body}, nil
}

func (p *parser) statement() (ast.Stmt, error) {
	switch p.peek().Type {
	case lexer.IF:
		return p.ifStmt()
	case lexer.WHILE:
		return p.whileStmt()
	case lexer.FOR:
		return p.forStmt()
	case lexer.RETURN:
		return p.returnStmt()
	case lexer.BREAK:
		tok := p.advance()
		if _, err := p.expect(lexer.SEMICOLON, "';' after 'break'"); err != nil {
			return nil, err
		}
		return &ast.Break{Keyword: tok}, nil
	case lexer.CONTINUE:
		tok := p.advance()
		if _, err := p.expect(lexer.SEMICOLON, "';' after 'continue'"); err != nil {
			return nil, err
		}
		return &ast.Continue{Keyword: tok}, nil
	case lexer.LBRACE:
		return p.block()
	default:
		return p.exprStmt()
	}
}

func (p *parser) block() (*ast.Block, error) {
	lbrace, err := p.expect(lexer.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}

	block := &ast.Block{LBrace: lbrace}
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	if _, err := p.expect(lexer.RBRACE, "'}' after block"); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *parser) ifStmt() (ast.Stmt, error) {
	keyword := p.advance() // if
	if _, err := p.expect(lexer.LPAREN, "'(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "')' after condition"); err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	var elseStmt ast.Stmt
	if _, ok := p.match(lexer.ELSE); ok {
		if p.check(lexer.IF) {
			elseStmt, err = p.ifStmt()
		} else {
			elseStmt, err = p.block()
		}
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Keyword: keyword, Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *parser) whileStmt() (ast.Stmt, error) {
	keyword := p.advance() // while
	if _, err := p.expect(lexer.LPAREN, "'(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "')' after condition"); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.While{Keyword: keyword, Cond: cond, Body: body}, nil
}

func (p *parser) forStmt() (ast.Stmt, error) {
	keyword := p.advance() // for
	if _, err := p.expect(lexer.LPAREN, "'(' after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	switch {
	case p.check(lexer.SEMICOLON):
		p.advance()
	case p.check(lexer.VAR):
		init, err = p.varDecl()
		if err != nil {
			return nil, err
		}
	default:
		init, err = p.exprStmt()
		if err != nil {
			return nil, err
		}
	}

	var cond ast.Expr
	if !p.check(lexer.SEMICOLON) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMICOLON, "';' after loop condition"); err != nil {
		return nil, err
	}

	var post ast.Stmt
	if !p.check(lexer.RPAREN) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		post = &ast.ExprStmt{E: expr}
	}
	if _, err := p.expect(lexer.RPAREN, "')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.For{Keyword: keyword, Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *parser) returnStmt() (ast.Stmt, error) {
	keyword := p.advance() // return

	var value ast.Expr
	if !p.check(lexer.SEMICOLON) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMICOLON, "';' after return value"); err != nil {
		return nil, err
	}
	return &ast.Return{Keyword: keyword, Value: value}, nil
}

func (p *parser) exprStmt() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON, "';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{E: expr}, nil
}

// ---- expressions, by descending precedence ----

func (p *parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (ast.Expr, error) {
	expr, err := p.logicalOr()
	if err != nil {
		return nil, err
	}

	if eq, ok := p.match(lexer.ASSIGN); ok {
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.Ident:
			return &ast.Assign{Name: target.Token, Value: value}, nil
		case *ast.Index:
			return &ast.IndexAssign{
				Bracket:   target.Bracket,
				Target:    target.Target,
				Subscript: target.Subscript,
				Value:     value,
			}, nil
		default:
			return nil, errorAt(eq, "invalid assignment target")
		}
	}
	return expr, nil
}

func (p *parser) logicalOr() (ast.Expr, error) {
	expr, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(lexer.OR)
		if !ok {
			return expr, nil
		}
		right, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
}

func (p *parser) logicalAnd() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(lexer.AND)
		if !ok {
			return expr, nil
		}
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
}

func (p *parser) equality() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(lexer.EQ, lexer.NEQ)
		if !ok {
			return expr, nil
		}
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
}

func (p *parser) comparison() (ast.Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(lexer.LT, lexer.LTE, lexer.GT, lexer.GTE)
		if !ok {
			return expr, nil
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
}

func (p *parser) term() (ast.Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(lexer.PLUS, lexer.MINUS)
		if !ok {
			return expr, nil
		}
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
}

func (p *parser) factor() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(lexer.STAR, lexer.SLASH, lexer.PERCENT)
		if !ok {
			return expr, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
}

func (p *parser) unary() (ast.Expr, error) {
	if op, ok := p.match(lexer.MINUS, lexer.BANG); ok {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Right: right}, nil
	}
	return p.power()
}

// power handles '^', which is right-associative: 2^3^2 is 2^(3^2).
func (p *parser) power() (ast.Expr, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if op, ok := p.match(lexer.CARET); ok {
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Left: base, Op: op, Right: exp}, nil
	}
	return base, nil
}

func (p *parser) postfix() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.check(lexer.LPAREN):
			lparen := p.advance()
			var args []ast.Expr
			if !p.check(lexer.RPAREN) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if _, ok := p.match(lexer.COMMA); !ok {
						break
					}
				}
			}
			if _, err := p.expect(lexer.RPAREN, "')' after arguments"); err != nil {
				return nil, err
			}
			expr = &ast.Call{Callee: expr, LParen: lparen, Args: args}

		case p.check(lexer.LBRACKET):
			bracket := p.advance()
			sub, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET, "']' after index"); err != nil {
				return nil, err
			}
			expr = &ast.Index{Bracket: bracket, Target: expr, Subscript: sub}

		default:
			return expr, nil
		}
	}
}

func (p *parser) primary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		value, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, errorAt(tok, "malformed number literal '%s'", tok.Value)
		}
		return &ast.NumberLit{Token: tok, Value: value}, nil

	case lexer.STRING:
		p.advance()
		return &ast.StringLit{Token: tok, Value: tok.Value}, nil

	case lexer.TRUE:
		p.advance()
		return &ast.BoolLit{Token: tok, Value: true}, nil

	case lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Token: tok, Value: false}, nil

	case lexer.NULL:
		p.advance()
		return &ast.NullLit{Token: tok}, nil

	case lexer.IDENT:
		p.advance()
		return &ast.Ident{Token: tok, Name: tok.Value}, nil

	case lexer.LPAREN:
		lparen := p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "')' after expression"); err != nil {
			return nil, err
		}
		return &ast.Grouping{LParen: lparen, Inner: inner}, nil

	case lexer.LBRACKET:
		lbracket := p.advance()
		var elems []ast.Expr
		if !p.check(lexer.RBRACKET) {
			for {
				elem, err := p.expression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, elem)
				if _, ok := p.match(lexer.COMMA); !ok {
					break
				}
			}
		}
		if _, err := p.expect(lexer.RBRACKET, "']' after array elements"); err != nil {
			return nil, err
		}
		return &ast.ArrayLit{LBracket: lbracket, Elems: elems}, nil

	case lexer.EOF:
		return nil, errorAt(tok, "unexpected end of input")

	default:
		return nil, errorAt(tok, "unexpected token '%s'", tok.Value)
	}
}
