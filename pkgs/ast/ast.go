// Package ast defines the syntax tree produced by the parser and walked by
// the interpreter. Nodes keep the token that introduced them so later stages
// can report positions.
package ast

import "github.com/lamina-lang/lamina/pkgs/lexer"

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() (line, column int)
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ---- Expressions ----

// NumberLit is a numeric literal such as 42 or 3.14.
type NumberLit struct {
	Token lexer.Token
	Value float64
}

// StringLit is a double-quoted string literal, unescaped.
type StringLit struct {
	Token lexer.Token
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	Token lexer.Token
	Value bool
}

// NullLit is the null literal.
type NullLit struct {
	Token lexer.Token
}

// Ident is a name reference.
type Ident struct {
	Token lexer.Token
	Name  string
}

// Unary is a prefix operation: -x or !x.
type Unary struct {
	Op    lexer.Token
	Right Expr
}

// Binary is an arithmetic or comparison operation.
type Binary struct {
	Left  Expr
	Op    lexer.Token
	Right Expr
}

// Logical is a short-circuiting && or || operation.
type Logical struct {
	Left  Expr
	Op    lexer.Token
	Right Expr
}

// Grouping is a parenthesized expression.
type Grouping struct {
	LParen lexer.Token
	Inner  Expr
}

// Call invokes a function value with arguments.
type Call struct {
	Callee Expr
	LParen lexer.Token
	Args   []Expr
}

// Index reads an element from an array or a character from a string.
type Index struct {
	Bracket   lexer.Token
	Target    Expr
	Subscript Expr
}

// ArrayLit is an array literal: [1, 2, 3].
type ArrayLit struct {
	LBracket lexer.Token
	Elems    []Expr
}

// Assign writes a value to an existing variable.
type Assign struct {
	Name  lexer.Token
	Value Expr
}

// IndexAssign writes a value to an array element: xs[i] = v.
type IndexAssign struct {
	Bracket   lexer.Token
	Target    Expr
	Subscript Expr
	Value     Expr
}

func (n *NumberLit) Pos() (int, int) { return n.Token.Line, n.Token.Column }
func (n *StringLit) Pos() (int, int) { return n.Token.Line, n.Token.Column }
func (n *BoolLit) Pos() (int, int) { return n.Token.Line, n.Token.Column }
func (n *NullLit) Pos() (int, int) { return n.Token.Line, n.Token.Column }
func (n *Ident) Pos() (int, int) { return n.Token.Line, n.Token.Column }
func (n *Unary) Pos() (int, int) { return n.Op.Line, n.Op.Column }
func (n *Binary) Pos() (int, int) { return n.Op.Line, n.Op.Column }
func (n *Logical) Pos() (int, int) { return n.Op.Line, n.Op.Column }
func (n *Grouping) Pos() (int, int) { return n.LParen.Line, n.LParen.Column }
func (n *Call) Pos() (int, int) { return n.LParen.Line, n.LParen.Column }
func (n *Index) Pos() (int, int) { return n.Bracket.Line, n.Bracket.Column }
func (n *ArrayLit) Pos() (int, int) { return n.LBracket.Line, n.LBracket.Column }
func (n *Assign) Pos() (int, int) { return n.Name.Line, n.Name.Column }
func (n *IndexAssign) Pos() (int, int) { return n.Bracket.Line, n.Bracket.Column }

func (*NumberLit) exprNode() {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode() {}
func (*NullLit) exprNode() {}
func (*Ident) exprNode() {}
func (*Unary) exprNode() {}
func (*Binary) exprNode() {}
func (*Logical) exprNode() {}
func (*Grouping) exprNode() {}
func (*Call) exprNode() {}
func (*Index) exprNode() {}
func (*ArrayLit) exprNode() {}
func (*Assign) exprNode() {}
func (*IndexAssign) exprNode() {}

// ---- Statements ----

// Block is a brace-delimited statement list. The parser returns the whole
// program as one top-level Block.
type Block struct {
	LBrace lexer.Token
	Stmts  []Stmt
}

// VarDecl declares a variable, optionally with an initializer.
type VarDecl struct {
	Name lexer.Token
	Init Expr // nil means initialize to null
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	E Expr
}

// If executes Then when Cond is truthy, otherwise Else (which may be nil,
// another If for else-if chains, or a Block).
type If struct {
	Keyword lexer.Token
	Cond    Expr
	Then    *Block
	Else    Stmt
}

// While loops while Cond is truthy.
type While struct {
	Keyword lexer.Token
	Cond    Expr
	Body    *Block
}

// For is a C-style loop. Init and Post may be nil; a nil Cond loops forever.
type For struct {
	Keyword lexer.Token
	Init    Stmt
	Cond    Expr
	Post    Stmt
	Body    *Block
}

// FuncDecl declares a named function.
type FuncDecl struct {
	Name   lexer.Token
	Params []lexer.Token
	Body   *Block
}

// Return exits the enclosing function, with an optional value.
type Return struct {
	Keyword lexer.Token
	Value   Expr // nil means return null
}

// Break exits the enclosing loop.
type Break struct {
	Keyword lexer.Token
}

// Continue skips to the next iteration of the enclosing loop.
type Continue struct {
	Keyword lexer.Token
}

func (n *Block) Pos() (int, int) { return n.LBrace.Line, n.LBrace.Column }
func (n *VarDecl) Pos() (int, int) { return n.Name.Line, n.Name.Column }
func (n *ExprStmt) Pos() (int, int) { return n.E.Pos() }
func (n *If) Pos() (int, int) { return n.Keyword.Line, n.Keyword.Column }
func (n *While) Pos() (int, int) { return n.Keyword.Line, n.Keyword.Column }
func (n *For) Pos() (int, int) { return n.Keyword.Line, n.Keyword.Column }
func (n *FuncDecl) Pos() (int, int) { return n.Name.Line, n.Name.Column }
func (n *Return) Pos() (int, int) { return n.Keyword.Line, n.Keyword.Column }
func (n *Break) Pos() (int, int) { return n.Keyword.Line, n.Keyword.Column }
func (n *Continue) Pos() (int, int) { return n.Keyword.Line, n.Keyword.Column }

func (*Block) stmtNode() {}
func (*VarDecl) stmtNode() {}
func (*ExprStmt) stmtNode() {}
func (*If) stmtNode() {}
func (*While) stmtNode() {}
func (*For) stmtNode() {}
func (*FuncDecl) stmtNode() {}
func (*Return) stmtNode() {}
func (*Break) stmtNode() {}
func (*Continue) stmtNode() {}
