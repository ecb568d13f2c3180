// Package ast defines the abstract syntax tree produced by the parser.
//
// There are four node variants, each carrying a discriminant tag so
// callers can switch on Kind() instead of relying on a class hierarchy.
// Every node is owned exclusively by its parent; the top-level sequence
// returned by the parser owns the root nodes. There is no sharing and no
// cycles.
package ast

import "github.com/marcos-venicius/sas-language/token"

// NodeKind tags which of the four AST variants a Node is.
type NodeKind byte

const (
	// FunctionCallKind tags a FunctionCall node.
	FunctionCallKind NodeKind = 'c'

	// ForLoopKind tags a ForLoop node.
	ForLoopKind NodeKind = 'f'

	// IfStatementKind tags an IfStatement node.
	IfStatementKind NodeKind = 'i'

	// FunctionDefKind tags a FunctionDef node.
	FunctionDefKind NodeKind = 'd'
)

// Node is satisfied by every AST variant.
type Node interface {
	Kind() NodeKind
}

// Argument is a literal function-call argument: a STRING or NUMBER
// token. Identifiers are never valid arguments (spec: "identifiers as
// arguments are a syntax error").
type Argument struct {
	Kind    token.Kind // token.STRING or token.NUMBER
	Literal string
}

// FunctionCall is `name(arg arg ...);` (arguments are separated by
// whitespace only).
type FunctionCall struct {
	Name      string
	Arguments []Argument
}

// Kind implements Node.
func (FunctionCall) Kind() NodeKind { return FunctionCallKind }

// ForLoop is `for start (as name)? ; cond end ; update { body }`.
type ForLoop struct {
	// VarName is the induction-variable binding introduced by
	// `as <name>`. HasVarName is false when the loop omitted it.
	VarName    string
	HasVarName bool

	Start     int
	Condition token.Kind // one of LT, GT, EQ, NEQ
	End       int
	Update    token.Kind // PLUSPLUS or MINUSMINUS

	Body []Node
}

// Kind implements Node.
func (ForLoop) Kind() NodeKind { return ForLoopKind }

// IfStatement is `if name op value { body } (else { body })?`.
type IfStatement struct {
	VarName   string
	Operator  token.Kind // LT or GT
	Value     int
	Body      []Node
	ElseBlock []Node // nil/empty when there is no else branch
}

// Kind implements Node.
func (IfStatement) Kind() NodeKind { return IfStatementKind }

// FunctionDef is `fn name() { body }`.
type FunctionDef struct {
	Name string
	Body []Node
}

// Kind implements Node.
func (FunctionDef) Kind() NodeKind { return FunctionDefKind }
