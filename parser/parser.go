// Package parser implements the recursive-descent parser that turns a
// token stream into a forest of top-level ast.Node statements.
//
// The grammar is grounded directly on the reference implementation this
// language was distilled from: statement dispatch on the leading
// symbol's literal, one-token lookahead (Parser.peek), and the
// "expect one of these kinds or fail" helper (Parser.expectNext) that
// the original calls expect_next.
package parser

import (
	"fmt"
	"strconv"

	"github.com/marcos-venicius/sas-language/ast"
	"github.com/marcos-venicius/sas-language/token"
)

// Parser holds the parsing state: the full token sequence and a cursor
// into it. There is unbounded one-token lookahead via peek.
type Parser struct {
	tokens []token.Token
	cursor int

	// bodyDepth counts how many block bodies (for, if/else, fn) are
	// currently open around the cursor. A `fn` definition nested inside
	// any of them — not just inside another `fn` — is rejected rather
	// than emitted as unreachable inline code with no jump around it.
	bodyDepth int
}

// New creates a Parser over a token sequence produced by the lexer. The
// sequence must end with exactly one EOF token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the token sequence and returns the forest of top-level
// statements. Empty for-loop and if-statement bodies are dropped at
// parse time and contribute no node.
func (p *Parser) Parse() ([]ast.Node, error) {
	var nodes []ast.Node

	for p.cursor < len(p.tokens) {
		node, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		p.advance()

		if node != nil {
			nodes = append(nodes, node)
		}
	}

	return nodes, nil
}

func (p *Parser) current() token.Token {
	if p.cursor >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.cursor]
}

func (p *Parser) peek() token.Token {
	idx := p.cursor + 1
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() {
	p.cursor++
}

// expectNext requires that the token immediately following the cursor
// is one of kinds, advances the cursor onto it, and returns it.
func (p *Parser) expectNext(kinds ...token.Kind) (token.Token, error) {
	next := p.peek()

	for _, k := range kinds {
		if next.Kind == k {
			p.advance()
			return next, nil
		}
	}

	return token.Token{}, fmt.Errorf("expected %s but received %q", kindList(kinds), next.Kind)
}

// expectNextWhere requires that the token immediately following the
// cursor satisfies pred, advances the cursor onto it, and returns it.
// desc names the expected class of token for the error message.
func (p *Parser) expectNextWhere(pred func(token.Kind) bool, desc string) (token.Token, error) {
	next := p.peek()

	if !pred(next.Kind) {
		return token.Token{}, fmt.Errorf("expected %s but received %q", desc, next.Kind)
	}

	p.advance()
	return next, nil
}

func kindList(kinds []token.Kind) string {
	if len(kinds) == 1 {
		return fmt.Sprintf("%q", kinds[0])
	}

	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += " or "
		}
		s += fmt.Sprintf("%q", k)
	}
	return s
}

// parseStatement parses exactly one top-level-or-nested statement,
// starting from whatever token the cursor currently sits on. It returns
// a nil node (with no error) when the statement was dropped at parse
// time (an empty for-loop or if-statement body) or when EOF was reached.
func (p *Parser) parseStatement() (ast.Node, error) {
	tok := p.current()

	switch tok.Kind {
	case token.EOF:
		return nil, nil
	case token.SYMBOL:
		return p.parseSymbolStatement()
	default:
		return nil, fmt.Errorf("unexpected token kind %q at statement position", tok.Kind)
	}
}

func (p *Parser) parseSymbolStatement() (ast.Node, error) {
	tok := p.current()

	switch tok.Literal {
	case "for":
		return p.parseForLoop()
	case "if":
		return p.parseIfStatement()
	case "fn":
		return p.parseFunctionDef()
	}

	next := p.peek()
	if next.Kind != token.LPAREN {
		return nil, fmt.Errorf("unexpected syntax %q after symbol %q", next.Kind, tok.Literal)
	}

	return p.parseFunctionCall()
}

// parseFunctionCall parses `name(arg arg ...);`. Arguments require no
// separator between them (the lexer has no comma token); only literal
// STRING/NUMBER tokens are valid.
func (p *Parser) parseFunctionCall() (ast.Node, error) {
	name := p.current()

	if _, err := p.expectNext(token.LPAREN); err != nil {
		return nil, err
	}

	p.advance()

	var args []ast.Argument

	for p.current().Kind != token.RPAREN {
		cur := p.current()

		switch cur.Kind {
		case token.STRING:
			args = append(args, ast.Argument{Kind: token.STRING, Literal: cur.Literal})
		case token.NUMBER:
			args = append(args, ast.Argument{Kind: token.NUMBER, Literal: cur.Literal})
		case token.EOF:
			return nil, fmt.Errorf("missing ')' in call to %q", name.Literal)
		default:
			return nil, fmt.Errorf("unhandled argument kind %q in call to %q", cur.Kind, name.Literal)
		}

		p.advance()
	}

	if _, err := p.expectNext(token.SEMI); err != nil {
		return nil, err
	}

	return &ast.FunctionCall{Name: name.Literal, Arguments: args}, nil
}

// parseBody parses a `{ ... }` block. The cursor must be sitting on the
// LBRACE when called; on return (success) it sits on the matching
// RBRACE. empty reports whether the block was lexically `{}` with no
// statements at all — distinct from a block whose statements all
// reduced to nothing (e.g. a nested empty for-loop), which is NOT
// reported as empty.
func (p *Parser) parseBody() (body []ast.Node, empty bool, err error) {
	if p.peek().Kind == token.RBRACE {
		p.advance()
		return nil, true, nil
	}

	p.advance()

	for p.current().Kind != token.RBRACE {
		if p.current().Kind == token.EOF {
			return nil, false, fmt.Errorf("missing '}'")
		}

		node, err := p.parseStatement()
		if err != nil {
			return nil, false, err
		}

		p.advance()

		if node != nil {
			body = append(body, node)
		}
	}

	return body, false, nil
}

// parseNestedBody parses a `{ ... }` block the same way parseBody does,
// while counting it toward bodyDepth for the duration of the parse.
func (p *Parser) parseNestedBody() (body []ast.Node, empty bool, err error) {
	p.bodyDepth++
	body, empty, err = p.parseBody()
	p.bodyDepth--
	return body, empty, err
}

// parseForLoop parses `for start (as name)? ; cond end ; update { body }`.
// An empty body drops the whole node (returns nil, nil).
func (p *Parser) parseForLoop() (ast.Node, error) {
	startTok, err := p.expectNext(token.NUMBER)
	if err != nil {
		return nil, err
	}

	az, err := p.expectNext(token.SEMI, token.SYMBOL)
	if err != nil {
		return nil, err
	}

	var varName string
	var hasVarName bool

	if az.Kind == token.SYMBOL {
		if az.Literal != "as" {
			return nil, fmt.Errorf("invalid syntax %q in for-loop header", az.Literal)
		}

		nameTok, err := p.expectNext(token.SYMBOL)
		if err != nil {
			return nil, err
		}
		varName = nameTok.Literal
		hasVarName = true

		if _, err := p.expectNext(token.SEMI); err != nil {
			return nil, err
		}
	}

	condTok, err := p.expectNextWhere(token.IsComparison, `a comparison operator ("<", ">", "==" or "!=")`)
	if err != nil {
		return nil, err
	}

	endTok, err := p.expectNext(token.NUMBER)
	if err != nil {
		return nil, err
	}

	if _, err := p.expectNext(token.SEMI); err != nil {
		return nil, err
	}

	updateTok, err := p.expectNextWhere(token.IsUpdate, `an update operator ("++" or "--")`)
	if err != nil {
		return nil, err
	}

	if _, err := p.expectNext(token.LBRACE); err != nil {
		return nil, err
	}

	body, empty, err := p.parseNestedBody()
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}

	start, err := strconv.Atoi(startTok.Literal)
	if err != nil {
		return nil, fmt.Errorf("invalid for-loop start value %q: %w", startTok.Literal, err)
	}
	end, err := strconv.Atoi(endTok.Literal)
	if err != nil {
		return nil, fmt.Errorf("invalid for-loop end value %q: %w", endTok.Literal, err)
	}

	return &ast.ForLoop{
		VarName:    varName,
		HasVarName: hasVarName,
		Start:      start,
		Condition:  condTok.Kind,
		End:        end,
		Update:     updateTok.Kind,
		Body:       body,
	}, nil
}

// parseIfStatement parses `if name op value { body } (else { body })?`.
// An empty then-block drops the whole node (returns nil, nil).
func (p *Parser) parseIfStatement() (ast.Node, error) {
	varTok, err := p.expectNext(token.SYMBOL)
	if err != nil {
		return nil, err
	}

	opTok, err := p.expectNext(token.LT, token.GT)
	if err != nil {
		return nil, err
	}

	valTok, err := p.expectNext(token.NUMBER)
	if err != nil {
		return nil, err
	}

	if _, err := p.expectNext(token.LBRACE); err != nil {
		return nil, err
	}

	body, empty, err := p.parseNestedBody()
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}

	value, err := strconv.Atoi(valTok.Literal)
	if err != nil {
		return nil, fmt.Errorf("invalid if-statement value %q: %w", valTok.Literal, err)
	}

	node := &ast.IfStatement{
		VarName:  varTok.Literal,
		Operator: opTok.Kind,
		Value:    value,
		Body:     body,
	}

	if p.peek().Kind == token.SYMBOL && p.peek().Literal == "else" {
		if _, err := p.expectNext(token.SYMBOL); err != nil {
			return nil, err
		}
		if _, err := p.expectNext(token.LBRACE); err != nil {
			return nil, err
		}

		elseBody, _, err := p.parseNestedBody()
		if err != nil {
			return nil, err
		}
		node.ElseBlock = elseBody
	}

	return node, nil
}

// parseFunctionDef parses `fn name() { body }`. An empty body is
// permitted (unlike for-loops and if-statements).
func (p *Parser) parseFunctionDef() (ast.Node, error) {
	nameTok, err := p.expectNext(token.SYMBOL)
	if err != nil {
		return nil, err
	}

	if p.bodyDepth > 0 {
		return nil, fmt.Errorf("nested function definition %q is not allowed", nameTok.Literal)
	}

	if _, err := p.expectNext(token.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expectNext(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expectNext(token.LBRACE); err != nil {
		return nil, err
	}

	body, _, err := p.parseNestedBody()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{Name: nameTok.Literal, Body: body}, nil
}
