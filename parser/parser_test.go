package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcos-venicius/sas-language/ast"
	"github.com/marcos-venicius/sas-language/lexer"
	"github.com/marcos-venicius/sas-language/token"
)

func parse(t *testing.T, src string) []ast.Node {
	t.Helper()

	tokens, err := lexer.All(src)
	require.NoError(t, err)

	nodes, err := New(tokens).Parse()
	require.NoError(t, err)

	return nodes
}

func TestParseFunctionCall(t *testing.T) {
	nodes := parse(t, `println('hi');`)
	require.Len(t, nodes, 1)

	call, ok := nodes[0].(*ast.FunctionCall)
	require.True(t, ok)
	require.Equal(t, "println", call.Name)
	require.Equal(t, []ast.Argument{{Kind: token.STRING, Literal: "hi"}}, call.Arguments)
}

func TestParseExitWithNumberArgument(t *testing.T) {
	nodes := parse(t, `exit(7);`)
	require.Len(t, nodes, 1)

	call := nodes[0].(*ast.FunctionCall)
	require.Equal(t, "exit", call.Name)
	require.Equal(t, []ast.Argument{{Kind: token.NUMBER, Literal: "7"}}, call.Arguments)
}

func TestParseForLoopWithBinding(t *testing.T) {
	nodes := parse(t, `for 0 as i; < 3; ++ { println('x'); }`)
	require.Len(t, nodes, 1)

	loop := nodes[0].(*ast.ForLoop)
	require.True(t, loop.HasVarName)
	require.Equal(t, "i", loop.VarName)
	require.Equal(t, 0, loop.Start)
	require.Equal(t, token.LT, loop.Condition)
	require.Equal(t, 3, loop.End)
	require.Equal(t, token.PLUSPLUS, loop.Update)
	require.Len(t, loop.Body, 1)
}

func TestParseForLoopWithoutBinding(t *testing.T) {
	nodes := parse(t, `for 0; < 3; ++ { println('x'); }`)
	require.Len(t, nodes, 1)

	loop := nodes[0].(*ast.ForLoop)
	require.False(t, loop.HasVarName)
}

func TestEmptyForLoopIsDropped(t *testing.T) {
	nodes := parse(t, `for 0; < 3; ++ {}`)
	require.Empty(t, nodes)
}

func TestEmptyIfIsDropped(t *testing.T) {
	nodes := parse(t, `for 0 as i; < 1; ++ { if i < 3 {} }`)
	loop := nodes[0].(*ast.ForLoop)
	require.Empty(t, loop.Body)
}

func TestParseIfWithElse(t *testing.T) {
	nodes := parse(t, `for 0 as i; < 1; ++ { if i < 3 { println('a'); } else { println('b'); } }`)
	loop := nodes[0].(*ast.ForLoop)
	require.Len(t, loop.Body, 1)

	ifs := loop.Body[0].(*ast.IfStatement)
	require.Equal(t, "i", ifs.VarName)
	require.Equal(t, token.LT, ifs.Operator)
	require.Equal(t, 3, ifs.Value)
	require.Len(t, ifs.Body, 1)
	require.Len(t, ifs.ElseBlock, 1)
}

func TestParseIfWithEmptyElse(t *testing.T) {
	nodes := parse(t, `for 0 as i; < 1; ++ { if i < 3 { println('a'); } else {} }`)
	loop := nodes[0].(*ast.ForLoop)
	ifs := loop.Body[0].(*ast.IfStatement)
	require.Empty(t, ifs.ElseBlock)
}

func TestParseFunctionDef(t *testing.T) {
	nodes := parse(t, `fn greet() { println('hello'); } greet();`)
	require.Len(t, nodes, 2)

	def := nodes[0].(*ast.FunctionDef)
	require.Equal(t, "greet", def.Name)
	require.Len(t, def.Body, 1)

	call := nodes[1].(*ast.FunctionCall)
	require.Equal(t, "greet", call.Name)
	require.Empty(t, call.Arguments)
}

func TestParseEmptyFunctionDefIsKept(t *testing.T) {
	nodes := parse(t, `fn noop() {}`)
	require.Len(t, nodes, 1)

	def := nodes[0].(*ast.FunctionDef)
	require.Empty(t, def.Body)
}

func TestParseNestedFunctionDefIsRejected(t *testing.T) {
	tokens, err := lexer.All(`fn outer() { fn inner() { println('x'); } }`)
	require.NoError(t, err)

	_, err = New(tokens).Parse()
	require.Error(t, err)
}

func TestParseFunctionDefInsideForLoopIsRejected(t *testing.T) {
	tokens, err := lexer.All(`for 0;<3;++ { fn foo() { println('z'); } }`)
	require.NoError(t, err)

	_, err = New(tokens).Parse()
	require.Error(t, err)
}

func TestParseFunctionDefInsideIfIsRejected(t *testing.T) {
	tokens, err := lexer.All(`for 0 as i; < 1; ++ { if i < 1 { fn foo() { println('z'); } } }`)
	require.NoError(t, err)

	_, err = New(tokens).Parse()
	require.Error(t, err)
}

func TestParseFunctionDefInsideElseIsRejected(t *testing.T) {
	tokens, err := lexer.All(`for 0 as i; < 1; ++ { if i < 1 { println('a'); } else { fn foo() { println('z'); } } }`)
	require.NoError(t, err)

	_, err = New(tokens).Parse()
	require.Error(t, err)
}

func TestParseIdentifierArgumentIsSyntaxError(t *testing.T) {
	tokens, err := lexer.All(`println(x);`)
	require.NoError(t, err)

	_, err = New(tokens).Parse()
	require.Error(t, err)
}

func TestParseEqualityOperatorInIfIsRejected(t *testing.T) {
	tokens, err := lexer.All(`for 0 as i; < 1; ++ { if i == 3 { println('x'); } }`)
	require.NoError(t, err)

	_, err = New(tokens).Parse()
	require.Error(t, err)
}

func TestParseMissingSemicolonIsError(t *testing.T) {
	tokens, err := lexer.All(`println('hi')`)
	require.NoError(t, err)

	_, err = New(tokens).Parse()
	require.Error(t, err)
}
