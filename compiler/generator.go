package compiler

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/marcos-venicius/sas-language/ast"
	"github.com/marcos-venicius/sas-language/instructions"
	"github.com/marcos-venicius/sas-language/token"
)

// compileNode dispatches on the AST node's dynamic type and emits into
// fd, the currently active emission buffer (text_main, a function
// body, or a for-loop's enclosing buffer — whichever was active when
// this node's parent started lowering its body).
func (c *Compiler) compileNode(n ast.Node, fd *[]string) error {
	switch node := n.(type) {
	case *ast.FunctionCall:
		return c.compileFunctionCall(node, fd)
	case *ast.ForLoop:
		return c.compileForLoop(node, fd)
	case *ast.IfStatement:
		return c.compileIfStatement(node, fd)
	case *ast.FunctionDef:
		return c.compileFunctionDef(node, fd)
	default:
		return fmt.Errorf("unhandled node kind %T", n)
	}
}

// getStringReference interns a string literal, returning the .data
// label that holds it. The canonical key is the payload, plus a
// "<br/>" suffix when a trailing newline is required, so the same
// textual literal used with and without a linebreak gets two distinct
// labels. The label itself is the first 12 hex characters of the
// SHA-1 digest of that key, underscore-prefixed to form a valid NASM
// identifier.
func (c *Compiler) getStringReference(payload string, linebreak bool) string {
	key := payload
	if linebreak {
		key += "<br/>"
	}

	sum := sha1.Sum([]byte(key))
	label := "_" + hex.EncodeToString(sum[:])[:12]

	if existing, ok := c.dataRefs[key]; ok {
		return existing
	}

	if linebreak {
		c.data = append(c.data, fmt.Sprintf(`%s db "%s", 0x0A`, label, payload))
	} else {
		c.data = append(c.data, fmt.Sprintf(`%s db "%s"`, label, payload))
	}
	c.dataRefs[key] = label

	return label
}

// compileFunctionCall lowers a call to a built-in or user-defined
// function. It first resolves the call to an instructions.Syscall
// value (validating argument count/kind and, for user calls, resolving
// the target label), then emits the text for that value's Kind.
func (c *Compiler) compileFunctionCall(n *ast.FunctionCall, fd *[]string) error {
	sc, err := c.lowerFunctionCall(n)
	if err != nil {
		return err
	}

	switch sc.Kind {
	case instructions.Write:
		*fd = append(*fd,
			"mov rax,0x01",
			"mov rdi,0x01",
			fmt.Sprintf("mov rsi,%s", sc.DataLabel),
			fmt.Sprintf("mov rdx,%d", sc.Length),
			"syscall",
		)
	case instructions.Exit:
		*fd = append(*fd,
			"mov rax,0x3c",
			fmt.Sprintf("mov rdi,%s", sc.ExitCode),
			"syscall",
		)
	case instructions.Call:
		*fd = append(*fd, fmt.Sprintf("call %s", sc.TargetLabel))
	default:
		return fmt.Errorf("unhandled syscall kind %q", sc.Kind)
	}

	return nil
}

// lowerFunctionCall validates fn's name and arguments and produces the
// instructions.Syscall describing how it lowers: print/println to a
// write(1, ...) syscall, exit to an exit(2) syscall, or any other name
// to a call of a previously registered user function.
func (c *Compiler) lowerFunctionCall(n *ast.FunctionCall) (instructions.Syscall, error) {
	switch n.Name {
	case "println":
		if len(n.Arguments) != 1 {
			return instructions.Syscall{}, fmt.Errorf("println expects exactly one argument but got %d", len(n.Arguments))
		}
		if n.Arguments[0].Kind != token.STRING {
			return instructions.Syscall{}, fmt.Errorf("println expects one argument as string but got %s", n.Arguments[0].Kind)
		}

		payload := n.Arguments[0].Literal
		label := c.getStringReference(payload, true)

		return instructions.Syscall{Kind: instructions.Write, DataLabel: label, Length: len(payload) + 1}, nil

	case "print":
		if len(n.Arguments) != 1 {
			return instructions.Syscall{}, fmt.Errorf("print expects exactly one argument but got %d", len(n.Arguments))
		}
		if n.Arguments[0].Kind != token.STRING {
			return instructions.Syscall{}, fmt.Errorf("print expects one argument as string but got %s", n.Arguments[0].Kind)
		}

		payload := n.Arguments[0].Literal
		label := c.getStringReference(payload, false)

		return instructions.Syscall{Kind: instructions.Write, DataLabel: label, Length: len(payload)}, nil

	case "exit":
		if len(n.Arguments) != 1 {
			return instructions.Syscall{}, fmt.Errorf("exit expects exactly one argument but got %d", len(n.Arguments))
		}
		if n.Arguments[0].Kind != token.NUMBER {
			return instructions.Syscall{}, fmt.Errorf("exit expects one argument as number but got %s", n.Arguments[0].Kind)
		}

		return instructions.Syscall{Kind: instructions.Exit, ExitCode: n.Arguments[0].Literal}, nil

	default:
		label, ok := c.fnTable[n.Name]
		if !ok {
			return instructions.Syscall{}, fmt.Errorf("function %q does not exist", n.Name)
		}
		return instructions.Syscall{Kind: instructions.Call, TargetLabel: label}, nil
	}
}

// compileForLoop lowers a for-loop via the fixed HEADER_EMIT ->
// BODY_EMIT -> UPDATE_EMIT -> COND_EMIT -> DONE sequence. The
// induction variable lives on the stack across the body in rbx: it is
// popped into rbx, immediately pushed back so the body sees a stable
// value, and the body is free to clobber rbx as long as it restores
// the stack discipline (it does, because rbx is never otherwise
// touched by this construct).
func (c *Compiler) compileForLoop(n *ast.ForLoop, fd *[]string) error {
	loopLabel := c.nextLabel("for")

	frame := c.scopes.Push(loopLabel)
	if n.HasVarName {
		frame.Vars[n.VarName] = "rbx"
	}

	*fd = append(*fd,
		fmt.Sprintf("push %d", n.Start),
		fmt.Sprintf("%s:", loopLabel),
		"pop rbx",
		"push rbx",
	)

	for _, child := range n.Body {
		if err := c.compileNode(child, fd); err != nil {
			return err
		}
	}

	*fd = append(*fd, "pop rbx")

	switch n.Update {
	case token.PLUSPLUS:
		*fd = append(*fd, "inc rbx")
	case token.MINUSMINUS:
		*fd = append(*fd, "dec rbx")
	default:
		return fmt.Errorf("invalid for-loop update tag %q", n.Update)
	}

	*fd = append(*fd, "push rbx", fmt.Sprintf("cmp rbx,%d", n.End))

	switch n.Condition {
	case token.EQ:
		*fd = append(*fd, fmt.Sprintf("je %s", loopLabel))
	case token.NEQ:
		*fd = append(*fd, fmt.Sprintf("jne %s", loopLabel))
	case token.LT:
		*fd = append(*fd, fmt.Sprintf("jl %s", loopLabel))
	case token.GT:
		*fd = append(*fd, fmt.Sprintf("jg %s", loopLabel))
	default:
		return fmt.Errorf("invalid for-loop condition tag %q", n.Condition)
	}

	*fd = append(*fd, "pop rbx")

	return c.scopes.Pop()
}

// compileIfStatement resolves var_name against the current (innermost)
// scope frame only — if-statements open no frame of their own, so
// "enclosing scope" means whichever for-loop or function body is
// active.
func (c *Compiler) compileIfStatement(n *ast.IfStatement, fd *[]string) error {
	reg, ok := c.scopes.Lookup(n.VarName)
	if !ok {
		return fmt.Errorf("variable %q not found", n.VarName)
	}

	endIf := c.nextLabel("endif")

	*fd = append(*fd, fmt.Sprintf("cmp %s,%d", reg, n.Value))

	switch n.Operator {
	case token.LT:
		*fd = append(*fd, fmt.Sprintf("jge %s", endIf))
	case token.GT:
		*fd = append(*fd, fmt.Sprintf("jle %s", endIf))
	default:
		return fmt.Errorf("invalid if-statement operator %q", n.Operator)
	}

	for _, child := range n.Body {
		if err := c.compileNode(child, fd); err != nil {
			return err
		}
	}

	if len(n.ElseBlock) > 0 {
		endElse := c.nextLabel("else")

		*fd = append(*fd, fmt.Sprintf("jmp %s", endElse), fmt.Sprintf("%s:", endIf))

		for _, child := range n.ElseBlock {
			if err := c.compileNode(child, fd); err != nil {
				return err
			}
		}

		*fd = append(*fd, fmt.Sprintf("%s:", endElse))
	} else {
		*fd = append(*fd, fmt.Sprintf("%s:", endIf))
	}

	return nil
}

// compileFunctionDef registers the function's label and lowers its
// body. A definition in the root scope emits to text_fns, the
// dedicated function-bodies buffer; a nested definition (rejected by
// the parser for every enclosing body kind, handled here only
// defensively in case that restriction is ever lifted) emits inline
// into fd, the currently active buffer — reachable at runtime only if
// control happens to fall into it.
func (c *Compiler) compileFunctionDef(n *ast.FunctionDef, fd *[]string) error {
	fnLabel := c.nextLabel("fn")
	c.fnTable[n.Name] = fnLabel

	isRoot := c.scopes.Current() != nil && c.scopes.Current().Label == "root"

	c.scopes.Push(fnLabel)
	defer c.scopes.Pop()

	target := fd
	if isRoot {
		target = &c.textFns
	}

	*target = append(*target, fmt.Sprintf("%s:", fnLabel))

	for _, child := range n.Body {
		if err := c.compileNode(child, target); err != nil {
			return err
		}
	}

	*target = append(*target, "ret")

	return nil
}
