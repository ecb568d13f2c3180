// Package compiler walks a parsed AST once and lowers it to NASM-dialect
// x86-64 assembly text.
//
// State is kept deliberately small: three ordered line buffers
// (textMain/textFns/data), a data-reference map for string interning,
// a function-name-to-label map, and a scope stack for variable
// resolution. compiler.go owns orchestration (lex -> parse -> walk ->
// assemble); generator.go holds the per-node lowering rules.
package compiler

import (
	"fmt"
	"strings"

	"github.com/marcos-venicius/sas-language/ast"
	"github.com/marcos-venicius/sas-language/lexer"
	"github.com/marcos-venicius/sas-language/parser"
	"github.com/marcos-venicius/sas-language/scope"
)

// Compiler holds all state accumulated while lowering one compilation
// unit. It is used once: the package-level Compile constructs a fresh
// one with New for every call and discards it afterwards.
type Compiler struct {
	dataRefs map[string]string // interning key -> data label
	fnTable  map[string]string // function name -> label
	scopes   *scope.Stack

	textMain []string
	textFns  []string
	data     []string

	labelCounters map[string]int
}

// New returns a Compiler ready to compile one source unit.
func New() *Compiler {
	return &Compiler{
		dataRefs:      make(map[string]string),
		fnTable:       make(map[string]string),
		scopes:        scope.New(),
		data:          []string{"section .data"},
		labelCounters: make(map[string]int),
	}
}

// Compile lexes, parses and lowers source to a complete NASM-dialect
// assembly listing. The returned text is ready to hand to an external
// assembler unmodified.
func Compile(source string) (string, error) {
	tokens, err := lexer.All(source)
	if err != nil {
		return "", fmt.Errorf("lex: %w", err)
	}

	nodes, err := parser.New(tokens).Parse()
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}

	c := New()
	return c.compileProgram(nodes)
}

// compileProgram lowers the top-level forest under the root scope and
// assembles the final fixed-order output: _start body, function
// declarations, then the data section.
func (c *Compiler) compileProgram(nodes []ast.Node) (string, error) {
	c.textMain = []string{
		"global _start",
		"section .text",
		"_start:",
	}
	c.data = []string{"section .data"}

	c.scopes.Push("root")

	for _, n := range nodes {
		if err := c.compileNode(n, &c.textMain); err != nil {
			return "", err
		}
	}

	if err := c.scopes.Pop(); err != nil {
		return "", err
	}

	c.textMain = append(c.textMain,
		"mov rax,0x3c",
		"mov rdi,0x00",
		"syscall",
	)

	var out strings.Builder
	for _, line := range c.textMain {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.WriteString(";; function declarations\n")
	for _, line := range c.textFns {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	for _, line := range c.data {
		out.WriteString(line)
		out.WriteByte('\n')
	}

	return out.String(), nil
}

// nextLabel returns a unique label for prefix using a monotonic
// per-prefix counter, which guarantees uniqueness across a compilation
// unit without the collision risk a random suffix would carry.
func (c *Compiler) nextLabel(prefix string) string {
	c.labelCounters[prefix]++
	return fmt.Sprintf("%s_%d", prefix, c.labelCounters[prefix])
}
