// Package driver takes the finished assembly text from the compiler
// package, writes it to a temp file, and shells out to nasm and ld to
// produce a linked ELF binary.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Assemble writes asm to a temp file under /tmp, assembles it with
// nasm, links the result with ld into outputPath (a relative path is
// resolved against the working directory and handed to the linker with
// a "./" prefix; an absolute path is passed as is), and removes the intermediate files on every
// path that reaches the assemble step, success or failure.
func Assemble(asm string, outputPath string) error {
	tmpBase := filepath.Join(os.TempDir(), "sascomp"+strconv.Itoa(os.Getpid()))
	asmPath := tmpBase + ".asm"
	objPath := tmpBase + ".o"

	if err := os.WriteFile(asmPath, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("writing temp assembly: %w", err)
	}
	defer os.Remove(asmPath)

	nasm := exec.Command("nasm", "-felf64", "-g", asmPath, "-o", objPath)
	nasm.Stdout = os.Stdout
	nasm.Stderr = os.Stderr

	defer os.Remove(objPath)
	if err := nasm.Run(); err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	linked := outputPath
	if !strings.HasPrefix(linked, "/") && !strings.HasPrefix(linked, "./") {
		linked = "./" + linked
	}

	ld := exec.Command("ld", objPath, "-o", linked)
	ld.Stdout = os.Stdout
	ld.Stderr = os.Stderr

	if err := ld.Run(); err != nil {
		return fmt.Errorf("linking failed: %w", err)
	}

	return nil
}

// OutputPath resolves the final ELF path: the -o flag's value if one
// was given, otherwise the input path with a trailing ".sas" stripped.
func OutputPath(inputPath string, outFlag string) string {
	if outFlag != "" {
		return outFlag
	}

	return strings.TrimSuffix(strings.TrimSpace(inputPath), ".sas")
}
