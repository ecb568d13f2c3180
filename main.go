// This is the main-driver for the sas-language compiler.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcos-venicius/sas-language/compiler"
	"github.com/marcos-venicius/sas-language/driver"
)

func main() {
	args := os.Args
	programName := filepath.Base(args[0])

	var inputPath string
	var outFlag string

	i := 1
	for i < len(args) {
		arg := args[i]
		i++

		switch {
		case inputPath == "" && !isFlag(arg):
			inputPath = arg
		case arg == "-o":
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "missing value for flag -o")
				os.Exit(1)
			}
			outFlag = args[i]
			i++
		default:
			// Unknown flags are reported but not fatal: the reference
			// implementation's flag loop never short-circuits on them.
			fmt.Fprintf(os.Stderr, "unrecognized flag %q\n", arg)
		}
	}

	if inputPath == "" {
		fmt.Printf("usage: %s <filename> [flags]\n", programName)
		fmt.Println("  -o         output filename")
		os.Exit(1)
	}

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %q: %s\n", inputPath, err)
		os.Exit(1)
	}

	asm, err := compiler.Compile(string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	outputPath := driver.OutputPath(inputPath, outFlag)

	if err := driver.Assemble(asm, outputPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}
