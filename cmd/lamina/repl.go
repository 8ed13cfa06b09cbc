package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lamina-lang/lamina/pkgs/bridge"
	"github.com/lamina-lang/lamina/pkgs/interpreter"
	"github.com/lamina-lang/lamina/pkgs/lexer"
	"github.com/lamina-lang/lamina/pkgs/parser"
)

// repl reads lines from stdin and evaluates them against one persistent
// interpreter. A line ending in ';' or '}' runs as a statement; anything
// else is treated as an expression and its value printed.
func repl(cfg *Config) error {
	in := interpreter.New()
	if err := runPrelude(in, cfg); err != nil {
		return err
	}

	fmt.Printf("Lamina %s (type 'exit' to quit)\n", strings.TrimPrefix(bridge.Version(), "Lamina.go "))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(cfg.Prompt)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if isStatementLine(line) {
			if err := execute(in, line); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			continue
		}

		evalLine(in, line)
	}
}

func isStatementLine(line string) bool {
	return strings.HasSuffix(line, ";") || strings.HasSuffix(line, "}")
}

// evalLine evaluates line as an expression and prints the result, using the
// same reserved-variable wrapping the bridge uses.
func evalLine(in *interpreter.Interpreter, line string) {
	src := "var " + bridge.ResultVariable + " = (" + line + ");"
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	block, err := parser.Parse(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if err := in.Execute(block); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	v, err := in.GetVariable(bridge.ResultVariable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(v.String())
}
