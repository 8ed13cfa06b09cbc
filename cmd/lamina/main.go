package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lamina-lang/lamina/pkgs/bridge"
	"github.com/lamina-lang/lamina/pkgs/interpreter"
	"github.com/lamina-lang/lamina/pkgs/lexer"
	"github.com/lamina-lang/lamina/pkgs/parser"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitUsageError = 1
	ExitIOError    = 2
	ExitScanError  = 3
	ExitParseError = 4
	ExitRunError   = 5
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "lamina",
		Short:         "Run Lamina scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default .lamina.yml if present)")

	var watch bool
	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute a Lamina script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if watch {
				return watchAndRun(args[0], cfg)
			}
			code, err := runFile(args[0], cfg)
			if err != nil {
				return err
			}
			os.Exit(code)
			return nil
		},
	}
	runCmd.Flags().BoolVar(&watch, "watch", false, "Re-run the script whenever the file changes")

	evalCmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate a single expression and print its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(bridge.EvaluateExpression(args[0]))
			return nil
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			return repl(cfg)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(bridge.Version())
		},
	}

	rootCmd.AddCommand(runCmd, evalCmd, replCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitUsageError)
	}
}

// runFile executes one script file against a fresh interpreter and returns
// the process exit code for the outcome.
func runFile(path string, cfg *Config) (int, error) {
	in := interpreter.New()
	if err := runPrelude(in, cfg); err != nil {
		return 0, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	switch err := execute(in, string(content)).(type) {
	case nil:
		return ExitSuccess, nil
	case *lexer.ScanError:
		fmt.Fprintf(os.Stderr, "%s: lexical error: %v\n", path, err)
		return ExitScanError, nil
	case *parser.ParseError:
		fmt.Fprintf(os.Stderr, "%s: syntax error: %v\n", path, err)
		return ExitParseError, nil
	default:
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return ExitRunError, nil
	}
}

// execute drives the pipeline for a raw source string.
func execute(in *interpreter.Interpreter, src string) error {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	block, err := parser.Parse(tokens)
	if err != nil {
		return err
	}
	return in.Execute(block)
}

// runPrelude executes the configured prelude scripts in order.
func runPrelude(in *interpreter.Interpreter, cfg *Config) error {
	for _, path := range cfg.Prelude {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading prelude %s: %w", path, err)
		}
		if err := execute(in, string(content)); err != nil {
			return fmt.Errorf("prelude %s: %w", path, err)
		}
	}
	return nil
}
