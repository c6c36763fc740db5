package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/halimg/pascalet/pascalet"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	checkOnly := fs.Bool("check", false, "parse and analyze without executing")
	recursionLimit := fs.Int("recursion-limit", 0, "maximum call depth (0 for the default)")
	stepQuota := fs.Int("step-quota", 0, "maximum statements executed (0 for the default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("pascalet run: source path required")
	}
	input, err := os.ReadFile(remaining[0])
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	program, err := pascalet.Parse(string(input))
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := pascalet.Analyze(program); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	interp := pascalet.NewInterpreter(pascalet.Config{
		RecursionLimit: *recursionLimit,
		StepQuota:      *stepQuota,
	})
	if err := interp.Run(program); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s run [flags] <source>\n", prog)
	fmt.Fprintf(os.Stderr, "       %s repl\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    parse and analyze without executing")
	fmt.Fprintln(os.Stderr, "  -recursion-limit <n>")
	fmt.Fprintln(os.Stderr, "    maximum call depth (0 for the default)")
	fmt.Fprintln(os.Stderr, "  -step-quota <n>")
	fmt.Fprintln(os.Stderr, "    maximum statements executed (0 for the default)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
