// This is the main-driver for our compiler.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skx/math-compiler/compiler"
	"github.com/skx/math-compiler/internal/config"
	"github.com/skx/math-compiler/internal/replshell"
)

var errorColor = color.New(color.FgRed)

func main() {
	var (
		debug      bool
		inputPath  string
		outputPath string
		configPath string
	)

	root := &cobra.Command{
		Use:           "minic",
		Short:         "Compile a small C-like language into LLVM IR",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return runConfig(configPath)
			}
			return runOne(inputPath, outputPath, debug)
		},
	}

	root.Flags().BoolVarP(&debug, "debug", "d", false, "Insert debug comments in the output, and dump tokens/tree.")
	root.Flags().StringVarP(&inputPath, "input", "i", "", "Read the program from FILE instead of stdin.")
	root.Flags().StringVarP(&outputPath, "output", "o", "", "Write IR to FILE instead of stdout.")
	root.Flags().StringVarP(&configPath, "config", "c", "", "Drive one or more compiles from a YAML build manifest.")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive compile-as-you-type session",
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := replshell.New("minic — type a function, see its IR", "minic> ")
			shell.Debug = debug
			return shell.Start(os.Stdout)
		},
	}
	root.AddCommand(replCmd)

	if err := root.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// runOne compiles a single program, reading from inputPath (or
// stdin) and writing to outputPath (or stdout).
func runOne(inputPath, outputPath string, debug bool) error {
	source, err := readSource(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}

	c := compiler.New(source)
	c.SetDebug(debug)

	out, err := c.Compile()
	if err != nil {
		return fmt.Errorf("compiling: %w", err)
	}

	return writeOutput(outputPath, out)
}

// runConfig drives one compile per target named in the manifest at
// path.
func runConfig(path string) error {
	manifest, err := config.Load(path)
	if err != nil {
		return err
	}

	for _, target := range manifest.Targets {
		if err := runOne(target.Input, target.Output, target.Debug); err != nil {
			return fmt.Errorf("target %s: %w", target.Input, err)
		}
	}
	return nil
}

func readSource(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func writeOutput(path string, out string) error {
	if path == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(path, []byte(out), 0o644)
}
