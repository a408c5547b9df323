// Package replshell implements an interactive "type a function, see
// its IR" loop: the user enters one function definition at a time,
// it is compiled in the context of every function entered so far,
// and the resulting IR is printed. It never changes lexer/parser/
// emitter semantics — it is a thin incremental wrapper around
// compiler.Compiler, grounded on akashmaji946-go-mix/repl/repl.go's
// readline/color REPL shape.
package replshell

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/skx/math-compiler/compiler"
)

var (
	promptColor = color.New(color.FgBlue)
	errorColor  = color.New(color.FgRed)
	irColor     = color.New(color.FgYellow)
	bannerColor = color.New(color.FgGreen)
)

// Repl holds our object-state.
type Repl struct {
	// Banner is printed once, at startup.
	Banner string

	// Prompt is shown before each line of input.
	Prompt string

	// Debug enables "-d"-style comments/dumps in each compile.
	Debug bool

	// source accumulates every function definition accepted so far.
	source strings.Builder
}

// New creates a Repl with the given banner and prompt.
func New(banner, prompt string) *Repl {
	return &Repl{Banner: banner, Prompt: prompt}
}

// printBanner writes the startup banner to w.
func (r *Repl) printBanner(w io.Writer) {
	bannerColor.Fprintf(w, "%s\n", r.Banner)
	promptColor.Fprintln(w, "Type a function definition, e.g. fun main() { return 42; }")
	promptColor.Fprintln(w, "Type '.exit' to quit.")
}

// Start runs the main read-eval-print loop against w until the user
// exits or EOF is reached on stdin.
func (r *Repl) Start(w io.Writer) error {
	r.printBanner(w)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	var pending strings.Builder
	depth := 0

	for {
		line, err := rl.Readline()
		if err != nil {
			promptColor.Fprintln(w, "Good bye!")
			return nil
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == ".exit" && pending.Len() == 0 {
			promptColor.Fprintln(w, "Good bye!")
			return nil
		}

		rl.SaveHistory(line)

		pending.WriteString(line)
		pending.WriteByte('\n')
		depth += strings.Count(line, "{") - strings.Count(line, "}")

		if depth > 0 {
			continue // keep reading until the function's braces balance
		}
		if depth < 0 {
			errorColor.Fprintf(w, "unbalanced braces\n")
			pending.Reset()
			depth = 0
			continue
		}

		r.compileAndPrint(w, pending.String())
		pending.Reset()
	}
}

// compileAndPrint appends candidate to the accumulated source,
// compiles the whole thing, and either prints the resulting IR or
// reports the error and discards the candidate.
func (r *Repl) compileAndPrint(w io.Writer, candidate string) {
	attempt := r.source.String() + candidate

	c := compiler.New(attempt)
	c.SetDebug(r.Debug)

	out, err := c.Compile()
	if err != nil {
		errorColor.Fprintf(w, "error: %s\n", err)
		return
	}

	r.source.WriteString(candidate)
	irColor.Fprintln(w, out)
}
