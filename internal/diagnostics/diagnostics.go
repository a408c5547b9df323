// Package diagnostics provides the structured debug logger and the
// exact "-d" dump formats described in spec.md §6: one line per
// token after lexing, and an indented tree dump after parsing.
package diagnostics

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/skx/math-compiler/ast"
	"github.com/skx/math-compiler/token"
)

// NewLogger builds a slog.Logger writing to w, gated by debug: when
// debug is false the logger is raised above Debug so "-d"-only lines
// never print. Timestamp and level keys are stripped for terse,
// single-line-per-event output, following the handler construction
// used by opal-lang-opal's lexer and parser packages.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})

	return slog.New(handler)
}

// DumpTokens writes one line per token to w, in the exact format
// spec.md §6 specifies: "<kind>: pos = <offset>, chars = <lexeme>".
func DumpTokens(w io.Writer, toks []token.Token) {
	for _, t := range toks {
		fmt.Fprintln(w, t.String())
	}
}

// DumpTree writes the parsed tree to w using ast.Node.Dump's
// two-space-indent-per-depth format, per spec.md §6.
func DumpTree(w io.Writer, root *ast.Node) {
	fmt.Fprint(w, root.DumpString())
}
