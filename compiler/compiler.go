// The compiler-package contains the core of our compiler.
//
// In brief we go through a three-step process:
//
//  1.  Use the lexer to tokenize the input program.
//
//  2.  Parse the token stream into a syntax tree of functions.
//
//  3.  Walk that tree, emitting LLVM IR for each function.
//
// There is only one minor complication - when debugging is enabled we
// also write a token dump and a tree dump to the diagnostics stream,
// before we emit any IR at all.
//
package compiler

import (
	"io"
	"os"

	"github.com/skx/math-compiler/internal/diagnostics"
	"github.com/skx/math-compiler/ir"
	"github.com/skx/math-compiler/lexer"
	"github.com/skx/math-compiler/parser"
	"github.com/skx/math-compiler/token"
)

// Compiler holds our object-state.
type Compiler struct {

	// debug holds a flag to decide if debugging "stuff" is generated
	// in the output, and whether token/tree dumps are written.
	debug bool

	// source holds the program text we're compiling.
	source string

	// diagOut is where debug dumps and structured log lines are
	// written. It defaults to os.Stderr, matching spec.md §6's
	// "error stream" requirement, but is overridable for tests.
	diagOut io.Writer

	// tokens holds the program, broken down into a series of tokens,
	// once tokenize has run.
	tokens []token.Token
}

//
// Our public API consists of the four functions:
//  New
//  SetDebug
//  SetDiagnosticsWriter
//  Compile
//
// The rest of the code is an implementation detail.
//

// New creates a new compiler, given the program-text in the constructor.
func New(source string) *Compiler {
	return &Compiler{source: source, diagOut: os.Stderr}
}

// SetDebug changes the debug-flag for our output.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// SetDiagnosticsWriter overrides where token/tree dumps are written.
// Tests use this to capture dumps instead of writing to stderr.
func (c *Compiler) SetDiagnosticsWriter(w io.Writer) {
	c.diagOut = w
}

// Compile converts the input program into LLVM IR text.
func (c *Compiler) Compile() (string, error) {

	// logger is rebuilt on every call, since diagOut may have been
	// swapped by SetDiagnosticsWriter after New. It carries one
	// Debug line per pipeline phase; lexer and parser themselves stay
	// free of logging concerns.
	logger := diagnostics.NewLogger(c.diagOut, c.debug)

	//
	// Tokenize the program. At this point there might be errors; if
	// so, report them and terminate.
	//
	err := c.tokenize()
	if err != nil {
		return "", err
	}
	logger.Debug("tokenized", "tokens", len(c.tokens))

	if c.debug {
		diagnostics.DumpTokens(c.diagOut, c.tokens)
	}

	//
	// Parse the tokens into a syntax tree.
	//
	p, err := parser.New(c.tokens)
	if err != nil {
		return "", err
	}
	tree, err := p.Parse()
	if err != nil {
		return "", err
	}
	logger.Debug("parsed", "functions", len(tree.Children))

	if c.debug {
		diagnostics.DumpTree(c.diagOut, tree)
	}

	//
	// Walk the tree, emitting LLVM IR.
	//
	emitter := ir.New(c.debug)
	out, err := emitter.Emit(tree)
	if err != nil {
		return "", err
	}
	logger.Debug("emitted", "bytes", len(out))

	return out, nil
}

// tokenize populates our internal list of tokens, as a result of
// lexing the source program.
func (c *Compiler) tokenize() error {
	lexed := lexer.New(c.source)

	toks, err := lexed.Tokenize()
	if err != nil {
		return err
	}

	c.tokens = toks
	return nil
}
