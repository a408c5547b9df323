// Package ast defines the tagged syntax tree that the parser builds
// and the emitter walks exactly once, per SPEC_FULL.md §3.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skx/math-compiler/token"
)

// Kind is the tag of a syntax tree node.
type Kind byte

const (
	// ROOT is the translation unit: its children are FUNC nodes.
	ROOT Kind = iota
	// FUNC is a function definition: children are [ARGS, body], where
	// body is a single statement (usually a BLOCK).
	FUNC
	// ARGS is a formal parameter list: children are VAR nodes.
	ARGS
	// BLOCK is a compound statement: children are its statements.
	BLOCK
	// NUM is an integer literal; its value lives in Val.
	NUM
	// VAR is a variable reference; its name lives in the token.
	VAR
	// LET is a local definition: children are [lvar, init?].
	LET
	// ASSIGN is an assignment expression: children are [lvalue, expr].
	ASSIGN
	// RETURN is a return statement: children are [expr].
	RETURN
	// IF is a conditional: children are [cond, then, else].
	IF
	// LOOP is an unbounded loop: children are [body].
	LOOP
	// CALL is a function call: children are the call's arguments.
	CALL
	// ADD is binary addition: children are [lhs, rhs].
	ADD
	// SUB is binary subtraction: children are [lhs, rhs].
	SUB
	// MUL is binary multiplication: children are [lhs, rhs].
	MUL
	// DIV is binary division: children are [lhs, rhs].
	DIV
	// EQ is equality comparison: children are [lhs, rhs].
	EQ
	// NE is inequality comparison: children are [lhs, rhs].
	NE
	// LT is less-than comparison: children are [lhs, rhs].
	LT
	// LE is less-or-equal comparison: children are [lhs, rhs].
	LE
	// GT is greater-than comparison: children are [lhs, rhs].
	GT
	// GE is greater-or-equal comparison: children are [lhs, rhs].
	GE
)

// names gives each Kind a human-readable label for error messages
// and tree dumps.
var names = map[Kind]string{
	ROOT: "ROOT", FUNC: "FUNC", ARGS: "ARGS", BLOCK: "BLOCK",
	NUM: "NUM", VAR: "VAR", LET: "LET", ASSIGN: "ASSIGN",
	RETURN: "RETURN", IF: "IF", LOOP: "LOOP", CALL: "CALL",
	ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV",
	EQ: "EQ", NE: "NE", LT: "LT", LE: "LE", GT: "GT", GE: "GE",
}

// String renders a Kind by name, matching the "SyntaxType: <kind>"
// dump format in spec.md §6.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// fixedArity gives the exact child count each Kind requires, enforced
// by New at construction time rather than left to a varargs/NULL-
// terminated constructor (SPEC_FULL.md §9). Kinds absent from the
// table (ROOT, BLOCK, ARGS and CALL) accept any number of children,
// since their arity is fixed by the source program rather than by
// the grammar shape.
var fixedArity = map[Kind]int{
	FUNC: 2, LET: 2, ASSIGN: 2, RETURN: 1, IF: 3, LOOP: 1,
	ADD: 2, SUB: 2, MUL: 2, DIV: 2,
	EQ: 2, NE: 2, LT: 2, LE: 2, GT: 2, GE: 2,
	NUM: 0, VAR: 0,
}

// Node is a syntax tree node: a Kind, the token it was built from
// (used for identifier spelling and numeric-literal parsing), a
// parsed integer value (meaningful only when Kind == NUM), and its
// ordered children.
type Node struct {
	Kind     Kind
	Tok      token.Token
	Val      int64
	Children []*Node
}

// New builds a Node, validating its child count against the arity
// table above. It panics on a mismatch: a wrong arity here is a
// parser bug, never a user-facing error.
func New(kind Kind, tok token.Token, children ...*Node) *Node {
	if want, ok := fixedArity[kind]; ok && want != len(children) {
		panic(fmt.Sprintf("ast: %s requires %d children, got %d", kind, want, len(children)))
	}

	n := &Node{Kind: kind, Tok: tok, Children: children}

	if kind == NUM {
		v, err := strconv.ParseInt(tok.Literal(), 10, 64)
		if err != nil {
			panic(fmt.Sprintf("ast: NUM token %q is not a valid integer: %s", tok.Literal(), err))
		}
		n.Val = v
	}

	return n
}

// Name returns the identifier spelled by a VAR/CALL/LET/FUNC node's
// token.
func (n *Node) Name() string {
	return n.Tok.Literal()
}

// Dump renders the tree using two-space indentation per depth level,
// in the exact format spec.md §6 requires:
// "SyntaxType: <kind> (<val>)".
func (n *Node) Dump(w *strings.Builder, depth int) {
	if n == nil {
		return
	}
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(fmt.Sprintf("SyntaxType: %s (%d)\n", n.Kind, n.Val))
	for _, c := range n.Children {
		c.Dump(w, depth+1)
	}
}

// DumpString is a convenience wrapper around Dump returning the
// rendered tree as a string.
func (n *Node) DumpString() string {
	var b strings.Builder
	n.Dump(&b, 0)
	return b.String()
}
