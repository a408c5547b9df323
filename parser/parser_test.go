package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/skx/math-compiler/ast"
	"github.com/skx/math-compiler/lexer"
)

// parseSource lexes and parses a whole program, failing the test on
// any error.
func parseSource(t *testing.T, src string) *ast.Node {
	t.Helper()

	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	p, err := New(toks)
	if err != nil {
		t.Fatalf("parser.New: %s", err)
	}
	tree, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	return tree
}

// treeOpts ignores token position/buffer fields: tests compare tree
// shape and value, not lexeme provenance.
var treeOpts = cmp.Options{
	cmpopts.IgnoreFields(ast.Node{}, "Tok"),
}

// TestLiteralReturn covers scenario 1 of spec.md §8: a bare literal
// return.
func TestLiteralReturn(t *testing.T) {
	got := parseSource(t, `fun main() { return 42; }`)

	want := &ast.Node{Kind: ast.ROOT, Children: []*ast.Node{
		{Kind: ast.FUNC, Children: []*ast.Node{
			{Kind: ast.ARGS},
			{Kind: ast.BLOCK, Children: []*ast.Node{
				{Kind: ast.RETURN, Children: []*ast.Node{
					{Kind: ast.NUM, Val: 42},
				}},
			}},
		}},
	}}

	if diff := cmp.Diff(want, got, treeOpts...); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

// TestArithmeticPrecedence covers scenario 2: "1 + 2 * 3" must nest
// the multiplication under the addition's rhs.
func TestArithmeticPrecedence(t *testing.T) {
	got := parseSource(t, `fun main() { return 1 + 2 * 3; }`)

	add := got.Children[0].Children[1].Children[0].Children[0]
	if add.Kind != ast.ADD {
		t.Fatalf("expected top expression to be ADD, got %s", add.Kind)
	}
	if add.Children[0].Kind != ast.NUM || add.Children[0].Val != 1 {
		t.Errorf("expected ADD's lhs to be NUM 1")
	}
	mul := add.Children[1]
	if mul.Kind != ast.MUL {
		t.Fatalf("expected ADD's rhs to be MUL, got %s", mul.Kind)
	}
	if mul.Children[0].Val != 2 || mul.Children[1].Val != 3 {
		t.Errorf("expected MUL operands 2 and 3")
	}
}

// TestUnaryMinusDesugars confirms unary minus becomes SUB(NUM 0, x).
func TestUnaryMinusDesugars(t *testing.T) {
	got := parseSource(t, `fun main() { return -5; }`)

	expr := got.Children[0].Children[1].Children[0].Children[0]
	if expr.Kind != ast.SUB {
		t.Fatalf("expected SUB, got %s", expr.Kind)
	}
	if expr.Children[0].Kind != ast.NUM || expr.Children[0].Val != 0 {
		t.Errorf("expected desugared lhs to be NUM 0")
	}
	if expr.Children[1].Val != 5 {
		t.Errorf("expected desugared rhs to be NUM 5")
	}
}

// TestIfMissingElseSynthesizesZero confirms every IF node ends up
// with three children even when the source omits "else".
func TestIfMissingElseSynthesizesZero(t *testing.T) {
	got := parseSource(t, `fun main() { return if (1 < 2) 10; }`)

	ifNode := got.Children[0].Children[1].Children[0].Children[0]
	if ifNode.Kind != ast.IF {
		t.Fatalf("expected IF, got %s", ifNode.Kind)
	}
	if len(ifNode.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(ifNode.Children))
	}
	elseNode := ifNode.Children[2]
	if elseNode.Kind != ast.NUM || elseNode.Val != 0 {
		t.Errorf("expected synthetic NUM 0 for missing else, got %s (%d)", elseNode.Kind, elseNode.Val)
	}
}

// TestReturnIf covers scenario 5: an IF used directly as a RETURN's
// operand, which the literal "return assign" grammar line can't
// reach on its own.
func TestReturnIf(t *testing.T) {
	got := parseSource(t, `fun main() { return if (1 == 1) 10 else 20; }`)

	ifNode := got.Children[0].Children[1].Children[0].Children[0]
	if ifNode.Kind != ast.IF {
		t.Fatalf("expected IF, got %s", ifNode.Kind)
	}
	if ifNode.Children[1].Val != 10 || ifNode.Children[2].Val != 20 {
		t.Errorf("expected then=10, else=20 branches")
	}
}

// TestCallArgs covers scenario 6: a call's callee name lives in the
// node's token, and each argument parses as a child expression.
func TestCallArgs(t *testing.T) {
	got := parseSource(t, `fun id(x) { return x; } fun main() { return id(7); }`)

	if len(got.Children) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(got.Children))
	}

	main := got.Children[1]
	call := main.Children[1].Children[0].Children[0]
	if call.Kind != ast.CALL {
		t.Fatalf("expected CALL, got %s", call.Kind)
	}
	if call.Name() != "id" {
		t.Errorf("expected callee name 'id', got %q", call.Name())
	}
	if len(call.Children) != 1 || call.Children[0].Val != 7 {
		t.Errorf("expected a single argument NUM 7")
	}
}

// TestLetWithoutInit confirms a LET's second child is nil when the
// source omits an initializer.
func TestLetWithoutInit(t *testing.T) {
	got := parseSource(t, `fun main() { let x; return x; }`)

	let := got.Children[0].Children[1].Children[0]
	if let.Kind != ast.LET {
		t.Fatalf("expected LET, got %s", let.Kind)
	}
	if let.Children[1] != nil {
		t.Errorf("expected a nil initializer, got %v", let.Children[1])
	}
}

// TestArgsAreVarNodes confirms every FUNC's ARGS children are VAR
// nodes, per spec.md §3's invariants.
func TestArgsAreVarNodes(t *testing.T) {
	got := parseSource(t, `fun add(a, b) { return a + b; }`)

	args := got.Children[0].Children[0]
	if args.Kind != ast.ARGS {
		t.Fatalf("expected ARGS, got %s", args.Kind)
	}
	if len(args.Children) != 2 {
		t.Fatalf("expected 2 formals, got %d", len(args.Children))
	}
	for _, c := range args.Children {
		if c.Kind != ast.VAR {
			t.Errorf("expected a VAR node, got %s", c.Kind)
		}
	}
}

// TestUnexpectedTokenIsFatal confirms the parser reports the first
// syntax error and never attempts to recover.
func TestUnexpectedTokenIsFatal(t *testing.T) {
	toks, err := lexer.New(`fun main( { return 1; }`).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	p, err := New(toks)
	if err != nil {
		t.Fatalf("parser.New: %s", err)
	}
	if _, err := p.Parse(); err == nil {
		t.Errorf("expected a parse error for a malformed argument list")
	}
}

// TestEmptyProgram covers the boundary behavior in spec.md §8: empty
// input yields an empty ROOT tree.
func TestEmptyProgram(t *testing.T) {
	got := parseSource(t, ``)
	if len(got.Children) != 0 {
		t.Errorf("expected no functions, got %d", len(got.Children))
	}
}
