// Package ir walks a compiled ast.Node tree exactly once and
// generates textual LLVM IR, tracking SSA register and label
// numbers per function as described in SPEC_FULL.md §4.3.
package ir

import (
	"fmt"
	"strings"

	"github.com/skx/math-compiler/ast"
	"github.com/skx/math-compiler/stack"
)

// preamble is emitted verbatim, once per output, before any
// function. Its exact text is normative (spec.md §4.3).
const preamble = `%FILE = type opaque
@__stdinp  = external global %FILE*, align 8
@__stdoutp = external global %FILE*, align 8
@__stderrp = external global %FILE*, align 8
@str = private unnamed_addr constant [4 x i8] c"%d\0A\00", align 1
declare i32 @fprintf(%FILE*, i8*, ...)
declare i32 @printf(i8*, ...)
declare i32 @atoi(...)
define i32 @print(i32) nounwind {
  call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([4 x i8], [4 x i8]* @str, i64 0, i64 0), i32 %0)
  ret i32 %0
}
`

// arithOp maps a binary arithmetic node kind to its LLVM opcode.
var arithOp = map[ast.Kind]string{
	ast.ADD: "add",
	ast.SUB: "sub",
	ast.MUL: "mul",
	ast.DIV: "sdiv",
}

// comparePred maps a comparison node kind to its icmp predicate.
var comparePred = map[ast.Kind]string{
	ast.EQ: "eq",
	ast.NE: "ne",
	ast.LT: "slt",
	ast.LE: "sle",
	ast.GT: "sgt",
	ast.GE: "sge",
}

// Emitter walks a ROOT tree and produces LLVM IR text.
type Emitter struct {
	// Debug controls whether "  ; " comment lines are interleaved
	// between emitted instructions, per spec.md §4.3/§6.
	Debug bool
}

// New creates an Emitter. debug controls whether "  ; " comments are
// interleaved in the output.
func New(debug bool) *Emitter {
	return &Emitter{Debug: debug}
}

// Emit renders the whole translation unit: the preamble, then one
// function per FUNC child of root, in source order.
func (e *Emitter) Emit(root *ast.Node) (string, error) {
	var out strings.Builder
	out.WriteString(preamble)

	for _, fn := range root.Children {
		if fn.Kind != ast.FUNC {
			return "", fmt.Errorf("ir: expected FUNC at root, got %s", fn.Kind)
		}
		body, err := e.emitFunc(fn)
		if err != nil {
			return "", err
		}
		out.WriteString(body)
	}

	return out.String(), nil
}

// funcGen owns the per-function register and label counters
// described in spec.md §4.3. It is never shared across functions or
// goroutines: each compile creates a fresh one per FUNC node.
type funcGen struct {
	buf    strings.Builder
	reg    int // next register, pre-incremented by nextReg
	label  int // next label, post-incremented by nextLabel
	labels *stack.Stack
	debug  bool

	// terminated is true once the block currently being written has
	// received its terminator (a ret, via lowerReturn). openLabel
	// clears it, since a freshly opened block starts unterminated.
	// lowerIf/lowerLoop consult it so they never append a second
	// terminator (e.g. "br") after an arm that already returned.
	terminated bool
}

func (e *Emitter) emitFunc(fn *ast.Node) (string, error) {
	name := fn.Name()
	args := fn.Children[0]
	body := fn.Children[1]

	f := &funcGen{labels: stack.New(), debug: e.Debug}

	// Reset both counters immediately before emitting the prologue:
	// the register counter starts at the formal parameter count,
	// since arguments occupy the first N numeric names (%0 .. %N-1).
	f.reg = len(args.Children)
	f.label = 0

	sig := strings.Repeat("i32, ", len(args.Children))
	sig = strings.TrimSuffix(sig, ", ")
	f.writef("define i32 @%s(%s) nounwind {\n", name, sig)

	for i, a := range args.Children {
		f.writef("  %%%s = alloca i32, align 4\n", a.Name())
		f.writef("  store i32 %%%d, i32* %%%s, align 4\n", i, a.Name())
	}

	// Reset again after the parameter signature: the first
	// post-prologue allocation begins after the parameter count.
	// (The value is unchanged here; this mirrors spec.md §4.3's
	// two-reset wording and keeps the intent explicit in the code.)
	f.reg = len(args.Children)

	if _, err := f.lower(body); err != nil {
		return "", err
	}

	f.writef("}\n")
	return f.buf.String(), nil
}

// nextReg allocates a fresh numeric register. It pre-increments, so
// a zero-argument function's first allocated register is %1, not
// %0 — matching the literal numbering in scenario 1 of spec.md §8.
func (f *funcGen) nextReg() int {
	f.reg++
	return f.reg
}

// bumpReg consumes a register name without assigning it, for the
// implicit register every terminator (br, ret) costs per spec.md
// §4.3.
func (f *funcGen) bumpReg() {
	f.reg++
}

// nextLabel allocates a fresh basic-block label.
func (f *funcGen) nextLabel() string {
	l := f.label
	f.label++
	return fmt.Sprintf("L%d", l)
}

// openLabel writes a label definition and records it as the most
// recently opened block, for phi incoming-label bookkeeping. The new
// block starts out unterminated.
func (f *funcGen) openLabel(name string) {
	f.buf.WriteString(name + ":\n")
	f.labels.Push(name)
	f.terminated = false
}

// currentLabel is the label most recently opened while lowering the
// current arm — which may be a label opened by a nested IF/LOOP
// rather than the arm's own entry label. See spec.md §4.3's phi
// bookkeeping note.
func (f *funcGen) currentLabel() string {
	l, _ := f.labels.Peek()
	return l
}

func (f *funcGen) writef(format string, args ...any) {
	fmt.Fprintf(&f.buf, format, args...)
}

// comment writes a "  ; " debug line, suppressed entirely when
// debug mode is off so that IR semantics never depend on it
// (spec.md §4.3, §8).
func (f *funcGen) comment(format string, args ...any) {
	if !f.debug {
		return
	}
	f.buf.WriteString("  ; " + fmt.Sprintf(format, args...) + "\n")
}

// lower emits the node's IR and returns the register holding its
// 32-bit result, per the expression-lowering table in spec.md §4.3.
func (f *funcGen) lower(n *ast.Node) (int, error) {
	switch n.Kind {
	case ast.NUM:
		return f.lowerNum(n), nil
	case ast.VAR:
		return f.lowerVar(n), nil
	case ast.LET:
		return f.lowerLet(n)
	case ast.ASSIGN:
		return f.lowerAssign(n)
	case ast.RETURN:
		return f.lowerReturn(n)
	case ast.CALL:
		return f.lowerCall(n)
	case ast.ADD, ast.SUB, ast.MUL, ast.DIV:
		return f.lowerArith(n)
	case ast.EQ, ast.NE, ast.LT, ast.LE, ast.GT, ast.GE:
		return f.lowerCompare(n)
	case ast.BLOCK:
		return f.lowerBlock(n)
	case ast.IF:
		return f.lowerIf(n)
	case ast.LOOP:
		return f.lowerLoop(n)
	}
	return 0, fmt.Errorf("ir: unhandled node kind %s", n.Kind)
}

// lowerNum: fresh slot, store immediate, load; return the load
// register.
func (f *funcGen) lowerNum(n *ast.Node) int {
	f.comment("NUM %d", n.Val)
	slot := f.nextReg()
	f.writef("  %%%d = alloca i32, align 4\n", slot)
	f.writef("  store i32 %d, i32* %%%d, align 4\n", n.Val, slot)
	load := f.nextReg()
	f.writef("  %%%d = load i32, i32* %%%d, align 4\n", load, slot)
	return load
}

// lowerVar: load from %x; return the load register.
func (f *funcGen) lowerVar(n *ast.Node) int {
	f.comment("VAR %s", n.Name())
	load := f.nextReg()
	f.writef("  %%%d = load i32, i32* %%%s, align 4\n", load, n.Name())
	return load
}

// lowerLet: declare slot %x; if an initializer is present, lower it
// and store it — the stored value is already known, so we return it
// directly rather than re-loading %x immediately after storing to
// it. Without an initializer we load the (uninitialized) slot, per
// the literal wording of spec.md §4.3's LET row; this keeps scenario
// 3 of spec.md §8 ("exactly ... two loads from %x") exact, since a
// redundant load-after-store would otherwise add a third.
func (f *funcGen) lowerLet(n *ast.Node) (int, error) {
	name := n.Children[0].Name()
	f.comment("LET %s", name)
	f.writef("  %%%s = alloca i32, align 4\n", name)

	if init := n.Children[1]; init != nil {
		initReg, err := f.lower(init)
		if err != nil {
			return 0, err
		}
		f.writef("  store i32 %%%d, i32* %%%s, align 4\n", initReg, name)
		return initReg, nil
	}

	load := f.nextReg()
	f.writef("  %%%d = load i32, i32* %%%s, align 4\n", load, name)
	return load, nil
}

// lowerAssign: lower the rhs, store it into the lvalue's slot, and
// return the stored value directly (ASSIGN is not in spec.md §4.3's
// table; this mirrors LET's store-then-reuse shape).
func (f *funcGen) lowerAssign(n *ast.Node) (int, error) {
	lvalue, expr := n.Children[0], n.Children[1]
	rhsReg, err := f.lower(expr)
	if err != nil {
		return 0, err
	}
	f.comment("ASSIGN %s", lvalue.Name())
	f.writef("  store i32 %%%d, i32* %%%s, align 4\n", rhsReg, lvalue.Name())
	return rhsReg, nil
}

// lowerReturn: lower e; emit ret i32 %e; bump the register counter
// for the terminator's implicit register; return %e.
func (f *funcGen) lowerReturn(n *ast.Node) (int, error) {
	eReg, err := f.lower(n.Children[0])
	if err != nil {
		return 0, err
	}
	f.comment("RETURN")
	f.writef("  ret i32 %%%d\n", eReg)
	f.bumpReg()
	f.terminated = true
	return eReg, nil
}

// lowerCall: lower every argument, then emit a call whose arity
// matches the number of arguments actually supplied — resolving the
// multi-argument Open Question in favor of emitting them all
// (SPEC_FULL.md §4.3).
func (f *funcGen) lowerCall(n *ast.Node) (int, error) {
	argRegs := make([]int, len(n.Children))
	for i, c := range n.Children {
		reg, err := f.lower(c)
		if err != nil {
			return 0, err
		}
		argRegs[i] = reg
	}

	f.comment("CALL %s", n.Name())

	sig := strings.Repeat("i32, ", len(argRegs))
	sig = strings.TrimSuffix(sig, ", ")

	var args strings.Builder
	for i, r := range argRegs {
		if i > 0 {
			args.WriteString(", ")
		}
		fmt.Fprintf(&args, "i32 %%%d", r)
	}

	res := f.nextReg()
	f.writef("  %%%d = call i32 (%s) @%s(%s)\n", res, sig, n.Name(), args.String())
	return res, nil
}

// lowerArith: lower lhs, rhs; emit add/sub/mul/sdiv; return the
// result register.
func (f *funcGen) lowerArith(n *ast.Node) (int, error) {
	lhs, err := f.lower(n.Children[0])
	if err != nil {
		return 0, err
	}
	rhs, err := f.lower(n.Children[1])
	if err != nil {
		return 0, err
	}

	f.comment("%s", n.Kind)
	res := f.nextReg()
	f.writef("  %%%d = %s i32 %%%d, %%%d\n", res, arithOp[n.Kind], lhs, rhs)
	return res, nil
}

// lowerCompare: lower lhs, rhs; emit icmp; zero-extend the i1 to
// i32; return the extended register.
func (f *funcGen) lowerCompare(n *ast.Node) (int, error) {
	lhs, err := f.lower(n.Children[0])
	if err != nil {
		return 0, err
	}
	rhs, err := f.lower(n.Children[1])
	if err != nil {
		return 0, err
	}

	f.comment("%s", n.Kind)
	cmp := f.nextReg()
	f.writef("  %%%d = icmp %s i32 %%%d, %%%d\n", cmp, comparePred[n.Kind], lhs, rhs)

	zext := f.nextReg()
	f.writef("  %%%d = zext i1 %%%d to i32\n", zext, cmp)
	return zext, nil
}

// lowerBlock: lower each child in order; return the last child's
// register.
func (f *funcGen) lowerBlock(n *ast.Node) (int, error) {
	var last int
	for _, c := range n.Children {
		reg, err := f.lower(c)
		if err != nil {
			return 0, err
		}
		last = reg
	}
	return last, nil
}

// ifIncoming is one live edge into an IF's join block: an arm that
// fell through to it rather than returning out of the function.
type ifIncoming struct {
	reg   int
	label string
}

// lowerIf allocates three labels (T, F, E), lowers the condition and
// compares it against zero, then lowers both arms and joins them
// with a phi. The phi's incoming label for each arm is whatever
// label was most recently opened while lowering that arm — which
// may belong to a nested IF/LOOP rather than the arm's own entry
// label (spec.md §4.3).
//
// An arm that itself ends in RETURN has already terminated its block
// with "ret"; branching from it to the join block, or listing it as
// a phi incoming edge, would both be invalid (two terminators in one
// block, and a phi edge whose block doesn't actually branch to the
// join). Such arms are left out of the branch-to-join and the phi
// entirely.
func (f *funcGen) lowerIf(n *ast.Node) (int, error) {
	cond, then, els := n.Children[0], n.Children[1], n.Children[2]

	labelT := f.nextLabel()
	labelF := f.nextLabel()
	labelE := f.nextLabel()

	condReg, err := f.lower(cond)
	if err != nil {
		return 0, err
	}

	f.comment("IF condition")
	cmp := f.nextReg()
	f.writef("  %%%d = icmp ne i32 %%%d, 0\n", cmp, condReg)
	f.writef("  br i1 %%%d, label %%%s, label %%%s\n", cmp, labelT, labelF)
	f.bumpReg()

	f.openLabel(labelT)
	thenReg, err := f.lower(then)
	if err != nil {
		return 0, err
	}
	thenLabel := f.currentLabel()
	thenTerminated := f.terminated
	if !thenTerminated {
		f.writef("  br label %%%s\n", labelE)
		f.bumpReg()
	}

	f.openLabel(labelF)
	elseReg, err := f.lower(els)
	if err != nil {
		return 0, err
	}
	elseLabel := f.currentLabel()
	elseTerminated := f.terminated
	if !elseTerminated {
		f.writef("  br label %%%s\n", labelE)
		f.bumpReg()
	}

	f.openLabel(labelE)

	var live []ifIncoming
	if !thenTerminated {
		live = append(live, ifIncoming{thenReg, thenLabel})
	}
	if !elseTerminated {
		live = append(live, ifIncoming{elseReg, elseLabel})
	}

	switch len(live) {
	case 0:
		// Both arms returned: the join block is unreachable, but a
		// value still has to come back to whatever lowered this IF.
		f.comment("unreachable join: both arms returned")
		phi := f.nextReg()
		f.writef("  %%%d = add i32 0, 0\n", phi)
		return phi, nil
	case 1:
		phi := f.nextReg()
		f.writef("  %%%d = phi i32 [ %%%d, %%%s ]\n", phi, live[0].reg, live[0].label)
		return phi, nil
	default:
		phi := f.nextReg()
		f.writef("  %%%d = phi i32 [ %%%d, %%%s ], [ %%%d, %%%s ]\n", phi, live[0].reg, live[0].label, live[1].reg, live[1].label)
		return phi, nil
	}
}

// lowerLoop emits a head-label-and-back-branch loop: branch into the
// head, lower the body, branch back to the head — resolving the
// Open Question on LOOP emission (SPEC_FULL.md §4.3). The body's
// trailing register is returned as the loop's value, for symmetry
// with BLOCK.
//
// If the body itself always returns (its last effect is a RETURN),
// its block already carries a "ret" terminator; the back-branch is
// skipped, since a block can only have one terminator.
func (f *funcGen) lowerLoop(n *ast.Node) (int, error) {
	head := f.nextLabel()

	f.writef("  br label %%%s\n", head)
	f.bumpReg()

	f.openLabel(head)
	bodyReg, err := f.lower(n.Children[0])
	if err != nil {
		return 0, err
	}

	if !f.terminated {
		f.writef("  br label %%%s\n", head)
		f.bumpReg()
	}

	return bodyReg, nil
}
