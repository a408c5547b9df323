package replshell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCompileAndPrintAccumulates confirms a second definition
// compiles successfully against the first once it has been accepted.
func TestCompileAndPrintAccumulates(t *testing.T) {
	r := New("banner", "minic> ")

	var out bytes.Buffer
	r.compileAndPrint(&out, "fun id(x) { return x; }\n")
	require.Contains(t, out.String(), "define i32 @id")

	out.Reset()
	r.compileAndPrint(&out, "fun main() { return id(1); }\n")
	require.Contains(t, out.String(), "define i32 @main")
	require.Contains(t, out.String(), "call i32 (i32) @id")
}

// TestCompileAndPrintRejectsBadInput confirms a failed candidate is
// reported and never joins the accumulated source.
func TestCompileAndPrintRejectsBadInput(t *testing.T) {
	r := New("banner", "minic> ")

	var out bytes.Buffer
	r.compileAndPrint(&out, "fun broken( { }\n")
	require.Contains(t, out.String(), "error:")
	require.Equal(t, 0, r.source.Len())
}

// TestPrintBanner is a light smoke test over the startup banner.
func TestPrintBanner(t *testing.T) {
	r := New("minic repl", "minic> ")
	var out bytes.Buffer
	r.printBanner(&out)
	require.True(t, strings.Contains(out.String(), "minic repl"))
}
