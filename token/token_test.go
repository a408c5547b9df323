package token

import (
	"testing"
)

// Test looking up reserved words succeeds, then that unknown
// identifiers fall back to IDENT.
func TestLookup(t *testing.T) {

	for key, val := range keywords {
		if LookupIdentifier(key) != val {
			t.Errorf("Lookup of %s failed", key)
		}
	}

	if LookupIdentifier("notakeyword") != IDENT {
		t.Errorf("Lookup of a non-keyword should return IDENT")
	}
}

// TestRetAlias confirms "ret" and "return" both map to token.RETURN,
// per the Open Question resolution in SPEC_FULL.md.
func TestRetAlias(t *testing.T) {
	if LookupIdentifier("ret") != RETURN {
		t.Errorf("'ret' should be accepted as an alias for 'return'")
	}
	if LookupIdentifier("return") != RETURN {
		t.Errorf("'return' should lex as RETURN")
	}
}

// TestLiteral checks that a Token's Literal is carved from the
// correct byte range of its originating buffer.
func TestLiteral(t *testing.T) {
	buf := "fun main() { return 42; }"
	tok := New(NUM, buf, 20, 2)
	if tok.Literal() != "42" {
		t.Errorf("expected literal '42', got %q", tok.Literal())
	}
}

// TestString checks the debug-dump rendering of a token.
func TestString(t *testing.T) {
	buf := "42"
	tok := New(NUM, buf, 0, 2)
	expected := "NUM: pos = 0, chars = 42"
	if tok.String() != expected {
		t.Errorf("expected %q, got %q", expected, tok.String())
	}
}
