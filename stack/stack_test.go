// stack_test.go - Simple test-cases for our stack

package stack

import "testing"

// TestEmpty: Test that the Empty() function works as expected.
func TestEmpty(t *testing.T) {
	s := New()

	if !s.Empty() {
		t.Errorf("New stack is not empty!")
	}

	s.Push("33")

	if s.Empty() {
		t.Errorf("Despite storing a value the stack is still empty!")
	}
}

// TestEmptyPop: Test that pop'ing from an empty stack fails.
func TestEmptyPop(t *testing.T) {
	s := New()

	_, err := s.Pop()
	if err == nil {
		t.Errorf("Expected an error popping from an empty stack!")
	}
}

// TestEmptyPeek: Test that peek'ing an empty stack fails.
func TestEmptyPeek(t *testing.T) {
	s := New()

	_, err := s.Peek()
	if err == nil {
		t.Errorf("Expected an error peeking an empty stack!")
	}
}

// TestPeek: Test that peek returns the top value without removing it.
func TestPeek(t *testing.T) {
	s := New()

	s.Push("l1")
	s.Push("l2")

	out, err := s.Peek()
	if err != nil {
		t.Errorf("We shouldn't get an error peeking our stack")
	}
	if out != "l2" {
		t.Errorf("Peek returned the wrong value")
	}

	// peeking must not remove the item.
	out, err = s.Pop()
	if err != nil {
		t.Errorf("We shouldn't get an error popping our stack")
	}
	if out != "l2" {
		t.Errorf("Peek removed or reordered the stack")
	}
}

// TestPushPop: Test that we can store/retrieve as we expect.
func TestPushPop(t *testing.T) {
	s := New()

	s.Push("33")

	out, err := s.Pop()
	if err != nil {
		t.Errorf("We shouldn't get an error popping from our stack")
	}
	if out != "33" {
		t.Errorf("We retrieved a value from our stack, but it was wrong")
	}
}
