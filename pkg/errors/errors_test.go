package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeStructural, "node %q already has a parent", "DP")

	if err.Code != ErrCodeStructural {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStructural)
	}

	if err.Message != `node "DP" already has a parent` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `STRUCTURAL: node "DP" already has a parent`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeIncompatibleFormat, cause, "read file")

	if err.Code != ErrCodeIncompatibleFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeIncompatibleFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNoSelection, "no selection")

	if !Is(err, ErrCodeNoSelection) {
		t.Error("Is(err, ErrCodeNoSelection) = false, want true")
	}
	if Is(err, ErrCodeStructural) {
		t.Error("Is(err, ErrCodeStructural) = true, want false")
	}
	if Is(errors.New("plain"), ErrCodeNoSelection) {
		t.Error("Is(plain, ErrCodeNoSelection) = true, want false")
	}

	// Code checks survive further wrapping with %w.
	wrapped := fmt.Errorf("save: %w", err)
	if !Is(wrapped, ErrCodeNoSelection) {
		t.Error("Is(wrapped, ErrCodeNoSelection) = false, want true")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeEmptyClipboard, "empty")); got != ErrCodeEmptyClipboard {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeEmptyClipboard)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeNoPath, "no path to save to")
	if got := UserMessage(err); got != "no path to save to" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestTooNewError(t *testing.T) {
	inner := &TooNewError{MinVersion: "2.0.0"}
	err := Wrap(ErrCodeIncompatibleFormat, inner, "file is too new")

	if !Is(err, ErrCodeIncompatibleFormat) {
		t.Error("Is(err, ErrCodeIncompatibleFormat) = false, want true")
	}
	if got := MinVersion(err); got != "2.0.0" {
		t.Errorf("MinVersion = %q, want 2.0.0", got)
	}
	if got := MinVersion(errors.New("plain")); got != "" {
		t.Errorf("MinVersion(plain) = %q, want empty", got)
	}
}
