package errors

import (
	"context"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrCodeTimeout, context.DeadlineExceeded, "enumeration stopped")

	if err.Code != ErrCodeTimeout {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTimeout)
	}

	if errors.Unwrap(err) != context.DeadlineExceeded {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), context.DeadlineExceeded)
	}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is(err, context.DeadlineExceeded) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeDuplicateTeam, "test"),
			code:     ErrCodeDuplicateTeam,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeResourceLimit,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeResourceLimit, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeResourceLimit,
			expected: true,
		},
		{
			name:     "behind line error",
			err:      AtLine(3, New(ErrCodeInvalidRange, "inner")),
			code:     ErrCodeInvalidRange,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeCountMismatch, "test"), ErrCodeCountMismatch},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q, want %q", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain error")
	}
}

func TestIsInvalid(t *testing.T) {
	if !IsInvalid(New(ErrCodeDuplicateTeam, "dup")) {
		t.Error("DUPLICATE_TEAM should be an input error")
	}
	if IsInvalid(New(ErrCodeTimeout, "slow")) {
		t.Error("TIMEOUT should not be an input error")
	}
	if IsInvalid(errors.New("plain")) {
		t.Error("plain errors should not be input errors")
	}
}

func TestLineError(t *testing.T) {
	inner := New(ErrCodeInvalidFormat, "bad pair")
	err := AtLine(7, inner)

	if got := Line(err); got != 7 {
		t.Errorf("Line() = %d, want 7", got)
	}
	if err.Error() != "line 7: INVALID_FORMAT: bad pair" {
		t.Errorf("Error() = %q", err.Error())
	}
	if AtLine(1, nil) != nil {
		t.Error("AtLine(nil) should be nil")
	}
	if Line(inner) != 0 {
		t.Error("Line() without line info should be 0")
	}
}
