package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConversion, "unsupported conversion: %s", "m to mi")

	if err.Code != ErrCodeInvalidConversion {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConversion)
	}

	if err.Message != "unsupported conversion: m to mi" {
		t.Errorf("Message = %v, want %v", err.Message, "unsupported conversion: m to mi")
	}

	expected := "INVALID_CONVERSION_CODE: unsupported conversion: m to mi"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidSource, cause, "failed to open dataset")

	if err.Code != ErrCodeInvalidSource {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSource)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
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
			err:      New(ErrCodeInvalidColorScale, "test"),
			code:     ErrCodeInvalidColorScale,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidColorScale, "test"),
			code:     ErrCodeInvalidPlotType,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidTemplate, New(ErrCodeInvalidAxisType, "inner"), "outer"),
			code:     ErrCodeInvalidTemplate,
			expected: true,
		},
		{
			name:     "fmt wrapped error",
			err:      fmt.Errorf("compose: %w", New(ErrCodeUninitializedHeatmap, "inner")),
			code:     ErrCodeUninitializedHeatmap,
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
		{
			name:     "Error type",
			err:      New(ErrCodeColumnNotFound, "test"),
			expected: ErrCodeColumnNotFound,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
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
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(New(ErrCodeInvalidColorScale, "x")) {
		t.Error("color scale errors are validation errors")
	}
	if !IsValidation(New(ErrCodeColumnNotFound, "x")) {
		t.Error("missing columns are validation errors")
	}
	if IsValidation(New(ErrCodeInternal, "x")) {
		t.Error("internal errors are not validation errors")
	}
	if IsValidation(New(ErrCodeUninitializedHeatmap, "x")) {
		t.Error("uninitialized heatmap is a programming error, not a validation error")
	}
	if IsValidation(errors.New("plain")) {
		t.Error("plain errors are not validation errors")
	}
}
