package errors

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownPalette, "palette %q not defined", "Foo")

	if err.Code != ErrCodeUnknownPalette {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownPalette)
	}

	if err.Message != `palette "Foo" not defined` {
		t.Errorf("Message = %v, want %v", err.Message, `palette "Foo" not defined`)
	}

	expected := `UNKNOWN_PALETTE: palette "Foo" not defined`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidInput, cause, "read data.csv")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
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
			err:      New(ErrCodeMissingWidth, "test"),
			code:     ErrCodeMissingWidth,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeMissingWidth, "test"),
			code:     ErrCodeUnknownGeom,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeUnknownField, "inner"), "outer"),
			code:     ErrCodeInvalidInput,
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

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeMissingID, "x"), true},
		{New(ErrCodeUnknownField, "x"), true},
		{New(ErrCodeUnknownGroup, "x"), true},
		{New(ErrCodeInvalidFormat, "x"), false},
		{errors.New("plain"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsConfiguration(tt.err); got != tt.want {
			t.Errorf("IsConfiguration(%v) = %v, want %v", tt.err, got, tt.want)
		}
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
			err:      New(ErrCodeUnknownGeom, "test"),
			expected: ErrCodeUnknownGeom,
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

func TestDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	d := NewDiagnostics(log.New(&buf))

	d.Warn(WarnUnusedGroup, "extra", "Unused column groups: %s", "extra")
	d.Info("not recorded")

	items := d.Items()
	if len(items) != 1 {
		t.Fatalf("Items() len = %d, want 1", len(items))
	}
	if items[0].Subject != "extra" || items[0].Code != WarnUnusedGroup {
		t.Errorf("unexpected diagnostic: %+v", items[0])
	}
	if !d.Has(WarnUnusedGroup) {
		t.Error("Has(WarnUnusedGroup) = false")
	}
	if d.Has(WarnLegendDisabled) {
		t.Error("Has(WarnLegendDisabled) = true")
	}
	if !strings.Contains(buf.String(), "Unused column groups") {
		t.Errorf("warning not logged: %q", buf.String())
	}
}

func TestDiagnosticsNil(t *testing.T) {
	var d *Diagnostics
	d.Warn(WarnUnusedGroup, "g", "ignored")
	d.Info("ignored")
	if d.Items() != nil {
		t.Error("nil Diagnostics should have no items")
	}
}

func TestWrapNestedError(t *testing.T) {
	inner := New(ErrCodeUnknownPalette, `palette "Foo" not defined`)
	err := Wrap(ErrCodeUnknownPalette, inner, `column "score"`)
	want := `UNKNOWN_PALETTE: column "score": palette "Foo" not defined`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	plain := Wrap(ErrCodeInvalidInput, errors.New("boom"), "read data.csv")
	if plain.Error() != "INVALID_INPUT: read data.csv: boom" {
		t.Errorf("Error() = %q", plain.Error())
	}
}
