package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "yes\n", true},
		{"uppercase", "Y\n", true},
		{"no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage", "sure\n", false},
		{"eof without newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)
			got, err := p.Confirm("Proceed?")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfirmTyped(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact word", "DELETE\n", true},
		{"wrong case", "delete\n", false},
		{"plain yes rejected", "y\n", false},
		{"empty", "\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)
			got, err := p.ConfirmTyped("This permanently deletes 12 entries.", "DELETE")
			if err != nil {
				t.Fatalf("ConfirmTyped() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ConfirmTyped(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "DELETE") {
				t.Error("prompt output should show the word to type")
			}
		})
	}
}

func TestAssumeYesSkipsReading(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out)
	p.AssumeYes = true

	if ok, err := p.Confirm("Proceed?"); err != nil || !ok {
		t.Errorf("Confirm() = %v, %v with AssumeYes", ok, err)
	}
	if out.Len() != 0 {
		t.Error("AssumeYes should not print prompts")
	}

	// Typed gates never auto-answer.
	if ok, err := p.ConfirmTyped("Danger", "RECYCLE"); err != nil || ok {
		t.Errorf("ConfirmTyped() = %v, %v, want false even with AssumeYes", ok, err)
	}
}
