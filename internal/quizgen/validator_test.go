package quizgen

import (
	"testing"

	"github.com/abhisek/quizgen/internal/quiz"
)

func q(text string, options ...string) quiz.Question {
	return quiz.Question{Text: text, Options: options, CorrectIndex: 0}
}

func TestValidators(t *testing.T) {
	cfg := Config{QuestionCount: 2}
	good := []quiz.Question{
		q("What is Go?", "a", "b", "c", "d"),
		q("What is a goroutine?", "a", "b", "c", "d"),
	}

	tests := []struct {
		name      string
		validator Validator
		questions []quiz.Question
		wantErr   bool
	}{
		{"count ok", &CountValidator{}, good, false},
		{"count empty", &CountValidator{}, nil, true},
		{"count short", &CountValidator{}, good[:1], true},
		{"structural ok", &StructuralValidator{}, good, false},
		{"structural three options", &StructuralValidator{}, []quiz.Question{q("Q?", "a", "b", "c")}, true},
		{"structural duplicate options", &StructuralValidator{}, []quiz.Question{q("Q?", "a", "A ", "c", "d")}, true},
		{"structural empty text", &StructuralValidator{}, []quiz.Question{q(" ", "a", "b", "c", "d")}, true},
		{"duplicate ok", &DuplicateValidator{}, good, false},
		{"duplicate repeated", &DuplicateValidator{}, []quiz.Question{good[0], q("what  is go?", "w", "x", "y", "z")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := tt.validator.Validate(tt.questions, cfg)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr != nil {
				if verr.Validator != tt.validator.Name() {
					t.Errorf("validator name = %q, want %q", verr.Validator, tt.validator.Name())
				}
				if !verr.Retryable {
					t.Error("expected retryable")
				}
			}
		})
	}
}

func TestCountValidator_ZeroCountAcceptsAny(t *testing.T) {
	v := &CountValidator{}
	if verr := v.Validate([]quiz.Question{q("Q?", "a", "b", "c", "d")}, Config{}); verr != nil {
		t.Errorf("unexpected error: %v", verr)
	}
}
