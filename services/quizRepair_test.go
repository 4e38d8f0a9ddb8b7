package services

import (
	"strings"
	"testing"

	"passfailbot/models"
)

func q(text string, options []string, answer string) models.Question {
	return models.Question{Question: text, Options: options, Answer: answer}
}

func TestValidateQuiz(t *testing.T) {
	tests := []struct {
		name    string
		quiz    *models.Quiz
		wantErr bool
	}{
		{
			name: "valid quiz",
			quiz: &models.Quiz{Questions: []models.Question{
				q("Capital of France?", []string{"London", "Paris", "Berlin", "Madrid"}, "Paris"),
			}},
			wantErr: false,
		},
		{
			name:    "nil quiz",
			quiz:    nil,
			wantErr: true,
		},
		{
			name:    "empty quiz",
			quiz:    &models.Quiz{},
			wantErr: true,
		},
		{
			name: "three options",
			quiz: &models.Quiz{Questions: []models.Question{
				q("Capital of France?", []string{"London", "Paris", "Berlin"}, "Paris"),
			}},
			wantErr: true,
		},
		{
			name: "five options",
			quiz: &models.Quiz{Questions: []models.Question{
				q("Capital of France?", []string{"London", "Paris", "Berlin", "Madrid", "Rome"}, "Paris"),
			}},
			wantErr: true,
		},
		{
			name: "duplicate options",
			quiz: &models.Quiz{Questions: []models.Question{
				q("Capital of France?", []string{"Paris", "Paris", "Berlin", "Madrid"}, "Paris"),
			}},
			wantErr: true,
		},
		{
			name: "answer not among options",
			quiz: &models.Quiz{Questions: []models.Question{
				q("Capital of France?", []string{"London", "Paris", "Berlin", "Madrid"}, "Rome"),
			}},
			wantErr: true,
		},
		{
			name: "empty question text",
			quiz: &models.Quiz{Questions: []models.Question{
				q("  ", []string{"London", "Paris", "Berlin", "Madrid"}, "Paris"),
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuiz(tt.quiz)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuiz() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRepairQuiz(t *testing.T) {
	t.Run("truncates extra options", func(t *testing.T) {
		quiz := &models.Quiz{Questions: []models.Question{
			q("Pick one", []string{"a", "b", "c", "d", "e", "f"}, "a"),
		}}
		repaired, err := RepairQuiz(quiz)
		if err != nil {
			t.Fatalf("RepairQuiz() error = %v", err)
		}
		if got := len(repaired.Questions[0].Options); got != OptionCount {
			t.Errorf("expected %d options, got %d", OptionCount, got)
		}
	})

	t.Run("pads missing options", func(t *testing.T) {
		quiz := &models.Quiz{Questions: []models.Question{
			q("Pick one", []string{"a", "b"}, "a"),
		}}
		repaired, err := RepairQuiz(quiz)
		if err != nil {
			t.Fatalf("RepairQuiz() error = %v", err)
		}
		if got := len(repaired.Questions[0].Options); got != OptionCount {
			t.Errorf("expected %d options, got %d", OptionCount, got)
		}
		if err := ValidateQuiz(repaired); err != nil {
			t.Errorf("padded quiz is still invalid: %v", err)
		}
	})

	t.Run("fuzzy-coerces off-list answer", func(t *testing.T) {
		quiz := &models.Quiz{Questions: []models.Question{
			q("Capital of France?", []string{"London", "Paris", "Berlin", "Madrid"}, "paris"),
		}}
		repaired, err := RepairQuiz(quiz)
		if err != nil {
			t.Fatalf("RepairQuiz() error = %v", err)
		}
		if got := repaired.Questions[0].Answer; got != "Paris" {
			t.Errorf("expected fuzzy match to Paris, got %q", got)
		}
	})

	t.Run("unmatchable answer becomes first option", func(t *testing.T) {
		quiz := &models.Quiz{Questions: []models.Question{
			q("Capital of France?", []string{"London", "Paris", "Berlin", "Madrid"}, "42"),
		}}
		repaired, err := RepairQuiz(quiz)
		if err != nil {
			t.Fatalf("RepairQuiz() error = %v", err)
		}
		if got := repaired.Questions[0].Answer; got != "London" {
			t.Errorf("expected first option, got %q", got)
		}
	})

	t.Run("drops questions with empty text", func(t *testing.T) {
		quiz := &models.Quiz{Questions: []models.Question{
			q("", []string{"a", "b", "c", "d"}, "a"),
			q("Real question", []string{"a", "b", "c", "d"}, "b"),
		}}
		repaired, err := RepairQuiz(quiz)
		if err != nil {
			t.Fatalf("RepairQuiz() error = %v", err)
		}
		if got := len(repaired.Questions); got != 1 {
			t.Errorf("expected 1 question, got %d", got)
		}
	})

	t.Run("caps question count", func(t *testing.T) {
		var questions []models.Question
		for i := 0; i < MaxQuestions+5; i++ {
			questions = append(questions, q("Question "+strings.Repeat("x", i+1), []string{"a", "b", "c", "d"}, "a"))
		}
		repaired, err := RepairQuiz(&models.Quiz{Questions: questions})
		if err != nil {
			t.Fatalf("RepairQuiz() error = %v", err)
		}
		if got := len(repaired.Questions); got != MaxQuestions {
			t.Errorf("expected %d questions, got %d", MaxQuestions, got)
		}
	})

	t.Run("nothing usable is an error", func(t *testing.T) {
		quiz := &models.Quiz{Questions: []models.Question{
			q("", []string{"a", "b", "c", "d"}, "a"),
			q("No options", nil, ""),
		}}
		if _, err := RepairQuiz(quiz); err == nil {
			t.Errorf("expected error for quiz with no usable questions")
		}
	})

	t.Run("nil quiz is an error", func(t *testing.T) {
		if _, err := RepairQuiz(nil); err == nil {
			t.Errorf("expected error for nil quiz")
		}
	})
}

func TestFallbackQuizIsValid(t *testing.T) {
	if err := ValidateQuiz(FallbackQuiz()); err != nil {
		t.Errorf("fallback quiz must always validate: %v", err)
	}
}

func TestTopicFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"organic_chemistry.pdf", "Organic Chemistry"},
		{"linear-algebra-notes.pdf", "Linear Algebra Notes"},
		{"Thermodynamics.pdf", "Thermodynamics"},
		{"lecture 12.pdf", "Lecture 12"},
		{"", "Unknown"},
		{".pdf", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := TopicFromFilename(tt.filename); got != tt.expected {
				t.Errorf("TopicFromFilename(%q) = %q, expected %q", tt.filename, got, tt.expected)
			}
		})
	}
}
