package services

import (
	"context"
	"errors"
	"testing"

	"passfailbot/models"
	"passfailbot/services/provider"
)

// stubProvider counts calls so tests can assert which chain members ran.
type stubProvider struct {
	name       string
	quiz       *models.Quiz
	topic      string
	err        error
	quizCalls  int
	topicCalls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GenerateQuiz(ctx context.Context, doc models.Document, style models.QuizStyle) (*models.Quiz, error) {
	s.quizCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quiz, nil
}

func (s *stubProvider) IdentifyTopic(ctx context.Context, doc models.Document) (string, error) {
	s.topicCalls++
	if s.err != nil {
		return "", s.err
	}
	return s.topic, nil
}

func (s *stubProvider) Ping(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "API working", nil
}

func validQuiz() *models.Quiz {
	return &models.Quiz{Questions: []models.Question{
		{
			Question: "Capital of France?",
			Options:  []string{"London", "Paris", "Berlin", "Madrid"},
			Answer:   "Paris",
		},
	}}
}

func TestGenerateQuizChain(t *testing.T) {
	ctx := context.Background()
	doc := models.Document{Filename: "notes.pdf", Data: []byte("pdf")}

	t.Run("first provider wins", func(t *testing.T) {
		first := &stubProvider{name: "first", quiz: validQuiz()}
		second := &stubProvider{name: "second", quiz: validQuiz()}
		qs := NewQuizService([]provider.Provider{first, second})

		quiz, fallback, err := qs.GenerateQuiz(ctx, doc, models.StyleStrict)
		if err != nil {
			t.Fatalf("GenerateQuiz() error = %v", err)
		}
		if fallback {
			t.Errorf("expected no fallback")
		}
		if quiz == nil || len(quiz.Questions) == 0 {
			t.Fatalf("expected a quiz")
		}
		if second.quizCalls != 0 {
			t.Errorf("second provider should not be called, got %d calls", second.quizCalls)
		}
	})

	t.Run("failure falls through to second provider", func(t *testing.T) {
		first := &stubProvider{name: "first", err: provider.ErrUpstream}
		second := &stubProvider{name: "second", quiz: validQuiz()}
		qs := NewQuizService([]provider.Provider{first, second})

		quiz, fallback, err := qs.GenerateQuiz(ctx, doc, models.StyleStrict)
		if err != nil {
			t.Fatalf("GenerateQuiz() error = %v", err)
		}
		if fallback {
			t.Errorf("expected no fallback when second provider succeeds")
		}
		if quiz == nil {
			t.Fatalf("expected a quiz")
		}
		if first.quizCalls != 1 || second.quizCalls != 1 {
			t.Errorf("expected both providers tried once, got %d and %d", first.quizCalls, second.quizCalls)
		}
	})

	t.Run("unrepairable output falls through", func(t *testing.T) {
		first := &stubProvider{name: "first", quiz: &models.Quiz{}}
		second := &stubProvider{name: "second", quiz: validQuiz()}
		qs := NewQuizService([]provider.Provider{first, second})

		_, fallback, err := qs.GenerateQuiz(ctx, doc, models.StyleStrict)
		if err != nil || fallback {
			t.Errorf("expected second provider to rescue the request, fallback=%v err=%v", fallback, err)
		}
	})

	t.Run("all providers failing yields fallback quiz", func(t *testing.T) {
		first := &stubProvider{name: "first", err: provider.ErrAuth}
		second := &stubProvider{name: "second", err: provider.ErrRateLimited}
		qs := NewQuizService([]provider.Provider{first, second})

		quiz, fallback, err := qs.GenerateQuiz(ctx, doc, models.StyleStrict)
		if !fallback {
			t.Errorf("expected fallback")
		}
		if quiz == nil || len(quiz.Questions) == 0 {
			t.Fatalf("fallback must never leave the caller without a quiz")
		}
		if !errors.Is(err, provider.ErrRateLimited) {
			t.Errorf("expected last provider error to surface, got %v", err)
		}
		if vErr := ValidateQuiz(quiz); vErr != nil {
			t.Errorf("fallback quiz invalid: %v", vErr)
		}
	})

	t.Run("no providers configured is a hard error", func(t *testing.T) {
		qs := NewQuizService(nil)
		_, _, err := qs.GenerateQuiz(ctx, doc, models.StyleStrict)
		if !errors.Is(err, provider.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})
}

func TestIdentifyTopicNeverFails(t *testing.T) {
	ctx := context.Background()
	doc := models.Document{Filename: "organic_chemistry.pdf", Data: []byte("pdf")}

	t.Run("provider topic wins", func(t *testing.T) {
		qs := NewQuizService([]provider.Provider{&stubProvider{name: "p", topic: "Organic Chemistry"}})
		if got := qs.IdentifyTopic(ctx, doc); got != "Organic Chemistry" {
			t.Errorf("expected provider topic, got %q", got)
		}
	})

	t.Run("provider failure degrades to filename guess", func(t *testing.T) {
		qs := NewQuizService([]provider.Provider{&stubProvider{name: "p", err: provider.ErrUpstream}})
		if got := qs.IdentifyTopic(ctx, doc); got != "Organic Chemistry" {
			t.Errorf("expected filename-derived topic, got %q", got)
		}
	})

	t.Run("no providers still yields a label", func(t *testing.T) {
		qs := NewQuizService(nil)
		if got := qs.IdentifyTopic(ctx, models.Document{Filename: ""}); got != "Unknown" {
			t.Errorf("expected Unknown, got %q", got)
		}
	})
}

func TestTestAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		qs := NewQuizService(nil)
		result, err := qs.TestAPI(ctx)
		if !errors.Is(err, provider.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
		if result.Configured {
			t.Errorf("expected configured=false")
		}
	})

	t.Run("round-trip", func(t *testing.T) {
		qs := NewQuizService([]provider.Provider{&stubProvider{name: "p"}})
		result, err := qs.TestAPI(ctx)
		if err != nil {
			t.Fatalf("TestAPI() error = %v", err)
		}
		if result.Status != "ok" || result.Response != "API working" {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}
