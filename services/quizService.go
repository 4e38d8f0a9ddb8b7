package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"passfailbot/models"
	"passfailbot/services/provider"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// QuizService runs the provider fallback chain: providers are tried in
// order, the first one whose output survives the repair pipeline wins, and
// when every provider fails the caller still gets the static fallback quiz.
type QuizService struct {
	providers []provider.Provider
}

func NewQuizService(providers []provider.Provider) *QuizService {
	return &QuizService{providers: providers}
}

// GenerateQuiz returns a valid quiz and whether it is the static fallback.
// The error is only non-nil when the request could not even be attempted
// (no provider configured); provider failures degrade to the fallback quiz.
func (qs *QuizService) GenerateQuiz(ctx context.Context, doc models.Document, style models.QuizStyle) (*models.Quiz, bool, error) {
	if len(qs.providers) == 0 {
		return nil, false, provider.ErrNotConfigured
	}

	var lastErr error
	for _, p := range qs.providers {
		quiz, err := p.GenerateQuiz(ctx, doc, style)
		if err != nil {
			log.Printf("[ERROR] Provider %s failed: %v", p.Name(), err)
			lastErr = err
			continue
		}

		repaired, err := RepairQuiz(quiz)
		if err != nil {
			log.Printf("[ERROR] Provider %s output unusable after repair: %v", p.Name(), err)
			lastErr = fmt.Errorf("%w: %s: %v", provider.ErrBadOutput, p.Name(), err)
			continue
		}

		log.Printf("[INFO] Provider %s produced a quiz with %d questions", p.Name(), len(repaired.Questions))
		return repaired, false, nil
	}

	log.Printf("[ERROR] All providers failed, substituting fallback quiz: %v", lastErr)
	return FallbackQuiz(), true, lastErr
}

// IdentifyTopic never fails: provider errors degrade to a guess derived
// from the filename, and as a last resort to "Unknown".
func (qs *QuizService) IdentifyTopic(ctx context.Context, doc models.Document) string {
	for _, p := range qs.providers {
		topic, err := p.IdentifyTopic(ctx, doc)
		if err != nil {
			log.Printf("[ERROR] Provider %s topic identification failed: %v", p.Name(), err)
			continue
		}
		if topic = strings.TrimSpace(topic); topic != "" {
			return topic
		}
	}

	return TopicFromFilename(doc.Filename)
}

type TestAPIResult struct {
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
	Provider   string `json:"provider,omitempty"`
	Response   string `json:"response,omitempty"`
}

// TestAPI confirms a provider key is configured and round-trips a trivial
// prompt through the first provider in the chain.
func (qs *QuizService) TestAPI(ctx context.Context) (*TestAPIResult, error) {
	if len(qs.providers) == 0 {
		return &TestAPIResult{Status: "error", Configured: false}, provider.ErrNotConfigured
	}

	p := qs.providers[0]
	response, err := p.Ping(ctx)
	if err != nil {
		log.Printf("[ERROR] API test against %s failed: %v", p.Name(), err)
		return &TestAPIResult{Status: "error", Configured: true, Provider: p.Name()}, err
	}

	return &TestAPIResult{
		Status:     "ok",
		Configured: true,
		Provider:   p.Name(),
		Response:   strings.TrimSpace(response),
	}, nil
}

// ErrorMessage turns a categorized provider error into a user-facing string.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, provider.ErrNotConfigured):
		return "No AI provider is configured."
	case errors.Is(err, provider.ErrAuth):
		return "The AI provider rejected the configured API key."
	case errors.Is(err, provider.ErrRateLimited):
		return "The AI provider rate limit was exceeded. Try again shortly."
	case errors.Is(err, provider.ErrTimeout):
		return "The AI provider took too long to respond."
	case errors.Is(err, provider.ErrBadOutput):
		return "The AI provider returned an unusable quiz."
	default:
		return "Failed to generate quiz."
	}
}

var topicTitleCaser = cases.Title(language.English, cases.NoLower)

// TopicFromFilename cleans a filename into a presentable topic label.
func TopicFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Unknown"
	}
	return topicTitleCaser.String(base)
}
