package provider

import (
	"context"

	"passfailbot/models"
)

// Provider is one backend capable of turning an uploaded document into a
// quiz. Implementations that cannot read the document itself (no file
// input support) are expected to work from the filename alone.
type Provider interface {
	Name() string
	GenerateQuiz(ctx context.Context, doc models.Document, style models.QuizStyle) (*models.Quiz, error)
	IdentifyTopic(ctx context.Context, doc models.Document) (string, error)
	Ping(ctx context.Context) (string, error)
}

// QuestionCount is how many questions a provider is asked to produce.
const QuestionCount = 10
