package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// CreateQuizInput is the structured output both providers are forced to
// produce through a tool call. Shape repair happens downstream, so the
// schema only states intent, not hard invariants.
type CreateQuizInput struct {
	Questions []QuestionInput `json:"questions" jsonschema:"required,description=An array of multiple-choice questions"`
}

type QuestionInput struct {
	Question string   `json:"question" jsonschema:"required,description=The question."`
	Options  []string `json:"options" jsonschema:"required,description=An array of 4 possible answers."`
	Answer   string   `json:"answer" jsonschema:"required,description=The correct answer - one of the options."`
}

type IdentifyTopicInput struct {
	Topic string `json:"topic" jsonschema:"required,description=Main topic in 2-5 words. e.g. 'Organic Chemistry'"`
}

func generateAnthropicSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}
