package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"passfailbot/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider is the primary backend. It is the only provider in the
// chain that actually reads the uploaded PDF, sent as a base64 document
// block alongside the prompt.
type AnthropicProvider struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicProvider{
		client: &client,
		model:  anthropic.ModelClaude4Sonnet20250514,
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) GenerateQuiz(ctx context.Context, doc models.Document, style models.QuizStyle) (*models.Quiz, error) {
	prompt := fmt.Sprintf(QUIZ_STRICT_PROMPT, QuestionCount)
	if style == models.StyleSimilar {
		prompt = fmt.Sprintf(QUIZ_SIMILAR_PROMPT, QuestionCount)
	}

	log.Printf("[INFO] Calling Anthropic for quiz generation (style=%s, file=%s)", style, doc.Filename)
	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
				documentBlock(doc),
			),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        "create_quiz",
					Description: anthropic.String("Create a multiple-choice quiz from the document"),
					InputSchema: generateAnthropicSchema[CreateQuizInput](),
				},
			},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: "create_quiz"},
		},
	})
	if err != nil {
		log.Printf("[ERROR] Anthropic quiz generation failed: %v", err)
		return nil, categorize(p.Name(), err)
	}

	var input CreateQuizInput
	if err := decodeToolUse(response, "create_quiz", &input); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Anthropic returned %d questions", len(input.Questions))
	return quizFromInput(input), nil
}

func (p *AnthropicProvider) IdentifyTopic(ctx context.Context, doc models.Document) (string, error) {
	log.Printf("[INFO] Calling Anthropic for topic identification (file=%s)", doc.Filename)
	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(TOPIC_PROMPT),
				documentBlock(doc),
			),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        "identify_topic",
					Description: anthropic.String("Report the main topic of the document"),
					InputSchema: generateAnthropicSchema[IdentifyTopicInput](),
				},
			},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: "identify_topic"},
		},
	})
	if err != nil {
		log.Printf("[ERROR] Anthropic topic identification failed: %v", err)
		return "", categorize(p.Name(), err)
	}

	var input IdentifyTopicInput
	if err := decodeToolUse(response, "identify_topic", &input); err != nil {
		return "", err
	}

	return input.Topic, nil
}

func (p *AnthropicProvider) Ping(ctx context.Context) (string, error) {
	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(PING_PROMPT)),
		},
	})
	if err != nil {
		return "", categorize(p.Name(), err)
	}

	for _, block := range response.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			return text.Text, nil
		}
	}
	return "", fmt.Errorf("%w: anthropic: empty ping response", ErrUpstream)
}

func documentBlock(doc models.Document) anthropic.ContentBlockParamUnion {
	return anthropic.ContentBlockParamUnion{
		OfDocument: &anthropic.DocumentBlockParam{
			Source: anthropic.DocumentBlockParamSourceUnion{
				OfBase64: &anthropic.Base64PDFSourceParam{
					Data: base64.StdEncoding.EncodeToString(doc.Data),
				},
			},
		},
	}
}

// decodeToolUse pulls the named forced tool call out of the response and
// unmarshals its input into out.
func decodeToolUse(response *anthropic.Message, name string, out any) error {
	for _, block := range response.Content {
		toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok || toolUse.Name != name {
			continue
		}

		inputJSON, err := json.Marshal(toolUse.Input)
		if err != nil {
			return fmt.Errorf("%w: anthropic: failed to marshal %s input: %v", ErrBadOutput, name, err)
		}
		if err := json.Unmarshal(inputJSON, out); err != nil {
			return fmt.Errorf("%w: anthropic: failed to parse %s input: %v", ErrBadOutput, name, err)
		}
		return nil
	}

	return fmt.Errorf("%w: anthropic: no %s tool call in response", ErrBadOutput, name)
}

func quizFromInput(input CreateQuizInput) *models.Quiz {
	questions := make([]models.Question, len(input.Questions))
	for i, q := range input.Questions {
		questions[i] = models.Question{
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		}
	}
	return &models.Quiz{Questions: questions}
}
