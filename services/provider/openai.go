package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"passfailbot/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider is the secondary backend. It has no file input support,
// so it infers the subject from the uploaded filename alone and invents a
// quiz on that subject.
type OpenAIProvider struct {
	llm llms.Model
}

var createQuizTools = []llms.Tool{
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "create_quiz",
			Description: "Create a multiple-choice quiz on the inferred subject",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"questions": map[string]any{
						"type":        "array",
						"description": "Array of multiple-choice questions",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"question": map[string]any{
									"type":        "string",
									"description": "The question.",
								},
								"options": map[string]any{
									"type":        "array",
									"description": "An array of 4 possible answers.",
									"items":       map[string]any{"type": "string"},
								},
								"answer": map[string]any{
									"type":        "string",
									"description": "The correct answer - one of the options.",
								},
							},
							"required": []string{"question", "options", "answer"},
						},
					},
				},
				"required": []string{"questions"},
			},
		},
	},
}

var identifyTopicTools = []llms.Tool{
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "identify_topic",
			Description: "Report the main topic guessed from the filename",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic": map[string]any{
						"type":        "string",
						"description": "Main topic in 2-5 words, e.g. 'Organic Chemistry'",
					},
				},
				"required": []string{"topic"},
			},
		},
	},
}

func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	return &OpenAIProvider{llm: llm}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) GenerateQuiz(ctx context.Context, doc models.Document, style models.QuizStyle) (*models.Quiz, error) {
	prompt := fmt.Sprintf(QUIZ_FILENAME_PROMPT, doc.Filename, QuestionCount)

	log.Printf("[INFO] Calling OpenAI for filename-based quiz generation (file=%s)", doc.Filename)
	resp, err := p.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTools(createQuizTools),
		llms.WithTemperature(0.7),
		llms.WithToolChoice("required"))
	if err != nil {
		log.Printf("[ERROR] OpenAI quiz generation failed: %v", err)
		return nil, categorize(p.Name(), err)
	}

	var input CreateQuizInput
	if err := p.decodeToolCall(resp, "create_quiz", &input); err != nil {
		return nil, err
	}

	log.Printf("[INFO] OpenAI returned %d questions", len(input.Questions))
	return quizFromInput(input), nil
}

func (p *OpenAIProvider) IdentifyTopic(ctx context.Context, doc models.Document) (string, error) {
	prompt := fmt.Sprintf(TOPIC_FILENAME_PROMPT, doc.Filename)

	log.Printf("[INFO] Calling OpenAI for filename-based topic guess (file=%s)", doc.Filename)
	resp, err := p.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTools(identifyTopicTools),
		llms.WithTemperature(0.3),
		llms.WithToolChoice("required"))
	if err != nil {
		log.Printf("[ERROR] OpenAI topic guess failed: %v", err)
		return "", categorize(p.Name(), err)
	}

	var input IdentifyTopicInput
	if err := p.decodeToolCall(resp, "identify_topic", &input); err != nil {
		return "", err
	}

	return input.Topic, nil
}

func (p *OpenAIProvider) Ping(ctx context.Context) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, p.llm, PING_PROMPT, llms.WithMaxTokens(10))
	if err != nil {
		return "", categorize(p.Name(), err)
	}
	return strings.TrimSpace(completion), nil
}

func (p *OpenAIProvider) decodeToolCall(resp *llms.ContentResponse, name string, out any) error {
	if len(resp.Choices) == 0 || len(resp.Choices[0].ToolCalls) == 0 {
		return fmt.Errorf("%w: openai: no tool calls in response", ErrBadOutput)
	}

	toolCall := resp.Choices[0].ToolCalls[0]
	if toolCall.FunctionCall.Name != name {
		return fmt.Errorf("%w: openai: unexpected function call: %s", ErrBadOutput, toolCall.FunctionCall.Name)
	}

	if err := json.Unmarshal([]byte(toolCall.FunctionCall.Arguments), out); err != nil {
		return fmt.Errorf("%w: openai: failed to parse %s arguments: %v", ErrBadOutput, name, err)
	}
	return nil
}
