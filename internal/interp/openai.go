package interp

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/packprint/sales-agent/pkg/logger"
)

const openaiModel = "gpt-4o"

// OpenAI interprets messages through the OpenAI chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
	system string
	logger *logger.Logger
}

// NewOpenAI builds an OpenAI-backed interpreter grounded on the given
// catalog text.
func NewOpenAI(apiKey, catalogBlob string, log *logger.Logger) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  openaiModel,
		system: systemPrompt(catalogBlob) + "\n\n" + extractionInstruction,
		logger: log,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Interpret(ctx context.Context, message string, history []Exchange) Result {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: o.system,
	})
	for _, ex := range history {
		role := openai.ChatMessageRoleUser
		if ex.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: ex.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		o.logger.Error("openai completion failed", zap.Error(err))
		return ErrorResult()
	}
	if len(resp.Choices) == 0 {
		o.logger.Error("openai returned no choices")
		return ErrorResult()
	}

	text, fields := parseTrailer(resp.Choices[0].Message.Content)
	return Result{ResponseText: text, Fields: fields}
}
