package interp

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/packprint/sales-agent/pkg/logger"
)

const anthropicModel = "claude-3-5-sonnet-20241022"

// Anthropic interprets messages through the Anthropic messages API.
type Anthropic struct {
	client *anthropic.Client
	system string
	logger *logger.Logger
}

// NewAnthropic builds an Anthropic-backed interpreter grounded on the
// given catalog text.
func NewAnthropic(apiKey, catalogBlob string, log *logger.Logger) *Anthropic {
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		system: systemPrompt(catalogBlob) + "\n\n" + extractionInstruction,
		logger: log,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Interpret(ctx context.Context, message string, history []Exchange) Result {
	// The instruction block rides in the first user message; every later
	// message follows the conversation's own roles.
	messages := []anthropic.MessageParam{textMessage(RoleUser, a.system)}
	for _, ex := range history {
		messages = append(messages, textMessage(ex.Role, ex.Content))
	}
	messages = append(messages, textMessage(RoleUser, message))

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(anthropicModel),
		MaxTokens: anthropic.F(int64(1024)),
		Messages:  anthropic.F(messages),
	})
	if err != nil {
		a.logger.Error("anthropic completion failed", zap.Error(err))
		return ErrorResult()
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			content += block.Text
		}
	}
	if content == "" {
		a.logger.Error("anthropic returned no text content")
		return ErrorResult()
	}

	text, fields := parseTrailer(content)
	return Result{ResponseText: text, Fields: fields}
}

func textMessage(role, content string) anthropic.MessageParam {
	return anthropic.MessageParam{
		Role: anthropic.F(anthropic.MessageParamRole(role)),
		Content: anthropic.F([]anthropic.ContentBlockParamUnion{
			anthropic.TextBlockParam{
				Type: anthropic.F(anthropic.TextBlockParamTypeText),
				Text: anthropic.F(content),
			},
		}),
	}
}
