package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/cchalm/convo/internal/transcript"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicGenerator asks a hosted model through the Messages API
type AnthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicGenerator(client anthropic.Client, model string) *AnthropicGenerator {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicGenerator{client: client, model: anthropic.Model(model)}
}

func (a *AnthropicGenerator) Generate(ctx context.Context, turns []transcript.Turn) (string, error) {
	prompt := Prompt(turns)
	if prompt == "" {
		return "", ErrEmptyTitle
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 64,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to request title: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		}
	}

	t := Clean(text.String())
	if t == "" {
		return "", ErrEmptyTitle
	}
	return t, nil
}
