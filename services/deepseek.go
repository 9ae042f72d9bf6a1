package services

import (
	"FeeloraGo/config"
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

type DeepseekClient struct {
	DsChat llms.Model
}

func NewDeepseekClient(apiKey, apiEndpoint, model string) (*DeepseekClient, error) {
	if model == "" {
		model = "deepseek-chat"
	}
	v3, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel(model),
		openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_object",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Deepseek client: %w", err)
	}

	return &DeepseekClient{
		DsChat: v3,
	}, nil
}

// GenerateJSON 输出结构放在 system 消息里，用户提示词作为 human 消息
func (c *DeepseekClient) GenerateJSON(ctx context.Context, prompt string, schema *Schema) ([]byte, error) {
	instruction, err := schemaInstruction(schema)
	if err != nil {
		return nil, err
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(instruction)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := c.DsChat.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		config.Logger.Errorw("生成内容失败", "error", err)
		return nil, fmt.Errorf("deepseek generate: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	return ExtractJSON(response.Choices[0].Content)
}
