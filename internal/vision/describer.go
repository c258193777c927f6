// Package vision generates AI descriptions of image attachments through an
// Azure OpenAI chat-completions deployment.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Describer sends image + prompt messages to an Azure OpenAI deployment.
type Describer struct {
	client     *openai.Client
	deployment string
}

// New creates a Describer for the given Azure endpoint and deployment.
func New(endpoint, apiKey, apiVersion, deployment string) *Describer {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	cfg.AzureModelMapperFunc = func(string) string { return deployment }

	return &Describer{
		client:     openai.NewClientWithConfig(cfg),
		deployment: deployment,
	}
}

// Describe sends the image inline as a base64 data URL together with the
// caller's prompt and returns the provider response verbatim, so agents see
// the same structure the chat-completions API produces.
func (d *Describer) Describe(ctx context.Context, image []byte, mimeType, prompt string) (*openai.ChatCompletionResponse, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image content is empty")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.deployment,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("describing image: %w", err)
	}
	return &resp, nil
}
