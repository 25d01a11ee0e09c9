package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"frontdesk/app/config"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const maxCompletionDuration = 30 * time.Second

var _ Client = (*OpenAIClient)(nil)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewClient(di *do.Injector) (Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return New(cfg.OpenAI.Completion), nil
}

func New(cfg config.ModelConfig) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.Token)

	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: maxCompletionDuration,
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:               c.model,
		Messages:            messages,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         req.Temperature,
	}

	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, maxCompletionDuration)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}

// StripFence removes a markdown code fence the model sometimes wraps
// JSON output in, even in JSON mode on some compatible backends.
func StripFence(s string) string {
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "json")

	return strings.TrimSpace(s)
}
