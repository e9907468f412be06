package genai

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client on any OpenAI-compatible chat completion
// endpoint using the official openai-go SDK.
type OpenAIClient struct {
	model string
	opts  []option.RequestOption
}

// OpenAISettings configures the SDK-backed client.
type OpenAISettings struct {
	Model   string
	APIKey  string
	BaseURL string
}

func NewOpenAIClient(cfg *OpenAISettings) (*OpenAIClient, error) {
	if cfg == nil {
		return nil, errors.New("openai config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set the configured env var")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{model: cfg.Model, opts: opts}, nil
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (res Result) {
	defer recoverToFailure(&res)

	client := openai.NewClient(o.opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return FailStatus(KindUpstream, apiErr.StatusCode, apiErr.Error())
		}
		return Fail(KindNetwork, "AI request failed: network error")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Fail(KindNoUsableContent, "no usable text in response")
	}
	return Success(resp.Choices[0].Message.Content)
}
