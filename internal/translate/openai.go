package translate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const translatePrompt = `You are a translation engine.
Translate the user's message from the language with ISO 639-1 code %q to the language with code %q.
Output ONLY the translation. No quotes, no explanations, no transliteration.`

// OpenAI asks a chat model for the translation. It serves as the secondary
// provider when an API key is available.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAI(apiKey string, httpClient *http.Client, opts ...option.RequestOption) *OpenAI {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(httpClient))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAI{
		client: openai.NewClient(reqOpts...),
		model:  openai.ChatModelGPT5Nano,
	}
}

func (o *OpenAI) Name() string {
	return "openai"
}

func (o *OpenAI) Translate(ctx context.Context, req Request) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(translatePrompt, req.Source, req.Target)),
			openai.UserMessage(req.Text),
		},
		Model: o.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
