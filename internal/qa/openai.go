// Package qa answers free-form questions about the text read off the screen.
package qa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const DefaultModel = "gpt-5-nano"

const screenPrompt = `You answer questions about text captured from a computer screen by OCR.
Answer in one short spoken sentence using only the screen text.
If the screen text does not answer the question, reply with exactly: UNKNOWN`

// unknown is what the model says when the screen text has no answer.
const unknown = "UNKNOWN"

var ErrNoAnswer = errors.New("no answer in screen text")

// OpenAI asks a chat model about the screen text.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAI(apiKey, model string, httpClient *http.Client, opts ...option.RequestOption) *OpenAI {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(httpClient))
	}
	reqOpts = append(reqOpts, opts...)
	if model == "" {
		model = DefaultModel
	}

	return &OpenAI{
		client: openai.NewClient(reqOpts...),
		model:  openai.ChatModel(model),
	}
}

// AnswerScreen returns ErrNoAnswer when the model finds nothing relevant.
func (o *OpenAI) AnswerScreen(ctx context.Context, question, screenText string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(screenPrompt),
			openai.UserMessage(fmt.Sprintf("Screen text:\n%s\n\nQuestion: %s", screenText, question)),
		},
		Model: o.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" || strings.EqualFold(strings.Trim(answer, "."), unknown) {
		return "", ErrNoAnswer
	}
	return answer, nil
}
