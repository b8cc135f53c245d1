package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// maxReplyTokens — потолок длины генерации.
	maxReplyTokens = 1000
	// stopSequence — терминатор записи чатлога, на нём генерация
	// останавливается.
	stopSequence = "~~~"
)

type OpenAIClient struct {
	client          *openai.Client
	completionModel string
	editModel       string
}

func NewOpenAIClient(apiKey, completionModel, editModel string) *OpenAIClient {
	return &OpenAIClient{
		client:          openai.NewClient(apiKey),
		completionModel: completionModel,
		editModel:       editModel,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt, userTag string) (Result, error) {
	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     c.completionModel,
		Prompt:    prompt,
		MaxTokens: maxReplyTokens,
		Stop:      []string{stopSequence},
		User:      userTag,
	})
	if err != nil {
		return Result{}, err
	}

	if len(resp.Choices) == 0 {
		return Result{}, ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Text)
	if text == "" || resp.Usage.TotalTokens == 0 {
		return Result{}, ErrEmptyCompletion
	}

	return Result{Text: text, TotalTokens: resp.Usage.TotalTokens}, nil
}

func (c *OpenAIClient) Edit(ctx context.Context, instruction, input string) (string, error) {
	model := c.editModel
	resp, err := c.client.Edits(ctx, openai.EditsRequest{
		Model:       &model,
		Instruction: instruction,
		Input:       input,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
