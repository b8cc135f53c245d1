package ai

import (
	"context"
	"errors"
)

var (
	// ErrEmptyTranscript — промпт запросили для комнаты без истории.
	// Это нарушение контракта вызывающей стороны, не тихий пустой ответ.
	ErrEmptyTranscript = errors.New("chatlog is empty")

	// ErrEmptyCompletion — провайдер вернул ответ без текста или usage.
	ErrEmptyCompletion = errors.New("empty completion response")
)

// Result — успешный ответ completion-провайдера.
type Result struct {
	Text        string
	TotalTokens int
}

// Client — клиент completion-провайдера.
type Client interface {
	// Complete завершает промпт. userTag уходит провайдеру для
	// атрибуции запроса инициатору.
	Complete(ctx context.Context, prompt, userTag string) (Result, error)

	// Edit — привилегированный edit-запрос операторов.
	Edit(ctx context.Context, instruction, input string) (string, error)
}
