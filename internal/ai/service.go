package ai

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/soirgang/soirtichaut/internal/chatlog"
)

type Service struct {
	client  Client
	store   chatlog.Store
	prompts *PromptBuilder
	timeout time.Duration
}

func NewService(client Client, store chatlog.Store, prompts *PromptBuilder, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Service{
		client:  client,
		store:   store,
		prompts: prompts,
		timeout: timeout,
	}
}

// Reply строит промпт по чатлогу комнаты и запрашивает completion.
// Требует непустого чатлога: вызов по пустой комнате — ошибка
// вызывающей стороны (ErrEmptyTranscript).
func (s *Service) Reply(ctx context.Context, roomID, authorID int64, quoted *chatlog.Entry) (Result, error) {
	start := time.Now()

	history, err := s.store.Get(ctx, roomID)
	if err != nil {
		return Result{}, err
	}

	prompt, err := s.prompts.Build(history, quoted)
	if err != nil {
		return Result{}, err
	}

	ctxGPT, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.Complete(ctxGPT, prompt, strconv.FormatInt(authorID, 10))
	log.Printf("[ai][%.1fs] completion done room=%d err=%v", time.Since(start).Seconds(), roomID, err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *Service) Edit(ctx context.Context, instruction, input string) (string, error) {
	start := time.Now()

	ctxGPT, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.client.Edit(ctxGPT, instruction, input)
	log.Printf("[ai][%.1fs] edit done err=%v", time.Since(start).Seconds(), err)
	return text, err
}
