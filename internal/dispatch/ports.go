package dispatch

import (
	"context"

	"github.com/soirgang/soirtichaut/internal/ai"
	"github.com/soirgang/soirtichaut/internal/chatlog"
)

// Responder — генерация ответов (AI-сервис).
type Responder interface {
	Reply(ctx context.Context, roomID, authorID int64, quoted *chatlog.Entry) (ai.Result, error)
	Edit(ctx context.Context, instruction, input string) (string, error)
}
