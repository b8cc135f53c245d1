package telegram

import "github.com/soirgang/soirtichaut/internal/ports"

// Queue — приёмник входящих сообщений (dispatch-петля).
type Queue interface {
	Enqueue(msg ports.Inbound) bool
}
