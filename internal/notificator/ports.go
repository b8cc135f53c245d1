package notificator

import "context"

type Notificator interface {
	// Notify — отправляет детали сбоя операторам
	Notify(ctx context.Context, err error, details string) error
}
