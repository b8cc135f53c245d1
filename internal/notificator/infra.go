package notificator

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Infra struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

func NewInfra(chatIDs []int64) *Infra {
	return &Infra{chatIDs: chatIDs}
}

// SetBot — позволяет передать бота ПОСЛЕ того, как он инициализировался
func (i *Infra) SetBot(bot *tgbotapi.BotAPI) {
	i.bot = bot
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	if i.bot == nil || len(i.chatIDs) == 0 {
		log.Printf("[notificator] no targets, err=%v details=%s", err, details)
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в боте\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	var lastErr error
	for _, chatID := range i.chatIDs {
		if _, sendErr := i.bot.Send(tgbotapi.NewMessage(chatID, text)); sendErr != nil {
			log.Printf("[notificator] send fail chat=%d: %v", chatID, sendErr)
			lastErr = sendErr
		}
	}
	return lastErr
}
