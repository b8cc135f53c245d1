package telegram

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) SendTyping(roomID int64) {
	action := tgbotapi.NewChatAction(roomID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		log.Printf("[bot] typing fail room=%d: %v", roomID, err)
	}
}

func (b *Bot) SendReply(roomID int64, text string, replyToID int64) error {
	m := tgbotapi.NewMessage(roomID, text)
	m.ReplyToMessageID = int(replyToID)
	_, err := b.api.Send(m)
	return err
}
