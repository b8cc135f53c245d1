package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/soirgang/soirtichaut/internal/ports"
)

type Bot struct {
	api   *tgbotapi.BotAPI
	queue Queue
}

func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api}, nil
}

func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// SetQueue — очередь подключается ПОСЛЕ создания dispatch-петли,
// потому что петле для отправки нужен сам бот
func (b *Bot) SetQueue(q Queue) {
	b.queue = q
}

func (b *Bot) Identity() ports.BotIdentity {
	return ports.BotIdentity{
		ID:          b.api.Self.ID,
		DisplayName: b.api.Self.FirstName,
		Handle:      b.api.Self.UserName,
	}
}

// Run — главный цикл получения апдейтов (producer-сторона очереди)
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	log.Printf("[bot_loop] started username=@%s", b.api.Self.UserName)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		b.enqueue(update.Message)
	}

	log.Printf("[bot_loop] updates channel closed")
}

func (b *Bot) enqueue(msg *tgbotapi.Message) {
	if b.queue == nil {
		log.Printf("[bot_loop] queue not wired, drop msg=%d", msg.MessageID)
		return
	}
	b.queue.Enqueue(toInbound(msg))
}

func toInbound(msg *tgbotapi.Message) ports.Inbound {
	in := ports.Inbound{
		RoomID:  msg.Chat.ID,
		EntryID: int64(msg.MessageID),
		Text:    msg.Text,
		Author:  toAuthor(msg.From),
	}
	if rt := msg.ReplyToMessage; rt != nil {
		in.ReplyTo = &ports.Quoted{
			EntryID: int64(rt.MessageID),
			Text:    rt.Text,
			Author:  toAuthor(rt.From),
		}
	}
	return in
}

func toAuthor(u *tgbotapi.User) *ports.Author {
	if u == nil {
		return nil
	}
	return &ports.Author{
		ID:          u.ID,
		DisplayName: u.FirstName,
		Username:    u.UserName,
	}
}
