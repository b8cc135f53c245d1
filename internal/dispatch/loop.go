package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/soirgang/soirtichaut/internal/ai"
	"github.com/soirgang/soirtichaut/internal/chatlog"
	"github.com/soirgang/soirtichaut/internal/notificator"
	"github.com/soirgang/soirtichaut/internal/policy"
	"github.com/soirgang/soirtichaut/internal/ports"
)

const defaultQueueSize = 256

// Loop — единственный потребитель очереди входящих сообщений.
// Сообщение обрабатывается целиком, прежде чем берётся следующее:
// одновременно выполняется не больше одной генерации, и мутации
// чатлога не гоняются между собой.
type Loop struct {
	queue  chan ports.Inbound
	engine *policy.Engine
	store  chatlog.Store
	ai     Responder
	out    ports.Outbound
	notify notificator.Notificator
	bot    ports.BotIdentity
}

func NewLoop(
	queueSize int,
	engine *policy.Engine,
	store chatlog.Store,
	responder Responder,
	out ports.Outbound,
	notify notificator.Notificator,
	bot ports.BotIdentity,
) *Loop {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Loop{
		queue:  make(chan ports.Inbound, queueSize),
		engine: engine,
		store:  store,
		ai:     responder,
		out:    out,
		notify: notify,
		bot:    bot,
	}
}

// Enqueue кладёт сообщение в очередь (producer-сторона). Очередь
// ограничена; при переполнении сообщение теряется — обратного
// давления на Telegram нет.
func (l *Loop) Enqueue(msg ports.Inbound) bool {
	select {
	case l.queue <- msg:
		return true
	default:
		log.Printf("[dispatch] queue full, drop msg=%d room=%d", msg.EntryID, msg.RoomID)
		return false
	}
}

func (l *Loop) QueueDepth() int {
	return len(l.queue)
}

// Run — consumer. Блокирующее чтение из канала заменяет поллинг
// с фиксированным интервалом: FIFO-порядок и один запрос в полёте
// сохраняются.
func (l *Loop) Run(ctx context.Context) {
	log.Printf("[dispatch] loop started queue_cap=%d", cap(l.queue))
	for {
		select {
		case <-ctx.Done():
			log.Printf("[dispatch] loop stopped: %v", ctx.Err())
			return
		case msg := <-l.queue:
			l.handle(ctx, msg)
		}
	}
}

func (l *Loop) handle(ctx context.Context, msg ports.Inbound) {
	if msg.Author == nil {
		log.Printf("[dispatch] skip msg=%d room=%d: no author", msg.EntryID, msg.RoomID)
		return
	}

	log.Printf("[dispatch] received msg=%d room=%d %s(%d): %q",
		msg.EntryID, msg.RoomID, msg.Author.DisplayName, msg.Author.ID, msg.Text)

	d := l.engine.Evaluate(msg, l.bot)

	if d.Record {
		if err := l.store.Append(ctx, msg.RoomID, entryFromInbound(msg)); err != nil {
			log.Printf("[dispatch] append fail room=%d: %v", msg.RoomID, err)
			_ = l.notify.Notify(ctx, err,
				fmt.Sprintf("Не удалось записать сообщение %d в чатлог комнаты %d", msg.EntryID, msg.RoomID))
		}
	}

	if !d.Trigger || msg.Text == "" {
		return
	}

	l.out.SendTyping(msg.RoomID)

	var reply string
	if d.Edit {
		instruction, input, err := policy.ParseEditCommand(msg.Text)
		if err != nil {
			log.Printf("[dispatch] bad edit command msg=%d: %v", msg.EntryID, err)
			return
		}
		reply, err = l.ai.Edit(ctx, instruction, input)
		if err != nil {
			l.reportFailure(ctx, msg, err)
			return
		}
	} else {
		res, err := l.ai.Reply(ctx, msg.RoomID, msg.Author.ID, quotedEntry(msg))
		if err != nil {
			l.reportFailure(ctx, msg, err)
			return
		}
		reply = res.Text
		log.Printf("[dispatch] sending (%d tokens): %.30s", res.TotalTokens, reply)
	}

	history, err := l.store.Get(ctx, msg.RoomID)
	if err != nil {
		log.Printf("[dispatch] chatlog read fail room=%d: %v", msg.RoomID, err)
		history = nil
	}

	// ответ бота получает последний id комнаты + 1; когда чатлог пуст
	// (Trigger без Record по edit-команде), отталкиваемся от входящего
	nextID := msg.EntryID + 1
	if len(history) > 0 {
		nextID = history[len(history)-1].EntryID + 1
	}

	repliesTo := msg.EntryID
	botEntry := chatlog.Entry{
		DisplayName: l.bot.DisplayName,
		Username:    l.bot.Handle,
		AuthorID:    l.bot.ID,
		Text:        reply,
		EntryID:     nextID,
		RepliesTo:   &repliesTo,
	}
	if err := l.store.Append(ctx, msg.RoomID, botEntry); err != nil {
		log.Printf("[dispatch] append reply fail room=%d: %v", msg.RoomID, err)
	}

	if err := l.out.SendReply(msg.RoomID, reply, msg.EntryID); err != nil {
		log.Printf("[dispatch] send fail room=%d: %v", msg.RoomID, err)
		_ = l.notify.Notify(ctx, err,
			fmt.Sprintf("Не удалось отправить ответ в комнату %d (реплай на %d)", msg.RoomID, msg.EntryID))
	}
}

// reportFailure — сбой генерации. Ответ теряется без ретрая, комната
// ничего не видит; петля продолжает разбирать очередь.
func (l *Loop) reportFailure(ctx context.Context, msg ports.Inbound, err error) {
	if errors.Is(err, ai.ErrEmptyTranscript) {
		// нарушение инварианта: триггер сработал по комнате без истории
		log.Printf("[dispatch] INVARIANT: empty chatlog room=%d msg=%d", msg.RoomID, msg.EntryID)
	} else {
		log.Printf("[dispatch] generation fail msg=%d room=%d: %v", msg.EntryID, msg.RoomID, err)
	}
	_ = l.notify.Notify(ctx, err,
		fmt.Sprintf("Генерация ответа не удалась\nКомната: %d\nСообщение: %d\nТекст: %q",
			msg.RoomID, msg.EntryID, msg.Text))
}

func entryFromInbound(msg ports.Inbound) chatlog.Entry {
	e := chatlog.Entry{
		DisplayName: msg.Author.DisplayName,
		Username:    msg.Author.Username,
		AuthorID:    msg.Author.ID,
		Text:        msg.Text,
		EntryID:     msg.EntryID,
	}
	if msg.ReplyTo != nil {
		id := msg.ReplyTo.EntryID
		e.RepliesTo = &id
	}
	return e
}

// quotedEntry — контекст цитаты для энкодера: только если у цитаты
// есть и текст, и автор.
func quotedEntry(msg ports.Inbound) *chatlog.Entry {
	rt := msg.ReplyTo
	if rt == nil || rt.Text == "" || rt.Author == nil {
		return nil
	}
	return &chatlog.Entry{
		DisplayName: rt.Author.DisplayName,
		Username:    rt.Author.Username,
		AuthorID:    rt.Author.ID,
		Text:        rt.Text,
		EntryID:     rt.EntryID,
	}
}
