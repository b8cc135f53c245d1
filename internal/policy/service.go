package policy

import (
	"strings"

	"github.com/soirgang/soirtichaut/internal/ports"
)

type Mode string

const (
	// ModeSingle — авторизована ровно одна комната.
	ModeSingle Mode = "single"
	// ModeMulti — авторизован набор комнат.
	ModeMulti Mode = "multi"
)

// Decision — три независимых решения по одному входящему сообщению.
// Record без Trigger — сообщение пишется в чатлог, но ответа нет.
// Trigger без Record — оператор может получить ответ в неавторизованной
// комнате, при этом его сообщение в чатлог не попадает.
type Decision struct {
	Record  bool
	Trigger bool
	Edit    bool
}

// Engine решает, что делать с входящим сообщением. Все множества
// статичны, поэтому Engine безопасен для конкурентного чтения.
type Engine struct {
	mode   Mode
	roomID int64
	rooms  map[int64]bool
	ops    map[int64]bool
}

func NewEngine(mode Mode, roomID int64, roomIDs, opIDs []int64) *Engine {
	e := &Engine{
		mode:   mode,
		roomID: roomID,
		rooms:  make(map[int64]bool, len(roomIDs)),
		ops:    make(map[int64]bool, len(opIDs)),
	}
	for _, id := range roomIDs {
		e.rooms[id] = true
	}
	for _, id := range opIDs {
		e.ops[id] = true
	}
	return e
}

func (e *Engine) Evaluate(msg ports.Inbound, bot ports.BotIdentity) Decision {
	if msg.Author == nil {
		return Decision{}
	}

	isOp := e.ops[msg.Author.ID]
	authorized := isOp || e.roomAuthorized(msg.RoomID)

	// В личке Telegram id чата совпадает с id пользователя, поэтому
	// проверка room id по множеству операторов означает: в личке
	// оператора бот отвечает на всё без упоминания.
	trigger := e.ops[msg.RoomID] ||
		(authorized && (e.isReplyToBot(msg, bot) || e.mentionsBot(msg, bot)))

	return Decision{
		Record:  authorized,
		Trigger: trigger,
		Edit:    isOp && strings.HasPrefix(msg.Text, editSentinel),
	}
}

func (e *Engine) roomAuthorized(roomID int64) bool {
	if e.mode == ModeSingle {
		return roomID == e.roomID
	}
	return e.rooms[roomID]
}

func (e *Engine) isReplyToBot(msg ports.Inbound, bot ports.BotIdentity) bool {
	return msg.ReplyTo != nil && msg.ReplyTo.Author != nil && msg.ReplyTo.Author.ID == bot.ID
}

func (e *Engine) mentionsBot(msg ports.Inbound, bot ports.BotIdentity) bool {
	return bot.Handle != "" && strings.Contains(msg.Text, bot.Handle)
}
