package ai

import (
	"fmt"
	"log"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/soirgang/soirtichaut/internal/chatlog"
)

// historyWindow — сколько последних записей чатлога попадает в промпт.
const historyWindow = 10

const promptHeader = `You will be introduced to a chatlog from a Telegram groupchat. The last entry of the chatlog is incomplete, you have to complete it by strictly respecting the described format. Do not write anything else.

The user "%s":
- never pretends to know something he doesn't
- knows only about what is included in the chatlog and also about generally well-known facts
- sometimes writes using slang
- is very smart, knows about technology, science and history

Each entry of the chatlog:
- respects one of these formats:
  1. For a simple message: "<INSERT_USERNAME>: <INSERT_MESSAGE_ID>: <INSERT_MESSAGE>"
  2. For a reply: "<INSERT_USERNAME>: <INSERT_MESSAGE_ID>,<INSERT_REPLY_TARGET_ID>: <INSERT_MESSAGE_CONTENT>"
- can span across multiple lines
- are terminated by "~~~"

The message ids are always incremented by one.`

// PromptBuilder кодирует чатлог комнаты в детерминированный текстовый
// промпт. Последняя строка промпта синтетическая и не завершена:
// провайдер должен дописать её до терминатора "~~~".
type PromptBuilder struct {
	persona string
	model   string
	budget  int

	countTokens func(string) int
}

// NewPromptBuilder. budget — лимит токенов на весь промпт, 0 = без лимита.
func NewPromptBuilder(persona, model string, budget int) *PromptBuilder {
	return &PromptBuilder{persona: persona, model: model, budget: budget}
}

// entryLine — одна строка чатлога:
// "<name>: <entryId>[,<repliesTo>]: <text>~~~"
func entryLine(e chatlog.Entry) string {
	repliesTo := ""
	if e.RepliesTo != nil {
		repliesTo = fmt.Sprintf(",%d", *e.RepliesTo)
	}
	return fmt.Sprintf("%s: %d%s: %s~~~", e.DisplayName, e.EntryID, repliesTo, e.Text)
}

// Build строит промпт из последних записей history. quoted добавляется
// перед окном, но только если его entry_id встречается в полной истории
// комнаты: иначе модель увидела бы запись, которой нет в её контексте.
func (b *PromptBuilder) Build(history []chatlog.Entry, quoted *chatlog.Entry) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyTranscript
	}

	includeQuoted := false
	if quoted != nil {
		for _, e := range history {
			if e.EntryID == quoted.EntryID {
				includeQuoted = true
				break
			}
		}
	}

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	lastID := history[len(history)-1].EntryID
	prompt := b.render(window, quoted, includeQuoted, lastID)

	// токен-бюджет: выкидываем самые старые записи окна, пока промпт
	// не влезет; заголовок и синтетическая строка не трогаются
	if b.budget > 0 {
		for b.tokens(prompt) > b.budget && len(window) > 1 {
			window = window[1:]
			prompt = b.render(window, quoted, includeQuoted, lastID)
		}
	}

	return prompt, nil
}

func (b *PromptBuilder) render(window []chatlog.Entry, quoted *chatlog.Entry, includeQuoted bool, lastID int64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, promptHeader, b.persona)
	sb.WriteString("\n\nHere's the chatlog:\n")
	if includeQuoted {
		sb.WriteString(entryLine(*quoted))
		sb.WriteString("\n")
	}
	for _, e := range window {
		sb.WriteString(entryLine(e))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s: %d,%d:", b.persona, lastID+1, lastID)
	return sb.String()
}

func (b *PromptBuilder) tokens(s string) int {
	if b.countTokens == nil {
		enc, err := tiktoken.EncodingForModel(b.model)
		if err != nil {
			log.Printf("[prompt] tokenizer init fail for %s: %v", b.model, err)
			// грубая оценка, чтобы бюджет всё же работал
			b.countTokens = func(s string) int { return len(s) / 4 }
		} else {
			b.countTokens = func(s string) int { return len(enc.Encode(s, nil, nil)) }
		}
	}
	return b.countTokens(s)
}
