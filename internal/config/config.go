package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ModeSingle = "single"
	ModeMulti  = "multi"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config — неизменяемая конфигурация процесса. Читается один раз на
// старте и дальше передаётся в конструкторы; глобального состояния нет.
type Config struct {
	BotToken  string
	OpenAIKey string

	AuthMode string  // single | multi
	RoomID   int64   // единственная комната в режиме single
	RoomIDs  []int64 // авторизованные комнаты в режиме multi
	OpIDs    []int64 // операторы: всегда авторизованы + edit-команды

	// куда слать уведомления об ошибках; пусто = только лог
	NotifyChatIDs []int64

	Store       string // memory | postgres
	DatabaseURL string
	HistoryCap  int // максимум записей на комнату в memory-хранилище, 0 = без лимита

	QueueSize       int
	ProviderTimeout time.Duration

	CompletionModel   string
	EditModel         string
	Persona           string // имя бота в промпте; пусто = имя из Telegram
	PromptTokenBudget int

	Port string
}

func Load() (*Config, error) {
	cfg := &Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		AuthMode:        getenvDefault("AUTH_MODE", ModeMulti),
		Store:           getenvDefault("CHATLOG_STORE", StoreMemory),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CompletionModel: getenvDefault("COMPLETION_MODEL", "gpt-3.5-turbo-instruct"),
		EditModel:       getenvDefault("EDIT_MODEL", "text-davinci-edit-001"),
		Persona:         os.Getenv("BOT_PERSONA"),
		Port:            getenvDefault("PORT", "8080"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	var err error
	switch cfg.AuthMode {
	case ModeSingle:
		raw := os.Getenv("ROOM_ID")
		if raw == "" {
			return nil, fmt.Errorf("AUTH_MODE=single requires ROOM_ID")
		}
		cfg.RoomID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ROOM_ID: %w", err)
		}
	case ModeMulti:
		cfg.RoomIDs, err = parseIDList(os.Getenv("ROOM_IDS"))
		if err != nil {
			return nil, fmt.Errorf("bad ROOM_IDS: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}

	cfg.OpIDs, err = parseIDList(os.Getenv("OP_IDS"))
	if err != nil {
		return nil, fmt.Errorf("bad OP_IDS: %w", err)
	}
	cfg.NotifyChatIDs, err = parseIDList(os.Getenv("NOTIFY_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("bad NOTIFY_CHAT_IDS: %w", err)
	}

	if cfg.Store != StoreMemory && cfg.Store != StorePostgres {
		return nil, fmt.Errorf("unknown CHATLOG_STORE %q", cfg.Store)
	}
	if cfg.Store == StorePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("CHATLOG_STORE=postgres requires DATABASE_URL")
	}

	cfg.HistoryCap, err = getenvInt("HISTORY_CAP", 0)
	if err != nil {
		return nil, err
	}
	cfg.QueueSize, err = getenvInt("QUEUE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	cfg.PromptTokenBudget, err = getenvInt("PROMPT_TOKEN_BUDGET", 3000)
	if err != nil {
		return nil, err
	}
	cfg.ProviderTimeout, err = getenvDuration("PROVIDER_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %w", key, err)
	}
	return v, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %w", key, err)
	}
	return v, nil
}

func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
