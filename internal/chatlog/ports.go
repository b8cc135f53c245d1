package chatlog

import "context"

// Entry — одна запись чатлога комнаты. После создания не меняется.
// EntryID приходит от Telegram, кроме ответов самого бота —
// им присваивается последний id комнаты + 1.
type Entry struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username,omitempty"`
	AuthorID    int64  `json:"author_id"`
	Text        string `json:"text"`
	EntryID     int64  `json:"entry_id"`
	RepliesTo   *int64 `json:"replies_to,omitempty"`
}

// Store — хранилище чатлогов по комнатам. Записи хранятся в порядке
// поступления, без дедупликации. Удаления нет.
type Store interface {
	Append(ctx context.Context, roomID int64, e Entry) error
	Get(ctx context.Context, roomID int64) ([]Entry, error)
	Rooms(ctx context.Context) ([]int64, error)
}
