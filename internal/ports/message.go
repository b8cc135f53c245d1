package ports

// Author — отправитель входящего сообщения. Может отсутствовать
// (служебные сообщения Telegram без from).
type Author struct {
	ID          int64
	DisplayName string
	Username    string
}

// Quoted — сообщение, на которое отвечает входящее.
type Quoted struct {
	EntryID int64
	Text    string
	Author  *Author
}

// Inbound — сырое входящее сообщение из Telegram.
// Кладётся в очередь ровно один раз и обрабатывается ровно один раз.
type Inbound struct {
	RoomID  int64
	EntryID int64
	Text    string
	Author  *Author
	ReplyTo *Quoted
}

// BotIdentity — идентичность самого бота, известна после логина.
type BotIdentity struct {
	ID          int64
	DisplayName string
	Handle      string
}
