package ports

// Outbound — исходящий канал в Telegram.
type Outbound interface {
	// SendTyping показывает индикатор "печатает…" в комнате.
	// Ошибки глотаются: индикатор не критичен.
	SendTyping(roomID int64)

	// SendReply отправляет текст как реплай на сообщение replyToID.
	SendReply(roomID int64, text string, replyToID int64) error
}
