package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *ChatlogHandler) {
	r.Route("/rooms", func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(30, time.Minute),
		)

		pr.Get("/", h.ListRooms)
		pr.Get("/{room_id}/chatlog", h.GetRoomChatlog)
	})
}
