package delivery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/soirgang/soirtichaut/internal/chatlog"
)

// ChatlogHandler — отладочная читалка чатлогов для операторов.
type ChatlogHandler struct {
	store chatlog.Store
	log   *logger.ZapLogger
}

func NewChatlogHandler(store chatlog.Store, log *logger.ZapLogger) *ChatlogHandler {
	return &ChatlogHandler{
		store: store,
		log:   log,
	}
}

func (h *ChatlogHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.store.Rooms(r.Context())
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "store error", Error: err})
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	if rooms == nil {
		rooms = []int64{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rooms)
}

func (h *ChatlogHandler) GetRoomChatlog(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "room_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid room_id", http.StatusBadRequest)
		return
	}

	entries, err := h.store.Get(r.Context(), roomID)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "store error", Error: err})
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []chatlog.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}
