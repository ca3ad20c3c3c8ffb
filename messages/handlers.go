package messages

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"playpal/utils"
)

type Handler struct {
	svc  *Service
	feed *Feed
}

func NewHandler(svc *Service, feed *Feed) *Handler {
	return &Handler{svc: svc, feed: feed}
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	senderID := utils.GetUserIDFromRequest(r)

	var body struct {
		ReceiverID string `json:"receiverid"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ReceiverID == "" || body.Content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	msg, err := h.svc.SendMessage(r.Context(), senderID, body.ReceiverID, body.Content)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	msgs, err := h.svc.Inbox(r.Context(), userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	messageID := ps.ByName("id")
	if messageID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing id")
		return
	}
	if err := h.svc.MarkRead(r.Context(), userID, messageID); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LiveFeed upgrades to a websocket carrying new inbox entries.
func (h *Handler) LiveFeed(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	h.feed.HandleWS(userID, w, r, ps)
}
