package sessions

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"playpal/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var body struct {
		Sport           string    `json:"sport"`
		Location        string    `json:"location"`
		Time            time.Time `json:"time"`
		MaxParticipants int       `json:"max_participants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		body.Sport == "" || body.Location == "" || body.MaxParticipants <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !body.Time.After(time.Now()) {
		utils.RespondWithError(w, http.StatusBadRequest, "time must be in the future")
		return
	}

	sess, err := h.svc.Create(r.Context(), userID, body.Sport, body.Location, body.Time, body.MaxParticipants)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"session": sess})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sport := r.URL.Query().Get("sport")
	if sport == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing sport")
		return
	}
	found, err := h.svc.SearchAvailable(r.Context(), sport)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"sessions": found})
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	prefix := ps.ByName("id")
	if len(prefix) < utils.MinPrefixLen {
		utils.RespondWithError(w, http.StatusBadRequest, "session id prefix too short")
		return
	}

	sess, err := h.svc.Join(r.Context(), userID, prefix)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"session": sess})
}
