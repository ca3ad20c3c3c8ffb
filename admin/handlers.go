package admin

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"playpal/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PendingTrainers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID := utils.GetUserIDFromRequest(r)
	trainers, err := h.svc.PendingTrainers(r.Context(), actorID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"pending": trainers})
}

func (h *Handler) ApproveTrainer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actorID := utils.GetUserIDFromRequest(r)
	prefix := ps.ByName("id")
	if len(prefix) < utils.MinPrefixLen {
		utils.RespondWithError(w, http.StatusBadRequest, "trainer id prefix too short")
		return
	}

	u, err := h.svc.ApproveTrainer(r.Context(), actorID, prefix)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"trainer": u})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID := utils.GetUserIDFromRequest(r)
	users, sessions, bookings, err := h.svc.Status(r.Context(), actorID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"users":    users,
		"sessions": sessions,
		"bookings": bookings,
	})
}
