package booking

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"playpal/models"
	"playpal/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) SearchTrainers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	specialty := r.URL.Query().Get("specialty")
	if specialty == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing specialty")
		return
	}
	trainers, err := h.svc.SearchTrainers(r.Context(), specialty)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"trainers": trainers})
}

func (h *Handler) BookTrainer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	playerID := utils.GetUserIDFromRequest(r)

	var body struct {
		TrainerPrefix string `json:"trainer"`
		Hours         int    `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Hours <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(body.TrainerPrefix) < utils.MinPrefixLen {
		utils.RespondWithError(w, http.StatusBadRequest, "trainer id prefix too short")
		return
	}

	b, err := h.svc.BookTrainer(r.Context(), playerID, body.TrainerPrefix, body.Hours)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"booking": b})
}

func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	trainerID := utils.GetUserIDFromRequest(r)
	bookings, err := h.svc.TrainerBookings(r.Context(), trainerID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	trainerID := utils.GetUserIDFromRequest(r)

	var body struct {
		Specialty string  `json:"specialty"`
		Rate      float64 `json:"rate"` // whole currency units from the client
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Specialty == "" || body.Rate <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	rate := models.Cents(math.Round(body.Rate * 100))
	if err := h.svc.UpdateTrainerProfile(r.Context(), trainerID, body.Specialty, rate); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
