package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"playpal/middleware"
	"playpal/models"
	"playpal/rdx"
	"playpal/utils"
)

const (
	refreshTokenTTL = 7 * 24 * time.Hour
	accessTokenTTL  = 12 * time.Hour
)

// tokenRegistry is the Redis hash holding the live access token per user.
const tokenRegistry = "tokki"

type Handler struct {
	svc *Service
	jwt *middleware.Auth
	rdx *rdx.Client
}

func NewHandler(svc *Service, jwtAuth *middleware.Auth, redisClient *rdx.Client) *Handler {
	return &Handler{svc: svc, jwt: jwtAuth, rdx: redisClient}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Name      string  `json:"name"`
		Email     string  `json:"email"`
		Password  string  `json:"password"`
		IsTrainer bool    `json:"is_trainer"`
		Specialty string  `json:"specialty"`
		Rate      float64 `json:"rate"` // whole currency units from the client
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		body.Name == "" || body.Email == "" || body.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.IsTrainer && (body.Specialty == "" || body.Rate <= 0) {
		utils.RespondWithError(w, http.StatusBadRequest, "trainer requires specialty and positive rate")
		return
	}

	rate := models.Cents(math.Round(body.Rate * 100))
	u, err := h.svc.Register(r.Context(), body.Name, body.Email, body.Password, body.IsTrainer, body.Specialty, rate)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	slog.Info("user registered", "userid", u.UserID, "role", u.Role)
	utils.SendResponse(w, http.StatusCreated, map[string]string{
		"userid": u.UserID,
		"role":   u.Role,
	}, "Registration successful", nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		body.Email == "" || body.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.svc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	tokenString, err := h.jwt.IssueToken(u.UserID, u.Name, u.Role, accessTokenTTL)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate refresh token")
		return
	}

	if h.rdx != nil {
		ctx := r.Context()
		if err := h.rdx.RdxHset(ctx, tokenRegistry, u.UserID, tokenString); err != nil {
			slog.Warn("token registry write failed", "err", err)
		}
		if err := h.rdx.SetEx(ctx, "refresh:"+u.UserID, hashToken(refreshToken), refreshTokenTTL).Err(); err != nil {
			slog.Warn("refresh token store failed", "err", err)
		}
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"token":        tokenString,
		"refreshToken": refreshToken,
		"userid":       u.UserID,
		"role":         u.Role,
		"admin":        boolString(h.svc.IsAdmin(u)),
	}, "Login successful", nil)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing token")
		return
	}

	if h.rdx != nil {
		ctx := r.Context()
		if err := h.rdx.RdxHdel(ctx, tokenRegistry, userID); err != nil {
			slog.Error("token registry delete failed", "err", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to log out")
			return
		}
		_ = h.rdx.RdxDel(ctx, "refresh:"+userID)
	}

	utils.SendResponse(w, http.StatusOK, nil, "User logged out successfully", nil)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := h.jwt.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing refresh token")
		return
	}

	if h.rdx != nil {
		stored, err := h.rdx.RdxGet(r.Context(), "refresh:"+claims.UserID)
		if err != nil || stored != hashToken(body.RefreshToken) {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
	}

	newToken, err := h.jwt.IssueToken(claims.UserID, claims.Name, claims.Role, accessTokenTTL)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		return
	}
	if h.rdx != nil {
		if err := h.rdx.RdxHset(r.Context(), tokenRegistry, claims.UserID, newToken); err != nil {
			slog.Warn("token registry update failed", "err", err)
		}
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{"token": newToken}, "Token refreshed successfully", nil)
}

// Generates a random refresh token
func generateRefreshToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

// Hashes a given token
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
