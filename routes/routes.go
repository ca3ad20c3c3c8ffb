// Package routes assembles the HTTP surface. Each Add function wires one
// feature area with its rate limiting and authentication wrappers.
package routes

import (
	"github.com/julienschmidt/httprouter"

	"playpal/admin"
	"playpal/auth"
	"playpal/booking"
	"playpal/messages"
	"playpal/middleware"
	"playpal/ratelim"
	"playpal/sessions"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, mw *middleware.Auth, h *auth.Handler) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", mw.Authenticate(h.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(h.RefreshToken))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, mw *middleware.Auth, h *booking.Handler, receipts *booking.ReceiptHandler) {
	router.GET("/api/trainers", rl.Limit(h.SearchTrainers))
	router.GET("/api/trainers/bookings", mw.Authenticate(h.MyBookings))
	router.PUT("/api/trainers/profile", mw.Authenticate(h.UpdateProfile))
	router.POST("/api/bookings", rl.Limit(mw.Authenticate(h.BookTrainer)))
	router.GET("/api/bookings/:id/receipt", mw.Authenticate(receipts.PrintReceipt))
}

func AddSessionRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, mw *middleware.Auth, h *sessions.Handler) {
	router.POST("/api/sessions", rl.Limit(mw.Authenticate(h.Create)))
	router.GET("/api/sessions", rl.Limit(h.Search))
	router.POST("/api/sessions/:id/join", rl.Limit(mw.Authenticate(h.Join)))
}

func AddMessageRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, mw *middleware.Auth, h *messages.Handler) {
	router.POST("/api/messages", rl.Limit(mw.Authenticate(h.SendMessage)))
	router.GET("/api/messages", mw.Authenticate(h.Inbox))
	router.PUT("/api/messages/:id/read", mw.Authenticate(h.MarkRead))
	router.GET("/api/messages/live", mw.Authenticate(h.LiveFeed))
}

func AddAdminRoutes(router *httprouter.Router, mw *middleware.Auth, h *admin.Handler) {
	router.GET("/api/admin/trainers/pending", mw.Authenticate(h.PendingTrainers))
	router.POST("/api/admin/trainers/:id/approve", mw.Authenticate(h.ApproveTrainer))
	router.GET("/api/admin/status", mw.Authenticate(h.Status))
}
