package utils

import (
	"net/http"

	"playpal/middleware"
)

// GetUserIDFromRequest returns the authenticated user id placed in the
// request context by the middleware, or "" when the request is anonymous.
func GetUserIDFromRequest(r *http.Request) string {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
