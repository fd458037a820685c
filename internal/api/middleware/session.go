package middleware

import (
	"context"
	"net/http"

	"github.com/finboard/finance-dashboard-backend/internal/api/response"
	"github.com/finboard/finance-dashboard-backend/internal/validation"
)

type contextKey string

// userIDKey carries the authenticated user's ID through the request context.
const userIDKey contextKey = "userID"

// Session extracts the caller's user ID from the X-User-ID header and stores
// it in the request context. Requests without a valid UUID are rejected
// before they reach a handler. Authentication itself happens upstream; this
// service only scopes data by the ID it is handed.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			response.RespondError(w, http.StatusUnauthorized, "missing X-User-ID header", nil)
			return
		}
		if err := validation.ValidateUUID(userID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid X-User-ID header", err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the user ID stored by Session. The empty string means the
// route was not wrapped by Session.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// WithUserID returns a copy of the request carrying the given user ID, as if
// it had passed through Session. Used by handler tests.
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}
