package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

// TestSession tests user identification from the X-User-ID header.
//
// WHY: Every portfolio route scopes data by the session user. A request
// without a valid UUID must never reach a handler.
func TestSession(t *testing.T) {
	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserID(r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("stores a valid user ID in the context", func(t *testing.T) {
		userID := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		req.Header.Set("X-User-ID", userID)
		w := httptest.NewRecorder()

		Session(next).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if seenUserID != userID {
			t.Errorf("Expected handler to see user %s, got %q", userID, seenUserID)
		}
	})

	t.Run("rejects a missing header with 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		w := httptest.NewRecorder()

		Session(next).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})

	t.Run("rejects a non-UUID header with 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		req.Header.Set("X-User-ID", "alice")
		w := httptest.NewRecorder()

		Session(next).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestUserIDWithoutSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := UserID(req); got != "" {
		t.Errorf("Expected empty user ID outside a session, got %q", got)
	}
}
