package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// UserIDHeader заголовок с идентификатором пользователя, его ставит API gateway
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "user_id"

// Auth требует валидный UUID в X-User-ID и кладет его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			unauthorized(w, "missing "+UserIDHeader+" header")
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			unauthorized(w, "invalid "+UserIDHeader+" header")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id.String())))
	})
}

// WithUserID кладет ID пользователя в контекст
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID достает ID пользователя из контекста
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
