package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
)

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	userEmailKey ctxKey = "userEmail"

	// HeaderUserID проставляется API-гейтвеем после проверки токена
	HeaderUserID = "X-User-ID"
	// HeaderUserEmail email аутентифицированного пользователя
	HeaderUserEmail = "X-User-Email"
)

// Identity извлекает идентичность из заголовков, не требуя её наличия.
// Гостевые маршруты остаются доступными без заголовков; хендлеры сами
// решают, достаточно ли email из запроса.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if raw := r.Header.Get(HeaderUserID); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				ctx = context.WithValue(ctx, userIDKey, id)
			}
		}
		if email := strings.TrimSpace(r.Header.Get(HeaderUserEmail)); email != "" {
			ctx = context.WithValue(ctx, userEmailKey, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth требует валидный X-User-ID; используется на защищённых маршрутах
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); !ok {
			handlers.RespondUnauthorized(w, "требуется аутентификация")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID возвращает ID пользователя из контекста
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// UserEmail возвращает email пользователя из контекста
func UserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	return email, ok
}
