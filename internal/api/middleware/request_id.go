package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const requestIDKey contextKey = "requestID"

// HeaderRequestID заголовок сквозного идентификатора запроса
const HeaderRequestID = "X-Request-ID"

// RequestID проставляет сквозной идентификатор запроса
// Идентификатор из входящего заголовка сохраняется, иначе генерируется новый
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID возвращает идентификатор запроса из контекста
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}
