package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrEmptyBody возвращается при пустом теле запроса
var ErrEmptyBody = errors.New("empty request body")

// ErrorResponse стандартный формат ошибки API
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	// Заголовки уже отправлены, ошибку кодирования можно только проигнорировать
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет JSON ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondBadRequest пишет ошибку 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondUnauthorized пишет ошибку 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden пишет ошибку 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondNotFound пишет ошибку 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondInternalError пишет ошибку 500 со стандартным сообщением
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

// DecodeJSON декодирует тело запроса в v
// Неизвестные поля отклоняются
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}
