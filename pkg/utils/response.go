package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// StatusFor maps a chat error to the HTTP status reported to clients.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrNotStarted):
		return http.StatusConflict
	case errors.Is(err, chat.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondChatError reports err with the status from StatusFor.
func RespondChatError(w http.ResponseWriter, err error) {
	RespondError(w, StatusFor(err), err.Error())
}
