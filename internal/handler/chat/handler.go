package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/mingginyu/backend/internal/model/persona"
	chatService "github.com/zhouzirui/mingginyu/backend/internal/service/chat"
	"github.com/zhouzirui/mingginyu/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc      *chatService.Service
	personaStore persona.Store
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, personaStore persona.Store) *Handler {
	return &Handler{
		chatSvc:      chatSvc,
		personaStore: personaStore,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleDeleteSession)
		r.Post("/start", h.handleStartSession)
		r.Get("/messages", h.handleTranscript)
		r.Post("/messages", h.handleSubmit)
	})
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID string `json:"personaId"`
	}

	// An empty body selects the default persona.
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.PersonaID != "" {
		if _, err := h.personaStore.Load(payload.PersonaID); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "persona not found")
			return
		}
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.PersonaID)
	if err != nil {
		utils.RespondChatError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondChatError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		utils.RespondChatError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStartSession starts the conversation over with an empty memory.
func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.Restart(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondChatError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	turns, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondChatError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

// handleSubmit 发送用户消息并返回回复
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chatSvc.Submit(r.Context(), chi.URLParam(r, "sessionID"), payload.Text)
	if err != nil {
		utils.RespondChatError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}
