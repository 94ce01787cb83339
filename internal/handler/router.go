package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/mingginyu/backend/internal/handler/chat"
	"github.com/zhouzirui/mingginyu/backend/internal/handler/persona"
	"github.com/zhouzirui/mingginyu/backend/internal/handler/stream"
	"github.com/zhouzirui/mingginyu/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/mingginyu/backend/internal/middleware"
	modelchat "github.com/zhouzirui/mingginyu/backend/internal/model/chat"
	personaModel "github.com/zhouzirui/mingginyu/backend/internal/model/persona"
	chatService "github.com/zhouzirui/mingginyu/backend/internal/service/chat"
	"github.com/zhouzirui/mingginyu/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, chatSvc *chatService.Service, typingDelay time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Create handlers
	personaHandler := persona.New(personas)
	chatHandler := chat.New(chatSvc, personas)
	streamHandler := stream.New(chatSvc, typingDelay)
	wsHandler := ws.New(chatSvc, typingDelay)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)

		// 逐字显示的SSE回复
		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
				if errors.Is(err, modelchat.ErrSessionNotFound) {
					utils.RespondError(w, http.StatusNotFound, err.Error())
					return
				}
				utils.RespondError(w, http.StatusInternalServerError, "streaming failed")
			}
		})
	})

	return r
}
