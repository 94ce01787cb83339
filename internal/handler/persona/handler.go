package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/mingginyu/backend/internal/model/persona"
	"github.com/zhouzirui/mingginyu/backend/pkg/utils"
)

// Handler persona服务的HTTP处理器
type Handler struct {
	personas persona.Store
}

// New 创建persona处理器
func New(personas persona.Store) *Handler {
	return &Handler{
		personas: personas,
	}
}

// RegisterRoutes 注册persona相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
	r.Get("/personas/{personaID}", h.handleGetPersona)
}

// handleListPersonas 列出所有persona
func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	personas := h.personas.List()
	if personas == nil {
		personas = []persona.Persona{}
	}
	utils.RespondJSON(w, http.StatusOK, personas)
}

func (h *Handler) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	p, err := h.personas.Load(chi.URLParam(r, "personaID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}
