package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	modelchat "github.com/zhouzirui/mingginyu/backend/internal/model/chat"
	"github.com/zhouzirui/mingginyu/backend/internal/model/persona"
	"github.com/zhouzirui/mingginyu/backend/internal/service/ai"
	chatService "github.com/zhouzirui/mingginyu/backend/internal/service/chat"
)

type replyBackend struct{}

func (replyBackend) Generate(_ context.Context, req ai.Request) (string, error) {
	return "들었어: " + req.Input, nil
}

func newTestRouter(t *testing.T) (http.Handler, *chatService.Service) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mingginyu.prompt"), []byte("너는 밍기뉴야."), 0o644); err != nil {
		t.Fatalf("write persona: %v", err)
	}
	store := persona.NewFileStore(dir)
	svc := chatService.NewService(
		chatService.Settings{PersonaID: "mingginyu", Model: "gpt-4o-mini", APIKey: "sk-test"},
		chatService.Deps{
			Personas: store,
			Backends: func(context.Context, modelchat.SessionConfig) (ai.Backend, error) {
				return replyBackend{}, nil
			},
		},
	)
	return NewRouter(store, svc, 0), svc
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStreamRequiresMessage(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStreamUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream/missing?message=hi", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStreamDeliversReply(t *testing.T) {
	router, svc := newTestRouter(t)
	session, err := svc.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream/"+session.ID+"?message=hi", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "들었어: hi") {
		t.Fatalf("expected reply in stream body, got %q", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/personas", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
