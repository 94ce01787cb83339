package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	modelchat "github.com/zhouzirui/mingginyu/backend/internal/model/chat"
	"github.com/zhouzirui/mingginyu/backend/internal/model/persona"
	"github.com/zhouzirui/mingginyu/backend/internal/service/ai"
	chatservice "github.com/zhouzirui/mingginyu/backend/internal/service/chat"
)

type echoBackend struct {
	err error
}

func (b echoBackend) Generate(_ context.Context, req ai.Request) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return "echo: " + req.Input, nil
}

func setupRouter(t *testing.T, apiKey string, backendErr error) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mingginyu.prompt"), []byte("너는 밍기뉴야."), 0o644); err != nil {
		t.Fatalf("write persona: %v", err)
	}
	store := persona.NewFileStore(dir)
	chatSvc := chatservice.NewService(
		chatservice.Settings{PersonaID: "mingginyu", Model: "gpt-4o-mini", APIKey: apiKey},
		chatservice.Deps{
			Personas: store,
			Backends: func(context.Context, modelchat.SessionConfig) (ai.Backend, error) {
				return echoBackend{err: backendErr}, nil
			},
		},
	)
	handler := New(chatSvc, store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler) modelchat.Session {
	t.Helper()
	resp := do(r, http.MethodPost, "/session", map[string]string{"personaId": "mingginyu"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var session modelchat.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session
}

func TestCreateSessionValidPersona(t *testing.T) {
	r, _ := setupRouter(t, "sk-test", nil)
	session := createSession(t, r)
	if session.State != modelchat.StateActive {
		t.Fatalf("expected active session, got %s", session.State)
	}
}

func TestCreateSessionDefaultPersona(t *testing.T) {
	r, _ := setupRouter(t, "sk-test", nil)

	resp := do(r, http.MethodPost, "/session", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
}

func TestCreateSessionInvalidPersona(t *testing.T) {
	r, _ := setupRouter(t, "sk-test", nil)

	resp := do(r, http.MethodPost, "/session", map[string]string{"personaId": "non-existent"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateSessionMissingCredential(t *testing.T) {
	r, chatSvc := setupRouter(t, "", nil)

	resp := do(r, http.MethodPost, "/session", nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if _, err := chatSvc.GetSession(context.Background(), "any"); !errors.Is(err, modelchat.ErrSessionNotFound) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSubmitAndTranscript(t *testing.T) {
	r, _ := setupRouter(t, "sk-test", nil)
	session := createSession(t, r)

	resp := do(r, http.MethodPost, "/session/"+session.ID+"/messages", map[string]string{"text": "안녕"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var reply struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Reply != "echo: 안녕" {
		t.Fatalf("unexpected reply %q", reply.Reply)
	}

	resp = do(r, http.MethodGet, "/session/"+session.ID+"/messages", nil)
	var transcript struct {
		Turns []modelchat.Turn `json:"turns"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(transcript.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(transcript.Turns))
	}
}

func TestSubmitErrors(t *testing.T) {
	r, _ := setupRouter(t, "sk-test", errors.New("quota exceeded"))
	session := createSession(t, r)

	resp := do(r, http.MethodPost, "/session/"+session.ID+"/messages", map[string]string{"text": "안녕"})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}

	resp = do(r, http.MethodPost, "/session/"+session.ID+"/messages", map[string]string{"text": " "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	resp = do(r, http.MethodPost, "/session/missing/messages", map[string]string{"text": "안녕"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestRestartAndDeleteSession(t *testing.T) {
	r, chatSvc := setupRouter(t, "sk-test", nil)
	session := createSession(t, r)
	do(r, http.MethodPost, "/session/"+session.ID+"/messages", map[string]string{"text": "안녕"})

	resp := do(r, http.MethodPost, "/session/"+session.ID+"/start", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	turns, _ := chatSvc.LoadTranscript(context.Background(), session.ID)
	if len(turns) != 0 {
		t.Fatalf("expected empty transcript after restart, got %d", len(turns))
	}

	resp = do(r, http.MethodDelete, "/session/"+session.ID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = do(r, http.MethodGet, "/session/"+session.ID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
