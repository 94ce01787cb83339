package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

func newTestService(backend *fakeBackend) *Service {
	return NewService(validSettings, Deps{
		Personas: staticPersonas{"mingginyu": personaText, "baby_shark": "너는 아기상어야."},
		Backends: backend.factory(),
	})
}

func TestServiceGetSession(t *testing.T) {
	svc := newTestService(&fakeBackend{})
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "baby_shark")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}

	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if got.PersonaID != "baby_shark" {
		t.Fatalf("unexpected persona ID: got %s", got.PersonaID)
	}
	if got.State != chat.StateActive {
		t.Fatalf("unexpected state: %s", got.State)
	}
}

func TestServiceDefaultPersona(t *testing.T) {
	svc := newTestService(&fakeBackend{})

	session, err := svc.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if session.PersonaID != "mingginyu" {
		t.Fatalf("expected default persona, got %s", session.PersonaID)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := newTestService(&fakeBackend{})
	ctx := context.Background()

	if _, err := svc.GetSession(ctx, "missing"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if _, err := svc.Submit(ctx, "missing", "안녕"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestServiceCreateSessionConfigurationError(t *testing.T) {
	svc := NewService(Settings{PersonaID: "mingginyu", Model: "gpt-4o-mini"}, Deps{
		Personas: staticPersonas{"mingginyu": personaText},
		Backends: (&fakeBackend{}).factory(),
	})

	if _, err := svc.CreateSession(context.Background(), ""); !errors.Is(err, chat.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(svc.sessions) != 0 {
		t.Fatalf("failed session must not be registered")
	}
}

func TestServiceSessionsAreIndependent(t *testing.T) {
	svc := newTestService(&fakeBackend{})
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, "")
	b, _ := svc.CreateSession(ctx, "")

	if _, err := svc.Submit(ctx, a.ID, "안녕"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	ta, _ := svc.LoadTranscript(ctx, a.ID)
	tb, _ := svc.LoadTranscript(ctx, b.ID)
	if len(ta) != 2 || len(tb) != 0 {
		t.Fatalf("expected isolated transcripts, got %d and %d", len(ta), len(tb))
	}
}

func TestServiceRestartAndDelete(t *testing.T) {
	svc := newTestService(&fakeBackend{})
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "")
	if _, err := svc.Submit(ctx, session.ID, "안녕"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if _, err := svc.Restart(ctx, session.ID); err != nil {
		t.Fatalf("Restart err: %v", err)
	}
	turns, _ := svc.LoadTranscript(ctx, session.ID)
	if len(turns) != 0 {
		t.Fatalf("expected empty transcript after restart, got %d", len(turns))
	}

	if err := svc.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("DeleteSession err: %v", err)
	}
	if err := svc.DeleteSession(ctx, session.ID); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected session not found on second delete, got %v", err)
	}
}
