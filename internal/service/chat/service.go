package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// Service keeps one independent Session per connected client.
type Service struct {
	defaults Settings
	deps     Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates the in-memory session registry. defaults supplies the model,
// credential and fallback persona of new sessions.
func NewService(defaults Settings, deps Deps) *Service {
	return &Service{
		defaults: defaults,
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// CreateSession starts a new session bound to personaID (or the default persona).
// Nothing is registered when the session cannot start.
func (s *Service) CreateSession(ctx context.Context, personaID string) (chat.Session, error) {
	settings := s.defaults
	if personaID != "" {
		settings.PersonaID = personaID
	}

	session := NewSession(uuid.NewString(), settings, s.deps)
	if err := session.Start(ctx); err != nil {
		return chat.Session{}, err
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	return session.Info(), nil
}

// Session returns the live session with the given id.
func (s *Service) Session(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, chat.ErrSessionNotFound
	}
	return session, nil
}

// GetSession retrieves a session description by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	return session.Info(), nil
}

// Submit forwards one user message to the session.
func (s *Service) Submit(ctx context.Context, sessionID, text string) (Reply, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return Reply{}, err
	}
	return session.Submit(ctx, text)
}

// Restart starts the session over with an empty memory.
func (s *Service) Restart(ctx context.Context, sessionID string) (chat.Session, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	if err := session.Start(ctx); err != nil {
		return chat.Session{}, err
	}
	return session.Info(), nil
}

// LoadTranscript returns stored turns for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Turn, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Transcript(), nil
}

// DeleteSession discards a session and its memory.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return chat.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
