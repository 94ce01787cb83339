package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
	"github.com/zhouzirui/mingginyu/backend/internal/model/persona"
	"github.com/zhouzirui/mingginyu/backend/internal/service/ai"
	"github.com/zhouzirui/mingginyu/backend/internal/service/sentiment"
)

// Settings are the per-session inputs of SessionConfig.
type Settings struct {
	PersonaID string
	Model     string
	APIKey    string
}

// Deps are the collaborators shared by every session. Annotator is optional.
type Deps struct {
	Personas  persona.Store
	Backends  ai.BackendFactory
	Annotator *sentiment.Annotator
}

// Reply is the outcome of one submitted turn.
type Reply struct {
	// Text is what the user sees, including the sentiment tag when annotation is on.
	Text  string `json:"reply"`
	Raw   string `json:"-"`
	Label string `json:"label,omitempty"`
}

// Session is one user's conversation: its own memory and completion client.
// Start and Submit are serialized by turnMu; mu guards the fields below it so
// the transcript stays readable while a turn is in flight.
type Session struct {
	turnMu    sync.Mutex
	id        string
	createdAt time.Time
	settings  Settings
	deps      Deps

	mu      sync.RWMutex
	state   chat.State
	cfg     chat.SessionConfig
	persona persona.Persona
	memory  *Memory
	client  *ai.Client
}

// NewSession returns a session in the NotStarted state.
func NewSession(id string, settings Settings, deps Deps) *Session {
	return &Session{
		id:        id,
		createdAt: time.Now().UTC(),
		settings:  settings,
		deps:      deps,
		state:     chat.StateNotStarted,
	}
}

// Start loads the session configuration and persona, then creates an empty memory
// and a fresh completion client. Calling it on an active session starts the
// conversation over. On error the session keeps its previous state.
func (s *Session) Start(ctx context.Context) error {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	return s.start(ctx)
}

func (s *Session) start(ctx context.Context) error {
	if s.deps.Personas == nil || s.deps.Backends == nil {
		return fmt.Errorf("%w: session dependencies are missing", chat.ErrConfiguration)
	}

	p, err := s.deps.Personas.Load(s.settings.PersonaID)
	if err != nil {
		return err
	}

	cfg := chat.SessionConfig{
		Model:       s.settings.Model,
		APIKey:      s.settings.APIKey,
		PersonaText: p.Prompt,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend, err := s.deps.Backends(ctx, cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.persona = p
	s.memory = NewMemory()
	s.client = ai.NewClient(backend)
	s.state = chat.StateActive
	s.mu.Unlock()

	log.Printf("[chat] session=%s started, persona=%s, model=%s", s.id, p.ID, cfg.Model)
	return nil
}

// Submit runs one conversation turn and returns the reply to display.
// The user turn is recorded before the model is called and is kept when the call
// fails. The assistant turn stores the unannotated model output.
func (s *Session) Submit(ctx context.Context, input string) (Reply, error) {
	if strings.TrimSpace(input) == "" {
		return Reply{}, chat.ErrEmptyInput
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.mu.RLock()
	state, memory, client := s.state, s.memory, s.client
	s.mu.RUnlock()

	if state != chat.StateActive {
		return Reply{}, chat.ErrNotStarted
	}
	if memory == nil || client == nil {
		if err := s.start(ctx); err != nil {
			return Reply{}, err
		}
	}

	s.mu.RLock()
	cfg, memory, client := s.cfg, s.memory, s.client
	s.mu.RUnlock()

	history := memory.All()
	if err := memory.Append(chat.UserTurn(input)); err != nil {
		return Reply{}, err
	}

	prompt, err := ai.BuildPrompt(cfg.PersonaText, history)
	if err != nil {
		return Reply{}, err
	}

	raw, err := client.Complete(ctx, cfg, prompt, input)
	if err != nil {
		log.Printf("[chat] session=%s completion failed: %v", s.id, err)
		return Reply{}, err
	}

	reply := Reply{Text: raw, Raw: raw}
	var tag string
	if s.deps.Annotator != nil {
		annotation, err := s.deps.Annotator.Annotate(ctx, raw)
		if err != nil {
			log.Printf("[chat] session=%s annotation failed: %v", s.id, err)
			return Reply{}, err
		}
		reply.Text = annotation.Text
		reply.Label = annotation.Label
		tag = annotation.Tag
	}

	if err := memory.Append(chat.AssistantTurn(raw, tag)); err != nil {
		return Reply{}, err
	}
	return reply, nil
}

// Transcript returns every turn so far, in order. It is empty before Start.
func (s *Session) Transcript() []chat.Turn {
	s.mu.RLock()
	memory := s.memory
	s.mu.RUnlock()

	if memory == nil {
		return []chat.Turn{}
	}
	return memory.All()
}

// Info describes the session for clients.
func (s *Session) Info() chat.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return chat.Session{
		ID:        s.id,
		PersonaID: s.settings.PersonaID,
		State:     s.state,
		CreatedAt: s.createdAt,
	}
}

// Persona returns the persona loaded by the last successful Start.
func (s *Session) Persona() persona.Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona
}
