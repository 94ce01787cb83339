package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	chatService "github.com/zhouzirui/mingginyu/backend/internal/service/chat"
	"github.com/zhouzirui/mingginyu/backend/pkg/utils"
)

// Handler streams replies to the browser via Server-Sent Events, revealing
// the finished reply word by word.
type Handler struct {
	chatSvc *chatService.Service
	delay   time.Duration
}

// New creates a new stream handler. delay paces the words.
func New(chatSvc *chatService.Service, delay time.Duration) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		delay:   delay,
	}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	Label     string `json:"label,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest submits userMessage to the session and streams the reply.
// Failures are reported as an error event; the connection is then closed normally.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	session, err := h.chatSvc.Session(sessionID)
	if err != nil {
		return err
	}

	utils.SetupSSEHeaders(w)

	persona := session.Persona()
	h.send(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
		Content:   persona.Name,
	})

	reply, err := session.Submit(ctx, userMessage)
	if err != nil {
		log.Printf("[stream] session=%s submit failed: %v", sessionID, err)
		h.send(w, flusher, StreamResponse{
			Event:     "error",
			SessionID: sessionID,
			Error:     err.Error(),
		})
		return nil
	}

	final, err := utils.TypeOut(ctx, reply.Text, h.delay, func(chunk, _ string) error {
		return h.send(w, flusher, StreamResponse{
			Event:     "delta",
			SessionID: sessionID,
			Content:   chunk,
		})
	})
	if err != nil {
		log.Printf("[stream] session=%s client went away: %v", sessionID, err)
		return nil
	}

	h.send(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   final,
		Label:     reply.Label,
	})
	h.send(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed response for session=%s, persona=%s", sessionID, persona.ID)
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) error {
	return utils.SendSSEChunk(w, flusher, response)
}
