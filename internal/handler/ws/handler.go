package ws

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatservice "github.com/zhouzirui/mingginyu/backend/internal/service/chat"
	"github.com/zhouzirui/mingginyu/backend/pkg/utils"
)

const (
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// readTimeout 客户端无消息的最长等待时间
var readTimeout = 60 * time.Second

// Handler WebSocket聊天处理器
type Handler struct {
	chatSvc  *chatservice.Service
	delay    time.Duration
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器
func New(chatSvc *chatservice.Service, delay time.Duration) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		delay:   delay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.Session(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go pingLoop(ctx, conn)

	h.write(conn, sessionID, "connected", map[string]any{
		"persona": session.Persona().ID,
		"turns":   session.Transcript(),
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "message":
			h.handleText(ctx, conn, sessionID, session, msg.Text)
			// 回复耗时可能超过读超时
			conn.SetReadDeadline(time.Now().Add(readTimeout))
		case "reset":
			if err := session.Start(ctx); err != nil {
				h.writeError(conn, sessionID, err)
				continue
			}
			h.write(conn, sessionID, "reset", map[string]any{"turns": session.Transcript()})
		case "history":
			h.write(conn, sessionID, "history", map[string]any{"turns": session.Transcript()})
		default:
			h.writeError(conn, sessionID, fmt.Errorf("unsupported message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleText(ctx context.Context, conn *websocket.Conn, sessionID string, session *chatservice.Session, text string) {
	reply, err := session.Submit(ctx, text)
	if err != nil {
		log.Printf("[ws] session=%s submit failed: %v", sessionID, err)
		h.writeError(conn, sessionID, err)
		return
	}

	final, err := utils.TypeOut(ctx, reply.Text, h.delay, func(chunk, partial string) error {
		return h.write(conn, sessionID, "delta", map[string]string{
			"chunk":   chunk,
			"partial": partial + utils.Cursor,
		})
	})
	if err != nil {
		return
	}

	h.write(conn, sessionID, "message", map[string]string{
		"text":  final,
		"label": reply.Label,
	})
}

func (h *Handler) write(conn *websocket.Conn, sessionID, kind string, data interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := conn.WriteJSON(outgoingMessage{
		Type:      kind,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		log.Printf("[ws] write %s failed: %v", kind, err)
	}
	return err
}

func (h *Handler) writeError(conn *websocket.Conn, sessionID string, err error) {
	h.write(conn, sessionID, "error", map[string]any{
		"message": err.Error(),
		"status":  utils.StatusFor(err),
	})
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
