package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/hub"
)

const shutdownTimeout = 5 * time.Second

type matchManager interface {
	RegisterPlayer(ctx context.Context, profile entity.Profile) (*entity.Profile, error)
	CreateMatch(ctx context.Context, creatorID string, withAI bool, tier int) (hub.Snapshot, error)
	JoinMatch(ctx context.Context, matchID, participantID string, role hub.Role) (hub.Snapshot, error)
	MakeMove(ctx context.Context, matchID, participantID string, cell int) (hub.Snapshot, error)
	UseSkill(ctx context.Context, matchID, skillID string, req entity.SkillRequest) (hub.Snapshot, error)
	LeaveMatch(ctx context.Context, matchID, participantID string) (hub.Snapshot, error)
	Watch(ctx context.Context, matchID, participantID string) (*hub.Subscription, hub.Snapshot, error)
	Unwatch(subscription *hub.Subscription)
}

type handler func(ctx context.Context, c *client, payload *Payload) (*ResponsePayload, error)

type Server struct {
	logger  *slog.Logger
	manager matchManager

	upgrader websocket.Upgrader
	handlers map[string]handler

	clientsMutex sync.RWMutex
	clients      map[*client]struct{}
}

func New(logger *slog.Logger, manager matchManager) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,

		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		handlers: make(map[string]handler),
		clients:  make(map[*client]struct{}),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionNew] = server.handleNewMatch
	server.handlers[actionJoin] = server.handleJoinMatch
	server.handlers[actionWatch] = server.handleWatchMatch
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionSkill] = server.handleSkill
	server.handlers[actionLeave] = server.handleLeave

	return server
}

// Handler - serves the websocket endpoint; ctx bounds every connection.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown WebSocket server", "error", err)
		}

		that.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn)

	that.clientsMutex.Lock()
	that.clients[c] = struct{}{}
	that.clientsMutex.Unlock()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	pingPayload, _ := encode(actionPing, struct{}{})

	go func() {
		if err := c.writePump(pingPayload); err != nil {
			log.Warn("write pump stopped", "error", err)
		}
		_ = conn.Close()
	}()

	that.handleMessages(ctx, c)
	that.handleDisconnect(c)
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	c.conn.SetReadLimit(maxMessageSize)

	for {
		if ctx.Err() != nil {
			return
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(c, actionError, errMalformed)
			continue
		}

		if message.Action == actionPing {
			continue
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(c, message.Action, fmt.Errorf("%w: %q", errUnknownAction, message.Action))
			continue
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &payload); err != nil {
				that.sendError(c, message.Action, errMalformed)
				continue
			}
		}

		response, err := handle(ctx, c, &payload)
		if err != nil {
			log.Debug("action failed", "action", message.Action, "error", err)
			that.sendError(c, message.Action, err)
			continue
		}

		that.sendMessage(c, message.Action, response)
	}
}

// handleDisconnect - unsubscribes the connection from every match it watched.
// Seats are kept so the participant can reconnect.
func (that *Server) handleDisconnect(c *client) {
	that.clientsMutex.Lock()
	delete(that.clients, c)
	that.clientsMutex.Unlock()

	for _, subscription := range c.close() {
		that.manager.Unwatch(subscription)
	}

	that.logger.Info("player disconnected", "method", "handleDisconnect", "participantID", c.participantID())
}

func (that *Server) closeAll() {
	that.clientsMutex.RLock()
	clients := make([]*client, 0, len(that.clients))
	for c := range that.clients {
		clients = append(clients, c)
	}
	that.clientsMutex.RUnlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}

// pump - forwards hub snapshots of one match to the client.
func (that *Server) pump(c *client, subscription *hub.Subscription) {
	log := that.logger.With("method", "pump", "matchID", subscription.MatchID)

	for snapshot := range subscription.Updates() {
		frame, err := encode(actionState, ResponsePayload{Match: &snapshot})
		if err != nil {
			log.Error("failed to encode snapshot", "error", err)
			continue
		}

		if err = c.enqueue(frame); err != nil {
			log.Warn("failed to deliver snapshot", "error", err)
			that.manager.Unwatch(subscription)
			break
		}
	}

	c.forget(subscription)
}

func (that *Server) sendMessage(c *client, action string, payload *ResponsePayload) {
	frame, err := encode(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal response", "method", "sendMessage", "error", err)
		return
	}

	if err = c.enqueue(frame); err != nil {
		that.logger.Warn("failed to send response", "method", "sendMessage", "action", action, "error", err)
	}
}
