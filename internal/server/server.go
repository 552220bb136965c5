package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	in "browsercontrol/internal/input"
	"browsercontrol/internal/metrics"
	t "browsercontrol/internal/types"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Backend is one remote browser instance.
type Backend interface {
	in.Actuator
	// Screenshot returns the current page as a compressed image.
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// BackendFactory provisions a Backend for a new session.
type BackendFactory func(ctx context.Context) (Backend, error)

type Config struct {
	FPS        int
	NewBackend BackendFactory
	Logger     *zap.Logger
}

// Close reasons sent to viewers.
const (
	ReasonNotFound   = "Session not found"
	ReasonTerminated = "Session terminated"
	ReasonReplaced   = "Replaced by another viewer"
	ReasonShutdown   = "Server shutting down"
)

type Server struct {
	cfg      Config
	mgr      *Manager
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func New(cfg Config) *Server {
	if cfg.FPS <= 0 {
		cfg.FPS = 5
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		mgr:      NewManager(),
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Sessions exposes the session registry.
func (s *Server) Sessions() *Manager { return s.mgr }

// Handler returns the HTTP routes of the host.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.handleCreate)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleTerminate)
	mux.HandleFunc("GET /stream/{id}", s.handleStream)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	b, err := s.cfg.NewBackend(r.Context())
	if err != nil {
		s.logger.Error("backend provisioning failed", zap.Error(err))
		metrics.SessionOperationsTotal.WithLabelValues("create", "error").Inc()
		writeJSON(w, http.StatusInternalServerError, t.ErrorResponse{Detail: "Failed to start browser"})
		return
	}
	id := uuid.NewString()
	s.mgr.Add(id, b)
	metrics.SessionsActive.Inc()
	metrics.SessionOperationsTotal.WithLabelValues("create", "ok").Inc()
	s.logger.Info("session created", zap.String("session_id", id))
	writeJSON(w, http.StatusOK, t.SessionResponse{SessionID: id})
}

func (s *Server) handleTerminate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.terminate(id, ReasonTerminated) {
		metrics.SessionOperationsTotal.WithLabelValues("terminate", "not_found").Inc()
		writeJSON(w, http.StatusNotFound, t.ErrorResponse{Detail: ReasonNotFound})
		return
	}
	metrics.SessionOperationsTotal.WithLabelValues("terminate", "ok").Inc()
	writeJSON(w, http.StatusOK, t.MessageResponse{Message: "Session terminated successfully"})
}

func (s *Server) terminate(id, reason string) bool {
	sess, conn, ok := s.mgr.Remove(id)
	if !ok {
		return false
	}
	metrics.SessionsActive.Dec()
	if conn != nil {
		closeWith(conn, reason)
	}
	if err := sess.Backend.Close(); err != nil {
		s.logger.Warn("backend close failed", zap.String("session_id", id), zap.Error(err))
	}
	s.logger.Info("session terminated", zap.String("session_id", id))
	return true
}

// Shutdown terminates every session.
func (s *Server) Shutdown() {
	for _, id := range s.mgr.IDs() {
		s.terminate(id, ReasonShutdown)
	}
}

// handleStream upgrades the viewer connection, streams frames to it and
// applies the input actions it sends.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade error", zap.Error(err))
		return
	}

	sess, ok := s.mgr.Get(id)
	if !ok {
		closeWith(ws, ReasonNotFound)
		return
	}
	old, ok := s.mgr.SetControl(id, ws)
	if !ok {
		// terminated while the upgrade was in flight
		closeWith(ws, ReasonTerminated)
		return
	}
	if old != nil {
		closeWith(old, ReasonReplaced)
	}

	ws.SetReadLimit(64 << 10)
	s.logger.Info("viewer connected", zap.String("session_id", id))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.pumpFrames(ctx, sess, ws) })
	g.Go(func() error { return s.pumpActions(ctx, sess, ws) })
	go func() {
		// unblock the reader once either pump stops
		<-ctx.Done()
		_ = ws.Close()
	}()
	err = g.Wait()

	s.mgr.RemoveControl(id, ws)
	_ = ws.Close()
	s.logger.Info("viewer disconnected", zap.String("session_id", id), zap.Error(err))
}

func (s *Server) pumpFrames(ctx context.Context, sess *Session, ws *websocket.Conn) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			frame, err := sess.Backend.Screenshot(ctx)
			if err != nil {
				s.logger.Warn("capture error", zap.String("session_id", sess.ID), zap.Error(err))
				continue
			}
			_ = ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return err
			}
			metrics.FramesStreamed.Inc()
		}
	}
}

func (s *Server) pumpActions(ctx context.Context, sess *Session, ws *websocket.Conn) error {
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		var ev t.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			s.logger.Debug("json error", zap.Error(err))
			metrics.ActionsHandled.WithLabelValues("invalid", "error").Inc()
			continue
		}
		if err := in.HandleEvent(ctx, sess.Backend, ev); err != nil {
			s.logger.Warn("action failed", zap.String("session_id", sess.ID), zap.String("action", ev.Action), zap.Error(err))
			label := ev.Action
			if errors.Is(err, in.ErrUnknownAction) {
				label = "unknown"
			}
			metrics.ActionsHandled.WithLabelValues(label, "error").Inc()
			continue
		}
		metrics.ActionsHandled.WithLabelValues(ev.Action, "ok").Inc()
	}
}

func closeWith(ws *websocket.Conn, reason string) {
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(time.Second))
	_ = ws.Close()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
