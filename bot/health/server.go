// Package health exposes the liveness endpoint hosting platforms poll.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/wasupalonely/appointments-chatbot/core/buildinfo"
	"github.com/wasupalonely/appointments-chatbot/core/logger"

	"log/slog"

	"github.com/google/uuid"
)

// Server serves /health and /healthz plus a small index page.
type Server struct {
	listen     string
	instanceID string
	startedAt  time.Time
	botRunning atomic.Bool
	srv        *http.Server
}

func NewServer(listen string) *Server {
	return &Server{
		listen:     listen,
		instanceID: uuid.NewString(),
		startedAt:  time.Now(),
	}
}

// SetBotRunning flips the reported bot status.
func (s *Server) SetBotRunning(running bool) {
	s.botRunning.Store(running)
}

type status struct {
	Status        string  `json:"status"`
	Timestamp     int64   `json:"timestamp"`
	BotStatus     string  `json:"bot_status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	InstanceID    string  `json:"instance_id"`
	Version       string  `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	botStatus := "stopped"
	if s.botRunning.Load() {
		botStatus = "running"
	}
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	_ = json.NewEncoder(w).Encode(status{
		Status:        "up",
		Timestamp:     time.Now().Unix(),
		BotStatus:     botStatus,
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		InstanceID:    s.instanceID,
		Version:       buildinfo.Version,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<html><head><title>Clinic Bot</title></head>` +
		`<body><h1>Telegram bot for the medical clinic</h1>` +
		`<p>The bot is up and running.</p>` +
		`<p>See <a href="/health">/health</a> for status.</p>` +
		`</body></html>`))
}

// Run serves until ctx is done, then shuts down gracefully. An empty
// listen address disables the server.
func (s *Server) Run(ctx context.Context) error {
	if s.listen == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleIndex)

	s.srv = &http.Server{
		Addr:              s.listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Health.Info("listening",
			slog.String("event", "health.listen"),
			slog.String("addr", s.listen),
			slog.String("instance_id", s.instanceID),
		)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			logger.Health.Warn("shutdown failed",
				slog.String("event", "health.shutdown"),
				slog.String("err", err.Error()),
			)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
