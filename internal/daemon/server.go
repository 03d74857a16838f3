package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"billboard/internal/config"
	"billboard/internal/logging"
	"billboard/internal/record"
)

const infoPrefix = "/info/"

// Processor resolves a document URL into a finished record.
type Processor interface {
	Process(ctx context.Context, rawURL string) (record.Record, error)
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	bind           string
	requestTimeout time.Duration
	logger         *slog.Logger
	processor      Processor
	startedAt      time.Time

	listener net.Listener
	server   *http.Server
}

// NewServer builds the HTTP server around processor.
func NewServer(cfg *config.Config, processor Processor, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("daemon: config is required")
	}
	if processor == nil {
		return nil, errors.New("daemon: processor is required")
	}
	bind := strings.TrimSpace(cfg.Server.Bind)
	if bind == "" {
		return nil, errors.New("daemon: bind address is required")
	}
	timeout := time.Duration(cfg.Server.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	srv := &Server{
		bind:           bind,
		requestTimeout: timeout,
		logger:         logger,
		processor:      processor,
		startedAt:      time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(infoPrefix, srv.handleInfo)
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      timeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start begins serving and shuts the server down when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("daemon listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("http server error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound listen address, useful when binding to port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// handleInfo processes a document URL. The URL rides in the path after
// /info/ and may be percent-encoded; extraction works on the escaped path so
// an encoded slash inside the document URL survives routing.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	escaped := r.URL.EscapedPath()
	if !strings.HasPrefix(escaped, infoPrefix) {
		s.writeError(w, http.StatusInternalServerError, "unexpected route")
		return
	}
	rawURL, err := url.PathUnescape(strings.TrimPrefix(escaped, infoPrefix))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "undecodable document URL")
		return
	}

	requestID := uuid.NewString()
	logger := s.log().With(slog.String("request_id", requestID))
	logger.Info("processing document", slog.String("url", rawURL))

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	started := time.Now()
	rec, err := s.processor.Process(ctx, rawURL)
	if err != nil {
		logger.Error("processing failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(started)))
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info("processing complete",
		slog.String("uid", rec.ID),
		slog.Duration("elapsed", time.Since(started)))
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "running",
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"schema_version": record.SchemaVersion,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, record.ErrorRecord{Error: message})
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(slog.String("component", "server"))
	}
	return logging.NewNop()
}
