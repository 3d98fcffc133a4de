// Package api provides HTTP handlers and the main API server logic for the
// banking assistant.
//
// It exposes the conversational turn endpoints, the speech relay, payee and
// alert CRUD, metrics, and static asset hosting.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/liuzz10/gui-agent-banking-assistant/internal/models"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/notify"
	"github.com/liuzz10/gui-agent-banking-assistant/internal/store"
)

// Default server configuration.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

// TurnProcessor is the orchestration contract the chat endpoints depend on.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, req *models.TurnRequest) (*models.TurnResult, error)
}

// SpeechService is the TTS relay contract the /speak endpoint depends on.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}

// Opts holds configuration options for the API server.
type Opts struct {
	Addr      string
	StaticDir string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithStaticDir enables static asset hosting from the given directory.
func WithStaticDir(dir string) Option {
	return func(o *Opts) { o.StaticDir = dir }
}

// Server wires the orchestration engine and its collaborators to HTTP.
type Server struct {
	orchestrator TurnProcessor
	st           store.Store
	speech       SpeechService // nil disables /speak
	notifier     notify.Sender // nil disables alert SMS
	opts         Opts
}

// NewServer creates an API server. The speech service and notifier are
// optional; passing nil disables the corresponding feature.
func NewServer(orchestrator TurnProcessor, st store.Store, speech SpeechService, notifier notify.Sender, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		orchestrator: orchestrator,
		st:           st,
		speech:       speech,
		notifier:     notifier,
		opts:         cfg,
	}
}

// Router builds the chi router with all endpoints mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/chat", s.chatHandler(""))
	r.Post("/tellerbot", s.chatHandler(models.PersonaTeller))
	r.Post("/tutorbot", s.chatHandler(models.PersonaTutor))
	r.Post("/speak", s.speakHandler)

	r.Get("/payees", s.listPayeesHandler)
	r.Post("/payees", s.createPayeeHandler)
	r.Get("/alerts", s.listAlertsHandler)
	r.Post("/alerts", s.createAlertHandler)

	r.Get("/healthz", s.healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	if s.opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.opts.StaticDir)))
		r.Handle("/static/*", fs)
	}
	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: API listening", "addr", s.opts.Addr, "static_dir", s.opts.StaticDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Server.Run: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// healthHandler reports liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("ok", nil))
}
