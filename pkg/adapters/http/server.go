package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/selim"
	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/chat"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/runner"
	"github.com/aretw0/selim/pkg/typo"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

//go:embed openapi.yaml
var rawSpec []byte

// Conversation is the transcript owner the handlers drive.
type Conversation interface {
	TrySend(ctx context.Context, text string) (user, reply domain.Turn, err error)
	Clear(ctx context.Context) (*domain.Transcript, error)
	Transcript() *domain.Transcript
	Loading() bool
	Subscribe() (<-chan chat.Event, func())
}

// Companion reports whether replies come from the remote assistant.
type Companion interface {
	Remote() bool
}

// Server holds the handler dependencies.
type Server struct {
	Companion    Companion
	Conversation Conversation

	spec           *openapi3.T
	limiter        *rate.Limiter
	allowedOrigins []string
	metrics        http.Handler
	typos          *typo.Checker
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits POST /turns to r requests per second with the given burst.
// A zero limit disables rate limiting.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(s *Server) {
		if r <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(r, burst)
	}
}

// WithAllowedOrigins sets the CORS origins. Defaults to "*".
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithTypoChecker replaces the built-in misspelling dictionary.
func WithTypoChecker(c *typo.Checker) Option {
	return func(s *Server) {
		if c != nil {
			s.typos = c
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for a conversation.
func NewHandler(companion Companion, conv Conversation, opts ...Option) (http.Handler, error) {
	spec, err := loadSpec()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Companion:      companion,
		Conversation:   conv,
		spec:           spec,
		allowedOrigins: []string{"*"},
		typos:          typo.Default(),
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	validate, err := validationMiddleware(spec, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/transcript", s.GetTranscript)
		r.Delete("/transcript", s.ClearTranscript)
		r.Post("/turns", s.SendTurn)
		r.Post("/typos", s.CheckTypos)
		r.Get("/events", s.SubscribeEvents)
	})

	return r, nil
}

type textRequest struct {
	Text string `json:"text"`
}

type transcriptView struct {
	Turns   []domain.Turn `json:"turns"`
	Loading bool          `json:"loading"`
	Remote  bool          `json:"remote"`
}

type turnResponse struct {
	User  domain.Turn `json:"user"`
	Reply domain.Turn `json:"reply"`
}

type typoResponse struct {
	Found   bool   `json:"found"`
	Wrong   string `json:"wrong,omitempty"`
	Correct string `json:"correct,omitempty"`
	Fixed   string `json:"fixed"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":         "selim-http",
		"version":     selim.Version,
		"api_version": apiVersion,
		"remote":      s.Companion.Remote(),
	})
}

// GetTranscript handles the GET /transcript request.
func (s *Server) GetTranscript(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.view(s.Conversation.Transcript()))
}

// ClearTranscript handles the DELETE /transcript request.
func (s *Server) ClearTranscript(w http.ResponseWriter, r *http.Request) {
	t, err := s.Conversation.Clear(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Clear error: %v", err))
		s.logger.Error("Clear failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view(t))
}

// SendTurn handles the POST /turns request.
func (s *Server) SendTurn(w http.ResponseWriter, r *http.Request) {
	var body textRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("SendTurn: invalid request body", "err", err)
		return
	}

	text, err := runner.SanitizeMessage(body.Text)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
		s.logger.Warn("SendTurn: input rejected", "err", err, "size", len(body.Text))
		return
	}

	if s.limiter != nil && !s.limiter.Allow() {
		s.writeError(w, http.StatusTooManyRequests, "Too many requests")
		s.logger.Warn("SendTurn: rate limited")
		return
	}

	user, reply, err := s.Conversation.TrySend(r.Context(), text)
	if err != nil {
		if errors.Is(err, domain.ErrBusy) {
			s.writeError(w, http.StatusConflict, "A turn is already in flight")
			return
		}
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Send error: %v", err))
		s.logger.Error("SendTurn failed", "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, turnResponse{User: user, Reply: reply})
}

// CheckTypos handles the POST /typos request.
func (s *Server) CheckTypos(w http.ResponseWriter, r *http.Request) {
	var body textRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("CheckTypos: invalid request body", "err", err)
		return
	}

	resp := typoResponse{Fixed: body.Text}
	if sug, ok := s.typos.Suggest(body.Text); ok {
		resp.Found = true
		resp.Wrong = sug.Wrong
		resp.Correct = sug.Correct
		resp.Fixed = s.typos.Fix(body.Text, sug)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := s.Conversation.Subscribe()
	defer cancel()

	s.logger.Info("SSE: client subscribed")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected")
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.logger.Error("SSE: event encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
			flusher.Flush()
		}
	}
}

func (s *Server) view(t *domain.Transcript) transcriptView {
	return transcriptView{
		Turns:   t.Turns,
		Loading: s.Conversation.Loading(),
		Remote:  s.Companion.Remote(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
