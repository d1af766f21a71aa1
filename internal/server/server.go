package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"resumesmith/internal/config"
	"resumesmith/internal/generation"
	"resumesmith/internal/logging"
	"resumesmith/internal/payload"
	"resumesmith/internal/services"
)

const maxRequestBody = 64 << 20

// Generator runs a single generation request. *generation.Service satisfies it.
type Generator interface {
	Generate(ctx context.Context, input generation.Input) (*generation.Result, error)
}

// Server serves the generation API over HTTP.
type Server struct {
	bind      string
	token     string
	logger    *slog.Logger
	generator Generator

	listener net.Listener
	server   *http.Server
}

// New builds a server bound to cfg.Server.Bind.
func New(cfg *config.Config, generator Generator, logger *slog.Logger) (*Server, error) {
	if cfg == nil || generator == nil {
		return nil, errors.New("server requires config and generator")
	}
	bind := strings.TrimSpace(cfg.Server.Bind)
	if bind == "" {
		return nil, errors.New("server bind address required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:      bind,
		token:     strings.TrimSpace(cfg.Server.Token),
		logger:    logging.NewComponentLogger(logger, "api-server"),
		generator: generator,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", srv.handleHealth)
	mux.HandleFunc("/api/generate", authMiddleware(srv.token, srv.handleGenerate))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler exposes the routing table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop performs a graceful shutdown.
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

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req generateRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}

	result, err := s.generator.Generate(r.Context(), input)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, generateResponse{
		RequestID: result.RequestID,
		Model:     result.Model,
		HTML:      result.HTML,
	})
}

type wireAttachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type,omitempty"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Brief             string           `json:"brief"`
	AccentColor       string           `json:"accent_color,omitempty"`
	IncludeAccentHint *bool            `json:"include_accent_hint,omitempty"`
	Model             string           `json:"model,omitempty"`
	MaxOutputTokens   int              `json:"max_output_tokens,omitempty"`
	Temperature       float64          `json:"temperature,omitempty"`
	Attachments       []wireAttachment `json:"attachments,omitempty"`
	Avatar            *wireAttachment  `json:"avatar,omitempty"`
	QR                *wireAttachment  `json:"qr,omitempty"`
}

type generateResponse struct {
	RequestID string `json:"request_id"`
	Model     string `json:"model"`
	HTML      string `json:"html"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

func (r generateRequest) toInput() (generation.Input, error) {
	input := generation.Input{
		Brief:             r.Brief,
		AccentColor:       r.AccentColor,
		IncludeAccentHint: true,
		Model:             r.Model,
		MaxOutputTokens:   r.MaxOutputTokens,
		Temperature:       r.Temperature,
	}
	if r.IncludeAccentHint != nil {
		input.IncludeAccentHint = *r.IncludeAccentHint
	}
	for _, att := range r.Attachments {
		decoded, err := decodeAttachment(att)
		if err != nil {
			return input, err
		}
		input.Attachments = append(input.Attachments, decoded)
	}
	if r.Avatar != nil {
		decoded, err := decodeAttachment(*r.Avatar)
		if err != nil {
			return input, err
		}
		input.Avatar = &decoded
	}
	if r.QR != nil {
		decoded, err := decodeAttachment(*r.QR)
		if err != nil {
			return input, err
		}
		input.QR = &decoded
	}
	return input, nil
}

func decodeAttachment(att wireAttachment) (payload.Attachment, error) {
	data, err := base64.StdEncoding.DecodeString(att.Data)
	if err != nil {
		return payload.Attachment{}, services.WrapError(services.KindMalformedRequest, err,
			"attachment %s is not valid base64", att.Filename)
	}
	mime := att.MimeType
	if mime == "" {
		mime = payload.MimeForFilename(att.Filename)
	}
	return payload.Attachment{Filename: att.Filename, MimeType: mime, Data: data}, nil
}

// statusForKind maps taxonomy kinds onto HTTP statuses.
func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindInvalidColor, services.KindBriefTooLong, services.KindUnsupportedModel,
		services.KindUnsupportedFormat, services.KindMalformedRequest:
		return http.StatusBadRequest
	case services.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case services.KindAuthenticationFailed:
		return http.StatusBadGateway
	case services.KindQuotaExceeded:
		return http.StatusPaymentRequired
	case services.KindRateLimited, services.KindRetriesExhausted:
		return http.StatusServiceUnavailable
	case services.KindTimeout, services.KindConnectionError:
		return http.StatusBadGateway
	case services.KindCancelled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeTaxonomyError(w http.ResponseWriter, err error) {
	kind := services.KindOf(err)
	s.logger.Warn("generation request rejected",
		logging.String("kind", string(kind)),
		logging.Error(err),
	)
	s.writeJSON(w, statusForKind(kind), errorResponse{
		Error: err.Error(),
		Kind:  string(kind),
		Hint:  kind.Hint(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
