package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resumesmith/internal/config"
	"resumesmith/internal/htmlcheck"
	"resumesmith/internal/logging"
	"resumesmith/internal/payload"
	"resumesmith/internal/services"
	"resumesmith/internal/services/openai"
)

// Dispatcher sends an assembled request to the model endpoint.
type Dispatcher interface {
	CreateResponse(ctx context.Context, req openai.Request) (string, error)
}

// ImageNormalizer prepares raw image bytes for transport.
type ImageNormalizer interface {
	Normalize(data []byte, declaredMime string) ([]byte, string, error)
}

// Service coordinates a full generation pass.
type Service struct {
	cfg        *config.Config
	dispatcher Dispatcher
	normalizer ImageNormalizer
	encoder    *payload.Encoder
	logger     *slog.Logger
}

// NewService wires a generation service from its collaborators.
func NewService(cfg *config.Config, dispatcher Dispatcher, normalizer ImageNormalizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cfg:        cfg,
		dispatcher: dispatcher,
		normalizer: normalizer,
		encoder:    payload.NewEncoder(cfg.Attachments.MaxFileBytes),
		logger:     logging.NewComponentLogger(logger, "generation"),
	}
}

// Generate runs the full pipeline for one request. All failures carry a
// taxonomy kind retrievable with services.KindOf.
func (s *Service) Generate(ctx context.Context, input Input) (*Result, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	logger := s.logger.With(logging.String(logging.FieldRequestID, requestID))

	input, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	attachments, err := s.normalizeAttachments(input)
	if err != nil {
		return nil, err
	}

	blocks, err := s.encoder.Encode(attachments, buildUserText(input))
	if err != nil {
		return nil, err
	}

	instructions, err := LoadSystemInstructions(s.cfg.Paths.SystemPromptPath)
	if err != nil {
		return nil, err
	}

	logger.Info("dispatching generation request",
		logging.String(logging.FieldModel, input.Model),
		logging.Int("attachments", len(attachments)),
		logging.Int("max_output_tokens", input.MaxOutputTokens),
	)
	started := time.Now()
	text, err := s.dispatcher.CreateResponse(ctx, openai.Request{
		Model:              input.Model,
		SystemInstructions: instructions,
		Blocks:             blocks,
		MaxOutputTokens:    input.MaxOutputTokens,
		Temperature:        input.Temperature,
	})
	if err != nil {
		logger.Error("generation request failed",
			logging.String("kind", string(services.KindOf(err))),
			logging.Error(err),
		)
		return nil, err
	}

	if err := htmlcheck.Validate(text); err != nil {
		logger.Error("model returned a non-html document", logging.Error(err))
		return nil, err
	}

	html := applyImageOverrides(text, input.Avatar, input.QR)
	logger.Info("generation completed",
		logging.String(logging.FieldModel, input.Model),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("html_bytes", len(html)),
	)
	return &Result{RequestID: requestID, Model: input.Model, HTML: html}, nil
}

// normalizeAttachments resizes and re-encodes image attachments, leaving
// documents untouched, and returns the final transport order: context
// attachments first, then avatar, then QR.
func (s *Service) normalizeAttachments(input Input) ([]payload.Attachment, error) {
	out := make([]payload.Attachment, 0, len(input.Attachments)+2)
	appendOne := func(att payload.Attachment) error {
		if att.Kind() == payload.KindImage && s.normalizer != nil {
			data, mime, err := s.normalizer.Normalize(att.Data, att.MimeType)
			if err != nil {
				return services.WrapError(services.KindOf(err), err, "normalize %s", att.Filename)
			}
			att.Data = data
			att.MimeType = mime
		}
		out = append(out, att)
		return nil
	}
	for _, att := range input.Attachments {
		if err := appendOne(att); err != nil {
			return nil, err
		}
	}
	if input.Avatar != nil {
		if err := appendOne(*input.Avatar); err != nil {
			return nil, err
		}
	}
	if input.QR != nil {
		if err := appendOne(*input.QR); err != nil {
			return nil, err
		}
	}
	return out, nil
}
