package convert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mdpreview/internal/domain"
	"mdpreview/internal/infra/logging"
	"mdpreview/internal/markdown"
)

// Renderer turns Markdown into an HTML fragment.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Options configures a Service.
type Options struct {
	MaxContentBytes int
	RenderTimeout   time.Duration
}

// Service converts requests. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	renderer      Renderer
	validator     Validator
	log           *logging.Logger
	renderTimeout time.Duration
}

// NewService wires a Service around renderer and log.
func NewService(renderer Renderer, log *logging.Logger, opts Options) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		renderer:      renderer,
		validator:     Validator{MaxBytes: opts.MaxContentBytes, Log: log},
		log:           log,
		renderTimeout: opts.RenderTimeout,
	}
}

// Convert validates, renders and wraps req. A size violation is not an
// error: it yields a response whose Error is set and whose HTML is an error
// fragment. The returned error is non-nil only when rendering fails.
func (s *Service) Convert(ctx context.Context, req domain.ConversionRequest) (domain.ConversionResponse, error) {
	start := time.Now()
	s.log.Info("Converting markdown", "theme", req.ThemeName(), "bytes", len(req.Content))

	if err := s.validator.Validate(req.Content); err != nil {
		var tooLarge *domain.TooLargeError
		if errors.As(err, &tooLarge) {
			msg := domain.ErrContentTooLarge.Error()
			return domain.ConversionResponse{HTML: tooLargeFragment(tooLarge), Error: &msg}, nil
		}
		return domain.ConversionResponse{}, err
	}

	fragment, err := s.render(ctx, req.Content)
	if err != nil {
		s.log.Error("Markdown rendering failed", "error", err)
		return domain.ConversionResponse{}, err
	}
	wrapped := markdown.Wrap(fragment, req.Theme)

	s.log.Info(fmt.Sprintf("Markdown converted successfully in %s", time.Since(start)))
	return domain.ConversionResponse{HTML: wrapped}, nil
}

// Document is Convert for exporters: the size violation is returned as a
// *domain.TooLargeError and the result is the wrapped HTML.
func (s *Service) Document(ctx context.Context, req domain.ConversionRequest) (string, error) {
	if err := s.validator.Validate(req.Content); err != nil {
		return "", err
	}
	fragment, err := s.render(ctx, req.Content)
	if err != nil {
		s.log.Error("Markdown rendering failed", "error", err)
		return "", err
	}
	return markdown.Wrap(fragment, req.Theme), nil
}

func (s *Service) render(ctx context.Context, content string) (string, error) {
	if s.renderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.renderTimeout)
		defer cancel()
	}
	fragment, err := s.renderer.Render(ctx, content)
	if errors.Is(err, context.DeadlineExceeded) {
		return "", fmt.Errorf("%w: %w", domain.ErrRenderTimeout, err)
	}
	return fragment, err
}
