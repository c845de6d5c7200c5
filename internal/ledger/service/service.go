// Package service implements the card redemption flow, the ownership ledger
// queries and the collection progress projections.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"almanah/internal/catalog"
	"almanah/internal/ledger/metrics"
	"almanah/internal/ledger/ports"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/platform/sentinel"
	"almanah/pkg/requestcontext"
)

const tracerName = "almanah/internal/ledger/service"

// Service orchestrates the printed card registry, ledger and album stores
// against the template catalog.
type Service struct {
	cards     ports.PrintedCardStore
	entries   ports.EntryStore
	albums    ports.AlbumStore
	tx        ports.Tx
	catalog   catalog.Reader
	publisher ports.EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithEventPublisher sets where card_claimed events go after a claim commits.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service.
func New(stores ports.Stores, tx ports.Tx, reader catalog.Reader, opts ...Option) *Service {
	s := &Service{
		cards:   stores.PrintedCards,
		entries: stores.Entries,
		albums:  stores.Albums,
		tx:      tx,
		catalog: reader,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string, user id.UserRef) (context.Context, trace.Span) {
	var attrs []attribute.KeyValue
	if !user.IsZero() {
		attrs = append(attrs, attribute.String("user.id", user.String()))
	}
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}

func requireUser(user id.UserRef) error {
	if user.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "authenticated user required")
	}
	return nil
}

// translate maps store sentinels onto domain error codes. Errors that already
// carry a code pass through.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, resource+" not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeAlreadyClaimed, "printed card already claimed")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeDuplicateTemplate, "user already owns this template")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeStorageFailure, "failed to access "+resource)
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
