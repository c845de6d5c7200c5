package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	catalogmodels "almanah/internal/catalog/models"
	"almanah/internal/ledger/models"
	"almanah/internal/platform/metrics"
	"almanah/internal/platform/middleware"
	ratelimitmodels "almanah/internal/ratelimit/models"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/platform/httputil"
	"almanah/pkg/platform/middleware/requesttime"
	"almanah/pkg/requestcontext"
)

// Service is the ledger surface exposed over HTTP.
type Service interface {
	Claim(ctx context.Context, user id.UserRef, cardID id.PrintedCardID) (*models.ClaimResult, error)
	ClaimByScanCode(ctx context.Context, user id.UserRef, scanCode string) (*models.ClaimResult, error)
	ValidateScan(ctx context.Context, cardID id.PrintedCardID) (bool, error)
	DescribeUnclaimed(ctx context.Context, cardID id.PrintedCardID) (*models.UnclaimedCard, error)
	GetTemplateWithEvent(ctx context.Context, templateID id.TemplateID) (*models.TemplateDetails, error)
	ListForUser(ctx context.Context, user id.UserRef, page, pageSize int) (models.Page[*models.Entry], error)
	ListOwnedTemplates(ctx context.Context, user id.UserRef, page, pageSize int) (models.Page[*models.OwnedTemplate], error)
	TemplatesForEvent(ctx context.Context, user id.UserRef, eventID id.EventID, page, pageSize int) (models.Page[*models.TemplateOwnership], error)
	CollectionStats(ctx context.Context, user id.UserRef) (models.CollectionStats, error)
	TopEventsByCompletion(ctx context.Context, user id.UserRef) ([]*models.EventCompletion, error)
	RecentlyOwned(ctx context.Context, user id.UserRef) ([]*models.OwnedTemplate, error)
	Dashboard(ctx context.Context, user id.UserRef) (*models.Dashboard, error)
	GetAlbum(ctx context.Context, user id.UserRef) (*models.Album, error)
	ReconcileAlbum(ctx context.Context, user id.UserRef) (*models.Album, bool, error)
	ListEvents(ctx context.Context) ([]*catalogmodels.Event, error)
}

// Handler serves the card, album and event endpoints.
type Handler struct {
	service  Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
	resolver middleware.UserResolver
	auth     middleware.AuthOptions
	timeout  time.Duration
	limiter  RateLimiter
}

// RateLimiter builds per-class middleware for authenticated routes.
type RateLimiter interface {
	RateLimitAuthenticated(class ratelimitmodels.EndpointClass) func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithRateLimiter throttles claims and printed card lookups per user.
func WithRateLimiter(l RateLimiter) Option {
	return func(h *Handler) {
		h.limiter = l
	}
}

// New creates a ledger Handler.
func New(
	service Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	resolver middleware.UserResolver,
	auth middleware.AuthOptions,
	timeout time.Duration,
	opts ...Option) *Handler {
	h := &Handler{
		service:  service,
		logger:   logger,
		metrics:  metrics,
		resolver: resolver,
		auth:     auth,
		timeout:  timeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(requesttime.Middleware)
		r.Use(middleware.Logger(h.logger))
		if h.timeout > 0 {
			r.Use(middleware.Timeout(h.timeout))
		}
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.LatencyMiddleware(h.metrics))

		r.Get("/events", h.handleListEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.resolver, h.auth, h.logger))
			r.With(h.rateLimit(ratelimitmodels.ClassClaim)).Patch("/cards/claim", h.handleClaim)
			r.With(h.rateLimit(ratelimitmodels.ClassLookup)).Get("/cards/validate/{id}", h.handleValidate)
			r.With(h.rateLimit(ratelimitmodels.ClassLookup)).Get("/cards/details/{id}", h.handleDetails)
			r.With(h.rateLimit(ratelimitmodels.ClassLookup)).Get("/cards/templates/{id}", h.handleTemplate)
			r.Get("/cards/collected", h.handleCollected)
			r.Get("/cards/entries", h.handleEntries)
			r.Get("/cards/event/{eventID}", h.handleEventTemplates)
			r.Get("/cards/stats", h.handleStats)
			r.Get("/cards/recent", h.handleRecent)
			r.Get("/cards/top-events", h.handleTopEvents)
			r.Get("/cards/dashboard", h.handleDashboard)
			r.Get("/album", h.handleGetAlbum)
			r.Post("/album/reconcile", h.handleReconcile)
		})
	})
}

func (h *Handler) rateLimit(class ratelimitmodels.EndpointClass) func(http.Handler) http.Handler {
	if h.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return h.limiter.RateLimitAuthenticated(class)
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req ClaimRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	var (
		result *models.ClaimResult
		err    error
	)
	if req.ScanCode != "" {
		result, err = h.service.ClaimByScanCode(ctx, user, req.ScanCode)
	} else {
		result, err = h.service.Claim(ctx, user, req.parsedCardID)
	}
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID, err := id.ParsePrintedCardID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	valid, err := h.service.ValidateScan(ctx, cardID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{Valid: valid})
}

func (h *Handler) handleDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cardID, err := id.ParsePrintedCardID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	details, err := h.service.DescribeUnclaimed(ctx, cardID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templateID, err := id.ParseTemplateID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	details, err := h.service.GetTemplateWithEvent(ctx, templateID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) handleCollected(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	page, pageSize, err := pageParams(r)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	result, err := h.service.ListOwnedTemplates(ctx, user, page, pageSize)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	page, pageSize, err := pageParams(r)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	result, err := h.service.ListForUser(ctx, user, page, pageSize)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleEventTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	page, pageSize, err := pageParams(r)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	result, err := h.service.TemplatesForEvent(ctx, user, eventID, page, pageSize)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	stats, err := h.service.CollectionStats(ctx, user)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	recent, err := h.service.RecentlyOwned(ctx, user)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items(recent))
}

func (h *Handler) handleTopEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	top, err := h.service.TopEventsByCompletion(ctx, user)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items(top))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	dashboard, err := h.service.Dashboard(ctx, user)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	album, err := h.service.GetAlbum(ctx, user)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, album)
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	album, repaired, err := h.service.ReconcileAlbum(ctx, user)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReconcileResponse{Album: album, Repaired: repaired})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	events, err := h.service.ListEvents(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items(events))
}

// currentUser reads the user RequireAuth stored in the context.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (id.UserRef, bool) {
	user, ok := requestcontext.User(r.Context())
	if !ok || user.IsZero() {
		h.logger.ErrorContext(r.Context(), "user missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserRef{}, false
	}
	return user, true
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	if code.IsClientError() {
		h.logger.WarnContext(ctx, "request rejected",
			"request_id", middleware.GetRequestID(ctx),
			"code", string(code),
			"error", err.Error(),
		)
	} else {
		h.logger.ErrorContext(ctx, "request failed",
			"request_id", middleware.GetRequestID(ctx),
			"code", string(code),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
