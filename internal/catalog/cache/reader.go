// Package cache decorates a catalog.Reader. Templates and events are immutable, so
// they live in a process-local LRU; template counts go through a shared TTL cache.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"almanah/internal/catalog"
	"almanah/internal/catalog/models"
	id "almanah/pkg/domain"
)

// CountCache stores template counts shared across instances.
type CountCache interface {
	GetCount(ctx context.Context, key string) (int, bool, error)
	SetCount(ctx context.Context, key string, n int, ttl time.Duration) error
}

const countAllKey = "all"

// Reader is a caching catalog.Reader.
type Reader struct {
	inner    catalog.Reader
	entities *lru.Cache
	counts   CountCache
	ttl      time.Duration
	logger   *slog.Logger
}

type Option func(*Reader)

// WithCountCache enables the shared count cache.
func WithCountCache(c CountCache, ttl time.Duration) Option {
	return func(r *Reader) {
		r.counts = c
		r.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// New wraps inner with an LRU of the given size.
func New(inner catalog.Reader, size int, opts ...Option) (*Reader, error) {
	entities, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("catalog cache: %w", err)
	}
	r := &Reader{inner: inner, entities: entities, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type templateKey id.TemplateID
type eventKey id.EventID

func (r *Reader) GetTemplate(ctx context.Context, templateID id.TemplateID) (*models.Template, error) {
	if v, ok := r.entities.Get(templateKey(templateID)); ok {
		return v.(*models.Template), nil
	}
	t, err := r.inner.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	r.entities.Add(templateKey(templateID), t)
	return t, nil
}

func (r *Reader) GetTemplates(ctx context.Context, templateIDs []id.TemplateID) (map[id.TemplateID]*models.Template, error) {
	out := make(map[id.TemplateID]*models.Template, len(templateIDs))
	var missing []id.TemplateID
	for _, tid := range templateIDs {
		if v, ok := r.entities.Get(templateKey(tid)); ok {
			out[tid] = v.(*models.Template)
			continue
		}
		missing = append(missing, tid)
	}
	if len(missing) == 0 {
		return out, nil
	}
	loaded, err := r.inner.GetTemplates(ctx, missing)
	if err != nil {
		return nil, err
	}
	for tid, t := range loaded {
		r.entities.Add(templateKey(tid), t)
		out[tid] = t
	}
	return out, nil
}

// ListTemplatesForEvent is not cached; pages are cheap and vary by window.
func (r *Reader) ListTemplatesForEvent(ctx context.Context, eventID id.EventID, window models.Window) ([]*models.Template, error) {
	templates, err := r.inner.ListTemplatesForEvent(ctx, eventID, window)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		r.entities.Add(templateKey(t.ID), t)
	}
	return templates, nil
}

func (r *Reader) CountTemplatesForEvent(ctx context.Context, eventID id.EventID) (int, error) {
	return r.cachedCount(ctx, eventCountKey(eventID), func(ctx context.Context) (int, error) {
		return r.inner.CountTemplatesForEvent(ctx, eventID)
	})
}

// CountTemplatesForEvents serves what it can from the shared count cache and
// loads the rest from the catalog in one batch.
func (r *Reader) CountTemplatesForEvents(ctx context.Context, eventIDs []id.EventID) (map[id.EventID]int, error) {
	if r.counts == nil {
		return r.inner.CountTemplatesForEvents(ctx, eventIDs)
	}
	out := make(map[id.EventID]int, len(eventIDs))
	var missing []id.EventID
	for _, eventID := range eventIDs {
		key := eventCountKey(eventID)
		n, ok, err := r.counts.GetCount(ctx, key)
		if err != nil {
			r.logger.WarnContext(ctx, "catalog count cache read failed", "key", key, "error", err)
		}
		if ok {
			out[eventID] = n
			continue
		}
		missing = append(missing, eventID)
	}
	if len(missing) == 0 {
		return out, nil
	}
	loaded, err := r.inner.CountTemplatesForEvents(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, eventID := range missing {
		n := loaded[eventID]
		out[eventID] = n
		if err := r.counts.SetCount(ctx, eventCountKey(eventID), n, r.ttl); err != nil {
			r.logger.WarnContext(ctx, "catalog count cache write failed", "key", eventCountKey(eventID), "error", err)
		}
	}
	return out, nil
}

func eventCountKey(eventID id.EventID) string {
	return "event:" + eventID.String()
}

func (r *Reader) CountAllTemplates(ctx context.Context) (int, error) {
	return r.cachedCount(ctx, countAllKey, r.inner.CountAllTemplates)
}

func (r *Reader) GetEvent(ctx context.Context, eventID id.EventID) (*models.Event, error) {
	if v, ok := r.entities.Get(eventKey(eventID)); ok {
		return v.(*models.Event), nil
	}
	e, err := r.inner.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	r.entities.Add(eventKey(eventID), e)
	return e, nil
}

func (r *Reader) GetEvents(ctx context.Context, eventIDs []id.EventID) (map[id.EventID]*models.Event, error) {
	out := make(map[id.EventID]*models.Event, len(eventIDs))
	var missing []id.EventID
	for _, eid := range eventIDs {
		if v, ok := r.entities.Get(eventKey(eid)); ok {
			out[eid] = v.(*models.Event)
			continue
		}
		missing = append(missing, eid)
	}
	if len(missing) == 0 {
		return out, nil
	}
	loaded, err := r.inner.GetEvents(ctx, missing)
	if err != nil {
		return nil, err
	}
	for eid, e := range loaded {
		r.entities.Add(eventKey(eid), e)
		out[eid] = e
	}
	return out, nil
}

func (r *Reader) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return r.inner.ListEvents(ctx)
}

// cachedCount fails open: a broken count cache degrades to a direct read.
func (r *Reader) cachedCount(ctx context.Context, key string, load func(context.Context) (int, error)) (int, error) {
	if r.counts == nil {
		return load(ctx)
	}
	n, ok, err := r.counts.GetCount(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "catalog count cache read failed", "key", key, "error", err)
	}
	if ok {
		return n, nil
	}
	n, err = load(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.counts.SetCount(ctx, key, n, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "catalog count cache write failed", "key", key, "error", err)
	}
	return n, nil
}
