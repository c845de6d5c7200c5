package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	catalogmodels "almanah/internal/catalog/models"
	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
)

// CollectionStats is the user's overall completion. A user with no claims
// gets zero owned rather than an error.
func (s *Service) CollectionStats(ctx context.Context, user id.UserRef) (stats models.CollectionStats, err error) {
	ctx, span := s.startSpan(ctx, "ledger.CollectionStats", user)
	defer func(start time.Time) {
		s.metrics.ObserveProjection("stats", start)
		endSpan(span, err)
	}(time.Now())

	if err := requireUser(user); err != nil {
		return models.CollectionStats{}, err
	}
	owned, err := s.entries.CountForUser(ctx, user.ID())
	if err != nil {
		return models.CollectionStats{}, translate(err, "ledger")
	}
	total, err := s.catalog.CountAllTemplates(ctx)
	if err != nil {
		return models.CollectionStats{}, translate(err, "catalog")
	}
	return models.NewCollectionStats(owned, total), nil
}

// TemplatesForEvent pages an event's templates in ordinal order, each marked
// with whether the user owns it.
func (s *Service) TemplatesForEvent(ctx context.Context, user id.UserRef, eventID id.EventID, page, pageSize int) (result models.Page[*models.TemplateOwnership], err error) {
	req, err := models.NewPageRequest(page, pageSize)
	if err != nil {
		return result, err
	}
	if err := requireUser(user); err != nil {
		return result, err
	}
	if eventID.IsNil() {
		return result, dErrors.New(dErrors.CodeInvalidIdentifier, "event id is required")
	}

	ctx, span := s.startSpan(ctx, "ledger.TemplatesForEvent", user)
	defer func(start time.Time) {
		s.metrics.ObserveProjection("event_templates", start)
		endSpan(span, err)
	}(time.Now())

	if _, err := s.catalog.GetEvent(ctx, eventID); err != nil {
		return result, translate(err, "event")
	}
	templates, err := s.catalog.ListTemplatesForEvent(ctx, eventID, catalogmodels.Window{Offset: req.Offset(), Limit: req.PageSize})
	if err != nil {
		return result, translate(err, "catalog")
	}
	total, err := s.catalog.CountTemplatesForEvent(ctx, eventID)
	if err != nil {
		return result, translate(err, "catalog")
	}
	ids := make([]id.TemplateID, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	owned, err := s.entries.OwnedTemplates(ctx, user.ID(), ids)
	if err != nil {
		return result, translate(err, "ledger")
	}
	items := make([]*models.TemplateOwnership, len(templates))
	for i, t := range templates {
		items[i] = &models.TemplateOwnership{Template: t, Owned: owned[t.ID]}
	}
	return models.NewPage(req, items, total), nil
}

// TopEventsByCompletion ranks the events the user has started by completion
// percentage, highest first.
func (s *Service) TopEventsByCompletion(ctx context.Context, user id.UserRef) (result []*models.EventCompletion, err error) {
	ctx, span := s.startSpan(ctx, "ledger.TopEventsByCompletion", user)
	defer func(start time.Time) {
		s.metrics.ObserveProjection("top_events", start)
		endSpan(span, err)
	}(time.Now())

	if err := requireUser(user); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListAllForUser(ctx, user.ID())
	if err != nil {
		return nil, translate(err, "ledger")
	}
	if len(entries) == 0 {
		return []*models.EventCompletion{}, nil
	}
	templateIDs := make([]id.TemplateID, len(entries))
	for i, e := range entries {
		templateIDs[i] = e.TemplateID
	}
	templates, err := s.catalog.GetTemplates(ctx, templateIDs)
	if err != nil {
		return nil, translate(err, "catalog")
	}

	ownedPerEvent := make(map[id.EventID]int)
	for _, tid := range templateIDs {
		if t, ok := templates[tid]; ok {
			ownedPerEvent[t.EventID]++
		}
	}
	eventIDs := make([]id.EventID, 0, len(ownedPerEvent))
	for eventID := range ownedPerEvent {
		eventIDs = append(eventIDs, eventID)
	}
	events, err := s.catalog.GetEvents(ctx, eventIDs)
	if err != nil {
		return nil, translate(err, "catalog")
	}

	totals, err := s.catalog.CountTemplatesForEvents(ctx, eventIDs)
	if err != nil {
		return nil, translate(err, "catalog")
	}

	result = make([]*models.EventCompletion, 0, len(eventIDs))
	for _, eventID := range eventIDs {
		event, ok := events[eventID]
		if !ok {
			continue
		}
		total := totals[eventID]
		owned := ownedPerEvent[eventID]
		result = append(result, &models.EventCompletion{
			Event:      event,
			Owned:      owned,
			Total:      total,
			Percentage: models.Percentage(owned, total),
		})
	}
	slices.SortFunc(result, func(a, b *models.EventCompletion) int {
		return cmp.Or(
			cmp.Compare(b.Percentage, a.Percentage),
			cmp.Compare(b.Owned, a.Owned),
			cmp.Compare(a.Event.Name, b.Event.Name),
			cmp.Compare(a.Event.ID.String(), b.Event.ID.String()),
		)
	})
	return result, nil
}

// RecentlyOwned returns the user's most recently claimed templates.
func (s *Service) RecentlyOwned(ctx context.Context, user id.UserRef) (result []*models.OwnedTemplate, err error) {
	ctx, span := s.startSpan(ctx, "ledger.RecentlyOwned", user)
	defer func(start time.Time) {
		s.metrics.ObserveProjection("recent", start)
		endSpan(span, err)
	}(time.Now())

	if err := requireUser(user); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListForUser(ctx, user.ID(), 0, models.RecentLimit)
	if err != nil {
		return nil, translate(err, "ledger")
	}
	return s.ownedTemplates(ctx, entries)
}

// ListOwnedTemplates pages the user's collection as templates with their
// events, newest claim first.
func (s *Service) ListOwnedTemplates(ctx context.Context, user id.UserRef, page, pageSize int) (result models.Page[*models.OwnedTemplate], err error) {
	req, err := models.NewPageRequest(page, pageSize)
	if err != nil {
		return result, err
	}
	if err := requireUser(user); err != nil {
		return result, err
	}

	ctx, span := s.startSpan(ctx, "ledger.ListOwnedTemplates", user)
	defer func(start time.Time) {
		s.metrics.ObserveProjection("collected", start)
		endSpan(span, err)
	}(time.Now())

	entries, err := s.entries.ListForUser(ctx, user.ID(), req.Offset(), req.PageSize)
	if err != nil {
		return result, translate(err, "ledger")
	}
	total, err := s.entries.CountForUser(ctx, user.ID())
	if err != nil {
		return result, translate(err, "ledger")
	}
	items, err := s.ownedTemplates(ctx, entries)
	if err != nil {
		return result, err
	}
	return models.NewPage(req, items, total), nil
}

// Dashboard computes stats, recent templates and top events concurrently.
func (s *Service) Dashboard(ctx context.Context, user id.UserRef) (dashboard *models.Dashboard, err error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "ledger.Dashboard", user)
	defer func(start time.Time) {
		s.metrics.ObserveProjection("dashboard", start)
		endSpan(span, err)
	}(time.Now())

	dashboard = &models.Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.CollectionStats(gctx, user)
		dashboard.Stats = stats
		return err
	})
	g.Go(func() error {
		recent, err := s.RecentlyOwned(gctx, user)
		dashboard.Recent = recent
		return err
	})
	g.Go(func() error {
		top, err := s.TopEventsByCompletion(gctx, user)
		dashboard.TopEvents = top
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// ListEvents returns all events, oldest year first.
func (s *Service) ListEvents(ctx context.Context) ([]*catalogmodels.Event, error) {
	events, err := s.catalog.ListEvents(ctx)
	if err != nil {
		return nil, translate(err, "catalog")
	}
	return events, nil
}

// ownedTemplates joins entries with their templates and events, keeping
// entry order. Entries whose template left the catalog are skipped.
func (s *Service) ownedTemplates(ctx context.Context, entries []*models.Entry) ([]*models.OwnedTemplate, error) {
	out := make([]*models.OwnedTemplate, 0, len(entries))
	if len(entries) == 0 {
		return out, nil
	}
	templateIDs := make([]id.TemplateID, len(entries))
	for i, e := range entries {
		templateIDs[i] = e.TemplateID
	}
	templates, err := s.catalog.GetTemplates(ctx, templateIDs)
	if err != nil {
		return nil, translate(err, "catalog")
	}
	seen := make(map[id.EventID]bool)
	var eventIDs []id.EventID
	for _, t := range templates {
		if !seen[t.EventID] {
			seen[t.EventID] = true
			eventIDs = append(eventIDs, t.EventID)
		}
	}
	events, err := s.catalog.GetEvents(ctx, eventIDs)
	if err != nil {
		return nil, translate(err, "catalog")
	}
	for _, e := range entries {
		t, ok := templates[e.TemplateID]
		if !ok {
			continue
		}
		out = append(out, &models.OwnedTemplate{
			EntryID:   e.ID,
			Template:  t,
			Event:     events[t.EventID],
			ClaimedAt: e.ClaimedAt,
		})
	}
	return out, nil
}
