package store

import (
	"context"
	"slices"
	"sync"

	"almanah/internal/catalog/models"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
)

// InMemory is a catalog backed by maps, used for development and tests.
type InMemory struct {
	mu        sync.RWMutex
	events    map[id.EventID]*models.Event
	templates map[id.TemplateID]*models.Template
}

func NewInMemory() *InMemory {
	return &InMemory{
		events:    make(map[id.EventID]*models.Event),
		templates: make(map[id.TemplateID]*models.Template),
	}
}

// PutEvent inserts or replaces an event.
func (s *InMemory) PutEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *event
	s.events[event.ID] = &clone
	return nil
}

// PutTemplate inserts or replaces a template. Its event must exist.
func (s *InMemory) PutTemplate(_ context.Context, template *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[template.EventID]; !ok {
		return sentinel.ErrNotFound
	}
	s.templates[template.ID] = cloneTemplate(template)
	return nil
}

func (s *InMemory) GetTemplate(_ context.Context, templateID id.TemplateID) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[templateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneTemplate(t), nil
}

// GetTemplates returns the subset of templateIDs that exist.
func (s *InMemory) GetTemplates(_ context.Context, templateIDs []id.TemplateID) (map[id.TemplateID]*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.TemplateID]*models.Template, len(templateIDs))
	for _, tid := range templateIDs {
		if t, ok := s.templates[tid]; ok {
			out[tid] = cloneTemplate(t)
		}
	}
	return out, nil
}

// ListTemplatesForEvent returns templates ordered by ordinal.
func (s *InMemory) ListTemplatesForEvent(_ context.Context, eventID id.EventID, window models.Window) ([]*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*models.Template
	for _, t := range s.templates {
		if t.EventID == eventID {
			matched = append(matched, t)
		}
	}
	slices.SortFunc(matched, compareTemplates)

	start := min(window.Offset, len(matched))
	end := len(matched)
	if window.Limit > 0 {
		end = min(start+window.Limit, len(matched))
	}
	out := make([]*models.Template, 0, end-start)
	for _, t := range matched[start:end] {
		out = append(out, cloneTemplate(t))
	}
	return out, nil
}

func (s *InMemory) CountTemplatesForEvent(_ context.Context, eventID id.EventID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.templates {
		if t.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) CountTemplatesForEvents(_ context.Context, eventIDs []id.EventID) (map[id.EventID]int, error) {
	out := make(map[id.EventID]int, len(eventIDs))
	for _, eventID := range eventIDs {
		out[eventID] = 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if _, wanted := out[t.EventID]; wanted {
			out[t.EventID]++
		}
	}
	return out, nil
}

func (s *InMemory) CountAllTemplates(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates), nil
}

func (s *InMemory) GetEvent(_ context.Context, eventID id.EventID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (s *InMemory) GetEvents(_ context.Context, eventIDs []id.EventID) (map[id.EventID]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.EventID]*models.Event, len(eventIDs))
	for _, eid := range eventIDs {
		if e, ok := s.events[eid]; ok {
			clone := *e
			out[eid] = &clone
		}
	}
	return out, nil
}

// ListEvents returns all events ordered by year, then name.
func (s *InMemory) ListEvents(_ context.Context) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Event, 0, len(s.events))
	for _, e := range s.events {
		clone := *e
		out = append(out, &clone)
	}
	slices.SortFunc(out, compareEvents)
	return out, nil
}

func compareTemplates(a, b *models.Template) int {
	if a.Ordinal != b.Ordinal {
		return a.Ordinal - b.Ordinal
	}
	return compareStrings(a.ID.String(), b.ID.String())
}

func compareEvents(a, b *models.Event) int {
	if a.Year != b.Year {
		return a.Year - b.Year
	}
	if a.Name != b.Name {
		return compareStrings(a.Name, b.Name)
	}
	return compareStrings(a.ID.String(), b.ID.String())
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cloneTemplate(t *models.Template) *models.Template {
	clone := *t
	clone.ImageURLs = slices.Clone(t.ImageURLs)
	return &clone
}
