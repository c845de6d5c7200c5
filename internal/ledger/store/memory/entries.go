package memory

import (
	"context"
	"slices"
	"sync"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
)

type userTemplate struct {
	user     id.UserID
	template id.TemplateID
}

// Entries is an in-memory ownership ledger.
type Entries struct {
	mu            sync.RWMutex
	byUser        map[id.UserID][]*models.Entry
	byTemplate    map[userTemplate]id.EntryID
	byPrintedCard map[id.PrintedCardID]id.EntryID
}

func NewEntries() *Entries {
	return &Entries{
		byUser:        make(map[id.UserID][]*models.Entry),
		byTemplate:    make(map[userTemplate]id.EntryID),
		byPrintedCard: make(map[id.PrintedCardID]id.EntryID),
	}
}

// Insert enforces the same unique keys as the SQL schema.
func (s *Entries) Insert(ctx context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userTemplate{entry.UserID, entry.TemplateID}
	if _, dup := s.byTemplate[key]; dup {
		return sentinel.ErrConflict
	}
	if _, dup := s.byPrintedCard[entry.PrintedCardID]; dup {
		return sentinel.ErrAlreadyUsed
	}
	clone := *entry
	s.byUser[entry.UserID] = append(s.byUser[entry.UserID], &clone)
	s.byTemplate[key] = entry.ID
	s.byPrintedCard[entry.PrintedCardID] = entry.ID
	recordUndo(ctx, func() { s.remove(&clone) })
	return nil
}

func (s *Entries) remove(entry *models.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[entry.UserID] = slices.DeleteFunc(s.byUser[entry.UserID], func(e *models.Entry) bool {
		return e.ID == entry.ID
	})
	delete(s.byTemplate, userTemplate{entry.UserID, entry.TemplateID})
	delete(s.byPrintedCard, entry.PrintedCardID)
}

func (s *Entries) ExistsForUserAndTemplate(_ context.Context, userID id.UserID, templateID id.TemplateID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byTemplate[userTemplate{userID, templateID}]
	return ok, nil
}

func (s *Entries) ListForUser(_ context.Context, userID id.UserID, offset, limit int) ([]*models.Entry, error) {
	sorted := s.snapshot(userID)
	slices.SortFunc(sorted, models.NewerFirst)
	start := min(offset, len(sorted))
	end := min(start+limit, len(sorted))
	return sorted[start:end], nil
}

func (s *Entries) CountForUser(_ context.Context, userID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser[userID]), nil
}

func (s *Entries) ListAllForUser(_ context.Context, userID id.UserID) ([]*models.Entry, error) {
	sorted := s.snapshot(userID)
	slices.SortFunc(sorted, models.OlderFirst)
	return sorted, nil
}

func (s *Entries) OwnedTemplates(_ context.Context, userID id.UserID, templateIDs []id.TemplateID) (map[id.TemplateID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owned := make(map[id.TemplateID]bool, len(templateIDs))
	for _, tid := range templateIDs {
		if _, ok := s.byTemplate[userTemplate{userID, tid}]; ok {
			owned[tid] = true
		}
	}
	return owned, nil
}

func (s *Entries) snapshot(userID id.UserID) []*models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Entry, 0, len(s.byUser[userID]))
	for _, e := range s.byUser[userID] {
		clone := *e
		out = append(out, &clone)
	}
	return out
}
