package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
)

// Albums is an in-memory album store.
type Albums struct {
	mu     sync.RWMutex
	albums map[id.UserID]*models.Album
}

func NewAlbums() *Albums {
	return &Albums{albums: make(map[id.UserID]*models.Album)}
}

func (s *Albums) Get(_ context.Context, userID id.UserID) (*models.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	album, ok := s.albums[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return album.Clone(), nil
}

func (s *Albums) GetOrCreate(ctx context.Context, userID id.UserID, now time.Time) (*models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(ctx, userID, now).Clone(), nil
}

func (s *Albums) AppendEntry(ctx context.Context, userID id.UserID, entryID id.EntryID, now time.Time) (*models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	album := s.getOrCreateLocked(ctx, userID, now)
	before := album.Clone()
	if album.Append(entryID, now) {
		recordUndo(ctx, func() { s.restore(userID, before) })
	}
	return album.Clone(), nil
}

func (s *Albums) Replace(ctx context.Context, userID id.UserID, entryIDs []id.EntryID, now time.Time) (*models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	album := s.getOrCreateLocked(ctx, userID, now)
	before := album.Clone()
	album.EntryIDs = slices.Clone(entryIDs)
	if album.EntryIDs == nil {
		album.EntryIDs = []id.EntryID{}
	}
	album.UpdatedAt = now
	recordUndo(ctx, func() { s.restore(userID, before) })
	return album.Clone(), nil
}

func (s *Albums) getOrCreateLocked(ctx context.Context, userID id.UserID, now time.Time) *models.Album {
	album, ok := s.albums[userID]
	if !ok {
		album = models.NewAlbum(userID, now)
		s.albums[userID] = album
		recordUndo(ctx, func() { s.restore(userID, nil) })
	}
	return album
}

// restore puts back a previous album, or removes it when before is nil.
func (s *Albums) restore(userID id.UserID, before *models.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if before == nil {
		delete(s.albums, userID)
		return
	}
	s.albums[userID] = before
}
