package service

import (
	"context"
	"time"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/requestcontext"
)

func (s *Service) GetAlbum(ctx context.Context, user id.UserRef) (*models.Album, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	album, err := s.albums.Get(ctx, user.ID())
	if err != nil {
		return nil, translate(err, "album")
	}
	return album, nil
}

func (s *Service) GetOrCreateAlbum(ctx context.Context, user id.UserRef) (*models.Album, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	album, err := s.albums.GetOrCreate(ctx, user.ID(), now(ctx))
	if err != nil {
		return nil, translate(err, "album")
	}
	return album, nil
}

// AppendToAlbum adds an entry reference. Appending an entry twice is a no-op.
func (s *Service) AppendToAlbum(ctx context.Context, user id.UserRef, entryID id.EntryID) (*models.Album, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if entryID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidIdentifier, "entry id is required")
	}
	var album *models.Album
	err := s.tx.RunInTx(ctx, user.ID(), func(ctx context.Context) error {
		var err error
		album, err = s.albums.AppendEntry(ctx, user.ID(), entryID, now(ctx))
		return err
	})
	if err != nil {
		return nil, translate(err, "album")
	}
	return album, nil
}

// ReconcileAlbum rebuilds the album from the ledger when they have drifted
// apart. It reports whether a repair was needed.
func (s *Service) ReconcileAlbum(ctx context.Context, user id.UserRef) (album *models.Album, repaired bool, err error) {
	ctx, span := s.startSpan(ctx, "ledger.ReconcileAlbum", user)
	defer func() { endSpan(span, err) }()

	if err := requireUser(user); err != nil {
		return nil, false, err
	}
	userID := user.ID()
	err = s.tx.RunInTx(ctx, userID, func(ctx context.Context) error {
		entries, err := s.entries.ListAllForUser(ctx, userID)
		if err != nil {
			return err
		}
		album, err = s.albums.GetOrCreate(ctx, userID, now(ctx))
		if err != nil {
			return err
		}
		if album.MatchesEntries(entries) {
			return nil
		}
		before := album.Size()
		album, err = s.albums.Replace(ctx, userID, album.ReconciledEntryIDs(entries), now(ctx))
		if err != nil {
			return err
		}
		repaired = true
		s.logger.WarnContext(ctx, "album rebuilt from ledger",
			"user_id", userID.String(),
			"album_size_before", before,
			"album_size_after", album.Size(),
		)
		return nil
	})
	if err != nil {
		return nil, false, translate(err, "album")
	}
	if repaired {
		s.metrics.IncrementAlbumRepair()
	}
	return album, repaired, nil
}

func now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).UTC().Truncate(time.Microsecond)
}
