package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
	"almanah/pkg/platform/tx"
)

// Albums persists one ordered entry list per user.
type Albums struct {
	db *sql.DB
}

func NewAlbums(db *sql.DB) *Albums {
	return &Albums{db: db}
}

const albumColumns = `user_id, entry_ids, created_at, updated_at`

func (s *Albums) Get(ctx context.Context, userID id.UserID) (*models.Album, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE user_id = $1`, uuid.UUID(userID))
	album, err := scanAlbum(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

func (s *Albums) GetOrCreate(ctx context.Context, userID id.UserID, now time.Time) (*models.Album, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO albums (user_id, entry_ids, created_at, updated_at)
		VALUES ($1, '{}', $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+albumColumns,
		uuid.UUID(userID), now)
	album, err := scanAlbum(row)
	if err != nil {
		return nil, fmt.Errorf("get or create album: %w", err)
	}
	return album, nil
}

// AppendEntry leaves the album untouched when the entry is already present.
func (s *Albums) AppendEntry(ctx context.Context, userID id.UserID, entryID id.EntryID, now time.Time) (*models.Album, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO albums (user_id, entry_ids, created_at, updated_at)
		VALUES ($1, ARRAY[$2::uuid], $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			entry_ids = CASE WHEN $2::uuid = ANY(albums.entry_ids) THEN albums.entry_ids
				ELSE array_append(albums.entry_ids, $2::uuid) END,
			updated_at = CASE WHEN $2::uuid = ANY(albums.entry_ids) THEN albums.updated_at
				ELSE EXCLUDED.updated_at END
		RETURNING `+albumColumns,
		uuid.UUID(userID), uuid.UUID(entryID), now)
	album, err := scanAlbum(row)
	if err != nil {
		return nil, fmt.Errorf("append album entry: %w", err)
	}
	return album, nil
}

func (s *Albums) Replace(ctx context.Context, userID id.UserID, entryIDs []id.EntryID, now time.Time) (*models.Album, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO albums (user_id, entry_ids, created_at, updated_at)
		VALUES ($1, $2::uuid[], $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			entry_ids = EXCLUDED.entry_ids,
			updated_at = EXCLUDED.updated_at
		RETURNING `+albumColumns,
		uuid.UUID(userID), pq.Array(idStrings(entryIDs)), now)
	album, err := scanAlbum(row)
	if err != nil {
		return nil, fmt.Errorf("replace album: %w", err)
	}
	return album, nil
}

func scanAlbum(row scanner) (*models.Album, error) {
	var (
		userID  uuid.UUID
		raw     pq.StringArray
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&userID, &raw, &created, &updated); err != nil {
		return nil, err
	}
	entryIDs, err := parseEntryIDs(raw)
	if err != nil {
		return nil, err
	}
	return &models.Album{
		UserID:    id.UserID(userID),
		EntryIDs:  entryIDs,
		CreatedAt: created.UTC(),
		UpdatedAt: updated.UTC(),
	}, nil
}
