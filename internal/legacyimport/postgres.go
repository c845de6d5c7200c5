package legacyimport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	catalogmodels "almanah/internal/catalog/models"
	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
)

// PostgresSink writes imported rows in pgx batches. Each batch runs as one
// implicit transaction. Every statement is an upsert so a run can be repeated.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

const upsertEventSQL = `
	INSERT INTO events (id, name, location, year, description)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		location = EXCLUDED.location,
		year = EXCLUDED.year,
		description = EXCLUDED.description`

func (s *PostgresSink) UpsertEvents(ctx context.Context, events []*catalogmodels.Event) (int, error) {
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(upsertEventSQL, uuid.UUID(e.ID), e.Name, e.Location, e.Year, e.Description)
	}
	return s.send(ctx, TableEvents, batch)
}

const upsertTemplateSQL = `
	INSERT INTO card_templates (id, event_id, ordinal, title, description, video_link, image_urls, form)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		event_id = EXCLUDED.event_id,
		ordinal = EXCLUDED.ordinal,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		video_link = EXCLUDED.video_link,
		image_urls = EXCLUDED.image_urls`

func (s *PostgresSink) UpsertTemplates(ctx context.Context, templates []*catalogmodels.Template) (int, error) {
	batch := &pgx.Batch{}
	for _, t := range templates {
		batch.Queue(upsertTemplateSQL,
			uuid.UUID(t.ID), uuid.UUID(t.EventID), t.Ordinal, t.Title, t.Description,
			t.VideoLink, t.ImageURLs, t.Form,
		)
	}
	return s.send(ctx, TableTemplates, batch)
}

// A card already claimed in Postgres is never moved back or reassigned.
const upsertPrintedCardSQL = `
	INSERT INTO printed_cards (id, template_id, state, owner_id, claimed_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		template_id = EXCLUDED.template_id,
		state = EXCLUDED.state,
		owner_id = EXCLUDED.owner_id,
		claimed_at = EXCLUDED.claimed_at
	WHERE printed_cards.state = 'unclaimed'`

func (s *PostgresSink) UpsertPrintedCards(ctx context.Context, cards []*models.PrintedCard) (int, error) {
	batch := &pgx.Batch{}
	for _, c := range cards {
		var owner *uuid.UUID
		if c.OwnerID != nil {
			o := uuid.UUID(*c.OwnerID)
			owner = &o
		}
		batch.Queue(upsertPrintedCardSQL,
			uuid.UUID(c.ID), uuid.UUID(c.TemplateID), string(c.State), owner, c.ClaimedAt,
		)
	}
	return s.send(ctx, TablePrintedCards, batch)
}

// Entries that already exist, or would break a unique constraint, are left alone.
const insertEntrySQL = `
	INSERT INTO user_cards (id, user_id, printed_card_id, template_id, claimed_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT DO NOTHING`

func (s *PostgresSink) InsertEntries(ctx context.Context, entries []*models.Entry) (int, error) {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertEntrySQL,
			uuid.UUID(e.ID), uuid.UUID(e.UserID), uuid.UUID(e.PrintedCardID), uuid.UUID(e.TemplateID), e.ClaimedAt,
		)
	}
	return s.send(ctx, TableEntries, batch)
}

const rebuildAlbumsSQL = `
	INSERT INTO albums (user_id, entry_ids, created_at, updated_at)
	SELECT u.user_id,
		COALESCE(array_agg(uc.id ORDER BY uc.claimed_at, uc.id) FILTER (WHERE uc.id IS NOT NULL), '{}'),
		$2, $2
	FROM unnest($1::uuid[]) AS u(user_id)
	LEFT JOIN user_cards uc ON uc.user_id = u.user_id
	GROUP BY u.user_id
	ON CONFLICT (user_id) DO UPDATE SET
		entry_ids = EXCLUDED.entry_ids,
		updated_at = EXCLUDED.updated_at
	WHERE albums.entry_ids IS DISTINCT FROM EXCLUDED.entry_ids`

// RebuildAlbums sets each user's album to their ledger entries in claim order.
// Users without entries get an empty album.
func (s *PostgresSink) RebuildAlbums(ctx context.Context, users []id.UserID, at time.Time) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.String()
	}
	tag, err := s.pool.Exec(ctx, rebuildAlbumsSQL, ids, at)
	if err != nil {
		return 0, fmt.Errorf("rebuild albums: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresSink) send(ctx context.Context, table string, batch *pgx.Batch) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}
	results := s.pool.SendBatch(ctx, batch)
	written := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("write %s row %d: %w", table, i, err)
		}
		written += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close %s batch: %w", table, err)
	}
	return written, nil
}
