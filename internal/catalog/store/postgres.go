package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"almanah/internal/catalog/models"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
)

// PostgresStore reads the catalog tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const templateColumns = `id, event_id, ordinal, title, description, video_link, image_urls, form`

func (s *PostgresStore) GetTemplate(ctx context.Context, templateID id.TemplateID) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM card_templates WHERE id = $1`, uuid.UUID(templateID))
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) GetTemplates(ctx context.Context, templateIDs []id.TemplateID) (map[id.TemplateID]*models.Template, error) {
	out := make(map[id.TemplateID]*models.Template, len(templateIDs))
	if len(templateIDs) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM card_templates WHERE id = ANY($1::uuid[])`,
		pq.Array(idStrings(templateIDs)))
	if err != nil {
		return nil, fmt.Errorf("get templates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListTemplatesForEvent(ctx context.Context, eventID id.EventID, window models.Window) ([]*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM card_templates WHERE event_id = $1 ORDER BY ordinal, id OFFSET $2`
	args := []any{uuid.UUID(eventID), window.Offset}
	if window.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, window.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates for event: %w", err)
	}
	defer rows.Close()
	var out []*models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountTemplatesForEvent(ctx context.Context, eventID id.EventID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card_templates WHERE event_id = $1`, uuid.UUID(eventID)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count templates for event: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountTemplatesForEvents(ctx context.Context, eventIDs []id.EventID) (map[id.EventID]int, error) {
	out := make(map[id.EventID]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	for _, eventID := range eventIDs {
		out[eventID] = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, COUNT(*) FROM card_templates WHERE event_id = ANY($1::uuid[]) GROUP BY event_id`,
		pq.Array(idStrings(eventIDs)))
	if err != nil {
		return nil, fmt.Errorf("count templates for events: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			eventID uuid.UUID
			n       int
		)
		if err := rows.Scan(&eventID, &n); err != nil {
			return nil, fmt.Errorf("scan template count: %w", err)
		}
		out[id.EventID(eventID)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate template counts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountAllTemplates(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card_templates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return n, nil
}

const eventColumns = `id, name, location, year, description`

func (s *PostgresStore) GetEvent(ctx context.Context, eventID id.EventID) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, uuid.UUID(eventID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) GetEvents(ctx context.Context, eventIDs []id.EventID) (map[id.EventID]*models.Event, error) {
	out := make(map[id.EventID]*models.Event, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	events, err := s.queryEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ANY($1::uuid[])`, pq.Array(idStrings(eventIDs)))
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		out[e.ID] = e
	}
	return out, nil
}

func (s *PostgresStore) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return s.queryEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY year, name, id`)
}

func (s *PostgresStore) queryEvents(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	var out []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var (
		t           models.Template
		tid, eid    uuid.UUID
		imageURLs   pq.StringArray
		video, form string
	)
	if err := row.Scan(&tid, &eid, &t.Ordinal, &t.Title, &t.Description, &video, &imageURLs, &form); err != nil {
		return nil, err
	}
	t.ID = id.TemplateID(tid)
	t.EventID = id.EventID(eid)
	t.VideoLink = video
	t.Form = form
	t.ImageURLs = []string(imageURLs)
	if t.ImageURLs == nil {
		t.ImageURLs = []string{}
	}
	return &t, nil
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e   models.Event
		eid uuid.UUID
	)
	if err := row.Scan(&eid, &e.Name, &e.Location, &e.Year, &e.Description); err != nil {
		return nil, err
	}
	e.ID = id.EventID(eid)
	return &e, nil
}

func idStrings[T fmt.Stringer](ids []T) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = strings.ToLower(v.String())
	}
	return out
}
