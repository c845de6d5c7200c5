package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"almanah/internal/ledger/models"
	platformpg "almanah/internal/platform/postgres"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
	"almanah/pkg/platform/tx"
)

// Entries persists user_cards rows.
type Entries struct {
	db *sql.DB
}

func NewEntries(db *sql.DB) *Entries {
	return &Entries{db: db}
}

const entryColumns = `id, user_id, printed_card_id, template_id, claimed_at`

func (s *Entries) Insert(ctx context.Context, entry *models.Entry) error {
	_, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO user_cards (id, user_id, printed_card_id, template_id, claimed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(entry.ID), uuid.UUID(entry.UserID), uuid.UUID(entry.PrintedCardID), uuid.UUID(entry.TemplateID), entry.ClaimedAt)
	switch {
	case err == nil:
		return nil
	case platformpg.IsUniqueViolation(err, "user_cards_user_template_key"):
		return sentinel.ErrConflict
	case platformpg.IsUniqueViolation(err, "user_cards_printed_card_key"):
		return sentinel.ErrAlreadyUsed
	default:
		return fmt.Errorf("insert entry: %w", err)
	}
}

func (s *Entries) ExistsForUserAndTemplate(ctx context.Context, userID id.UserID, templateID id.TemplateID) (bool, error) {
	var exists bool
	err := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_cards WHERE user_id = $1 AND template_id = $2)`,
		uuid.UUID(userID), uuid.UUID(templateID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check entry: %w", err)
	}
	return exists, nil
}

func (s *Entries) ListForUser(ctx context.Context, userID id.UserID, offset, limit int) ([]*models.Entry, error) {
	return s.query(ctx, "list entries", `
		SELECT `+entryColumns+` FROM user_cards
		WHERE user_id = $1
		ORDER BY claimed_at DESC, id DESC
		OFFSET $2 LIMIT $3`,
		uuid.UUID(userID), offset, limit)
}

func (s *Entries) CountForUser(ctx context.Context, userID id.UserID) (int, error) {
	var n int
	err := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_cards WHERE user_id = $1`, uuid.UUID(userID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (s *Entries) ListAllForUser(ctx context.Context, userID id.UserID) ([]*models.Entry, error) {
	return s.query(ctx, "list all entries", `
		SELECT `+entryColumns+` FROM user_cards
		WHERE user_id = $1
		ORDER BY claimed_at, id`,
		uuid.UUID(userID))
}

func (s *Entries) OwnedTemplates(ctx context.Context, userID id.UserID, templateIDs []id.TemplateID) (map[id.TemplateID]bool, error) {
	owned := make(map[id.TemplateID]bool, len(templateIDs))
	if len(templateIDs) == 0 {
		return owned, nil
	}
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT template_id FROM user_cards WHERE user_id = $1 AND template_id = ANY($2::uuid[])`,
		uuid.UUID(userID), pq.Array(idStrings(templateIDs)))
	if err != nil {
		return nil, fmt.Errorf("owned templates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var templateID uuid.UUID
		if err := rows.Scan(&templateID); err != nil {
			return nil, fmt.Errorf("scan owned template: %w", err)
		}
		owned[id.TemplateID(templateID)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owned templates: %w", err)
	}
	return owned, nil
}

func (s *Entries) query(ctx context.Context, op, query string, args ...any) ([]*models.Entry, error) {
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []*models.Entry
	for rows.Next() {
		var (
			entryID, userID, cardID, templateID uuid.UUID
			entry                               models.Entry
		)
		if err := rows.Scan(&entryID, &userID, &cardID, &templateID, &entry.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.ID = id.EntryID(entryID)
		entry.UserID = id.UserID(userID)
		entry.PrintedCardID = id.PrintedCardID(cardID)
		entry.TemplateID = id.TemplateID(templateID)
		entry.ClaimedAt = entry.ClaimedAt.UTC()
		out = append(out, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
