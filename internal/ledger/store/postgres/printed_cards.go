package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"almanah/internal/ledger/models"
	platformpg "almanah/internal/platform/postgres"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
	"almanah/pkg/platform/tx"
)

// PrintedCards persists printed_cards rows.
type PrintedCards struct {
	db *sql.DB
}

func NewPrintedCards(db *sql.DB) *PrintedCards {
	return &PrintedCards{db: db}
}

const printedCardColumns = `id, scan_code, template_id, state, owner_id, claimed_at`

func (s *PrintedCards) Create(ctx context.Context, card *models.PrintedCard) error {
	if err := card.Validate(); err != nil {
		return err
	}
	var scanCode sql.NullString
	if card.ScanCode != "" {
		scanCode = sql.NullString{String: card.ScanCode, Valid: true}
	}
	var owner uuid.NullUUID
	if card.OwnerID != nil {
		owner = uuid.NullUUID{UUID: uuid.UUID(*card.OwnerID), Valid: true}
	}
	_, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO printed_cards (id, scan_code, template_id, state, owner_id, claimed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(card.ID), scanCode, uuid.UUID(card.TemplateID), string(card.State), owner, card.ClaimedAt)
	if err != nil {
		if platformpg.IsUniqueViolation(err, "") {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create printed card: %w", err)
	}
	return nil
}

func (s *PrintedCards) FindByID(ctx context.Context, cardID id.PrintedCardID) (*models.PrintedCard, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+printedCardColumns+` FROM printed_cards WHERE id = $1`, uuid.UUID(cardID))
	return s.scanOne(row, "find printed card")
}

func (s *PrintedCards) FindByScanCode(ctx context.Context, scanCode string) (*models.PrintedCard, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+printedCardColumns+` FROM printed_cards WHERE scan_code = $1`, scanCode)
	return s.scanOne(row, "find printed card by scan code")
}

// ClaimIfUnclaimed is a single conditional UPDATE; concurrent callers race on
// the row lock and exactly one sees the unclaimed state.
func (s *PrintedCards) ClaimIfUnclaimed(ctx context.Context, cardID id.PrintedCardID, owner id.UserID, at time.Time) (*models.PrintedCard, error) {
	conn := tx.Conn(ctx, s.db)
	row := conn.QueryRowContext(ctx, `
		UPDATE printed_cards
		SET state = 'claimed', owner_id = $2, claimed_at = $3
		WHERE id = $1 AND state = 'unclaimed'
		RETURNING `+printedCardColumns,
		uuid.UUID(cardID), uuid.UUID(owner), at)
	card, err := scanPrintedCard(row)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("claim printed card: %w", err)
	}

	var exists bool
	if err := conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM printed_cards WHERE id = $1)`, uuid.UUID(cardID)).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check printed card: %w", err)
	}
	if exists {
		return nil, sentinel.ErrAlreadyUsed
	}
	return nil, sentinel.ErrNotFound
}

func (s *PrintedCards) scanOne(row *sql.Row, op string) (*models.PrintedCard, error) {
	card, err := scanPrintedCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return card, nil
}

func scanPrintedCard(row scanner) (*models.PrintedCard, error) {
	var (
		cardID, templateID uuid.UUID
		scanCode           sql.NullString
		state              string
		owner              uuid.NullUUID
		claimedAt          sql.NullTime
	)
	if err := row.Scan(&cardID, &scanCode, &templateID, &state, &owner, &claimedAt); err != nil {
		return nil, err
	}
	card := &models.PrintedCard{
		ID:         id.PrintedCardID(cardID),
		ScanCode:   scanCode.String,
		TemplateID: id.TemplateID(templateID),
		State:      models.ClaimState(state),
	}
	if owner.Valid {
		ownerID := id.UserID(owner.UUID)
		card.OwnerID = &ownerID
	}
	if claimedAt.Valid {
		at := claimedAt.Time.UTC()
		card.ClaimedAt = &at
	}
	return card, nil
}
