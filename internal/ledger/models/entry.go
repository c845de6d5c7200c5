package models

import (
	"time"

	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
)

// Entry is one row of the ownership ledger: user U redeemed printed card P of template T.
// Entries are immutable once written.
type Entry struct {
	ID            id.EntryID       `json:"id"`
	UserID        id.UserID        `json:"userId"`
	PrintedCardID id.PrintedCardID `json:"printedCardId"`
	TemplateID    id.TemplateID    `json:"templateId"`
	ClaimedAt     time.Time        `json:"claimedAt"`
}

// NewEntry builds an entry for a claim.
func NewEntry(entryID id.EntryID, userID id.UserID, card *PrintedCard, claimedAt time.Time) (*Entry, error) {
	if entryID.IsNil() || userID.IsNil() || card == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "entry requires id, user and printed card")
	}
	return &Entry{
		ID:            entryID,
		UserID:        userID,
		PrintedCardID: card.ID,
		TemplateID:    card.TemplateID,
		ClaimedAt:     claimedAt,
	}, nil
}

// NewerFirst orders entries by claim time descending, ID as tiebreak.
func NewerFirst(a, b *Entry) int {
	if c := b.ClaimedAt.Compare(a.ClaimedAt); c != 0 {
		return c
	}
	return compareIDs(b.ID.String(), a.ID.String())
}

// OlderFirst orders entries in claim order.
func OlderFirst(a, b *Entry) int {
	return NewerFirst(b, a)
}

func compareIDs(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
