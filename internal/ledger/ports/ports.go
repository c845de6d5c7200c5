// Package ports declares the storage and side-effect boundaries of the ledger service.
//
// Stores report facts with pkg/platform/sentinel errors:
//   - ErrNotFound: the row does not exist
//   - ErrAlreadyUsed: the printed card was already claimed
//   - ErrConflict: a ledger entry for (user, template) already exists
//
// Every store method joins the transaction carried by ctx when one is open.
package ports

import (
	"context"
	"time"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
)

// PrintedCardStore is the registry of physical cards.
type PrintedCardStore interface {
	// Create registers a new unclaimed card (import and seeding only).
	Create(ctx context.Context, card *models.PrintedCard) error
	FindByID(ctx context.Context, cardID id.PrintedCardID) (*models.PrintedCard, error)
	FindByScanCode(ctx context.Context, scanCode string) (*models.PrintedCard, error)
	// ClaimIfUnclaimed is the single conditional unclaimed -> claimed write.
	ClaimIfUnclaimed(ctx context.Context, cardID id.PrintedCardID, owner id.UserID, at time.Time) (*models.PrintedCard, error)
}

// EntryStore is the append-only ownership ledger.
type EntryStore interface {
	Insert(ctx context.Context, entry *models.Entry) error
	ExistsForUserAndTemplate(ctx context.Context, userID id.UserID, templateID id.TemplateID) (bool, error)
	// ListForUser returns entries newest first.
	ListForUser(ctx context.Context, userID id.UserID, offset, limit int) ([]*models.Entry, error)
	CountForUser(ctx context.Context, userID id.UserID) (int, error)
	// ListAllForUser returns every entry in claim order.
	ListAllForUser(ctx context.Context, userID id.UserID) ([]*models.Entry, error)
	// OwnedTemplates reports which of templateIDs the user owns.
	OwnedTemplates(ctx context.Context, userID id.UserID, templateIDs []id.TemplateID) (map[id.TemplateID]bool, error)
}

// AlbumStore keeps the denormalized per-user entry list.
type AlbumStore interface {
	Get(ctx context.Context, userID id.UserID) (*models.Album, error)
	GetOrCreate(ctx context.Context, userID id.UserID, now time.Time) (*models.Album, error)
	// AppendEntry creates the album lazily and ignores entries already present.
	AppendEntry(ctx context.Context, userID id.UserID, entryID id.EntryID, now time.Time) (*models.Album, error)
	// Replace overwrites the entry list, used by reconciliation.
	Replace(ctx context.Context, userID id.UserID, entryIDs []id.EntryID, now time.Time) (*models.Album, error)
}

// Stores groups the three ledger stores.
type Stores struct {
	PrintedCards PrintedCardStore
	Entries      EntryStore
	Albums       AlbumStore
}

// Tx runs fn atomically. Implementations serialize work per user and discard
// every write made through ctx when fn returns an error.
type Tx interface {
	RunInTx(ctx context.Context, userID id.UserID, fn func(ctx context.Context) error) error
}

// EventPublisher emits committed ledger facts. Delivery is best effort.
type EventPublisher interface {
	PublishCardClaimed(ctx context.Context, event models.CardClaimed) error
}
