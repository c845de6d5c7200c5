package memory

import (
	"context"
	"sync"
	"time"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
)

// PrintedCards is an in-memory printed card registry.
type PrintedCards struct {
	mu         sync.RWMutex
	cards      map[id.PrintedCardID]*models.PrintedCard
	byScanCode map[string]id.PrintedCardID
	pending    map[id.PrintedCardID]chan struct{}
}

func NewPrintedCards() *PrintedCards {
	return &PrintedCards{
		cards:      make(map[id.PrintedCardID]*models.PrintedCard),
		byScanCode: make(map[string]id.PrintedCardID),
		pending:    make(map[id.PrintedCardID]chan struct{}),
	}
}

func (s *PrintedCards) Create(_ context.Context, card *models.PrintedCard) error {
	if err := card.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cards[card.ID]; exists {
		return sentinel.ErrConflict
	}
	if card.ScanCode != "" {
		if _, taken := s.byScanCode[card.ScanCode]; taken {
			return sentinel.ErrConflict
		}
		s.byScanCode[card.ScanCode] = card.ID
	}
	s.cards[card.ID] = card.Clone()
	return nil
}

func (s *PrintedCards) FindByID(_ context.Context, cardID id.PrintedCardID) (*models.PrintedCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[cardID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return card.Clone(), nil
}

func (s *PrintedCards) FindByScanCode(_ context.Context, scanCode string) (*models.PrintedCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cardID, ok := s.byScanCode[scanCode]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.cards[cardID].Clone(), nil
}

// ClaimIfUnclaimed flips the card under the store lock, the in-memory equivalent
// of a conditional UPDATE. Inside a transaction the claim stays pending until
// commit: readers keep seeing the unclaimed card and competing claimers wait
// for the outcome, as they would on a row lock.
func (s *PrintedCards) ClaimIfUnclaimed(ctx context.Context, cardID id.PrintedCardID, owner id.UserID, at time.Time) (*models.PrintedCard, error) {
	for {
		s.mu.Lock()
		card, ok := s.cards[cardID]
		if !ok {
			s.mu.Unlock()
			return nil, sentinel.ErrNotFound
		}
		if settled, busy := s.pending[cardID]; busy {
			s.mu.Unlock()
			select {
			case <-settled:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if !card.IsClaimable() {
			s.mu.Unlock()
			return nil, sentinel.ErrAlreadyUsed
		}
		claimed := card.Clone()
		if err := claimed.MarkClaimed(owner, at); err != nil {
			s.mu.Unlock()
			return nil, err
		}

		j := journalFrom(ctx)
		if j == nil {
			s.cards[cardID] = claimed
			s.mu.Unlock()
			return claimed.Clone(), nil
		}
		settled := make(chan struct{})
		s.pending[cardID] = settled
		s.mu.Unlock()

		j.deferCommit(func() { s.settle(cardID, claimed, settled) })
		j.record(func() { s.settle(cardID, nil, settled) })
		return claimed.Clone(), nil
	}
}

// settle ends a pending claim, publishing it when claimed is non-nil.
func (s *PrintedCards) settle(cardID id.PrintedCardID, claimed *models.PrintedCard, settled chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if claimed != nil {
		s.cards[cardID] = claimed
	}
	delete(s.pending, cardID)
	close(settled)
}
