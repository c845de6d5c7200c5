package service

import (
	"context"
	"errors"
	"strings"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/platform/sentinel"
)

// GetInstance returns the printed card.
func (s *Service) GetInstance(ctx context.Context, cardID id.PrintedCardID) (*models.PrintedCard, error) {
	if cardID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidIdentifier, "printed card id is required")
	}
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, translate(err, "printed card")
	}
	return card, nil
}

// IsClaimable reports whether the card exists and is still unclaimed.
func (s *Service) IsClaimable(ctx context.Context, cardID id.PrintedCardID) (bool, error) {
	card, err := s.GetInstance(ctx, cardID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return card.IsClaimable(), nil
}

// ValidateScan is IsClaimable for a scanner: unknown cards are NotFound.
func (s *Service) ValidateScan(ctx context.Context, cardID id.PrintedCardID) (bool, error) {
	card, err := s.GetInstance(ctx, cardID)
	if err != nil {
		return false, err
	}
	return card.IsClaimable(), nil
}

// DescribeUnclaimed returns the template preview for a card that can still be
// claimed. Claimed cards are reported as not found.
func (s *Service) DescribeUnclaimed(ctx context.Context, cardID id.PrintedCardID) (*models.UnclaimedCard, error) {
	card, err := s.GetInstance(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !card.IsClaimable() {
		return nil, dErrors.New(dErrors.CodeNotFound, "unclaimed printed card not found")
	}
	template, err := s.catalog.GetTemplate(ctx, card.TemplateID)
	if err != nil {
		return nil, translate(err, "card template")
	}
	event, err := s.catalog.GetEvent(ctx, template.EventID)
	if err != nil {
		return nil, translate(err, "event")
	}
	return &models.UnclaimedCard{PrintedCardID: card.ID, Template: template, Event: event}, nil
}

// GetTemplateWithEvent returns a catalog template together with its event.
func (s *Service) GetTemplateWithEvent(ctx context.Context, templateID id.TemplateID) (*models.TemplateDetails, error) {
	if templateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidIdentifier, "template id is required")
	}
	template, err := s.catalog.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, translate(err, "card template")
	}
	event, err := s.catalog.GetEvent(ctx, template.EventID)
	if err != nil {
		return nil, translate(err, "event")
	}
	return &models.TemplateDetails{Template: template, Event: event}, nil
}

// ResolveScanCode maps a QR payload to its printed card.
func (s *Service) ResolveScanCode(ctx context.Context, scanCode string) (id.PrintedCardID, error) {
	scanCode = strings.TrimSpace(scanCode)
	if scanCode == "" {
		return id.PrintedCardID{}, dErrors.New(dErrors.CodeInvalidIdentifier, "scan code is required")
	}
	card, err := s.cards.FindByScanCode(ctx, scanCode)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.PrintedCardID{}, dErrors.New(dErrors.CodeNotFound, "scan code not found")
		}
		return id.PrintedCardID{}, translate(err, "printed card")
	}
	return card.ID, nil
}
