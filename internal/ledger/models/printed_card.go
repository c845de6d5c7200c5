// Package models defines the ledger's records: printed cards, ownership entries and albums.
package models

import (
	"time"

	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
)

// ClaimState is the lifecycle of a printed card. unclaimed -> claimed only.
type ClaimState string

const (
	ClaimStateUnclaimed ClaimState = "unclaimed"
	ClaimStateClaimed   ClaimState = "claimed"
)

func (s ClaimState) IsValid() bool {
	return s == ClaimStateUnclaimed || s == ClaimStateClaimed
}

// PrintedCard is one physical card. Owner and ClaimedAt are set iff State is claimed.
type PrintedCard struct {
	ID         id.PrintedCardID `json:"id"`
	ScanCode   string           `json:"scanCode,omitempty"`
	TemplateID id.TemplateID    `json:"templateId"`
	State      ClaimState       `json:"state"`
	OwnerID    *id.UserID       `json:"ownerId,omitempty"`
	ClaimedAt  *time.Time       `json:"claimedAt,omitempty"`
}

// NewPrintedCard builds an unclaimed card.
func NewPrintedCard(cardID id.PrintedCardID, templateID id.TemplateID, scanCode string) (*PrintedCard, error) {
	card := &PrintedCard{
		ID:         cardID,
		ScanCode:   scanCode,
		TemplateID: templateID,
		State:      ClaimStateUnclaimed,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// IsClaimable reports whether the card can still be redeemed.
func (c *PrintedCard) IsClaimable() bool {
	return c.State == ClaimStateUnclaimed
}

// MarkClaimed applies the one-way transition. Stores call it under their own atomicity.
func (c *PrintedCard) MarkClaimed(owner id.UserID, at time.Time) error {
	if !c.IsClaimable() {
		return dErrors.New(dErrors.CodeAlreadyClaimed, "printed card already claimed")
	}
	if owner.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "owner is required to claim")
	}
	c.State = ClaimStateClaimed
	c.OwnerID = &owner
	claimedAt := at
	c.ClaimedAt = &claimedAt
	return nil
}

// Validate checks the owner-iff-claimed invariant.
func (c *PrintedCard) Validate() error {
	if c.ID.IsNil() || c.TemplateID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "printed card requires id and template")
	}
	if !c.State.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown claim state "+string(c.State))
	}
	claimed := c.State == ClaimStateClaimed
	hasOwner := c.OwnerID != nil && !c.OwnerID.IsNil() && c.ClaimedAt != nil
	if claimed != hasOwner {
		return dErrors.New(dErrors.CodeInvariantViolation, "owner must be present iff the card is claimed")
	}
	return nil
}

// Clone returns a deep copy so stores never hand out shared pointers.
func (c *PrintedCard) Clone() *PrintedCard {
	clone := *c
	if c.OwnerID != nil {
		owner := *c.OwnerID
		clone.OwnerID = &owner
	}
	if c.ClaimedAt != nil {
		at := *c.ClaimedAt
		clone.ClaimedAt = &at
	}
	return &clone
}
