package models

import (
	"time"

	id "almanah/pkg/domain"
)

// ClaimResult is the normalized outcome of a successful redemption.
type ClaimResult struct {
	EntryID       id.EntryID       `json:"entryId"`
	UserID        id.UserID        `json:"userId"`
	PrintedCardID id.PrintedCardID `json:"printedCardId"`
	TemplateID    id.TemplateID    `json:"templateId"`
	EventID       id.EventID       `json:"eventId"`
	ClaimedAt     time.Time        `json:"claimedAt"`
	AlbumSize     int              `json:"albumSize"`
}

// CardClaimed is published after a claim commits.
type CardClaimed struct {
	EntryID       id.EntryID       `json:"entry_id"`
	UserID        id.UserID        `json:"user_id"`
	PrintedCardID id.PrintedCardID `json:"printed_card_id"`
	TemplateID    id.TemplateID    `json:"template_id"`
	EventID       id.EventID       `json:"event_id"`
	ClaimedAt     time.Time        `json:"claimed_at"`
	RequestID     string           `json:"request_id,omitempty"`
}

// EventType names CardClaimed on the wire.
const EventTypeCardClaimed = "card_claimed"

// CardClaimedFrom builds the event for a committed claim.
func CardClaimedFrom(r *ClaimResult, requestID string) CardClaimed {
	return CardClaimed{
		EntryID:       r.EntryID,
		UserID:        r.UserID,
		PrintedCardID: r.PrintedCardID,
		TemplateID:    r.TemplateID,
		EventID:       r.EventID,
		ClaimedAt:     r.ClaimedAt,
		RequestID:     requestID,
	}
}
