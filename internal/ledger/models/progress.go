package models

import (
	"math"
	"time"

	catalogmodels "almanah/internal/catalog/models"
	id "almanah/pkg/domain"
)

// CollectionStats is overall completion for one user.
type CollectionStats struct {
	Owned      int `json:"owned"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// NewCollectionStats derives the percentage from the counts.
func NewCollectionStats(owned, total int) CollectionStats {
	return CollectionStats{Owned: owned, Total: total, Percentage: Percentage(owned, total)}
}

// Percentage is round(owned/total*100), half away from zero, and 0 for an empty catalog.
func Percentage(owned, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(owned) / float64(total) * 100))
}

// EventCompletion is completion for one event.
type EventCompletion struct {
	Event      *catalogmodels.Event `json:"event"`
	Owned      int                  `json:"owned"`
	Total      int                  `json:"total"`
	Percentage int                  `json:"percentage"`
}

// TemplateOwnership is a template annotated with whether the user owns it.
type TemplateOwnership struct {
	Template *catalogmodels.Template `json:"template"`
	Owned    bool                    `json:"owned"`
}

// OwnedTemplate is a template in a user's collection with its event and claim time.
type OwnedTemplate struct {
	EntryID   id.EntryID              `json:"entryId"`
	Template  *catalogmodels.Template `json:"template"`
	Event     *catalogmodels.Event    `json:"event,omitempty"`
	ClaimedAt time.Time               `json:"claimedAt"`
}

// Dashboard bundles the landing-page projections.
type Dashboard struct {
	Stats     CollectionStats    `json:"stats"`
	Recent    []*OwnedTemplate   `json:"recent"`
	TopEvents []*EventCompletion `json:"topEvents"`
}

// TemplateDetails is a catalog template with the event it belongs to.
type TemplateDetails struct {
	Template *catalogmodels.Template `json:"template"`
	Event    *catalogmodels.Event    `json:"event"`
}

// UnclaimedCard is what a scanner shows before the user confirms a claim.
type UnclaimedCard struct {
	PrintedCardID id.PrintedCardID        `json:"printedCardId"`
	Template      *catalogmodels.Template `json:"template"`
	Event         *catalogmodels.Event    `json:"event"`
}
