package legacyimport

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogmodels "almanah/internal/catalog/models"
	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	textutil "almanah/pkg/platform/strings"
)

// Skip and warning reasons recorded in the Report.
const (
	reasonMissingEvent      = "event reference missing or not imported"
	reasonMissingTemplate   = "card template reference missing or not imported"
	reasonScannedNoOwner    = "scanned without an owner"
	reasonOwnerNotScanned   = "owner set but scan flag unset; imported as claimed"
	reasonNoUserCard        = "no user card for owner; claim time set to import time"
	reasonDuplicateTemplate = "user already owns this template; card kept claimed without an entry"
	reasonOrphanUserCard    = "printed card missing, unclaimed or owned by another user"
	reasonNoOwner           = "album has no owner"
)

func eventID(oid primitive.ObjectID) id.EventID {
	return id.EventID(id.LegacyUUID(id.LegacyKindEvent, oid.Hex()))
}

func templateID(oid primitive.ObjectID) id.TemplateID {
	return id.TemplateID(id.LegacyUUID(id.LegacyKindTemplate, oid.Hex()))
}

func printedCardID(oid primitive.ObjectID) id.PrintedCardID {
	return id.PrintedCardID(id.LegacyUUID(id.LegacyKindPrintedCard, oid.Hex()))
}

func userID(oid primitive.ObjectID) id.UserID {
	return id.UserID(id.LegacyUUID(id.LegacyKindUser, oid.Hex()))
}

// entryID derives the entry from its user card document, or from the printed
// card when the user card is gone.
func entryID(userCard *UserCardDoc, card primitive.ObjectID) id.EntryID {
	if userCard != nil {
		return id.EntryID(id.LegacyUUID(id.LegacyKindEntry, userCard.ID.Hex()))
	}
	return id.EntryID(id.LegacyUUID(id.LegacyKindEntry, "printed:"+card.Hex()))
}

func convertEvent(doc EventDoc) *catalogmodels.Event {
	return &catalogmodels.Event{
		ID:          eventID(doc.ID),
		Name:        textutil.Cleanse(doc.Name),
		Location:    textutil.Cleanse(doc.Location),
		Year:        doc.Year,
		Description: textutil.Cleanse(doc.Description),
	}
}

// convertTemplate returns a skip reason when the template's event was not imported.
func convertTemplate(doc TemplateDoc, events map[primitive.ObjectID]struct{}) (*catalogmodels.Template, string) {
	if doc.Event == nil {
		return nil, reasonMissingEvent
	}
	if _, ok := events[*doc.Event]; !ok {
		return nil, reasonMissingEvent
	}
	tpl := &catalogmodels.Template{
		ID:          templateID(doc.ID),
		EventID:     eventID(*doc.Event),
		Ordinal:     doc.OrdinalNumber,
		Title:       textutil.Cleanse(doc.Title),
		Description: textutil.Cleanse(doc.Description),
		ImageURLs:   textutil.DedupeAndTrim(doc.ImageURLs),
	}
	if doc.VideoLink != nil {
		tpl.VideoLink = textutil.Cleanse(*doc.VideoLink)
	}
	return tpl, ""
}

// cardConversion is the outcome for one printed card document.
type cardConversion struct {
	card     *models.PrintedCard
	entry    *models.Entry
	userCard *UserCardDoc
	skip     string
	warnings []string
}

// convertPrintedCard maps a printed card and, when claimed, builds its ledger
// entry. A card is claimed iff it has an owner; the claim time comes from the
// owner's user card document, falling back to importedAt.
func convertPrintedCard(doc PrintedCardDoc, templates map[primitive.ObjectID]struct{}, userCards []UserCardDoc, importedAt time.Time) cardConversion {
	if doc.CardTemplate == nil {
		return cardConversion{skip: reasonMissingTemplate}
	}
	if _, ok := templates[*doc.CardTemplate]; !ok {
		return cardConversion{skip: reasonMissingTemplate}
	}
	if doc.Owner == nil {
		if doc.IsScanned {
			return cardConversion{skip: reasonScannedNoOwner}
		}
		return cardConversion{card: &models.PrintedCard{
			ID:         printedCardID(doc.ID),
			TemplateID: templateID(*doc.CardTemplate),
			State:      models.ClaimStateUnclaimed,
		}}
	}

	var out cardConversion
	if !doc.IsScanned {
		out.warnings = append(out.warnings, reasonOwnerNotScanned)
	}
	out.userCard = matchUserCard(userCards, *doc.Owner)
	claimedAt := importedAt
	if out.userCard != nil && !out.userCard.AddedAt.IsZero() {
		claimedAt = out.userCard.AddedAt
	} else {
		out.warnings = append(out.warnings, reasonNoUserCard)
	}
	claimedAt = claimedAt.UTC().Truncate(time.Microsecond)

	owner := userID(*doc.Owner)
	out.card = &models.PrintedCard{
		ID:         printedCardID(doc.ID),
		TemplateID: templateID(*doc.CardTemplate),
		State:      models.ClaimStateClaimed,
		OwnerID:    &owner,
		ClaimedAt:  &claimedAt,
	}
	out.entry = &models.Entry{
		ID:            entryID(out.userCard, doc.ID),
		UserID:        owner,
		PrintedCardID: out.card.ID,
		TemplateID:    out.card.TemplateID,
		ClaimedAt:     claimedAt,
	}
	return out
}

// matchUserCard picks the earliest user card document belonging to owner.
func matchUserCard(userCards []UserCardDoc, owner primitive.ObjectID) *UserCardDoc {
	var match *UserCardDoc
	for i := range userCards {
		uc := &userCards[i]
		if uc.User != owner {
			continue
		}
		if match == nil || uc.AddedAt.Before(match.AddedAt) {
			match = uc
		}
	}
	return match
}
