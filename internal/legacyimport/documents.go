// Package legacyimport copies the document-store ledger into Postgres.
//
// Legacy ObjectIDs are mapped to stable UUIDs, claimed printed cards are
// paired with their user card documents to recover the claim time, and
// albums are rebuilt from the imported ledger rather than copied.
package legacyimport

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default collection names of the legacy database.
const (
	CollectionEvents       = "events"
	CollectionTemplates    = "cardtemplates"
	CollectionPrintedCards = "printedcards"
	CollectionUserCards    = "usercards"
	CollectionAlbums       = "albums"
)

type EventDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Location    string             `bson:"location"`
	Year        int                `bson:"year"`
	Description string             `bson:"description"`
}

type TemplateDoc struct {
	ID            primitive.ObjectID  `bson:"_id"`
	OrdinalNumber int                 `bson:"ordinalNumber"`
	Title         string              `bson:"title"`
	Description   string              `bson:"description"`
	VideoLink     *string             `bson:"videoLink"`
	ImageURLs     []string            `bson:"imageURLs"`
	Event         *primitive.ObjectID `bson:"event"`
}

type PrintedCardDoc struct {
	ID           primitive.ObjectID  `bson:"_id"`
	IsScanned    bool                `bson:"isScanned"`
	CardTemplate *primitive.ObjectID `bson:"cardTemplate"`
	Owner        *primitive.ObjectID `bson:"owner"`
}

type UserCardDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	User        primitive.ObjectID `bson:"user"`
	PrintedCard primitive.ObjectID `bson:"printedCard"`
	AddedAt     time.Time          `bson:"addedAt"`
}

// AlbumDoc is read only for its owner. Its card list references a retired
// model and is not imported.
type AlbumDoc struct {
	ID    primitive.ObjectID  `bson:"_id"`
	Owner *primitive.ObjectID `bson:"owner"`
}
