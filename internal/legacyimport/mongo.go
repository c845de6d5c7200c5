package legacyimport

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSource streams legacy documents from a live database.
type MongoSource struct {
	db        *mongo.Database
	collNames map[string]string
}

func NewMongoSource(db *mongo.Database) *MongoSource {
	return &MongoSource{
		db: db,
		collNames: map[string]string{
			CollectionEvents:       CollectionEvents,
			CollectionTemplates:    CollectionTemplates,
			CollectionPrintedCards: CollectionPrintedCards,
			CollectionUserCards:    CollectionUserCards,
			CollectionAlbums:       CollectionAlbums,
		},
	}
}

// SetCollectionName overrides the collection read for kind, one of the Collection constants.
func (s *MongoSource) SetCollectionName(kind, name string) {
	if name != "" {
		s.collNames[kind] = name
	}
}

func (s *MongoSource) Events(ctx context.Context, fn func(EventDoc) error) error {
	return each(ctx, s.coll(CollectionEvents), fn)
}

func (s *MongoSource) Templates(ctx context.Context, fn func(TemplateDoc) error) error {
	return each(ctx, s.coll(CollectionTemplates), fn)
}

func (s *MongoSource) PrintedCards(ctx context.Context, fn func(PrintedCardDoc) error) error {
	return each(ctx, s.coll(CollectionPrintedCards), fn)
}

func (s *MongoSource) UserCards(ctx context.Context, fn func(UserCardDoc) error) error {
	return each(ctx, s.coll(CollectionUserCards), fn)
}

func (s *MongoSource) Albums(ctx context.Context, fn func(AlbumDoc) error) error {
	return each(ctx, s.coll(CollectionAlbums), fn)
}

func (s *MongoSource) coll(kind string) *mongo.Collection {
	return s.db.Collection(s.collNames[kind])
}

func findSorted() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

// each iterates a whole collection in _id order. A document that does not
// decode aborts the run so schema drift is fixed at the source.
func each[T any](ctx context.Context, coll *mongo.Collection, fn func(T) error) error {
	cur, err := coll.Find(ctx, bson.D{}, findSorted())
	if err != nil {
		return fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return fmt.Errorf("decode %s document %s: %w", coll.Name(), cur.Current.Lookup("_id").String(), err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", coll.Name(), err)
	}
	return nil
}
