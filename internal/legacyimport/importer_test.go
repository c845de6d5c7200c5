package legacyimport

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogmodels "almanah/internal/catalog/models"
	"almanah/internal/ledger/models"
	"almanah/internal/platform/logger"
	id "almanah/pkg/domain"
)

type fakeSource struct {
	events    []EventDoc
	templates []TemplateDoc
	cards     []PrintedCardDoc
	userCards []UserCardDoc
	albums    []AlbumDoc
}

func visit[T any](docs []T, fn func(T) error) error {
	for _, d := range docs {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSource) Events(_ context.Context, fn func(EventDoc) error) error {
	return visit(f.events, fn)
}

func (f *fakeSource) Templates(_ context.Context, fn func(TemplateDoc) error) error {
	return visit(f.templates, fn)
}

func (f *fakeSource) PrintedCards(_ context.Context, fn func(PrintedCardDoc) error) error {
	return visit(f.cards, fn)
}

func (f *fakeSource) UserCards(_ context.Context, fn func(UserCardDoc) error) error {
	return visit(f.userCards, fn)
}

func (f *fakeSource) Albums(_ context.Context, fn func(AlbumDoc) error) error {
	return visit(f.albums, fn)
}

// fakeSink records every call so tests can check batching and ordering.
type fakeSink struct {
	events      []*catalogmodels.Event
	templates   []*catalogmodels.Template
	cards       []*models.PrintedCard
	entries     []*models.Entry
	albumUsers  []id.UserID
	calls       []string
	failEntries error
}

func (f *fakeSink) UpsertEvents(_ context.Context, events []*catalogmodels.Event) (int, error) {
	f.calls = append(f.calls, "events")
	f.events = append(f.events, events...)
	return len(events), nil
}

func (f *fakeSink) UpsertTemplates(_ context.Context, templates []*catalogmodels.Template) (int, error) {
	f.calls = append(f.calls, "templates")
	f.templates = append(f.templates, templates...)
	return len(templates), nil
}

func (f *fakeSink) UpsertPrintedCards(_ context.Context, cards []*models.PrintedCard) (int, error) {
	f.calls = append(f.calls, "cards")
	f.cards = append(f.cards, cards...)
	return len(cards), nil
}

func (f *fakeSink) InsertEntries(_ context.Context, entries []*models.Entry) (int, error) {
	f.calls = append(f.calls, "entries")
	if f.failEntries != nil {
		return 0, f.failEntries
	}
	f.entries = append(f.entries, entries...)
	return len(entries), nil
}

func (f *fakeSink) RebuildAlbums(_ context.Context, users []id.UserID, _ time.Time) (int, error) {
	f.calls = append(f.calls, "albums")
	f.albumUsers = append(f.albumUsers, users...)
	return len(users), nil
}

type ImporterSuite struct {
	suite.Suite
	source     *fakeSource
	sink       *fakeSink
	importedAt time.Time

	event, tplA, tplB primitive.ObjectID
	alice, bob, carol primitive.ObjectID
	cards             []primitive.ObjectID
}

func TestImporterSuite(t *testing.T) {
	suite.Run(t, new(ImporterSuite))
}

func (s *ImporterSuite) SetupTest() {
	s.importedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.event = primitive.NewObjectID()
	s.tplA = primitive.NewObjectID()
	s.tplB = primitive.NewObjectID()
	s.alice = primitive.NewObjectID()
	s.bob = primitive.NewObjectID()
	s.carol = primitive.NewObjectID()
	missingEvent := primitive.NewObjectID()
	missingTemplate := primitive.NewObjectID()

	s.cards = make([]primitive.ObjectID, 7)
	for i := range s.cards {
		s.cards[i] = primitive.NewObjectID()
	}
	t1 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	s.source = &fakeSource{
		events: []EventDoc{{ID: s.event, Name: "Summer Fest", Location: "Split", Year: 2024}},
		templates: []TemplateDoc{
			{ID: s.tplA, OrdinalNumber: 1, Title: "A", Event: &s.event},
			{ID: s.tplB, OrdinalNumber: 2, Title: "B", Event: &s.event},
			{ID: primitive.NewObjectID(), OrdinalNumber: 3, Title: "orphan", Event: &missingEvent},
		},
		cards: []PrintedCardDoc{
			{ID: s.cards[0], CardTemplate: &s.tplA, Owner: &s.alice, IsScanned: true},
			{ID: s.cards[1], CardTemplate: &s.tplB, Owner: &s.alice, IsScanned: true},
			{ID: s.cards[2], CardTemplate: &s.tplA, Owner: &s.alice, IsScanned: true},
			{ID: s.cards[3], CardTemplate: &s.tplA, Owner: &s.bob, IsScanned: true},
			{ID: s.cards[4], CardTemplate: &s.tplB},
			{ID: s.cards[5], CardTemplate: &s.tplB, IsScanned: true},
			{ID: s.cards[6], CardTemplate: &missingTemplate},
		},
		userCards: []UserCardDoc{
			{ID: primitive.NewObjectID(), User: s.alice, PrintedCard: s.cards[0], AddedAt: t1},
			{ID: primitive.NewObjectID(), User: s.alice, PrintedCard: s.cards[1], AddedAt: t1.Add(time.Hour)},
			{ID: primitive.NewObjectID(), User: s.alice, PrintedCard: s.cards[2], AddedAt: t1.Add(2 * time.Hour)},
			{ID: primitive.NewObjectID(), User: s.carol, PrintedCard: primitive.NewObjectID(), AddedAt: t1},
		},
		albums: []AlbumDoc{
			{ID: primitive.NewObjectID(), Owner: &s.carol},
			{ID: primitive.NewObjectID()},
		},
	}
	s.sink = &fakeSink{}
}

func (s *ImporterSuite) newImporter(batchSize int) *Importer {
	return New(s.source, s.sink,
		WithLogger(logger.Discard()),
		WithBatchSize(batchSize),
		WithClock(func() time.Time { return s.importedAt }),
	)
}

func (s *ImporterSuite) TestRunImportsInReferentialOrder() {
	report, err := s.newImporter(2).Run(context.Background())
	s.Require().NoError(err)

	s.Len(s.sink.events, 1)
	s.Len(s.sink.templates, 2)
	s.Len(s.sink.cards, 5)
	s.Len(s.sink.entries, 3)

	s.Equal(s.importedAt, report.StartedAt)
	s.Equal(1, report.Tables[TableEvents].Written)
	s.Equal(3, report.Tables[TableTemplates].Processed)
	s.Equal([]Record{{LegacyID: s.source.templates[2].ID.Hex(), Reason: reasonMissingEvent}}, report.Tables[TableTemplates].Skipped)

	cards := report.Tables[TablePrintedCards]
	s.Equal(7, cards.Processed)
	s.Equal(5, cards.Written)
	s.ElementsMatch([]Record{
		{LegacyID: s.cards[5].Hex(), Reason: reasonScannedNoOwner},
		{LegacyID: s.cards[6].Hex(), Reason: reasonMissingTemplate},
	}, cards.Skipped)
	s.Equal([]Record{{LegacyID: s.cards[3].Hex(), Reason: reasonNoUserCard}}, cards.Warnings)

	entries := report.Tables[TableEntries]
	s.Equal(4, entries.Processed)
	s.Equal(3, entries.Written)
	s.Equal([]Record{{LegacyID: s.cards[2].Hex(), Reason: reasonDuplicateTemplate}}, entries.Skipped)
	s.Equal([]Record{{LegacyID: s.source.userCards[3].ID.Hex(), Reason: reasonOrphanUserCard}}, entries.Warnings)
	s.Equal(5, report.TotalSkipped())

	for i, call := range s.sink.calls {
		if call == "entries" {
			s.Equal("cards", s.sink.calls[i-1], "entries must follow their cards")
		}
	}
	s.Equal("albums", s.sink.calls[len(s.sink.calls)-1])
}

func (s *ImporterSuite) TestDuplicateTemplateKeepsCardClaimed() {
	_, err := s.newImporter(100).Run(context.Background())
	s.Require().NoError(err)

	dup := s.findCard(printedCardID(s.cards[2]))
	s.Require().NotNil(dup)
	s.Equal(models.ClaimStateClaimed, dup.State)
	s.Equal(userID(s.alice), *dup.OwnerID)
	for _, e := range s.sink.entries {
		s.NotEqual(dup.ID, e.PrintedCardID)
	}
}

func (s *ImporterSuite) TestAlbumsCoverEntryOwnersAndLegacyAlbumOwners() {
	report, err := s.newImporter(100).Run(context.Background())
	s.Require().NoError(err)

	s.ElementsMatch([]id.UserID{userID(s.alice), userID(s.bob), userID(s.carol)}, s.sink.albumUsers)
	s.True(slices.IsSortedFunc(s.sink.albumUsers, func(a, b id.UserID) int {
		return cmp.Compare(a.String(), b.String())
	}))
	s.Equal(2, report.Tables[TableAlbums].Processed)
	s.Len(report.Tables[TableAlbums].Skipped, 1)
}

func (s *ImporterSuite) TestClaimTimeFromUserCard() {
	_, err := s.newImporter(100).Run(context.Background())
	s.Require().NoError(err)

	byCard := make(map[id.PrintedCardID]*models.Entry)
	for _, e := range s.sink.entries {
		byCard[e.PrintedCardID] = e
	}
	s.Equal(s.source.userCards[0].AddedAt, byCard[printedCardID(s.cards[0])].ClaimedAt)
	s.Equal(s.importedAt, byCard[printedCardID(s.cards[3])].ClaimedAt)
}

func (s *ImporterSuite) TestSinkFailureStopsRun() {
	s.sink.failEntries = errors.New("connection reset")

	report, err := s.newImporter(100).Run(context.Background())
	s.Require().Error(err)
	s.ErrorContains(err, "import printed_cards")
	s.Require().NotNil(report)
	s.Equal(1, report.Tables[TableEvents].Written)
	s.NotContains(s.sink.calls, "albums")
}

func (s *ImporterSuite) findCard(cardID id.PrintedCardID) *models.PrintedCard {
	for _, c := range s.sink.cards {
		if c.ID == cardID {
			return c
		}
	}
	return nil
}
