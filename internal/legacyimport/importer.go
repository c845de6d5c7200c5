package legacyimport

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogmodels "almanah/internal/catalog/models"
	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
)

const defaultBatchSize = 500

// Source yields legacy documents collection by collection.
type Source interface {
	Events(ctx context.Context, fn func(EventDoc) error) error
	Templates(ctx context.Context, fn func(TemplateDoc) error) error
	PrintedCards(ctx context.Context, fn func(PrintedCardDoc) error) error
	UserCards(ctx context.Context, fn func(UserCardDoc) error) error
	Albums(ctx context.Context, fn func(AlbumDoc) error) error
}

// Sink persists converted rows. Write methods return the number of rows changed.
type Sink interface {
	UpsertEvents(ctx context.Context, events []*catalogmodels.Event) (int, error)
	UpsertTemplates(ctx context.Context, templates []*catalogmodels.Template) (int, error)
	UpsertPrintedCards(ctx context.Context, cards []*models.PrintedCard) (int, error)
	InsertEntries(ctx context.Context, entries []*models.Entry) (int, error)
	RebuildAlbums(ctx context.Context, users []id.UserID, at time.Time) (int, error)
}

// Importer runs the import in referential order: events, templates, printed
// cards with their ledger entries, then albums.
type Importer struct {
	source    Source
	sink      Sink
	logger    *slog.Logger
	batchSize int
	now       func() time.Time
}

type Option func(*Importer)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// WithBatchSize caps rows per sink call. Values below 1 are ignored.
func WithBatchSize(size int) Option {
	return func(i *Importer) {
		if size > 0 {
			i.batchSize = size
		}
	}
}

// WithClock overrides the import time used for rows with no recorded claim time.
func WithClock(now func() time.Time) Option {
	return func(i *Importer) {
		i.now = now
	}
}

func New(source Source, sink Sink, opts ...Option) *Importer {
	i := &Importer{
		source:    source,
		sink:      sink,
		logger:    slog.Default(),
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// run holds the cross-collection state of one import.
type run struct {
	report     *Report
	importedAt time.Time
	events     map[primitive.ObjectID]struct{}
	templates  map[primitive.ObjectID]struct{}
	userCards  map[primitive.ObjectID][]UserCardDoc
	usedCards  map[primitive.ObjectID]struct{}
	owned      map[ownership]struct{}
	albumUsers map[id.UserID]struct{}
}

type ownership struct {
	user     id.UserID
	template id.TemplateID
}

// Run imports everything and returns the report. On error the report covers
// the work done so far.
func (i *Importer) Run(ctx context.Context) (*Report, error) {
	importedAt := i.now().UTC().Truncate(time.Microsecond)
	r := &run{
		report:     newReport(importedAt),
		importedAt: importedAt,
		events:     make(map[primitive.ObjectID]struct{}),
		templates:  make(map[primitive.ObjectID]struct{}),
		userCards:  make(map[primitive.ObjectID][]UserCardDoc),
		usedCards:  make(map[primitive.ObjectID]struct{}),
		owned:      make(map[ownership]struct{}),
		albumUsers: make(map[id.UserID]struct{}),
	}

	steps := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{"events", i.importEvents},
		{"card_templates", i.importTemplates},
		{"user_cards", i.loadUserCards},
		{"printed_cards", i.importPrintedCards},
		{"albums", i.importAlbums},
	}
	for _, step := range steps {
		start := time.Now()
		if err := step.fn(ctx, r); err != nil {
			r.report.FinishedAt = i.now().UTC()
			return r.report, fmt.Errorf("import %s: %w", step.name, err)
		}
		i.logger.Info("legacy import step completed", "step", step.name, "duration", time.Since(start))
	}
	r.report.FinishedAt = i.now().UTC()
	return r.report, nil
}

func (i *Importer) importEvents(ctx context.Context, r *run) error {
	batch := make([]*catalogmodels.Event, 0, i.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := i.sink.UpsertEvents(ctx, batch)
		if err != nil {
			return err
		}
		r.report.written(TableEvents, n)
		batch = batch[:0]
		return nil
	}
	err := i.source.Events(ctx, func(doc EventDoc) error {
		r.report.processed(TableEvents)
		r.events[doc.ID] = struct{}{}
		batch = append(batch, convertEvent(doc))
		if len(batch) >= i.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

func (i *Importer) importTemplates(ctx context.Context, r *run) error {
	batch := make([]*catalogmodels.Template, 0, i.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := i.sink.UpsertTemplates(ctx, batch)
		if err != nil {
			return err
		}
		r.report.written(TableTemplates, n)
		batch = batch[:0]
		return nil
	}
	err := i.source.Templates(ctx, func(doc TemplateDoc) error {
		r.report.processed(TableTemplates)
		tpl, skip := convertTemplate(doc, r.events)
		if skip != "" {
			r.report.skip(TableTemplates, doc.ID.Hex(), skip)
			return nil
		}
		r.templates[doc.ID] = struct{}{}
		batch = append(batch, tpl)
		if len(batch) >= i.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

// loadUserCards indexes user card documents by printed card. They carry the
// claim time for the printed card pass.
func (i *Importer) loadUserCards(ctx context.Context, r *run) error {
	return i.source.UserCards(ctx, func(doc UserCardDoc) error {
		r.userCards[doc.PrintedCard] = append(r.userCards[doc.PrintedCard], doc)
		return nil
	})
}

func (i *Importer) importPrintedCards(ctx context.Context, r *run) error {
	cards := make([]*models.PrintedCard, 0, i.batchSize)
	entries := make([]*models.Entry, 0, i.batchSize)
	flush := func() error {
		if len(cards) == 0 {
			return nil
		}
		n, err := i.sink.UpsertPrintedCards(ctx, cards)
		if err != nil {
			return err
		}
		r.report.written(TablePrintedCards, n)
		// entries reference cards, so they go second
		n, err = i.sink.InsertEntries(ctx, entries)
		if err != nil {
			return err
		}
		r.report.written(TableEntries, n)
		cards, entries = cards[:0], entries[:0]
		return nil
	}

	err := i.source.PrintedCards(ctx, func(doc PrintedCardDoc) error {
		r.report.processed(TablePrintedCards)
		legacyID := doc.ID.Hex()
		out := convertPrintedCard(doc, r.templates, r.userCards[doc.ID], r.importedAt)
		if out.skip != "" {
			r.report.skip(TablePrintedCards, legacyID, out.skip)
			return nil
		}
		for _, w := range out.warnings {
			r.report.warn(TablePrintedCards, legacyID, w)
		}
		cards = append(cards, out.card)

		if out.entry != nil {
			if out.userCard != nil {
				r.usedCards[out.userCard.ID] = struct{}{}
			}
			r.report.processed(TableEntries)
			key := ownership{user: out.entry.UserID, template: out.entry.TemplateID}
			if _, dup := r.owned[key]; dup {
				r.report.skip(TableEntries, legacyID, reasonDuplicateTemplate)
			} else {
				r.owned[key] = struct{}{}
				r.albumUsers[out.entry.UserID] = struct{}{}
				entries = append(entries, out.entry)
			}
		}
		if len(cards) >= i.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	for _, docs := range r.userCards {
		for _, uc := range docs {
			if _, ok := r.usedCards[uc.ID]; !ok {
				r.report.warn(TableEntries, uc.ID.Hex(), reasonOrphanUserCard)
			}
		}
	}
	return nil
}

// importAlbums rebuilds albums from the ledger for every user with entries
// and for every legacy album owner.
func (i *Importer) importAlbums(ctx context.Context, r *run) error {
	err := i.source.Albums(ctx, func(doc AlbumDoc) error {
		r.report.processed(TableAlbums)
		if doc.Owner == nil {
			r.report.skip(TableAlbums, doc.ID.Hex(), reasonNoOwner)
			return nil
		}
		r.albumUsers[userID(*doc.Owner)] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}

	users := make([]id.UserID, 0, len(r.albumUsers))
	for u := range r.albumUsers {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b id.UserID) int {
		return cmp.Compare(a.String(), b.String())
	})
	for start := 0; start < len(users); start += i.batchSize {
		end := min(start+i.batchSize, len(users))
		n, err := i.sink.RebuildAlbums(ctx, users[start:end], r.importedAt)
		if err != nil {
			return err
		}
		r.report.written(TableAlbums, n)
	}
	return nil
}
