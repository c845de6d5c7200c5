package service

//go:generate mockgen -source=../../catalog/catalog.go -destination=mocks/catalog_mocks.go -package=mocks Reader
//go:generate mockgen -source=../ports/ports.go -destination=mocks/ports_mocks.go -package=mocks EventPublisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	catalogmodels "almanah/internal/catalog/models"
	catalogstore "almanah/internal/catalog/store"
	"almanah/internal/ledger/metrics"
	"almanah/internal/ledger/models"
	"almanah/internal/ledger/ports"
	"almanah/internal/ledger/store/memory"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	catalog *catalogstore.InMemory
	stores  ports.Stores
	metrics *metrics.Metrics
	service *Service
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.catalog = catalogstore.NewInMemory()
	var tx *memory.Tx
	s.stores, tx = memory.New(time.Second)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.stores, tx, s.catalog,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
}

func (s *ServiceSuite) addEvent(name string, year, templates int) (*catalogmodels.Event, []*catalogmodels.Template) {
	event := &catalogmodels.Event{ID: id.EventID(uuid.New()), Name: name, Year: year}
	s.Require().NoError(s.catalog.PutEvent(s.ctx, event))
	out := make([]*catalogmodels.Template, templates)
	for i := range templates {
		out[i] = &catalogmodels.Template{
			ID:      id.TemplateID(uuid.New()),
			EventID: event.ID,
			Ordinal: i + 1,
			Title:   fmt.Sprintf("%s #%d", name, i+1),
		}
		s.Require().NoError(s.catalog.PutTemplate(s.ctx, out[i]))
	}
	return event, out
}

func (s *ServiceSuite) printCard(template *catalogmodels.Template, scanCode string) id.PrintedCardID {
	card, err := models.NewPrintedCard(id.PrintedCardID(uuid.New()), template.ID, scanCode)
	s.Require().NoError(err)
	s.Require().NoError(s.stores.PrintedCards.Create(s.ctx, card))
	return card.ID
}

func newUser() id.UserRef {
	return id.MustUserRef(id.UserID(uuid.New()))
}

func (s *ServiceSuite) requireCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.Equal(code, dErrors.CodeOf(err), err.Error())
}

func (s *ServiceSuite) TestEndToEndScenario() {
	_, templates := s.addEvent("E1", 2024, 1)
	t1 := templates[0]
	p1 := s.printCard(t1, "")
	p2 := s.printCard(t1, "")
	u1, u2 := newUser(), newUser()

	s.Run("U1 claims P1", func() {
		result, err := s.service.Claim(s.ctx, u1, p1)
		s.Require().NoError(err)
		s.Equal(u1.ID(), result.UserID)
		s.Equal(t1.ID, result.TemplateID)
		s.Equal(t1.EventID, result.EventID)
		s.Equal(1, result.AlbumSize)
		s.True(s.now.Equal(result.ClaimedAt))

		card, err := s.service.GetInstance(s.ctx, p1)
		s.Require().NoError(err)
		s.Equal(models.ClaimStateClaimed, card.State)
		s.Equal(u1.ID(), *card.OwnerID)

		page, err := s.service.ListForUser(s.ctx, u1, 1, 10)
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal(p1, page.Items[0].PrintedCardID)
		s.Equal(t1.ID, page.Items[0].TemplateID)

		album, err := s.service.GetAlbum(s.ctx, u1)
		s.Require().NoError(err)
		s.Equal([]id.EntryID{result.EntryID}, album.EntryIDs)
	})

	s.Run("U2 cannot claim P1", func() {
		_, err := s.service.Claim(s.ctx, u2, p1)
		s.requireCode(err, dErrors.CodeAlreadyClaimed)

		card, err := s.service.GetInstance(s.ctx, p1)
		s.Require().NoError(err)
		s.Equal(u1.ID(), *card.OwnerID)
		_, err = s.service.GetAlbum(s.ctx, u2)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("U1 cannot claim a second card of T1", func() {
		_, err := s.service.Claim(s.ctx, u1, p2)
		s.requireCode(err, dErrors.CodeDuplicateTemplate)

		claimable, err := s.service.IsClaimable(s.ctx, p2)
		s.Require().NoError(err)
		s.True(claimable)

		page, err := s.service.ListForUser(s.ctx, u1, 1, 10)
		s.Require().NoError(err)
		s.Equal(1, page.Total)
		album, err := s.service.GetAlbum(s.ctx, u1)
		s.Require().NoError(err)
		s.Equal(1, album.Size())
	})

	s.Equal(1.0, testutil.ToFloat64(s.metrics.ClaimsTotal.WithLabelValues(metrics.OutcomeClaimed)))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ClaimsTotal.WithLabelValues(metrics.OutcomeAlreadyClaimed)))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ClaimsTotal.WithLabelValues(metrics.OutcomeDuplicateTemplate)))
}

func (s *ServiceSuite) TestClaimValidation() {
	_, templates := s.addEvent("Fair", 2024, 1)
	cardID := s.printCard(templates[0], "")

	s.Run("unknown card", func() {
		_, err := s.service.Claim(s.ctx, newUser(), id.PrintedCardID(uuid.New()))
		s.requireCode(err, dErrors.CodeNotFound)
	})
	s.Run("nil card id", func() {
		_, err := s.service.Claim(s.ctx, newUser(), id.PrintedCardID{})
		s.requireCode(err, dErrors.CodeInvalidIdentifier)
	})
	s.Run("anonymous user", func() {
		_, err := s.service.Claim(s.ctx, id.UserRef{}, cardID)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})
}

func (s *ServiceSuite) TestScanCodes() {
	_, templates := s.addEvent("Fair", 2024, 1)
	cardID := s.printCard(templates[0], "QR-ABC")

	resolved, err := s.service.ResolveScanCode(s.ctx, "  QR-ABC ")
	s.Require().NoError(err)
	s.Equal(cardID, resolved)

	_, err = s.service.ResolveScanCode(s.ctx, "QR-NOPE")
	s.requireCode(err, dErrors.CodeNotFound)
	_, err = s.service.ResolveScanCode(s.ctx, " ")
	s.requireCode(err, dErrors.CodeInvalidIdentifier)

	result, err := s.service.ClaimByScanCode(s.ctx, newUser(), "QR-ABC")
	s.Require().NoError(err)
	s.Equal(cardID, result.PrintedCardID)
}

func (s *ServiceSuite) TestScanPreview() {
	event, templates := s.addEvent("Fair", 2024, 1)
	cardID := s.printCard(templates[0], "")

	s.Run("unclaimed card shows template and event", func() {
		ok, err := s.service.ValidateScan(s.ctx, cardID)
		s.Require().NoError(err)
		s.True(ok)

		preview, err := s.service.DescribeUnclaimed(s.ctx, cardID)
		s.Require().NoError(err)
		s.Equal(templates[0].ID, preview.Template.ID)
		s.Equal(event.Name, preview.Event.Name)
	})

	s.Run("claimed card is no longer described", func() {
		_, err := s.service.Claim(s.ctx, newUser(), cardID)
		s.Require().NoError(err)

		ok, err := s.service.ValidateScan(s.ctx, cardID)
		s.Require().NoError(err)
		s.False(ok)
		_, err = s.service.DescribeUnclaimed(s.ctx, cardID)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("unknown card", func() {
		unknown := id.PrintedCardID(uuid.New())
		ok, err := s.service.IsClaimable(s.ctx, unknown)
		s.Require().NoError(err)
		s.False(ok)
		_, err = s.service.ValidateScan(s.ctx, unknown)
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestListForUserPaging() {
	_, templates := s.addEvent("Big", 2024, 25)
	user := newUser()
	for i, t := range templates {
		ctx := requestcontext.WithTime(s.ctx, s.now.Add(time.Duration(i)*time.Minute))
		_, err := s.service.Claim(ctx, user, s.printCard(t, ""))
		s.Require().NoError(err)
	}

	s.Run("first page", func() {
		page, err := s.service.ListForUser(s.ctx, user, 1, 10)
		s.Require().NoError(err)
		s.Len(page.Items, 10)
		s.Equal(25, page.Total)
		s.Equal(templates[24].ID, page.Items[0].TemplateID)
	})
	s.Run("last partial page", func() {
		page, err := s.service.ListForUser(s.ctx, user, 3, 10)
		s.Require().NoError(err)
		s.Len(page.Items, 5)
		s.Equal(templates[0].ID, page.Items[4].TemplateID)
	})
	s.Run("invalid parameters", func() {
		_, err := s.service.ListForUser(s.ctx, user, 0, 10)
		s.requireCode(err, dErrors.CodeInvalidPageParameters)
		_, err = s.service.ListForUser(s.ctx, user, 1, 101)
		s.requireCode(err, dErrors.CodeInvalidPageParameters)
	})
}

func (s *ServiceSuite) TestCollectionStats() {
	_, templates := s.addEvent("Fifty", 2023, 50)
	user := newUser()

	stats, err := s.service.CollectionStats(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(models.CollectionStats{Owned: 0, Total: 50, Percentage: 0}, stats)

	for _, t := range templates[:23] {
		_, err := s.service.Claim(s.ctx, user, s.printCard(t, ""))
		s.Require().NoError(err)
	}
	stats, err = s.service.CollectionStats(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(models.CollectionStats{Owned: 23, Total: 50, Percentage: 46}, stats)
}

func (s *ServiceSuite) TestTemplatesForEvent() {
	event, templates := s.addEvent("Fair", 2024, 12)
	user := newUser()
	_, err := s.service.Claim(s.ctx, user, s.printCard(templates[1], ""))
	s.Require().NoError(err)

	s.Run("marks owned templates in ordinal order", func() {
		page, err := s.service.TemplatesForEvent(s.ctx, user, event.ID, 1, 5)
		s.Require().NoError(err)
		s.Equal(12, page.Total)
		s.Require().Len(page.Items, 5)
		s.Equal(templates[0].ID, page.Items[0].Template.ID)
		s.False(page.Items[0].Owned)
		s.True(page.Items[1].Owned)
	})
	s.Run("page past the end is empty", func() {
		page, err := s.service.TemplatesForEvent(s.ctx, user, event.ID, 9, 5)
		s.Require().NoError(err)
		s.Empty(page.Items)
		s.Equal(12, page.Total)
	})
	s.Run("unknown event", func() {
		_, err := s.service.TemplatesForEvent(s.ctx, user, id.EventID(uuid.New()), 1, 5)
		s.requireCode(err, dErrors.CodeNotFound)
	})
	s.Run("invalid paging is rejected first", func() {
		_, err := s.service.TemplatesForEvent(s.ctx, user, id.EventID(uuid.New()), 1, 0)
		s.requireCode(err, dErrors.CodeInvalidPageParameters)
	})
}

func (s *ServiceSuite) TestTopEventsAndDashboard() {
	spring, springTemplates := s.addEvent("Spring", 2023, 4)
	autumn, autumnTemplates := s.addEvent("Autumn", 2024, 2)
	s.addEvent("Untouched", 2025, 3)
	user := newUser()

	claim := func(t *catalogmodels.Template, offset time.Duration) {
		ctx := requestcontext.WithTime(s.ctx, s.now.Add(offset))
		_, err := s.service.Claim(ctx, user, s.printCard(t, ""))
		s.Require().NoError(err)
	}
	claim(springTemplates[0], 0)
	claim(autumnTemplates[0], time.Minute)
	claim(autumnTemplates[1], 2*time.Minute)

	top, err := s.service.TopEventsByCompletion(s.ctx, user)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(autumn.ID, top[0].Event.ID)
	s.Equal(100, top[0].Percentage)
	s.Equal(spring.ID, top[1].Event.ID)
	s.Equal(25, top[1].Percentage)

	dashboard, err := s.service.Dashboard(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(models.CollectionStats{Owned: 3, Total: 9, Percentage: 33}, dashboard.Stats)
	s.Require().Len(dashboard.Recent, 3)
	s.Equal(autumnTemplates[1].ID, dashboard.Recent[0].Template.ID)
	s.Equal(autumn.Name, dashboard.Recent[0].Event.Name)
	s.Len(dashboard.TopEvents, 2)

	empty, err := s.service.TopEventsByCompletion(s.ctx, newUser())
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *ServiceSuite) TestListOwnedTemplates() {
	_, templates := s.addEvent("Fair", 2024, 3)
	user := newUser()
	for i, t := range templates {
		ctx := requestcontext.WithTime(s.ctx, s.now.Add(time.Duration(i)*time.Minute))
		_, err := s.service.Claim(ctx, user, s.printCard(t, ""))
		s.Require().NoError(err)
	}

	page, err := s.service.ListOwnedTemplates(s.ctx, user, 1, 2)
	s.Require().NoError(err)
	s.Equal(3, page.Total)
	s.Require().Len(page.Items, 2)
	s.Equal(templates[2].ID, page.Items[0].Template.ID)
	s.Equal("Fair", page.Items[0].Event.Name)
}

func (s *ServiceSuite) TestListEventsByYear() {
	s.addEvent("Later", 2025, 0)
	s.addEvent("Earlier", 2021, 0)

	events, err := s.service.ListEvents(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("Earlier", events[0].Name)
}

func (s *ServiceSuite) TestAlbumOperations() {
	user := newUser()

	s.Run("get or create is lazy", func() {
		_, err := s.service.GetAlbum(s.ctx, user)
		s.requireCode(err, dErrors.CodeNotFound)
		album, err := s.service.GetOrCreateAlbum(s.ctx, user)
		s.Require().NoError(err)
		s.Zero(album.Size())
	})

	s.Run("append is idempotent", func() {
		entryID := id.NewEntryID()
		_, err := s.service.AppendToAlbum(s.ctx, user, entryID)
		s.Require().NoError(err)
		album, err := s.service.AppendToAlbum(s.ctx, user, entryID)
		s.Require().NoError(err)
		s.Equal([]id.EntryID{entryID}, album.EntryIDs)
	})

	s.Run("reconcile rebuilds a drifted album from the ledger", func() {
		_, templates := s.addEvent("Fair", 2024, 2)
		first, err := s.service.Claim(s.ctx, user, s.printCard(templates[0], ""))
		s.Require().NoError(err)
		second, err := s.service.Claim(s.ctx, user, s.printCard(templates[1], ""))
		s.Require().NoError(err)

		album, repaired, err := s.service.ReconcileAlbum(s.ctx, user)
		s.Require().NoError(err)
		s.True(repaired)
		s.Equal([]id.EntryID{first.EntryID, second.EntryID}, album.EntryIDs)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.AlbumRepairs))

		_, repaired, err = s.service.ReconcileAlbum(s.ctx, user)
		s.Require().NoError(err)
		s.False(repaired)
	})

	s.Run("reconcile leaves a consistent album alone when claims share an instant", func() {
		other := newUser()
		_, templates := s.addEvent("Same Instant", 2024, 6)
		var claimed []id.EntryID
		for _, t := range templates {
			result, err := s.service.Claim(s.ctx, other, s.printCard(t, ""))
			s.Require().NoError(err)
			claimed = append(claimed, result.EntryID)
		}
		repairsBefore := testutil.ToFloat64(s.metrics.AlbumRepairs)

		album, repaired, err := s.service.ReconcileAlbum(s.ctx, other)
		s.Require().NoError(err)
		s.False(repaired)
		s.Equal(claimed, album.EntryIDs)
		s.Equal(repairsBefore, testutil.ToFloat64(s.metrics.AlbumRepairs))
	})

	s.Run("reconcile keeps surviving order and appends missing entries", func() {
		other := newUser()
		_, templates := s.addEvent("Partial", 2024, 3)
		var claimed []id.EntryID
		for _, t := range templates {
			result, err := s.service.Claim(s.ctx, other, s.printCard(t, ""))
			s.Require().NoError(err)
			claimed = append(claimed, result.EntryID)
		}
		stale := id.NewEntryID()
		_, err := s.stores.Albums.Replace(s.ctx, other.ID(), []id.EntryID{claimed[2], stale, claimed[0]}, s.now)
		s.Require().NoError(err)

		album, repaired, err := s.service.ReconcileAlbum(s.ctx, other)
		s.Require().NoError(err)
		s.True(repaired)
		s.Equal([]id.EntryID{claimed[2], claimed[0], claimed[1]}, album.EntryIDs)
	})
}

func (s *ServiceSuite) TestConcurrentClaimsOfOneCard() {
	_, templates := s.addEvent("Rush", 2024, 1)
	cardID := s.printCard(templates[0], "")
	const claimers = 16

	users := make([]id.UserRef, claimers)
	errs := make([]error, claimers)
	for i := range users {
		users[i] = newUser()
	}
	var wg sync.WaitGroup
	for i := range claimers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.service.Claim(s.ctx, users[i], cardID)
		}()
	}
	wg.Wait()

	var winner id.UserRef
	wins := 0
	for i, err := range errs {
		if err == nil {
			wins++
			winner = users[i]
			continue
		}
		s.requireCode(err, dErrors.CodeAlreadyClaimed)
	}
	s.Require().Equal(1, wins)

	card, err := s.service.GetInstance(s.ctx, cardID)
	s.Require().NoError(err)
	s.Equal(winner.ID(), *card.OwnerID)
	for _, u := range users {
		n, err := s.stores.Entries.CountForUser(s.ctx, u.ID())
		s.Require().NoError(err)
		if u == winner {
			s.Equal(1, n)
			album, err := s.service.GetAlbum(s.ctx, u)
			s.Require().NoError(err)
			s.Equal(1, album.Size())
			continue
		}
		s.Zero(n)
		_, err = s.service.GetAlbum(s.ctx, u)
		s.requireCode(err, dErrors.CodeNotFound)
	}
}

func (s *ServiceSuite) TestConcurrentClaimsOfOneTemplateBySameUser() {
	_, templates := s.addEvent("Twins", 2024, 1)
	cards := []id.PrintedCardID{s.printCard(templates[0], ""), s.printCard(templates[0], "")}
	user := newUser()

	errs := make([]error, len(cards))
	var wg sync.WaitGroup
	for i, cardID := range cards {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.service.Claim(s.ctx, user, cardID)
		}()
	}
	wg.Wait()

	var loser id.PrintedCardID
	wins := 0
	for i, err := range errs {
		if err == nil {
			wins++
			continue
		}
		s.requireCode(err, dErrors.CodeDuplicateTemplate)
		loser = cards[i]
	}
	s.Require().Equal(1, wins)

	claimable, err := s.service.IsClaimable(s.ctx, loser)
	s.Require().NoError(err)
	s.True(claimable)
	n, err := s.stores.Entries.CountForUser(s.ctx, user.ID())
	s.Require().NoError(err)
	s.Equal(1, n)
	album, err := s.service.GetAlbum(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(1, album.Size())
}

func (s *ServiceSuite) TestGetTemplateWithEvent() {
	event, templates := s.addEvent("Gallery", 2023, 2)

	details, err := s.service.GetTemplateWithEvent(s.ctx, templates[1].ID)
	s.Require().NoError(err)
	s.Equal(templates[1].ID, details.Template.ID)
	s.Equal(event.ID, details.Event.ID)
	s.Equal("Gallery", details.Event.Name)

	_, err = s.service.GetTemplateWithEvent(s.ctx, id.TemplateID(uuid.New()))
	s.requireCode(err, dErrors.CodeNotFound)

	_, err = s.service.GetTemplateWithEvent(s.ctx, id.TemplateID{})
	s.requireCode(err, dErrors.CodeInvalidIdentifier)
}
