//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"almanah/internal/catalog/models"
	"almanah/internal/catalog/store"
	id "almanah/pkg/domain"
	"almanah/pkg/platform/sentinel"
	"almanah/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "albums", "user_cards", "printed_cards", "card_templates", "events"))
}

func (s *PostgresStoreSuite) insertEvent(name string, year int) id.EventID {
	eventID := uuid.New()
	_, err := s.postgres.DB.ExecContext(s.ctx,
		`INSERT INTO events (id, name, location, year, description) VALUES ($1, $2, 'Hall', $3, '')`,
		eventID, name, year)
	s.Require().NoError(err)
	return id.EventID(eventID)
}

func (s *PostgresStoreSuite) insertTemplate(eventID id.EventID, ordinal int) id.TemplateID {
	templateID := uuid.New()
	_, err := s.postgres.DB.ExecContext(s.ctx,
		`INSERT INTO card_templates (id, event_id, ordinal, title, image_urls) VALUES ($1, $2, $3, 'Card', $4)`,
		templateID, uuid.UUID(eventID), ordinal, pq.Array([]string{"https://cdn.example.com/x.png"}))
	s.Require().NoError(err)
	return id.TemplateID(templateID)
}

func (s *PostgresStoreSuite) TestTemplates() {
	eventID := s.insertEvent("Spring Fair", 2023)
	second := s.insertTemplate(eventID, 2)
	first := s.insertTemplate(eventID, 1)

	s.Run("get by id", func() {
		t, err := s.store.GetTemplate(s.ctx, first)
		s.Require().NoError(err)
		s.Equal(eventID, t.EventID)
		s.Equal([]string{"https://cdn.example.com/x.png"}, t.ImageURLs)
	})

	s.Run("unknown id", func() {
		_, err := s.store.GetTemplate(s.ctx, id.TemplateID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("batch", func() {
		found, err := s.store.GetTemplates(s.ctx, []id.TemplateID{first, second, id.TemplateID(uuid.New())})
		s.Require().NoError(err)
		s.Len(found, 2)
	})

	s.Run("ordered page", func() {
		page, err := s.store.ListTemplatesForEvent(s.ctx, eventID, models.Window{Offset: 0, Limit: 1})
		s.Require().NoError(err)
		s.Require().Len(page, 1)
		s.Equal(first, page[0].ID)
	})

	s.Run("counts", func() {
		n, err := s.store.CountTemplatesForEvent(s.ctx, eventID)
		s.Require().NoError(err)
		s.Equal(2, n)
		all, err := s.store.CountAllTemplates(s.ctx)
		s.Require().NoError(err)
		s.Equal(2, all)

		empty := id.EventID(uuid.New())
		batched, err := s.store.CountTemplatesForEvents(s.ctx, []id.EventID{eventID, empty})
		s.Require().NoError(err)
		s.Equal(map[id.EventID]int{eventID: 2, empty: 0}, batched)
	})
}

func (s *PostgresStoreSuite) TestEvents() {
	newer := s.insertEvent("Summer Jam", 2024)
	older := s.insertEvent("Winter Expo", 2021)

	events, err := s.store.ListEvents(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(older, events[0].ID)
	s.Equal(newer, events[1].ID)

	found, err := s.store.GetEvents(s.ctx, []id.EventID{newer})
	s.Require().NoError(err)
	s.Equal("Summer Jam", found[newer].Name)

	_, err = s.store.GetEvent(s.ctx, id.EventID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
