package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"almanah/internal/catalog/models"
	id "almanah/pkg/domain"
)

// demoNamespace keeps demo IDs stable across restarts.
var demoNamespace = uuid.MustParse("1b7e0f4c-5d2a-4f66-8c3e-9a0d2b6c4e71")

// SeedDemo fills an in-memory catalog with one event of n templates so a
// database-less development server has something to claim.
func SeedDemo(ctx context.Context, s *InMemory, n int) (*models.Event, []*models.Template, error) {
	event := &models.Event{
		ID:          id.EventID(uuid.NewSHA1(demoNamespace, []byte("event"))),
		Name:        "Demo Event",
		Location:    "Local",
		Year:        2024,
		Description: "Seeded for development",
	}
	if err := s.PutEvent(ctx, event); err != nil {
		return nil, nil, err
	}
	templates := make([]*models.Template, 0, n)
	for i := 1; i <= n; i++ {
		t := &models.Template{
			ID:        id.TemplateID(uuid.NewSHA1(demoNamespace, []byte(fmt.Sprintf("template:%d", i)))),
			EventID:   event.ID,
			Ordinal:   i,
			Title:     fmt.Sprintf("Demo Card %d", i),
			ImageURLs: []string{},
		}
		if err := s.PutTemplate(ctx, t); err != nil {
			return nil, nil, err
		}
		templates = append(templates, t)
	}
	return event, templates, nil
}
