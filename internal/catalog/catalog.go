// Package catalog reads card templates and events. The ledger never writes to it.
package catalog

import (
	"context"

	"almanah/internal/catalog/models"
	id "almanah/pkg/domain"
)

// Reader is the catalog surface consumed by the ledger. Missing rows are
// reported as sentinel.ErrNotFound.
type Reader interface {
	GetTemplate(ctx context.Context, templateID id.TemplateID) (*models.Template, error)
	GetTemplates(ctx context.Context, templateIDs []id.TemplateID) (map[id.TemplateID]*models.Template, error)
	ListTemplatesForEvent(ctx context.Context, eventID id.EventID, window models.Window) ([]*models.Template, error)
	CountTemplatesForEvent(ctx context.Context, eventID id.EventID) (int, error)
	// CountTemplatesForEvents counts templates for many events in one round
	// trip. Events without templates map to zero.
	CountTemplatesForEvents(ctx context.Context, eventIDs []id.EventID) (map[id.EventID]int, error)
	CountAllTemplates(ctx context.Context) (int, error)
	GetEvent(ctx context.Context, eventID id.EventID) (*models.Event, error)
	GetEvents(ctx context.Context, eventIDs []id.EventID) (map[id.EventID]*models.Event, error)
	ListEvents(ctx context.Context) ([]*models.Event, error)
}
