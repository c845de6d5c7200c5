package service

import (
	"context"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
)

// ListForUser pages the user's ledger entries, newest first.
func (s *Service) ListForUser(ctx context.Context, user id.UserRef, page, pageSize int) (models.Page[*models.Entry], error) {
	req, err := models.NewPageRequest(page, pageSize)
	if err != nil {
		return models.Page[*models.Entry]{}, err
	}
	if err := requireUser(user); err != nil {
		return models.Page[*models.Entry]{}, err
	}
	entries, err := s.entries.ListForUser(ctx, user.ID(), req.Offset(), req.PageSize)
	if err != nil {
		return models.Page[*models.Entry]{}, translate(err, "ledger")
	}
	total, err := s.entries.CountForUser(ctx, user.ID())
	if err != nil {
		return models.Page[*models.Entry]{}, translate(err, "ledger")
	}
	return models.NewPage(req, entries, total), nil
}

func (s *Service) ExistsForUserAndTemplate(ctx context.Context, user id.UserRef, templateID id.TemplateID) (bool, error) {
	if err := requireUser(user); err != nil {
		return false, err
	}
	if templateID.IsNil() {
		return false, dErrors.New(dErrors.CodeInvalidIdentifier, "template id is required")
	}
	exists, err := s.entries.ExistsForUserAndTemplate(ctx, user.ID(), templateID)
	if err != nil {
		return false, translate(err, "ledger")
	}
	return exists, nil
}
