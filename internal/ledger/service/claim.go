package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"almanah/internal/ledger/metrics"
	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/platform/sentinel"
	"almanah/pkg/requestcontext"
)

// Claim redeems a printed card for user. The state flip, duplicate check,
// ledger insert and album append commit together or not at all.
func (s *Service) Claim(ctx context.Context, user id.UserRef, cardID id.PrintedCardID) (result *models.ClaimResult, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "ledger.Claim", user)
	span.SetAttributes(attribute.String("printed_card.id", cardID.String()))
	defer func() {
		s.metrics.ObserveClaim(claimOutcome(err), start)
		endSpan(span, err)
	}()

	if err := requireUser(user); err != nil {
		return nil, err
	}
	card, err := s.GetInstance(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !card.IsClaimable() {
		return nil, dErrors.New(dErrors.CodeAlreadyClaimed, "printed card already claimed")
	}
	template, err := s.catalog.GetTemplate(ctx, card.TemplateID)
	if err != nil {
		return nil, translate(err, "card template")
	}

	claimedAt := now(ctx)
	userID := user.ID()
	err = s.tx.RunInTx(ctx, userID, func(ctx context.Context) error {
		claimed, err := s.cards.ClaimIfUnclaimed(ctx, cardID, userID, claimedAt)
		if err != nil {
			return err
		}
		owned, err := s.entries.ExistsForUserAndTemplate(ctx, userID, claimed.TemplateID)
		if err != nil {
			return err
		}
		if owned {
			return sentinel.ErrConflict
		}
		entry, err := models.NewEntry(id.NewEntryID(), userID, claimed, claimedAt)
		if err != nil {
			return err
		}
		if err := s.entries.Insert(ctx, entry); err != nil {
			return err
		}
		album, err := s.albums.AppendEntry(ctx, userID, entry.ID, claimedAt)
		if err != nil {
			return err
		}
		result = &models.ClaimResult{
			EntryID:       entry.ID,
			UserID:        userID,
			PrintedCardID: claimed.ID,
			TemplateID:    claimed.TemplateID,
			EventID:       template.EventID,
			ClaimedAt:     claimedAt,
			AlbumSize:     album.Size(),
		}
		return nil
	})
	if err != nil {
		err = translate(err, "printed card")
		code := dErrors.CodeOf(err)
		level := slog.LevelInfo
		if !code.IsClientError() {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "claim rejected",
			"user_id", userID.String(),
			"printed_card_id", cardID.String(),
			"code", string(code),
			"error", err,
		)
		return nil, err
	}

	s.logAudit(ctx, models.EventTypeCardClaimed,
		"user_id", userID.String(),
		"printed_card_id", cardID.String(),
		"entry_id", result.EntryID.String(),
		"template_id", result.TemplateID.String(),
	)
	s.publishClaimed(ctx, result)
	return result, nil
}

// ClaimByScanCode resolves the scan code and claims the card behind it.
func (s *Service) ClaimByScanCode(ctx context.Context, user id.UserRef, scanCode string) (*models.ClaimResult, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	cardID, err := s.ResolveScanCode(ctx, scanCode)
	if err != nil {
		return nil, err
	}
	return s.Claim(ctx, user, cardID)
}

// publishClaimed never fails the claim; the ledger is already committed.
func (s *Service) publishClaimed(ctx context.Context, result *models.ClaimResult) {
	if s.publisher == nil {
		return
	}
	event := models.CardClaimedFrom(result, requestcontext.RequestID(ctx))
	if err := s.publisher.PublishCardClaimed(ctx, event); err != nil {
		s.metrics.IncrementPublishFailure()
		s.logger.WarnContext(ctx, "failed to publish card claimed event",
			"entry_id", result.EntryID.String(),
			"user_id", result.UserID.String(),
			"error", err,
		)
	}
}

func claimOutcome(err error) string {
	if err == nil {
		return metrics.OutcomeClaimed
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeAlreadyClaimed:
		return metrics.OutcomeAlreadyClaimed
	case dErrors.CodeDuplicateTemplate:
		return metrics.OutcomeDuplicateTemplate
	case dErrors.CodeNotFound:
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
