package handler

//go:generate mockgen -source=handler.go -destination=mocks/service_mocks.go -package=mocks Service

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	catalogmodels "almanah/internal/catalog/models"
	"almanah/internal/ledger/handler/mocks"
	"almanah/internal/ledger/models"
	"almanah/internal/platform/middleware"
	"almanah/internal/ratelimit/checker"
	ratelimitmw "almanah/internal/ratelimit/middleware"
	ratelimitmodels "almanah/internal/ratelimit/models"
	"almanah/internal/ratelimit/store/bucket"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/testutil"
)

const validToken = "valid-token"

type staticResolver struct {
	user id.UserRef
}

func (r staticResolver) ResolveUser(token string) (id.UserRef, error) {
	if token != validToken {
		return id.UserRef{}, errors.New("bad token")
	}
	return r.user, nil
}

type LedgerHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	user    id.UserRef
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerSuite))
}

func (s *LedgerHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.user = id.MustUserRef(id.UserID(uuid.New()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(s.service, logger, nil, staticResolver{user: s.user},
		middleware.AuthOptions{CookieName: "token"}, 5*time.Second)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *LedgerHandlerSuite) authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+validToken)
	return req
}

func (s *LedgerHandlerSuite) TestClaimIsRateLimitedPerUser() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limits, err := checker.New(bucket.NewInMemoryBucketStore(),
		checker.WithLogger(logger),
		checker.WithPolicy(ratelimitmodels.ClassClaim, ratelimitmodels.Policy{Limit: 1, Window: time.Minute}),
	)
	s.Require().NoError(err)
	h := New(s.service, logger, nil, staticResolver{user: s.user},
		middleware.AuthOptions{CookieName: "token"}, 5*time.Second,
		WithRateLimiter(ratelimitmw.New(limits, logger)))
	router := chi.NewRouter()
	h.Register(router)

	cardID := id.PrintedCardID(uuid.New())
	s.service.EXPECT().Claim(gomock.Any(), s.user, cardID).Return(&models.ClaimResult{}, nil).Times(1)
	claim := func() *http.Request {
		return s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/cards/claim",
			map[string]string{"printedCardId": cardID.String()}))
	}

	testutil.AssertStatusOK(s.T(), testutil.DoRequest(router, claim()))
	rr := testutil.DoRequest(router, claim())
	s.Equal(http.StatusTooManyRequests, rr.Code)
	s.NotEmpty(rr.Header().Get("Retry-After"))
}

func (s *LedgerHandlerSuite) TestClaim() {
	cardID := id.PrintedCardID(uuid.New())

	s.Run("claims by printed card id", func() {
		s.service.EXPECT().Claim(gomock.Any(), s.user, cardID).Return(&models.ClaimResult{
			PrintedCardID: cardID,
			UserID:        s.user.ID(),
			AlbumSize:     1,
		}, nil)

		req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/cards/claim",
			map[string]string{"printedCardId": cardID.String()}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[models.ClaimResult](s.T(), rr)
		s.Equal(cardID, resp.PrintedCardID)
		s.Equal(1, resp.AlbumSize)
	})

	s.Run("claims by scan code", func() {
		s.service.EXPECT().ClaimByScanCode(gomock.Any(), s.user, "QR-1").Return(&models.ClaimResult{}, nil)

		req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/cards/claim",
			map[string]string{"scanCode": "QR-1"}))
		testutil.AssertStatusOK(s.T(), testutil.DoRequest(s.router, req))
	})

	s.Run("maps already claimed to 409", func() {
		s.service.EXPECT().Claim(gomock.Any(), s.user, cardID).
			Return(nil, dErrors.New(dErrors.CodeAlreadyClaimed, "printed card already claimed"))

		req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/cards/claim",
			map[string]string{"printedCardId": cardID.String()}))
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusConflict, "already_claimed")
	})

	s.Run("maps duplicate template to 409", func() {
		s.service.EXPECT().Claim(gomock.Any(), s.user, cardID).
			Return(nil, dErrors.New(dErrors.CodeDuplicateTemplate, "user already owns this template"))

		req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/cards/claim",
			map[string]string{"printedCardId": cardID.String()}))
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusConflict, "duplicate_template")
	})

	s.Run("rejects malformed ids before calling the service", func() {
		req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/cards/claim",
			map[string]string{"printedCardId": "not-a-uuid"}))
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest, "invalid_identifier")
	})

	s.Run("rejects an empty body", func() {
		req := s.authed(testutil.NewRequestWithBody(s.T(), http.MethodPatch, "/cards/claim", "{}"))
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest, "validation_error")
	})

	s.Run("requires authentication", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/cards/claim",
			map[string]string{"printedCardId": cardID.String()})
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusUnauthorized, "unauthorized")
	})
}

func (s *LedgerHandlerSuite) TestInvalidCookieIsExpired() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/cards/stats")
	req.AddCookie(&http.Cookie{Name: "token", Value: "stale"})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	s.Contains(rr.Header().Get("Set-Cookie"), "token=;")
}

func (s *LedgerHandlerSuite) TestPaging() {
	s.Run("defaults to the first page", func() {
		s.service.EXPECT().ListOwnedTemplates(gomock.Any(), s.user, 1, models.DefaultPageSize).
			Return(models.Page[*models.OwnedTemplate]{Items: []*models.OwnedTemplate{}, Total: 0, Page: 1, PageSize: 10}, nil)

		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/collected")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "total", float64(0))
	})

	s.Run("passes explicit parameters through", func() {
		s.service.EXPECT().ListForUser(gomock.Any(), s.user, 3, 25).
			Return(models.Page[*models.Entry]{Items: []*models.Entry{}, Total: 60, Page: 3, PageSize: 25}, nil)

		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/entries?page=3&pageSize=25")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "total", float64(60))
	})

	s.Run("rejects non-numeric page", func() {
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/collected?page=two")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_page_parameters")
	})

	s.Run("surfaces service range errors", func() {
		s.service.EXPECT().ListOwnedTemplates(gomock.Any(), s.user, 0, 10).
			Return(models.Page[*models.OwnedTemplate]{}, dErrors.New(dErrors.CodeInvalidPageParameters, "page must be at least 1"))

		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/collected?page=0")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_page_parameters")
	})
}

func (s *LedgerHandlerSuite) TestEventTemplates() {
	eventID := id.EventID(uuid.New())
	s.service.EXPECT().TemplatesForEvent(gomock.Any(), s.user, eventID, 2, 5).
		Return(models.Page[*models.TemplateOwnership]{}, dErrors.New(dErrors.CodeNotFound, "event not found"))

	rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet,
		"/cards/event/"+eventID.String()+"?page=2&pageSize=5")))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *LedgerHandlerSuite) TestScanEndpoints() {
	cardID := id.PrintedCardID(uuid.New())

	s.Run("validate", func() {
		s.service.EXPECT().ValidateScan(gomock.Any(), cardID).Return(true, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/validate/"+cardID.String())))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "valid", true)
	})

	s.Run("details", func() {
		s.service.EXPECT().DescribeUnclaimed(gomock.Any(), cardID).Return(&models.UnclaimedCard{
			PrintedCardID: cardID,
			Template:      &catalogmodels.Template{Title: "Fox"},
			Event:         &catalogmodels.Event{Name: "Fair"},
		}, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/details/"+cardID.String())))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONHasKey(s.T(), rr, "template")
	})
}

func (s *LedgerHandlerSuite) TestTemplateWithEvent() {
	templateID := id.TemplateID(uuid.New())

	s.Run("returns template and event", func() {
		s.service.EXPECT().GetTemplateWithEvent(gomock.Any(), templateID).Return(&models.TemplateDetails{
			Template: &catalogmodels.Template{ID: templateID, Title: "Fox"},
			Event:    &catalogmodels.Event{Name: "Fair"},
		}, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/templates/"+templateID.String())))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONHasKey(s.T(), rr, "template")
		testutil.AssertJSONHasKey(s.T(), rr, "event")
	})

	s.Run("unknown template", func() {
		s.service.EXPECT().GetTemplateWithEvent(gomock.Any(), templateID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "card template not found"))
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/templates/"+templateID.String())))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("malformed id never reaches the service", func() {
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/templates/not-a-uuid")))
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *LedgerHandlerSuite) TestProjections() {
	s.Run("stats", func() {
		s.service.EXPECT().CollectionStats(gomock.Any(), s.user).Return(models.NewCollectionStats(23, 50), nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/stats")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "percentage", float64(46))
	})

	s.Run("recent wraps items", func() {
		s.service.EXPECT().RecentlyOwned(gomock.Any(), s.user).Return(nil, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/recent")))
		testutil.AssertStatusOK(s.T(), rr)
		s.JSONEq(`{"items":[]}`, rr.Body.String())
	})

	s.Run("dashboard hides storage errors", func() {
		s.service.EXPECT().Dashboard(gomock.Any(), s.user).
			Return(nil, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeStorageFailure, "failed to access ledger"))
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/cards/dashboard")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "storage_failure")
		s.NotContains(rr.Body.String(), "connection refused")
	})

	s.Run("reconcile", func() {
		s.service.EXPECT().ReconcileAlbum(gomock.Any(), s.user).Return(&models.Album{UserID: s.user.ID()}, true, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodPost, "/album/reconcile")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "repaired", true)
	})
}

func (s *LedgerHandlerSuite) TestListEventsIsPublic() {
	s.service.EXPECT().ListEvents(gomock.Any()).Return([]*catalogmodels.Event{{Name: "Fair", Year: 2024}}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/events"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Contains(rr.Body.String(), `"name":"Fair"`)
}
