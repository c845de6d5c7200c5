package handler

import (
	"net/http"
	"strconv"
	"strings"

	"almanah/internal/ledger/models"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	textutil "almanah/pkg/platform/strings"
)

// ClaimRequest is the body of PATCH /cards/claim. Exactly one of the fields is set.
type ClaimRequest struct {
	PrintedCardID string `json:"printedCardId,omitempty"`
	ScanCode      string `json:"scanCode,omitempty"`

	parsedCardID id.PrintedCardID
}

// Validate parses the request.
func (r *ClaimRequest) Validate() error {
	r.PrintedCardID = strings.TrimSpace(r.PrintedCardID)
	r.ScanCode = textutil.Cleanse(r.ScanCode)
	switch {
	case r.PrintedCardID == "" && r.ScanCode == "":
		return dErrors.New(dErrors.CodeValidation, "printedCardId or scanCode is required")
	case r.PrintedCardID != "" && r.ScanCode != "":
		return dErrors.New(dErrors.CodeValidation, "printedCardId and scanCode are mutually exclusive")
	case r.ScanCode != "":
		if len(r.ScanCode) > 256 {
			return dErrors.New(dErrors.CodeValidation, "scanCode must be at most 256 characters")
		}
		return nil
	}
	cardID, err := id.ParsePrintedCardID(r.PrintedCardID)
	if err != nil {
		return err
	}
	r.parsedCardID = cardID
	return nil
}

// pageParams reads page and pageSize from the query, defaulting to the first
// page of DefaultPageSize. Range checks happen in the service.
func pageParams(r *http.Request) (page, pageSize int, err error) {
	page, err = intParam(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err = intParam(r, "pageSize", models.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidPageParameters, name+" must be an integer")
	}
	return n, nil
}
