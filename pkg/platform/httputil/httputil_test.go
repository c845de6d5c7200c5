package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "almanah/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("storage failure omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeStorageFailure, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "storage_failure" {
			t.Fatalf("expected error code storage_failure, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for server errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInvalidPageParameters, "pageSize must be between 1 and 100"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "invalid_page_parameters" {
			t.Fatalf("expected error code invalid_page_parameters, got %q", body["error"])
		}
		if body["error_description"] != "pageSize must be between 1 and 100" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})

	t.Run("uncoded errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, assert.AnError)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeNotFound:              http.StatusNotFound,
		dErrors.CodeAlreadyClaimed:        http.StatusConflict,
		dErrors.CodeDuplicateTemplate:     http.StatusConflict,
		dErrors.CodeInvalidPageParameters: http.StatusBadRequest,
		dErrors.CodeInvalidIdentifier:     http.StatusBadRequest,
		dErrors.CodeUnauthorized:          http.StatusUnauthorized,
		dErrors.CodeTimeout:               http.StatusGatewayTimeout,
		dErrors.CodeStorageFailure:        http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, StatusFor(code), code)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		PrintedCardID string `json:"printedCardId"`
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"printedCardId":"abc"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "abc", dst.PrintedCardID)

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"unknown":1}`))
	err := DecodeJSON(req, &dst)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(``))
	err = DecodeJSON(req, &dst)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
