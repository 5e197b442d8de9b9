package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finledger/ledger-api/internal/core/domain"
)

func invoke(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrTransactionNotFound, http.StatusNotFound},
		{domain.ErrReceiverNotFound, http.StatusNotFound},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrReceiverBlocked, http.StatusConflict},
		{domain.ErrInsufficientFunds, http.StatusBadRequest},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrSelfTransfer, http.StatusBadRequest},
		{domain.ErrCreatorBlocked, http.StatusBadRequest},
		{domain.ErrReversalBlocked, http.StatusBadRequest},
		{domain.ErrInvalidPage, http.StatusBadRequest},
		{domain.ErrInvalidPageSize, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrStorageConflict, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		code, msg := invoke(t, tc.err)
		if code != tc.wantCode {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.wantCode, code)
		}
		if msg == "" {
			t.Errorf("%v: error message must not be empty", tc.err)
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrInsufficientFunds)
	code, _ := invoke(t, wrapped)
	if code != http.StatusBadRequest {
		t.Errorf("wrapped domain error must still map, got %d", code)
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, msg := invoke(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", code)
	}
	if msg != "short and stout" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorHidesDetails(t *testing.T) {
	code, msg := invoke(t, errors.New("pq: connection reset by peer"))
	if code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Errorf("internal details must not leak, got %q", msg)
	}
}
