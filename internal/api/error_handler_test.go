package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", fmt.Errorf("create: %w: customer_id is required", domain.ErrValidation), http.StatusUnprocessableEntity, ""},
		{"invalid state", fmt.Errorf("complete: %w", domain.ErrInvalidState), http.StatusConflict, ""},
		{"conflict", fmt.Errorf("start: %w", domain.ErrConflictActiveDelivery), http.StatusConflict, "courier already has a delivery in transit"},
		{"delivery not found", fmt.Errorf("get: %w", domain.ErrDeliveryNotFound), http.StatusNotFound, "delivery not found"},
		{"courier not found", domain.ErrCourierNotFound, http.StatusNotFound, "courier not found"},
		{"store failure", fmt.Errorf("append: %w: dial tcp", domain.ErrStoreFailure), http.StatusServiceUnavailable, "storage temporarily unavailable"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", fmt.Errorf("%w: not yours", domain.ErrForbidden), http.StatusForbidden, "access forbidden"},
		{"batch timeout wins over store failure", fmt.Errorf("append: %w: %w", domain.ErrBatchTimeout, domain.ErrStoreFailure), http.StatusGatewayTimeout, "batch processing timed out"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error == "" {
				t.Fatal("empty error message")
			}
			if tc.msg != "" && body.Error != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Body.String() != "done" {
		t.Fatalf("committed response must not be rewritten, got %q", rec.Body.String())
	}
}
