package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/courier-tracking/internal/api/middleware"
	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

var (
	dispatcher = domain.Identity{ID: "disp-1", Role: domain.RoleDispatcher}
	courierAna = domain.Identity{ID: "c1", Role: domain.RoleCourier}
	courierBob = domain.Identity{ID: "c2", Role: domain.RoleCourier}
)

// newContext builds an echo context with the handler validator installed.
// identity is skipped when its role is empty.
func newContext(t *testing.T, method, target, body string, identity domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity.Role != "" {
		middleware.WithIdentity(c, identity)
	}
	return c, rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}

type stubDeliveryService struct {
	deliveries map[string]*domain.Delivery

	createFn   func(in ports.CreateDeliveryInput) (*domain.Delivery, error)
	startFn    func(id string) (*domain.Delivery, error)
	completeFn func(id string, ev domain.Evidence) (*domain.Delivery, error)
	failFn     func(id, reason string) (*domain.Delivery, error)
	assignFn   func(id, courierID string) (*domain.Delivery, error)
}

func (s *stubDeliveryService) Create(_ context.Context, in ports.CreateDeliveryInput) (*domain.Delivery, error) {
	return s.createFn(in)
}

func (s *stubDeliveryService) Get(_ context.Context, id string) (*domain.Delivery, error) {
	d, ok := s.deliveries[id]
	if !ok {
		return nil, domain.ErrDeliveryNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *stubDeliveryService) Assign(_ context.Context, id, courierID string) (*domain.Delivery, error) {
	return s.assignFn(id, courierID)
}

func (s *stubDeliveryService) Start(_ context.Context, id string) (*domain.Delivery, error) {
	return s.startFn(id)
}

func (s *stubDeliveryService) Complete(_ context.Context, id string, ev domain.Evidence) (*domain.Delivery, error) {
	return s.completeFn(id, ev)
}

func (s *stubDeliveryService) Fail(_ context.Context, id, reason string) (*domain.Delivery, error) {
	return s.failFn(id, reason)
}

func (s *stubDeliveryService) ResolveActiveDeliveryForCourier(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (s *stubDeliveryService) GetRoutePoints(context.Context, string) ([]domain.RoutePoint, error) {
	return nil, nil
}

type stubTracking struct {
	views   map[string]*ports.PublicView
	details map[string]*ports.RouteDetail
}

func (s *stubTracking) Resolve(_ context.Context, token string) (string, error) {
	if _, ok := s.views[token]; !ok {
		return "", domain.ErrDeliveryNotFound
	}
	return "d-" + token, nil
}

func (s *stubTracking) GetPublicView(_ context.Context, token string) (*ports.PublicView, error) {
	v, ok := s.views[token]
	if !ok {
		return nil, domain.ErrDeliveryNotFound
	}
	return v, nil
}

func (s *stubTracking) GetRouteDetail(_ context.Context, id string) (*ports.RouteDetail, error) {
	d, ok := s.details[id]
	if !ok {
		return nil, domain.ErrDeliveryNotFound
	}
	return d, nil
}

func (s *stubTracking) GetRouteDetailByToken(ctx context.Context, token string) (*ports.RouteDetail, error) {
	if _, ok := s.views[token]; !ok {
		return nil, domain.ErrDeliveryNotFound
	}
	return s.GetRouteDetail(ctx, "d-"+token)
}

type stubIngestor struct {
	courierID string
	reports   []ports.ReportInput
	result    *ports.IngestResult
	err       error
}

func (s *stubIngestor) IngestBatch(_ context.Context, courierID string, reports []ports.ReportInput) (*ports.IngestResult, error) {
	s.courierID = courierID
	s.reports = reports
	return s.result, s.err
}

type stubIssuer struct {
	expiresAt time.Time
}

func (s stubIssuer) IssueChannelToken(courierID string) (string, time.Time, error) {
	if courierID == "" {
		return "", time.Time{}, domain.ErrValidation
	}
	return "chan-" + courierID, s.expiresAt, nil
}

type stubCourierView struct {
	views []ports.CourierLiveView
	err   error
}

func (s stubCourierView) ListLive(context.Context) ([]ports.CourierLiveView, error) {
	return s.views, s.err
}

func ptr[T any](v T) *T { return &v }
