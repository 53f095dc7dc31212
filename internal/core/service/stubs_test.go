package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Delivery repository
// ---------------------------------------------------------------------------

type stubDeliveryRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Delivery
	findErr error
	casErr  error
	// noUniqueIndex disables the in-transit uniqueness check so only the
	// service's own locking keeps couriers to one active delivery.
	noUniqueIndex bool
}

func newStubDeliveryRepo() *stubDeliveryRepo {
	return &stubDeliveryRepo{byID: make(map[string]*domain.Delivery)}
}

func (r *stubDeliveryRepo) seed(d *domain.Delivery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.byID[d.ID] = &cp
}

func (r *stubDeliveryRepo) get(id string) *domain.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.byID[id]
	return &cp
}

func (r *stubDeliveryRepo) Create(_ context.Context, d *domain.Delivery) error {
	r.seed(d)
	return nil
}

func (r *stubDeliveryRepo) FindByID(_ context.Context, id string) (*domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDeliveryNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *stubDeliveryRepo) FindByTrackingToken(_ context.Context, token string) (*domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.byID {
		if d.TrackingToken == token {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrDeliveryNotFound
}

func (r *stubDeliveryRepo) FindActiveByCourier(_ context.Context, courierID string) (*domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, d := range r.byID {
		if d.CourierID == courierID && d.Status == domain.StatusInTransit {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrDeliveryNotFound
}

func (r *stubDeliveryRepo) CompareAndSwap(_ context.Context, next *domain.Delivery, expected ...domain.DeliveryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.casErr != nil {
		return r.casErr
	}
	cur, ok := r.byID[next.ID]
	if !ok {
		return domain.ErrDeliveryNotFound
	}
	match := false
	for _, st := range expected {
		if cur.Status == st {
			match = true
		}
	}
	if !match || cur.Version != next.Version {
		return domain.ErrInvalidState
	}
	if next.Status == domain.StatusInTransit && !r.noUniqueIndex {
		for id, d := range r.byID {
			if id != next.ID && d.CourierID == next.CourierID && d.Status == domain.StatusInTransit {
				return domain.ErrConflictActiveDelivery
			}
		}
	}
	next.Version++
	cp := *next
	r.byID[next.ID] = &cp
	return nil
}

func (r *stubDeliveryRepo) CountOpenByCourier(_ context.Context, courierID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.byID {
		if d.CourierID == courierID && (d.Status == domain.StatusAssigned || d.Status == domain.StatusInTransit) {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Location repository
// ---------------------------------------------------------------------------

type stubLocationRepo struct {
	mu        sync.Mutex
	telemetry []domain.TelemetryReport
	points    []domain.RoutePoint
	appendErr error
	// failAfter makes AppendTelemetry fail once this many reports are stored.
	failAfter int
	// delay is applied to every append, honouring ctx.
	delay time.Duration
}

func (r *stubLocationRepo) wait(ctx context.Context) error {
	if r.delay == 0 {
		return nil
	}
	select {
	case <-time.After(r.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *stubLocationRepo) AppendTelemetry(ctx context.Context, rep *domain.TelemetryReport) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil && len(r.telemetry) >= r.failAfter {
		return r.appendErr
	}
	r.telemetry = append(r.telemetry, *rep)
	return nil
}

func (r *stubLocationRepo) AppendRoutePoint(ctx context.Context, p *domain.RoutePoint) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, *p)
	return nil
}

func (r *stubLocationRepo) LatestForCourier(_ context.Context, courierID string) (*domain.TelemetryReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.TelemetryReport
	for i := range r.telemetry {
		t := &r.telemetry[i]
		if t.CourierID == courierID && (latest == nil || !t.RecordedAt.Before(latest.RecordedAt)) {
			latest = t
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *stubLocationRepo) LatestForDelivery(_ context.Context, deliveryID string) (*domain.RoutePoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.RoutePoint
	for i := range r.points {
		p := &r.points[i]
		if p.DeliveryID == deliveryID && (latest == nil || !p.RecordedAt.Before(latest.RecordedAt)) {
			latest = p
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *stubLocationRepo) RoutePoints(_ context.Context, deliveryID string) ([]domain.RoutePoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RoutePoint
	for _, p := range r.points {
		if p.DeliveryID == deliveryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubLocationRepo) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.telemetry), len(r.points)
}

// ---------------------------------------------------------------------------
// Broadcaster
// ---------------------------------------------------------------------------

type statusEvent struct {
	DeliveryID string
	Status     domain.DeliveryStatus
	CourierID  string
}

type courierEvent struct {
	CourierID string
	Type      string
	Data      any
}

type recordingBroadcaster struct {
	mu        sync.Mutex
	positions []ports.PositionEvent
	statuses  []statusEvent
	offline   []string
	direct    []courierEvent
	online    map[string]bool
}

func (b *recordingBroadcaster) PublishPosition(ev ports.PositionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.positions = append(b.positions, ev)
}

func (b *recordingBroadcaster) PublishDeliveryStatusChanged(id string, st domain.DeliveryStatus, courierID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses = append(b.statuses, statusEvent{id, st, courierID})
}

func (b *recordingBroadcaster) PublishCourierOffline(courierID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offline = append(b.offline, courierID)
}

func (b *recordingBroadcaster) SendToCourier(courierID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.direct = append(b.direct, courierEvent{courierID, eventType, data})
}

func (b *recordingBroadcaster) IsCourierOnline(courierID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online[courierID]
}

// ---------------------------------------------------------------------------
// Directory, verifier, dedup, position cache
// ---------------------------------------------------------------------------

type stubDirectory struct {
	couriers map[string]*domain.Courier
	err      error
}

func (d *stubDirectory) FindByID(_ context.Context, id string) (*domain.Courier, error) {
	if d.err != nil {
		return nil, d.err
	}
	c, ok := d.couriers[id]
	if !ok {
		return nil, domain.ErrCourierNotFound
	}
	return c, nil
}

type stubVerifier struct {
	tokens map[string]domain.Identity
}

func (v *stubVerifier) Verify(token string) (domain.Identity, error) {
	id, ok := v.tokens[token]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}

type stubDedup struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (d *stubDedup) MarkIfNew(_ context.Context, courierID string, ts time.Time) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	key := courierID + ":" + ts.UTC().Format(time.RFC3339Nano)
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

type stubPositionCache struct {
	mu    sync.Mutex
	items map[string]ports.PositionEvent
	err   error
}

func (c *stubPositionCache) Set(_ context.Context, ev ports.PositionEvent) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]ports.PositionEvent)
	}
	if cur, ok := c.items[ev.CourierID]; ok && cur.RecordedAt.After(ev.RecordedAt) {
		return false, nil
	}
	c.items[ev.CourierID] = ev
	return true, nil
}

func (c *stubPositionCache) Get(_ context.Context, courierID string) (*ports.PositionEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev, ok := c.items[courierID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ev, nil
}

func (c *stubPositionCache) All(_ context.Context) ([]ports.PositionEvent, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ports.PositionEvent, 0, len(c.items))
	for _, ev := range c.items {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourierID < out[j].CourierID })
	return out, nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
