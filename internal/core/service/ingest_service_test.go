package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

type ingestFixture struct {
	deliveries *stubDeliveryRepo
	locations  *stubLocationRepo
	couriers   *stubDirectory
	verifier   *stubVerifier
	dedup      *stubDedup
	positions  *stubPositionCache
	bc         *recordingBroadcaster
	svc        *IngestService
}

func newIngestFixture(cfg IngestConfig) *ingestFixture {
	f := &ingestFixture{
		deliveries: newStubDeliveryRepo(),
		locations:  &stubLocationRepo{},
		couriers: &stubDirectory{couriers: map[string]*domain.Courier{
			"c1": {ID: "c1", FullName: "Ana Ruiz", Active: true},
			"c2": {ID: "c2", FullName: "Luis Paz", Active: false},
		}},
		verifier: &stubVerifier{tokens: map[string]domain.Identity{
			"tok-c1":   {ID: "c1", Role: domain.RoleCourier},
			"tok-c2":   {ID: "c2", Role: domain.RoleCourier},
			"tok-c9":   {ID: "c9", Role: domain.RoleCourier},
			"tok-disp": {ID: "u1", Role: domain.RoleDispatcher},
		}},
		dedup:     &stubDedup{},
		positions: &stubPositionCache{},
		bc:        &recordingBroadcaster{},
	}
	resolver := NewDeliveryService(f.deliveries, f.locations, nil, zerolog.Nop())
	f.svc = NewIngestService(IngestDeps{
		Locations:   f.locations,
		Resolver:    resolver,
		Couriers:    f.couriers,
		Verifier:    f.verifier,
		Dedup:       f.dedup,
		Positions:   f.positions,
		Broadcaster: f.bc,
	}, cfg, zerolog.Nop())
	return f
}

var ingestT0 = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func report(lat, lng float64, at time.Time) ports.ReportInput {
	return ports.ReportInput{Lat: lat, Lng: lng, RecordedAt: at}
}

// ---------------------------------------------------------------------------
// Batch
// ---------------------------------------------------------------------------

func TestIngestService_Batch_NoActiveDelivery(t *testing.T) {
	f := newIngestFixture(IngestConfig{})

	res, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{
		report(19.4326, -99.1332, ingestT0),
		report(19.4330, -99.1335, ingestT0.Add(10*time.Second)),
		report(19.4335, -99.1340, ingestT0.Add(20*time.Second)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 3 || len(res.Rejected) != 0 || res.DeliveryID != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	global, route := f.locations.counts()
	if global != 3 || route != 0 {
		t.Errorf("expected 3 global and 0 route points, got %d/%d", global, route)
	}
	if len(f.bc.positions) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(f.bc.positions))
	}
	if ev := f.bc.positions[0]; !ev.RecordedAt.Equal(ingestT0.Add(20*time.Second)) || ev.FullName != "Ana Ruiz" {
		t.Errorf("expected latest point broadcast with name, got %+v", ev)
	}
}

func TestIngestService_Batch_WithActiveDelivery(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	f.deliveries.seed(seededDelivery("d1", "c1", domain.StatusInTransit))

	res, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{
		report(19.4326, -99.1332, ingestT0),
		report(19.4330, -99.1335, ingestT0.Add(10*time.Second)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DeliveryID == nil || *res.DeliveryID != "d1" {
		t.Fatalf("expected delivery d1, got %v", res.DeliveryID)
	}
	global, route := f.locations.counts()
	if global != 2 || route != 2 {
		t.Errorf("expected 2 global and 2 route points, got %d/%d", global, route)
	}
	for _, p := range f.locations.points {
		if p.DeliveryID != "d1" || p.Origin != domain.OriginBatch {
			t.Errorf("unexpected route point %+v", p)
		}
	}
	if f.bc.positions[0].DeliveryID != "d1" {
		t.Errorf("expected broadcast scoped to d1, got %+v", f.bc.positions[0])
	}
	if len(f.bc.direct) != 1 || f.bc.direct[0].Type != ports.EventLocationAck {
		t.Errorf("expected one ack to courier, got %+v", f.bc.direct)
	}
}

func TestIngestService_Batch_Empty(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	f.deliveries.findErr = errBoom // would fail if touched

	res, err := f.svc.IngestBatch(context.Background(), "c1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 0 || len(res.Rejected) != 0 || res.DeliveryID != nil {
		t.Errorf("expected zero result, got %+v", res)
	}
	if len(f.bc.positions) != 0 {
		t.Errorf("expected no broadcast")
	}
}

func TestIngestService_Batch_PerItemRejection(t *testing.T) {
	f := newIngestFixture(IngestConfig{})

	bad := report(19.4, -99.1, ingestT0.Add(time.Second))
	bad.Battery = ptr(140.0)
	res, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{
		report(19.4326, -99.1332, ingestT0),
		report(95, 0, ingestT0),
		report(math.NaN(), 0, ingestT0),
		bad,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 1 || len(res.Rejected) != 3 {
		t.Fatalf("expected 1 accepted / 3 rejected, got %+v", res)
	}
	wantIdx := []int{1, 2, 3}
	for i, r := range res.Rejected {
		if r.Index != wantIdx[i] || r.Reason == "" {
			t.Errorf("rejection %d: unexpected %+v", i, r)
		}
	}
	if global, _ := f.locations.counts(); global != 1 {
		t.Errorf("expected only the valid report stored, got %d", global)
	}
}

func TestIngestService_Batch_AllInvalidNoBroadcast(t *testing.T) {
	f := newIngestFixture(IngestConfig{})

	res, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{report(-91, 0, ingestT0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 0 || len(f.bc.positions) != 0 {
		t.Errorf("expected nothing accepted or broadcast, got %+v", res)
	}
}

func TestIngestService_Batch_DefaultsRecordedTime(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	f.svc.now = func() time.Time { return ingestT0 }

	if _, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{{Lat: 1, Lng: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := f.locations.telemetry[0]
	if !got.RecordedAt.Equal(ingestT0) || !got.ReceivedAt.Equal(ingestT0) {
		t.Errorf("expected recorded time defaulted to arrival, got %+v", got)
	}
}

func TestIngestService_Batch_LatestIsMaxRecordedTime(t *testing.T) {
	f := newIngestFixture(IngestConfig{})

	_, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{
		report(1, 1, ingestT0.Add(30*time.Second)),
		report(2, 2, ingestT0),
		report(3, 3, ingestT0.Add(10*time.Second)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.bc.positions[0].Location; got.Lat != 1 {
		t.Errorf("expected max recorded point broadcast, got %+v", got)
	}
	cached, err := f.positions.Get(context.Background(), "c1")
	if err != nil || cached.Location.Lat != 1 {
		t.Errorf("expected cache updated with latest point, got %+v err=%v", cached, err)
	}
}

func TestIngestService_Batch_OlderThanCachedNotBroadcast(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	ctx := context.Background()

	if _, err := f.svc.IngestBatch(ctx, "c1", []ports.ReportInput{report(5, 5, ingestT0.Add(time.Hour))}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := f.svc.IngestBatch(ctx, "c1", []ports.ReportInput{
		report(1, 1, ingestT0),
		report(1.001, 1, ingestT0.Add(time.Minute)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 2 {
		t.Fatalf("expected catch-up points persisted, got %+v", res)
	}
	if len(f.bc.positions) != 1 || f.bc.positions[0].Location.Lat != 5 {
		t.Fatalf("expected only the newer position broadcast, got %+v", f.bc.positions)
	}
	cached, err := f.positions.Get(ctx, "c1")
	if err != nil || cached.Location.Lat != 5 {
		t.Fatalf("expected newer cached position kept, got %+v err=%v", cached, err)
	}
	acks := 0
	for _, ev := range f.bc.direct {
		if ev.Type == ports.EventLocationAck {
			acks++
		}
	}
	if acks != 2 {
		t.Errorf("expected both batches acknowledged, got %d", acks)
	}
}

func TestIngestService_Batch_TooLarge(t *testing.T) {
	f := newIngestFixture(IngestConfig{MaxBatchSize: 2})

	_, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{
		report(1, 1, ingestT0), report(1, 1, ingestT0), report(1, 1, ingestT0),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestIngestService_Batch_StoreFailure(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	f.locations.appendErr = errBoom
	f.locations.failAfter = 1

	res, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{
		report(1, 1, ingestT0),
		report(1.001, 1, ingestT0.Add(time.Second)),
	})
	if !errors.Is(err, domain.ErrStoreFailure) || !errors.Is(err, errBoom) {
		t.Fatalf("expected ErrStoreFailure wrapping cause, got %v", err)
	}
	if res == nil || res.Accepted != 1 {
		t.Errorf("expected partial result with 1 accepted, got %+v", res)
	}
	if len(f.bc.positions) != 0 {
		t.Errorf("expected no broadcast on store failure")
	}
}

func TestIngestService_Batch_CancelledRequestStillPersists(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.svc.IngestBatch(ctx, "c1", []ports.ReportInput{report(1, 1, ingestT0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 1 {
		t.Errorf("expected write despite cancelled request, got %+v", res)
	}
}

func TestIngestService_Batch_Timeout(t *testing.T) {
	f := newIngestFixture(IngestConfig{BatchTimeout: 30 * time.Millisecond})
	f.locations.delay = 20 * time.Millisecond

	reports := make([]ports.ReportInput, 10)
	for i := range reports {
		reports[i] = report(1+float64(i)*0.001, 1, ingestT0.Add(time.Duration(i)*time.Second))
	}
	res, err := f.svc.IngestBatch(context.Background(), "c1", reports)
	if !errors.Is(err, domain.ErrBatchTimeout) {
		t.Fatalf("expected ErrBatchTimeout, got %v", err)
	}
	if res == nil || res.Accepted >= len(reports) {
		t.Errorf("expected partial result, got %+v", res)
	}
}

func TestIngestService_ShutdownSkipsBroadcast(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	f.svc.BeginShutdown()

	res, err := f.svc.IngestBatch(context.Background(), "c1", []ports.ReportInput{report(1, 1, ingestT0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 1 {
		t.Errorf("expected report persisted, got %+v", res)
	}
	if len(f.bc.positions) != 0 || len(f.bc.direct) != 0 {
		t.Errorf("expected no broadcast during shutdown")
	}
}

func TestIngestService_Socket(t *testing.T) {
	f := newIngestFixture(IngestConfig{})

	res, err := f.svc.IngestSocket(context.Background(), "c1", report(1, 1, ingestT0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 1 || f.locations.telemetry[0].Origin != domain.OriginSocket {
		t.Errorf("expected socket-origin report, got %+v", f.locations.telemetry)
	}
}

// ---------------------------------------------------------------------------
// Channel
// ---------------------------------------------------------------------------

func channelMsg(token, topicCourier string, at time.Time) ports.ChannelMessage {
	return ports.ChannelMessage{
		Topic:          "telemetry.courier." + topicCourier,
		TopicCourierID: topicCourier,
		Token:          token,
		Report:         report(19.43, -99.13, at),
		ReceivedAt:     at.Add(time.Second),
	}
}

func TestIngestService_Channel_HappyPath(t *testing.T) {
	f := newIngestFixture(IngestConfig{})

	if err := f.svc.IngestFromChannel(context.Background(), channelMsg("tok-c1", "c1", ingestT0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global, _ := f.locations.counts(); global != 1 {
		t.Fatalf("expected 1 stored report, got %d", global)
	}
	got := f.locations.telemetry[0]
	if got.Origin != domain.OriginChannel || got.CourierID != "c1" || !got.ReceivedAt.Equal(ingestT0.Add(time.Second)) {
		t.Errorf("unexpected report %+v", got)
	}
	if len(f.bc.positions) != 1 || f.bc.positions[0].FullName != "Ana Ruiz" {
		t.Errorf("expected broadcast with courier name, got %+v", f.bc.positions)
	}
}

func TestIngestService_Channel_Rejections(t *testing.T) {
	cases := []struct {
		name string
		msg  ports.ChannelMessage
		want error
	}{
		{"bad token", channelMsg("nope", "c1", ingestT0), domain.ErrUnauthorized},
		{"non courier role", channelMsg("tok-disp", "u1", ingestT0), domain.ErrForbidden},
		{"topic mismatch", channelMsg("tok-c1", "c2", ingestT0), domain.ErrForbidden},
		{"inactive courier", channelMsg("tok-c2", "c2", ingestT0), domain.ErrForbidden},
		{"unknown courier", channelMsg("tok-c9", "c9", ingestT0), domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newIngestFixture(IngestConfig{})
			err := f.svc.IngestFromChannel(context.Background(), tc.msg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if global, _ := f.locations.counts(); global != 0 {
				t.Errorf("expected nothing stored, got %d", global)
			}
		})
	}
}

func TestIngestService_Channel_TopicWithoutCourierSegment(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	msg := channelMsg("tok-c1", "", ingestT0)

	if err := f.svc.IngestFromChannel(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIngestService_Channel_Duplicate(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	msg := channelMsg("tok-c1", "c1", ingestT0)

	if err := f.svc.IngestFromChannel(context.Background(), msg); err != nil {
		t.Fatalf("first: unexpected error: %v", err)
	}
	if err := f.svc.IngestFromChannel(context.Background(), msg); err != nil {
		t.Fatalf("second: unexpected error: %v", err)
	}
	if global, _ := f.locations.counts(); global != 1 {
		t.Errorf("expected duplicate dropped, got %d stored", global)
	}
}

func TestIngestService_Channel_DedupErrorProcessesAnyway(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	f.dedup.err = errBoom

	if err := f.svc.IngestFromChannel(context.Background(), channelMsg("tok-c1", "c1", ingestT0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global, _ := f.locations.counts(); global != 1 {
		t.Errorf("expected report stored, got %d", global)
	}
}

func TestIngestService_Channel_InvalidCoordinate(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	msg := channelMsg("tok-c1", "c1", ingestT0)
	msg.Report.Lat = 123

	if err := f.svc.IngestFromChannel(context.Background(), msg); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIngestService_Channel_DirectoryFailure(t *testing.T) {
	f := newIngestFixture(IngestConfig{})
	f.couriers.err = errBoom

	err := f.svc.IngestFromChannel(context.Background(), channelMsg("tok-c1", "c1", ingestT0))
	if !errors.Is(err, domain.ErrStoreFailure) {
		t.Fatalf("expected ErrStoreFailure, got %v", err)
	}
}
