package handler

import (
	"math"
	"time"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// toReportInputs maps a batch body to ingestor input. A missing coordinate
// becomes NaN so the ingestor rejects that item and keeps the rest.
func toReportInputs(reqs []telemetryReportRequest) []ports.ReportInput {
	out := make([]ports.ReportInput, len(reqs))
	for i, r := range reqs {
		in := ports.ReportInput{
			Lat:      orNaN(r.Lat),
			Lng:      orNaN(r.Lng),
			Accuracy: r.Accuracy,
			Speed:    r.Speed,
			Battery:  r.Battery,
		}
		if r.RecordedAt != nil {
			in.RecordedAt = r.RecordedAt.UTC()
		}
		out[i] = in
	}
	return out
}

func orNaN(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}

func toBatchResponse(res *ports.IngestResult) batchResponse {
	resp := batchResponse{Rejected: []rejectedReportResponse{}}
	if res == nil {
		return resp
	}
	resp.Accepted = res.Accepted
	resp.DeliveryID = res.DeliveryID
	for _, r := range res.Rejected {
		resp.Rejected = append(resp.Rejected, rejectedReportResponse{Index: r.Index, Reason: r.Reason})
	}
	return resp
}

func toCoordinate(r coordinateRequest) domain.Coordinate {
	return domain.Coordinate{Lat: orNaN(r.Lat), Lng: orNaN(r.Lng)}
}

func toCoordinateResponse(c domain.Coordinate) coordinateResponse {
	return coordinateResponse{Lat: c.Lat, Lng: c.Lng}
}

func toCreateInput(r createDeliveryRequest) ports.CreateDeliveryInput {
	in := ports.CreateDeliveryInput{
		CustomerID: r.CustomerID,
		CourierID:  r.CourierID,
		Priority:   domain.Priority(r.Priority),
		Schedule: domain.Schedule{
			Address: r.Schedule.Address,
			Notes:   r.Schedule.Notes,
		},
	}
	if r.Schedule.WindowStart != nil {
		in.Schedule.WindowStart = r.Schedule.WindowStart.UTC()
	}
	if r.Schedule.WindowEnd != nil {
		in.Schedule.WindowEnd = r.Schedule.WindowEnd.UTC()
	}
	if r.Schedule.Destination != nil {
		dest := toCoordinate(*r.Schedule.Destination)
		in.Schedule.Destination = &dest
	}
	return in
}

func toEvidence(r completeDeliveryRequest) domain.Evidence {
	return domain.Evidence{
		PhotoRef:     r.PhotoRef,
		SignatureRef: r.SignatureRef,
		Location:     toCoordinate(r.Location),
		Notes:        r.Notes,
		Rating:       r.Rating,
	}
}

func toDeliveryResponse(d *domain.Delivery) deliveryResponse {
	resp := deliveryResponse{
		ID:            d.ID,
		CustomerID:    d.CustomerID,
		Status:        string(d.Status),
		Priority:      string(d.Priority),
		FailureReason: d.FailureReason,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		AssignedAt:    d.AssignedAt,
		StartedAt:     d.StartedAt,
		CompletedAt:   d.CompletedAt,
		FailedAt:      d.FailedAt,
		Schedule: scheduleResponse{
			WindowStart: timeOrNil(d.Schedule.WindowStart),
			WindowEnd:   timeOrNil(d.Schedule.WindowEnd),
			Address:     d.Schedule.Address,
			Notes:       d.Schedule.Notes,
		},
		Links: deliveryLinks{
			Self:  "/v1/deliveries/" + d.ID,
			Route: "/v1/deliveries/" + d.ID + "/route",
		},
	}
	if d.CourierID != "" {
		id := d.CourierID
		resp.CourierID = &id
	}
	if d.Schedule.Destination != nil {
		dest := toCoordinateResponse(*d.Schedule.Destination)
		resp.Schedule.Destination = &dest
	}
	if d.Evidence != nil {
		resp.Evidence = &evidenceResponse{
			PhotoRef:     d.Evidence.PhotoRef,
			SignatureRef: d.Evidence.SignatureRef,
			Location:     toCoordinateResponse(d.Evidence.Location),
			Notes:        d.Evidence.Notes,
			Rating:       d.Evidence.Rating,
		}
	}
	return resp
}

func toCreateDeliveryResponse(d *domain.Delivery) createDeliveryResponse {
	return createDeliveryResponse{
		deliveryResponse: toDeliveryResponse(d),
		TrackingToken:    d.TrackingToken,
		TrackingURL:      "/v1/public/tracking/" + d.TrackingToken,
	}
}

func toRoutePointResponse(p ports.RoutePointView) routePointResponse {
	return routePointResponse{
		Location:   toCoordinateResponse(p.Location),
		RecordedAt: p.RecordedAt,
		Accuracy:   p.Accuracy,
	}
}

func toRoutePointResponses(points []ports.RoutePointView) []routePointResponse {
	out := make([]routePointResponse, len(points))
	for i, p := range points {
		out[i] = toRoutePointResponse(p)
	}
	return out
}

func toRouteResponse(r *ports.RouteDetail) routeResponse {
	return routeResponse{
		DeliveryID:      r.DeliveryID,
		Status:          string(r.Status),
		RawPoints:       r.RawPoints,
		Points:          toRoutePointResponses(r.Points),
		FirstAt:         r.FirstAt,
		LastAt:          r.LastAt,
		DurationSeconds: r.Duration.Seconds(),
		DistanceMeters:  r.DistanceMeters,
	}
}

func toPublicTrackingResponse(v *ports.PublicView) publicTrackingResponse {
	resp := publicTrackingResponse{Status: string(v.Status)}
	if v.LatestPosition != nil {
		p := toRoutePointResponse(*v.LatestPosition)
		resp.LatestPosition = &p
	}
	if v.CleanedRoute != nil {
		resp.CleanedRoute = toRoutePointResponses(v.CleanedRoute)
	}
	return resp
}

func toCourierListResponse(views []ports.CourierLiveView) courierListResponse {
	out := courierListResponse{Couriers: make([]courierLiveResponse, 0, len(views))}
	for _, v := range views {
		item := courierLiveResponse{
			CourierID:      v.CourierID,
			FullName:       v.FullName,
			Online:         v.Online,
			OpenDeliveries: v.OpenDeliveries,
		}
		if v.Position != nil {
			pos := &positionResponse{
				Location:   toCoordinateResponse(v.Position.Location),
				Accuracy:   v.Position.Accuracy,
				Speed:      v.Position.Speed,
				Battery:    v.Position.Battery,
				RecordedAt: v.Position.RecordedAt,
			}
			if v.Position.DeliveryID != "" {
				id := v.Position.DeliveryID
				pos.DeliveryID = &id
			}
			item.Position = pos
		}
		out.Couriers = append(out.Couriers, item)
	}
	return out
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
