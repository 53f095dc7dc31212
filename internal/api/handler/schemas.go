package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Shared ---

// coordinateRequest is range-checked by the services; a missing axis maps to NaN.
type coordinateRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type coordinateResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type routePointResponse struct {
	Location   coordinateResponse `json:"location"`
	RecordedAt *time.Time         `json:"recorded_at"`
	Accuracy   *float64           `json:"accuracy,omitempty"`
}

// --- Telemetry ---

// telemetryReportRequest is one item of a batch upload. Items are validated
// by the ingestor, one by one, so a bad item never fails the batch.
type telemetryReportRequest struct {
	Lat        *float64   `json:"lat"`
	Lng        *float64   `json:"lng"`
	Accuracy   *float64   `json:"accuracy,omitempty"`
	Speed      *float64   `json:"speed,omitempty"`
	Battery    *float64   `json:"battery,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

type rejectedReportResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type batchResponse struct {
	Accepted   int                      `json:"accepted"`
	Rejected   []rejectedReportResponse `json:"rejected"`
	DeliveryID *string                  `json:"delivery_id"`
	Error      string                   `json:"error,omitempty"`
}

type channelTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Topic     string    `json:"topic"`
}

// --- Couriers ---

type positionResponse struct {
	Location   coordinateResponse `json:"location"`
	Accuracy   *float64           `json:"accuracy,omitempty"`
	Speed      *float64           `json:"speed,omitempty"`
	Battery    *float64           `json:"battery,omitempty"`
	RecordedAt time.Time          `json:"recorded_at"`
	DeliveryID *string            `json:"delivery_id"`
}

type courierLiveResponse struct {
	CourierID      string            `json:"courier_id"`
	FullName       string            `json:"full_name"`
	Online         bool              `json:"online"`
	OpenDeliveries int64             `json:"open_deliveries"`
	Position       *positionResponse `json:"position"`
}

type courierListResponse struct {
	Couriers []courierLiveResponse `json:"couriers"`
}

// --- Deliveries ---

type scheduleRequest struct {
	WindowStart *time.Time         `json:"window_start,omitempty"`
	WindowEnd   *time.Time         `json:"window_end,omitempty"`
	Address     string             `json:"address,omitempty"     validate:"max=512"`
	Destination *coordinateRequest `json:"destination,omitempty"`
	Notes       string             `json:"notes,omitempty"       validate:"max=1024"`
}

type createDeliveryRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	CourierID  string          `json:"courier_id,omitempty"`
	Priority   string          `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	Schedule   scheduleRequest `json:"schedule"`
}

type assignDeliveryRequest struct {
	CourierID string `json:"courier_id" validate:"required"`
}

// completeDeliveryRequest is checked by DeliveryService after the state
// check, so an illegal transition reports 409 even with bad evidence.
type completeDeliveryRequest struct {
	PhotoRef     string            `json:"photo_ref"`
	SignatureRef string            `json:"signature_ref"`
	Location     coordinateRequest `json:"location"`
	Notes        string            `json:"notes,omitempty"`
	Rating       int               `json:"rating"`
}

type failDeliveryRequest struct {
	Reason string `json:"reason" validate:"required,max=512"`
}

type scheduleResponse struct {
	WindowStart *time.Time          `json:"window_start,omitempty"`
	WindowEnd   *time.Time          `json:"window_end,omitempty"`
	Address     string              `json:"address,omitempty"`
	Destination *coordinateResponse `json:"destination,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

type evidenceResponse struct {
	PhotoRef     string             `json:"photo_ref"`
	SignatureRef string             `json:"signature_ref"`
	Location     coordinateResponse `json:"location"`
	Notes        string             `json:"notes,omitempty"`
	Rating       int                `json:"rating"`
}

type deliveryLinks struct {
	Self  string `json:"self"`
	Route string `json:"route"`
}

type deliveryResponse struct {
	ID            string            `json:"id"`
	CustomerID    string            `json:"customer_id"`
	CourierID     *string           `json:"courier_id"`
	Status        string            `json:"status"`
	Priority      string            `json:"priority"`
	Schedule      scheduleResponse  `json:"schedule"`
	Evidence      *evidenceResponse `json:"evidence,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	AssignedAt    *time.Time        `json:"assigned_at,omitempty"`
	StartedAt     *time.Time        `json:"started_at,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	FailedAt      *time.Time        `json:"failed_at,omitempty"`
	Links         deliveryLinks     `json:"_links"`
}

// createDeliveryResponse additionally carries the public tracking token,
// which is only ever returned once, to the creator.
type createDeliveryResponse struct {
	deliveryResponse
	TrackingToken string `json:"tracking_token"`
	TrackingURL   string `json:"tracking_url"`
}

type routeResponse struct {
	DeliveryID      string               `json:"delivery_id,omitempty"`
	Status          string               `json:"status"`
	RawPoints       int                  `json:"raw_points"`
	Points          []routePointResponse `json:"points"`
	FirstAt         *time.Time           `json:"first_at"`
	LastAt          *time.Time           `json:"last_at"`
	DurationSeconds float64              `json:"duration_seconds"`
	DistanceMeters  float64              `json:"distance_meters"`
}

// --- Public tracking ---

// publicTrackingResponse carries no delivery, customer or courier identifiers.
type publicTrackingResponse struct {
	Status         string               `json:"status"`
	LatestPosition *routePointResponse  `json:"latest_position"`
	CleanedRoute   []routePointResponse `json:"cleaned_route"`
}

// --- Health ---

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}
