package ports

import (
	"context"
	"time"
)

// ReportInput is one sample as it arrives from a client, already decoded
// into typed fields. A zero RecordedAt means the client did not send one.
type ReportInput struct {
	Lat        float64
	Lng        float64
	Accuracy   *float64
	Speed      *float64
	Battery    *float64
	RecordedAt time.Time
}

// ChannelMessage is a sample received from the pub/sub transport.
type ChannelMessage struct {
	// Topic is the channel the message arrived on.
	Topic string
	// TopicCourierID is the courier segment of Topic, empty if absent.
	TopicCourierID string
	Token          string
	Report         ReportInput
	ReceivedAt     time.Time
}

// RejectedReport explains why one item of a batch was skipped.
type RejectedReport struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// IngestResult is returned by every ingestion entry point.
type IngestResult struct {
	Accepted   int
	Rejected   []RejectedReport
	DeliveryID *string
}

// IngestService is the single ingestion path for courier telemetry.
type IngestService interface {
	IngestFromChannel(ctx context.Context, msg ChannelMessage) error
	IngestBatch(ctx context.Context, courierID string, reports []ReportInput) (*IngestResult, error)
	IngestSocket(ctx context.Context, courierID string, report ReportInput) (*IngestResult, error)
}
