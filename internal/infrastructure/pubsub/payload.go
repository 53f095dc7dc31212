package pubsub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// unixMillisThreshold splits numeric timestamps: larger values are
// milliseconds, smaller ones seconds.
const unixMillisThreshold = 1e11

// payload is the device message. Unknown fields are ignored.
type payload struct {
	Token    string          `json:"token"`
	Lat      *float64        `json:"lat"`
	Lng      *float64        `json:"lng"`
	Accuracy *float64        `json:"accuracy"`
	Speed    *float64        `json:"speed"`
	Battery  *float64        `json:"battery"`
	TS       json.RawMessage `json:"ts"`
}

// Decode turns a raw channel message into a ChannelMessage. The courier id is
// the topic segment after prefix. Coordinates are required; an unparseable
// ts is treated as missing.
func Decode(prefix, topic string, raw []byte, receivedAt time.Time) (ports.ChannelMessage, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ports.ChannelMessage{}, fmt.Errorf("decode payload: %w", err)
	}
	if p.Lat == nil || p.Lng == nil {
		return ports.ChannelMessage{}, fmt.Errorf("decode payload: lat and lng are required")
	}

	return ports.ChannelMessage{
		Topic:          topic,
		TopicCourierID: topicCourier(prefix, topic),
		Token:          p.Token,
		Report: ports.ReportInput{
			Lat:        *p.Lat,
			Lng:        *p.Lng,
			Accuracy:   p.Accuracy,
			Speed:      p.Speed,
			Battery:    p.Battery,
			RecordedAt: parseTimestamp(p.TS),
		},
		ReceivedAt: receivedAt,
	}, nil
}

func topicCourier(prefix, topic string) string {
	if !strings.HasPrefix(topic, prefix) {
		return ""
	}
	return strings.TrimPrefix(topic, prefix)
}

// parseTimestamp accepts RFC 3339 strings and unix seconds or milliseconds,
// as JSON numbers or numeric strings. Anything else yields the zero time.
func parseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return time.Time{}
		}
		if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
			return t.UTC()
		}
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil || n <= 0 {
		return time.Time{}
	}
	if n >= unixMillisThreshold {
		return time.UnixMilli(int64(n)).UTC()
	}
	sec := int64(n)
	nsec := int64((n - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}
