package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 2048

	defaultSendBuffer = 64
)

// SocketIngestor accepts location:update frames from courier sessions.
type SocketIngestor interface {
	IngestSocket(ctx context.Context, courierID string, report ports.ReportInput) (*ports.IngestResult, error)
}

// inbound is a frame sent by the peer.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// locationUpdate is the data of an inbound location:update.
type locationUpdate struct {
	Lat        *float64   `json:"lat"`
	Lng        *float64   `json:"lng"`
	Accuracy   *float64   `json:"accuracy"`
	Speed      *float64   `json:"speed"`
	Battery    *float64   `json:"battery"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type errorData struct {
	Message string `json:"message"`
}

// Client is one WebSocket session. It implements Observer: the hub writes
// frames into a bounded buffer drained by WritePump.
type Client struct {
	conn      *websocket.Conn
	hub       *Hub
	identity  *domain.Identity
	ingest    SocketIngestor
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

// NewClient wraps conn. identity is nil for anonymous public observers.
func NewClient(conn *websocket.Conn, hub *Hub, identity *domain.Identity, ingest SocketIngestor, sendBuffer int, log zerolog.Logger) *Client {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	l := log.With().Str("component", "live_client").Logger()
	if identity != nil {
		l = l.With().Str("user_id", identity.ID).Str("role", identity.Role).Logger()
	}
	return &Client{
		conn:     conn,
		hub:      hub,
		identity: identity,
		ingest:   ingest,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		log:      l,
	}
}

// Send queues frame without blocking.
func (c *Client) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close stops the write pump, which closes the connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump pumps frames from the connection until the peer goes away, then
// unsubscribes the client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unsubscribe(c)
		c.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket closed unexpectedly")
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(ports.EventError, errorData{Message: "invalid message format"})
			continue
		}

		switch msg.Type {
		case ports.EventPing:
			c.reply(ports.EventPong, nil)
		case ports.EventLocationUpdate:
			c.handleLocationUpdate(ctx, msg.Data)
		default:
			c.reply(ports.EventError, errorData{Message: "unknown message type"})
		}
	}
}

// WritePump drains the send buffer into the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (c *Client) handleLocationUpdate(ctx context.Context, data json.RawMessage) {
	if c.identity == nil || c.identity.Role != domain.RoleCourier || c.ingest == nil {
		c.reply(ports.EventError, errorData{Message: domain.ErrForbidden.Error()})
		return
	}

	report, err := decodeLocationUpdate(data)
	if err != nil {
		c.reply(ports.EventError, errorData{Message: err.Error()})
		return
	}

	res, err := c.ingest.IngestSocket(ctx, c.identity.ID, report)
	if err != nil {
		c.log.Warn().Err(err).Msg("socket telemetry failed")
		c.reply(ports.EventError, errorData{Message: err.Error()})
		return
	}
	if res.Accepted == 0 && len(res.Rejected) > 0 {
		c.reply(ports.EventError, errorData{Message: res.Rejected[0].Reason})
	}
}

func decodeLocationUpdate(data json.RawMessage) (ports.ReportInput, error) {
	var u locationUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return ports.ReportInput{}, errors.New("invalid location payload")
	}
	if u.Lat == nil || u.Lng == nil {
		return ports.ReportInput{}, errors.New("lat and lng are required")
	}
	report := ports.ReportInput{
		Lat:      *u.Lat,
		Lng:      *u.Lng,
		Accuracy: u.Accuracy,
		Speed:    u.Speed,
		Battery:  u.Battery,
	}
	if u.RecordedAt != nil {
		report.RecordedAt = *u.RecordedAt
	}
	return report, nil
}

// reply sends a direct frame to this session only.
func (c *Client) reply(eventType string, data any) {
	frame, err := Encode(eventType, data, time.Now().UTC())
	if err != nil {
		return
	}
	if !c.Send(frame) {
		c.log.Debug().Str("type", eventType).Msg("reply dropped, buffer full")
	}
}
