// Package pubsub receives courier telemetry from Redis channels.
package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/ports"
	"github.com/99minutos/courier-tracking/pkg/metrics"
)

// DefaultTopicPrefix is the channel prefix devices publish under; the
// remainder of the channel name is the courier id.
const DefaultTopicPrefix = "telemetry.courier."

// Enqueuer accepts decoded messages for ordered processing.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg ports.ChannelMessage) bool
}

// Subscriber pattern-subscribes to <prefix>* and forwards every decodable
// message. Undecodable payloads are logged and dropped.
type Subscriber struct {
	client *redis.Client
	prefix string
	sink   Enqueuer
	ready  chan struct{}
	now    func() time.Time
	log    zerolog.Logger
}

func NewSubscriber(client *redis.Client, prefix string, sink Enqueuer, log zerolog.Logger) *Subscriber {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Subscriber{
		client: client,
		prefix: prefix,
		sink:   sink,
		ready:  make(chan struct{}),
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With().Str("component", "telemetry_subscriber").Str("pattern", prefix+"*").Logger(),
	}
}

// Ready is closed once the subscription is confirmed by Redis.
func (s *Subscriber) Ready() <-chan struct{} {
	return s.ready
}

// Run blocks until ctx is cancelled or the subscription fails.
func (s *Subscriber) Run(ctx context.Context) error {
	ps := s.client.PSubscribe(ctx, s.prefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("psubscribe: %w", err)
	}
	close(s.ready)
	s.log.Info().Msg("telemetry subscription active")

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, msg *redis.Message) {
	decoded, err := Decode(s.prefix, msg.Channel, []byte(msg.Payload), s.now())
	if err != nil {
		metrics.TelemetryRejectedTotal.WithLabelValues("decode").Inc()
		s.log.Warn().Err(err).Str("topic", msg.Channel).Msg("dropping telemetry message")
		return
	}
	if !s.sink.Enqueue(ctx, decoded) {
		s.log.Warn().Str("topic", msg.Channel).Msg("dispatcher closed, message dropped")
	}
}
