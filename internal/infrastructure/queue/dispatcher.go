package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
	"github.com/99minutos/courier-tracking/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ChannelIngestor is the slice of the ingest service the dispatcher drives.
type ChannelIngestor interface {
	IngestFromChannel(ctx context.Context, msg ports.ChannelMessage) error
}

// Dispatcher routes channel telemetry to a fixed set of workers using
// consistent hashing on the courier id, guaranteeing per-courier ordering
// while different couriers proceed in parallel.
type Dispatcher struct {
	workers  []chan ports.ChannelMessage
	ingestor ChannelIngestor
	wg       sync.WaitGroup
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, ingestor ChannelIngestor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.ChannelMessage, numWorkers),
		ingestor: ingestor,
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ChannelMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands msg to the worker responsible for its courier. It blocks
// while that worker's buffer is full and gives up when ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, msg ports.ChannelMessage) bool {
	idx := d.shardIndex(shardKey(msg))
	select {
	case d.workers[idx] <- msg:
		metrics.ChannelQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	case <-ctx.Done():
		return false
	}
}

// shardKey prefers the topic's courier segment; topics without one fall back
// to the token so one device still lands on one worker.
func shardKey(msg ports.ChannelMessage) string {
	if msg.TopicCourierID != "" {
		return msg.TopicCourierID
	}
	return msg.Token
}

// shardIndex maps a courier id deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ChannelMessage) {
	defer d.wg.Done()
	depth := metrics.ChannelQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id, ch)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.process(ctx, id, msg)
		}
	}
}

// drain processes whatever is already buffered when the worker is stopped.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan ports.ChannelMessage) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, id, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, msg ports.ChannelMessage) {
	if err := d.ingestor.IngestFromChannel(ctx, msg); err != nil {
		ev := d.log.Error()
		if isClientError(err) {
			ev = d.log.Warn()
		}
		ev.Err(err).
			Str("topic", msg.Topic).
			Int("worker_id", id).
			Msg("channel telemetry dropped")
	}
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrValidation)
}
