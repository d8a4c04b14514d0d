package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/metrics"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.TagInvalidator = (*InvalidationProducer)(nil)

// InvalidationProducer publishes one record per invalidated cache tag,
// keyed by the tag so invalidations of one tag stay ordered.
type InvalidationProducer struct {
	cl      ProducerClient
	encoder Encoder
	metrics *metrics.Registry
	now     func() time.Time
}

func NewInvalidationProducer(opts ...ProducerOpt) (InvalidationProducer, error) {
	const op = "NewInvalidationProducer"

	options := producerOpts{now: time.Now}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return InvalidationProducer{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if options.cl == nil || options.encoder == nil {
		if options.cl != nil {
			options.cl.Close()
		}
		return InvalidationProducer{}, fmt.Errorf("%s: %w", op, ErrTooFewOpts)
	}

	return InvalidationProducer{
		cl:      options.cl,
		encoder: options.encoder,
		metrics: options.metrics,
		now:     options.now,
	}, nil
}

func (p InvalidationProducer) Close() {
	const op = "InvalidationProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p InvalidationProducer) InvalidateTag(ctx context.Context, tag, topic string) error {
	const op = "InvalidationProducer.InvalidateTag"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r, err := p.createRecord(tag, topic)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := p.produce(ctx, r); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if p.metrics != nil {
		p.metrics.Invalidations.WithLabelValues(tag).Inc()
	}
	log.Info("invalidation published", "tag", tag, "topic", topic)
	return nil
}

func (p InvalidationProducer) createRecord(tag, topic string) (*kgo.Record, error) {
	const op = "InvalidationProducer.createRecord"

	s := schema.InvalidationV1{
		Tag:        tag,
		Topic:      topic,
		OccurredAt: p.now().UnixMilli(),
	}
	v, err := p.encoder.Encode(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &kgo.Record{Key: []byte(s.Tag), Value: v}, nil
}

func (p InvalidationProducer) produce(ctx context.Context, rs ...*kgo.Record) error {
	const op = "InvalidationProducer.produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
