package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/metrics"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/twmb/franz-go/pkg/kgo"
)

var ErrTooFewOpts = errors.New("too few options")

const (
	pingAttempts = 5
	pingDelay    = 200 * time.Millisecond
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
	metrics *metrics.Registry
	now     func() time.Time
}

// ProducerClientOpt connects to seedBrokers and waits for them with a
// bounded number of pings. Extra client options, such as TLS dialing, are
// appended to the defaults.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, extra ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kgoOpts := append([]kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}, extra...)

		cl, err := kgo.NewClient(kgoOpts...)
		if err != nil {
			return err
		}

		if err := ping(ctx, cl); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ping(ctx context.Context, cl *kgo.Client) error {
	const op = "kafka.ping"
	log := slog.With("op", op)

	attempt := 0
	return retry.Do(ctx, retry.RetryConfig{
		MaxAttempts: pingAttempts,
		Backoff:     retry.ExponentialBackoff(pingDelay),
	}, func() error {
		attempt++
		err := cl.Ping(ctx)
		if err != nil {
			log.Warn("broker is not ready", "attempt", attempt, "err", err)
		}
		return err
	})
}

// ProducerRawClientOpt uses an already connected client.
func ProducerRawClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

// ProducerMetricsOpt counts published records per tag.
func ProducerMetricsOpt(m *metrics.Registry) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.metrics = m
		return nil
	}
}

func ProducerClockOpt(now func() time.Time) ProducerOpt {
	return func(opts *producerOpts) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		opts.now = now
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}
