package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
)

// Invalidations are only useful while caches may still hold stale data.
var topicConfig = map[string]*string{
	"cleanup.policy":      kadm.StringPtr("delete"),
	"min.insync.replicas": kadm.StringPtr("2"),
	"retention.ms":        kadm.StringPtr(fmt.Sprint((24 * time.Hour).Milliseconds())),
}

func main() {
	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	cfg := config.Load()

	cl, err := createClient(cfg.Broker)
	if err != nil {
		printFail(err)
		return
	}
	defer cl.Close()

	topic := cfg.Broker.InvalidationTopic
	fmt.Printf("initializing topic %q...\n", topic)
	defer printComplete(time.Now())

	if err := makeTopics(sigCtx, cl, topic); err != nil {
		printFail(err)
	}
}

func createClient(b config.Broker) (*kadm.Client, error) {
	opts := []kgo.Opt{kgo.SeedBrokers(b.SeedBrokers...)}
	if b.TLS.CA != "" {
		tlsConfig, err := adapter.MakeTLSConfig(b.TLS.CA, b.TLS.Cert, b.TLS.Key)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
	}
	return kadm.NewOptClient(opts...)
}

func makeTopics(ctx context.Context, cl *kadm.Client, topics ...string) error {
	responses, err := cl.CreateTopics(
		ctx,
		partitions,
		replicationFactor,
		topicConfig,
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		if res.Err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, res.Err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}
