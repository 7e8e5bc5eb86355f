//go:build integration

package syncwatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dedezuli/mocha-API-sub002/internal/mockcore"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/config"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/kafka"
	"github.com/Dedezuli/mocha-API-sub002/internal/syncwatch"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
	"github.com/Dedezuli/mocha-API-sub002/pkg/testutil"
	"github.com/Dedezuli/mocha-API-sub002/pkg/testutil/containers"
)

func TestWatcherAgainstBroker(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	ctx := testutil.Context(t)
	cfg := config.KafkaConfig{
		Brokers:   []string{rp.Broker},
		SyncTopic: "legacy.customer.sync",
		GroupID:   "syncwatch-it",
	}
	require.NoError(t, kafka.EnsureTopic(ctx, cfg.Brokers, cfg.SyncTopic, 1))
	require.NoError(t, kafka.EnsureTopic(ctx, cfg.Brokers, cfg.SyncTopic, 1), "existing topic is not an error")

	producer, err := kafka.NewProducer(cfg.Brokers)
	require.NoError(t, err)
	t.Cleanup(producer.Close)
	require.NoError(t, producer.Ping(ctx))
	publisher := mockcore.NewKafkaPublisher(producer, cfg.SyncTopic)

	watcher, err := syncwatch.New(cfg)
	require.NoError(t, err)
	t.Cleanup(watcher.Close)
	go func() { _ = watcher.Run(ctx) }()

	require.NoError(t, publisher.Publish(ctx, newcore.SyncEvent{
		Type:       newcore.EventCustomerRegistered,
		CustomerID: "it-customer",
		Email:      "test.integration@investree.id",
		OccurredAt: time.Now().UTC(),
	}))

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	got, err := watcher.WaitFor(waitCtx, "it-customer", newcore.EventCustomerRegistered)
	require.NoError(t, err)
	assert.Equal(t, "test.integration@investree.id", got.Email)
}
