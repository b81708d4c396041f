// Package kafkaconsumer drains catalog-change events and purges the cached
// responses they invalidate.
package kafkaconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/skysurvey-io/sia-obscore/internal/cache"
	"github.com/skysurvey-io/sia-obscore/internal/cache/keys"
	"github.com/skysurvey-io/sia-obscore/internal/invalidation"
	"github.com/skysurvey-io/sia-obscore/internal/logger"
	"github.com/skysurvey-io/sia-obscore/internal/observability"
)

type Consumer struct {
	cfg    Config
	log    *zerolog.Logger
	cache  cache.Interface
	dedupe *versionDedupe
}

func New(cfg Config, log *zerolog.Logger, c cache.Interface) *Consumer {
	return &Consumer{
		cfg:    cfg,
		log:    log,
		cache:  c,
		dedupe: newVersionDedupe(cfg.DedupeSize),
	}
}

// Start consumes invalidation events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	if c.cache == nil {
		return errors.New("kafkaconsumer: cache is required")
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_1_0_0
	cfg.Consumer.Group.Session.Timeout = c.cfg.SessionTimeout
	cfg.Consumer.Group.Heartbeat.Interval = c.cfg.Heartbeat
	cfg.Consumer.Group.Rebalance.Timeout = c.cfg.RebalanceTimeout
	if c.cfg.InitialOffsetOldest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	cfg.Consumer.Offsets.AutoCommit.Enable = true

	group, err := sarama.NewConsumerGroup(c.cfg.Brokers, c.cfg.GroupID, cfg)
	if err != nil {
		return fmt.Errorf("create consumer group: %w", err)
	}
	defer func() { _ = group.Close() }()

	c.log.Info().
		Strs("brokers", c.cfg.Brokers).
		Str("topic", c.cfg.Topic).
		Str("group", c.cfg.GroupID).
		Msg("invalidation consumer starting")

	handler := &groupHandler{process: c.ProcessOne}

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("invalidation consumer shutting down")
			return nil
		default:
			if err := group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
				observability.IncConsumerError("consume")
				c.log.Error().Err(err).
					Strs("brokers", c.cfg.Brokers).
					Str("topic", c.cfg.Topic).
					Msg("kafka consumer error")
				time.Sleep(2 * time.Second)
			}
		}
	}
}

// ProcessOne handles a single event: decode, validate, drop replays, then
// purge the collection's tag plus the catch-all tag.
func (c *Consumer) ProcessOne(ctx context.Context, msg *sarama.ConsumerMessage) error {
	log := logger.FromContext(ctx, c.log)

	var ev invalidation.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		observability.IncConsumerError("decode")
		log.Error().Err(err).
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("invalidation event decode failed")
		// Undecodable messages are skipped rather than retried forever.
		return nil
	}
	if err := ev.Validate(); err != nil {
		observability.IncConsumerError("validate")
		log.Error().Err(err).
			Str("collection", ev.Collection).
			Str("op", ev.Op).
			Msg("invalidation event rejected")
		return nil
	}

	if c.dedupe.stale(ev.Collection, ev.Version) {
		log.Debug().
			Str("collection", ev.Collection).
			Uint64("version", ev.Version).
			Msg("stale invalidation version skipped")
		return nil
	}

	purged := 0
	for _, tag := range []string{keys.CollectionTag(ev.Collection), keys.TagAll} {
		n, err := c.cache.PurgeTag(ctx, tag)
		if err != nil {
			observability.IncConsumerError("purge")
			observability.ObserveInvalidation(ev.Op, err)
			return fmt.Errorf("purge tag %q: %w", tag, err)
		}
		purged += n
	}

	c.dedupe.mark(ev.Collection, ev.Version)
	observability.ObserveInvalidation(ev.Op, nil)
	log.Info().
		Str("op", ev.Op).
		Str("collection", ev.Collection).
		Uint64("version", ev.Version).
		Int("keys", purged).
		Msg("purged cached responses")
	return nil
}
