package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
)

const DefaultChannel = "teammatch:changes"

const (
	minResubscribeDelay = 500 * time.Millisecond
	maxResubscribeDelay = 30 * time.Second
)

// RedisPublisher broadcasts changes to every API instance over a Redis
// pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode change: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}
	return nil
}

// Subscriber relays changes received on the channel to a local notifier,
// normally this instance's websocket hub.
type Subscriber struct {
	rdb     *redis.Client
	channel string
	local   domain.Notifier
	logger  *zap.Logger

	minDelay time.Duration
	maxDelay time.Duration
}

func NewSubscriber(rdb *redis.Client, channel string, local domain.Notifier, logger *zap.Logger) *Subscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Subscriber{
		rdb:     rdb,
		channel: channel,
		local:    local,
		logger:   logger,
		minDelay: minResubscribeDelay,
		maxDelay: maxResubscribeDelay,
	}
}

// Run subscribes once and blocks until ctx is cancelled or the
// subscription ends. ready, if non-nil, is closed once the subscription is
// confirmed.
func (s *Subscriber) Run(ctx context.Context, ready chan<- struct{}) error {
	return s.run(ctx, func() {
		if ready != nil {
			close(ready)
		}
	})
}

// Listen keeps the subscription alive until ctx is cancelled, resubscribing
// with capped exponential backoff whenever Redis is unreachable or the
// subscription drops. ready, if non-nil, is closed after the first
// successful subscription.
func (s *Subscriber) Listen(ctx context.Context, ready chan<- struct{}) {
	var once sync.Once
	delay := s.minDelay
	for {
		err := s.run(ctx, func() {
			delay = s.minDelay
			once.Do(func() {
				if ready != nil {
					close(ready)
				}
			})
		})
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("Change subscription lost, retrying",
			zap.String("channel", s.channel),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = min(delay*2, s.maxDelay)
	}
}

func (s *Subscriber) run(ctx context.Context, subscribed func()) error {
	sub := s.rdb.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}
	subscribed()
	s.logger.Info("Subscribed to change channel", zap.String("channel", s.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("subscription to %s closed", s.channel)
			}
			var ev domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.logger.Warn("Dropping malformed change", zap.Error(err))
				continue
			}
			if err := s.local.Publish(ctx, ev); err != nil {
				s.logger.Warn("Failed to relay change", zap.String("kind", string(ev.Kind)), zap.Error(err))
			}
		}
	}
}
