package redisad

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Feed fans write notifications out to live-query watchers via Redis
// Pub/Sub. Payloads carry no data; watchers re-run their query on every
// tick and push a fresh snapshot.
type Feed struct{ c *redis.Client }

func NewFeed(c *redis.Client) *Feed { return &Feed{c: c} }

func (f *Feed) Publish(ctx context.Context, channel string) error {
	return f.c.Publish(ctx, channel, "1").Err()
}

// Watch subscribes to channel and coalesces bursts into single ticks.
// The returned stop function closes the subscription; calling it more
// than once is safe.
func (f *Feed) Watch(ctx context.Context, channel string) (<-chan struct{}, func()) {
	ps := f.c.Subscribe(ctx, channel)
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		for range ps.Channel() {
			select {
			case out <- struct{}{}:
			default: // a tick is already pending; watcher will re-query anyway
			}
		}
	}()

	stop := func() {
		if err := ps.Close(); err != nil && err != redis.ErrClosed {
			log.Warn().Err(err).Str("channel", channel).Msg("feed unsubscribe failed")
		}
	}
	return out, stop
}
