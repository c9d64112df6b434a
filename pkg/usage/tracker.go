package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Feature names used as usage counter keys.
const (
	FeatureChat      = "chat"
	FeatureWebSearch = "web_search"
)

// counterTTL keeps yesterday's counter around long enough for reporting
// before redis expires it.
const counterTTL = 48 * time.Hour

// Tracker counts per-user daily feature usage in redis. Counters are keyed
// (user, feature, day) and incremented atomically so concurrent chat turns
// never lose a count.
type Tracker struct {
	rdb *redis.Client
}

func NewTracker(rdb *redis.Client) *Tracker {
	return &Tracker{rdb: rdb}
}

func key(userID, feature string, day time.Time) string {
	return fmt.Sprintf("usage:%s:%s:%s", userID, feature, day.UTC().Format("2006-01-02"))
}

// Increment bumps today's counter for (user, feature). INCR creates the key
// when missing, which gives upsert semantics in a single round trip.
func (t *Tracker) Increment(ctx context.Context, userID, feature string) error {
	k := key(userID, feature, time.Now())

	pipe := t.rdb.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment usage %s: %w", k, err)
	}
	return nil
}

// CountToday returns today's usage for (user, feature). A missing key reads
// as zero.
func (t *Tracker) CountToday(ctx context.Context, userID, feature string) (int64, error) {
	k := key(userID, feature, time.Now())

	n, err := t.rdb.Get(ctx, k).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read usage %s: %w", k, err)
	}
	return n, nil
}
