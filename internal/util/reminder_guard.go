package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReminderGuard ensures each user receives at most one reminder per local
// day. It is backed by redis SetNX with a TTL; when redis is unreachable
// the guard fails open so reminders are never silently dropped.
type ReminderGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewReminderGuard(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ReminderGuard {
	return &ReminderGuard{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to acquire the once-per-day slot for a user and local
// date. Returns true if this is the first reminder today, false on a
// duplicate.
func (g *ReminderGuard) AcquireOnce(ctx context.Context, userID int, localDate string) bool {
	key := fmt.Sprintf("reminder:%d:%s", userID, localDate)

	ok, err := g.rdb.SetNX(ctx, key, 1, g.ttl).Result()
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("Redis reminder guard check failed, allowing send",
				zap.Int("user_id", userID),
				zap.String("date", localDate),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && g.logger != nil {
		g.logger.Info("Skipped duplicated reminder",
			zap.Int("user_id", userID),
			zap.String("date", localDate),
			zap.String("guard_key", key),
		)
	}

	return ok
}
