package behavior

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/rajasatyajit/roadside/internal/models"
	"github.com/rajasatyajit/roadside/pkg/utils"
)

// RequestWindow is the sliding window behind RequestsLast10Min
const RequestWindow = 10 * time.Minute

// Tracker keeps per-user request and cancellation counters in Redis.
// User IDs are hashed before they become keys.
type Tracker struct {
	redis *redis.Client
	now   func() time.Time
}

// NewTracker connects to Redis and verifies the connection
func NewTracker(redisURL string) (*Tracker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Tracker{redis: client, now: time.Now}, nil
}

// SetClock allows tests to control time
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

func (t *Tracker) Close() error { return t.redis.Close() }

// Ping checks Redis connectivity
func (t *Tracker) Ping(ctx context.Context) error {
	return t.redis.Ping(ctx).Err()
}

// Keys helpers
func requestKey(userID string) string { return "beh:req:" + utils.HashString(userID) }

func cancelKey(userID string, now time.Time) string {
	return fmt.Sprintf("beh:cancel:%s:%s", utils.HashString(userID), now.Format("20060102"))
}

func endOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// RecordRequest stores one request and returns the counters as they were
// before it, so the current request does not count against itself.
func (t *Tracker) RecordRequest(ctx context.Context, userID string) (models.BehaviorCounters, error) {
	now := t.now().UTC()
	rk := requestKey(userID)

	pipe := t.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, rk, "-inf", strconv.FormatInt(now.Add(-RequestWindow).UnixMilli(), 10))
	card := pipe.ZCard(ctx, rk)
	pipe.ZAdd(ctx, rk, redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
	pipe.Expire(ctx, rk, RequestWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.BehaviorCounters{}, fmt.Errorf("record request: %w", err)
	}

	cancels, err := t.cancels(ctx, userID, now)
	if err != nil {
		return models.BehaviorCounters{}, err
	}
	return models.BehaviorCounters{RequestsLast10Min: int(card.Val()), CancelsToday: cancels}, nil
}

// Counters returns the current counters without recording anything
func (t *Tracker) Counters(ctx context.Context, userID string) (models.BehaviorCounters, error) {
	now := t.now().UTC()
	from := "(" + strconv.FormatInt(now.Add(-RequestWindow).UnixMilli(), 10)
	n, err := t.redis.ZCount(ctx, requestKey(userID), from, "+inf").Result()
	if err != nil {
		return models.BehaviorCounters{}, fmt.Errorf("count requests: %w", err)
	}
	cancels, err := t.cancels(ctx, userID, now)
	if err != nil {
		return models.BehaviorCounters{}, err
	}
	return models.BehaviorCounters{RequestsLast10Min: int(n), CancelsToday: cancels}, nil
}

// RecordCancellation increments today's cancellation counter
func (t *Tracker) RecordCancellation(ctx context.Context, userID string) (int, error) {
	now := t.now().UTC()
	ck := cancelKey(userID, now)
	pipe := t.redis.TxPipeline()
	incr := pipe.Incr(ctx, ck)
	pipe.Expire(ctx, ck, endOfDay(now).Sub(now))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("record cancellation: %w", err)
	}
	return int(incr.Val()), nil
}

func (t *Tracker) cancels(ctx context.Context, userID string, now time.Time) (int, error) {
	val, err := t.redis.Get(ctx, cancelKey(userID, now)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get cancellations: %w", err)
	}
	return val, nil
}
