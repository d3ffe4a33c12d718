package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fitmatch/engine/internal/cache"
)

// MatchChannel is the Redis pub/sub channel the dispatcher side listens on.
const MatchChannel = "events:match"

// Notifier delivers "new match" events to the external notification
// dispatcher. Delivery is fire-and-forget: a failed notification must never
// fail the match that triggered it.
type Notifier interface {
	NotifyNewMatch(ctx context.Context, toUserID uint64, matchID string, fromDisplayName string)
}

// MatchEvent is the payload published for every created match.
type MatchEvent struct {
	ToUserID        uint64 `json:"toUserId"`
	MatchID         string `json:"matchId"`
	FromDisplayName string `json:"fromDisplayName"`
}

// RedisNotifier publishes match events to a Redis channel.
type RedisNotifier struct {
	cache *cache.RedisCache
	log   *slog.Logger
}

func NewRedisNotifier(c *cache.RedisCache, log *slog.Logger) *RedisNotifier {
	return &RedisNotifier{cache: c, log: log}
}

func (n *RedisNotifier) NotifyNewMatch(ctx context.Context, toUserID uint64, matchID string, fromDisplayName string) {
	payload, err := json.Marshal(MatchEvent{
		ToUserID:        toUserID,
		MatchID:         matchID,
		FromDisplayName: fromDisplayName,
	})
	if err != nil {
		n.log.Error("failed to marshal match event", "match_id", matchID, "err", err)
		return
	}

	if err := n.cache.Client.Publish(ctx, MatchChannel, payload).Err(); err != nil {
		// swallowed on purpose, see Notifier contract
		n.log.Warn("failed to publish match event", "match_id", matchID, "err", err)
	}
}

// Nop discards all events. Used in tests.
type Nop struct{}

func (Nop) NotifyNewMatch(context.Context, uint64, string, string) {}
