package swipe

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fitmatch/engine/internal/app"
	svcErr "github.com/fitmatch/engine/internal/errors"
	"github.com/fitmatch/engine/internal/metrics"
	"github.com/fitmatch/engine/internal/repository"
	"github.com/fitmatch/engine/internal/service/feed"
)

// PremiumLikesSentinel is returned as likesRemaining for premium accounts,
// which never spend quota.
const PremiumLikesSentinel = 999

const admirersPageSize = 20

// Service drives the like/pass/block state machine: daily quota, duplicate
// detection, mutual-like detection and exactly-once match creation.
type Service struct {
	appCtx       *app.AppContext
	users        *repository.UserRepository
	interactions *repository.InteractionRepository
	matches      *repository.MatchRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		users:        repository.NewUserRepository(appCtx.DB),
		interactions: repository.NewInteractionRepository(appCtx.DB),
		matches:      repository.NewMatchRepository(appCtx.DB),
	}
}

// MatchSummary is returned to the liker the moment a mutual like completes.
type MatchSummary struct {
	ID        string         `json:"id"`
	Profile   feed.Candidate `json:"profile"`
	CreatedAt time.Time      `json:"createdAt"`
}

// LikeResult is the outcome of a successful Like call.
type LikeResult struct {
	Liked          bool          `json:"liked"`
	IsMatch        bool          `json:"isMatch"`
	Match          *MatchSummary `json:"match,omitempty"`
	LikesRemaining int           `json:"likesRemaining"`
}

// Like records fromID liking toID.
//
// Failure modes, in order: ErrNotFound (unknown target, or a blocked pair —
// blocked targets are indistinguishable from missing ones on purpose),
// ErrQuotaExceeded (non-premium, no likes left today), ErrAlreadyLiked.
//
// The like insert and the quota decrement commit in one transaction, so a
// failed quota spend never leaves a like behind and the like row is durable
// before the mutual check runs. Match creation rides on the normalized-pair
// unique index, so two users liking each other concurrently still produce
// exactly one match. The "new match" notification is fire-and-forget.
func (s *Service) Like(ctx context.Context, fromID, toID uint64) (*LikeResult, error) {
	if fromID == toID {
		return nil, svcErr.InvalidInput("cannot like yourself")
	}

	from, err := s.users.GetUser(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if err := s.users.ResetDailyLikesIfNeeded(ctx, from); err != nil {
		return nil, err
	}

	to, err := s.users.GetUser(ctx, toID)
	if err != nil {
		metrics.RecordLike(metrics.OutcomeNotFound)
		return nil, err
	}

	blocked, err := s.interactions.IsBlockedEitherDirection(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if blocked {
		metrics.RecordLike(metrics.OutcomeNotFound)
		return nil, svcErr.ErrNotFound
	}

	if !from.IsPremium && from.LikesRemaining <= 0 {
		metrics.RecordLike(metrics.OutcomeQuotaExceeded)
		return nil, svcErr.ErrQuotaExceeded
	}

	already, err := s.interactions.HasLiked(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if already {
		metrics.RecordLike(metrics.OutcomeDuplicate)
		return nil, svcErr.ErrAlreadyLiked
	}

	likesRemaining := PremiumLikesSentinel
	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewInteractionRepository(tx).CreateLike(ctx, fromID, toID); err != nil {
			return err
		}
		if !from.IsPremium {
			remaining, err := repository.NewUserRepository(tx).DecrementLikes(ctx, fromID)
			if err != nil {
				return err
			}
			likesRemaining = remaining
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, svcErr.ErrAlreadyLiked) {
			// lost a race against an identical request
			metrics.RecordLike(metrics.OutcomeDuplicate)
		} else {
			metrics.RecordLike(metrics.OutcomeError)
		}
		return nil, err
	}
	metrics.RecordLike(metrics.OutcomeOK)

	// best-effort counter bump for the recipient's "liked you" badge
	if err := s.appCtx.RedisCache.IncrAdmirerCount(ctx, toID); err != nil {
		s.appCtx.Logger.Warn("failed to bump admirer count", "user", toID, "err", err)
	}

	result := &LikeResult{Liked: true, LikesRemaining: likesRemaining}

	reciprocal, err := s.interactions.HasLiked(ctx, toID, fromID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return result, nil
	}

	match, created, err := s.matches.CreateMatchIfAbsent(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	result.IsMatch = true
	result.Match = &MatchSummary{
		ID:        match.ID,
		CreatedAt: match.CreatedAt,
		// pre-decrement viewer: `from` was loaded before the quota spend
		Profile: feed.Project(to, from),
	}

	if created {
		metrics.RecordMatch()
		s.appCtx.Logger.Info("match created", "match_id", match.ID, "user_a", match.UserAID, "user_b", match.UserBID)

		notifyCtx := context.WithoutCancel(ctx)
		go s.appCtx.Notifier.NotifyNewMatch(notifyCtx, to.ID, match.ID, from.DisplayName)
	}

	return result, nil
}

// Pass records fromID passing on toID. Idempotent: repeat passes are fine.
func (s *Service) Pass(ctx context.Context, fromID, toID uint64) error {
	if fromID == toID {
		return svcErr.InvalidInput("cannot pass on yourself")
	}

	if _, err := s.users.GetUser(ctx, toID); err != nil {
		return err
	}

	if err := s.interactions.UpsertPass(ctx, fromID, toID); err != nil {
		return err
	}
	metrics.RecordPass()

	// the pass may remove an admirer from the actor's own "liked you" list
	if err := s.appCtx.RedisCache.InvalidateAdmirerCount(ctx, fromID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate admirer count", "user", fromID, "err", err)
	}

	return nil
}

// Block records fromID blocking toID and destroys any existing match between
// the two. After this, both users are invisible to each other.
func (s *Service) Block(ctx context.Context, fromID, toID uint64) error {
	if fromID == toID {
		return svcErr.InvalidInput("cannot block yourself")
	}

	if _, err := s.users.GetUser(ctx, toID); err != nil {
		return err
	}

	if err := s.interactions.UpsertBlock(ctx, fromID, toID); err != nil {
		return err
	}
	if err := s.matches.DeleteMatch(ctx, fromID, toID); err != nil {
		return err
	}
	metrics.RecordBlock()

	if err := s.appCtx.RedisCache.InvalidateAdmirerCount(ctx, fromID, toID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate admirer counts", "err", err)
	}

	return nil
}

// Admirer is one incoming like in the "liked you" listing.
type Admirer struct {
	UserID  uint64 `json:"userId"`
	LikedAt int64  `json:"likedAt"` // unix millis
}

// ListAdmirers returns users who liked userID, newest first, excluding
// anyone userID passed on or is blocked with. Cursor-based pagination.
func (s *Service) ListAdmirers(ctx context.Context, userID uint64, paginationToken *string) ([]Admirer, *string, error) {
	likes, nextToken, err := s.interactions.ListAdmirers(ctx, userID, paginationToken, admirersPageSize)
	if err != nil {
		return nil, nil, err
	}

	admirers := make([]Admirer, 0, len(likes))
	for _, l := range likes {
		admirers = append(admirers, Admirer{
			UserID:  l.ActorID,
			LikedAt: l.CreatedAt.UnixMilli(),
		})
	}
	return admirers, nextToken, nil
}

// CountAdmirers returns how many users liked userID.
// Cache-first: Redis with a 1h TTL, DB fallback repopulates the key.
func (s *Service) CountAdmirers(ctx context.Context, userID uint64) (int64, error) {
	if n, ok, err := s.appCtx.RedisCache.GetAdmirerCount(ctx, userID); err == nil && ok {
		return n, nil
	}

	count, err := s.interactions.CountAdmirers(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.appCtx.RedisCache.SetAdmirerCount(ctx, userID, count); err != nil {
		s.appCtx.Logger.Warn("failed to cache admirer count", "user", userID, "err", err)
	}
	return count, nil
}
