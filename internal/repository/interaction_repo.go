package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitmatch/engine/internal/db"
	svcErr "github.com/fitmatch/engine/internal/errors"
	"github.com/fitmatch/engine/internal/utils/pagination"
)

// InteractionRepository provides data access for likes, passes and blocks.
type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(database *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: database}
}

// CreateLike inserts the (actor, recipient) like. Likes are append-only; a
// second insert for the same pair hits the composite PK and surfaces as
// errors.ErrAlreadyLiked. That is also the concurrency guard when two
// requests race on the same pair.
func (r *InteractionRepository) CreateLike(ctx context.Context, actorID, recipientID uint64) error {
	like := db.Like{ActorID: actorID, RecipientID: recipientID}
	err := r.db.WithContext(ctx).Create(&like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.ErrAlreadyLiked
	}
	return err
}

// HasLiked checks whether an actor has liked a recipient. Used both for the
// duplicate-like guard and the mutual-like check.
func (r *InteractionRepository) HasLiked(ctx context.Context, actorID, recipientID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("actor_id = ? AND recipient_id = ?", actorID, recipientID).
		Count(&count).Error
	return count > 0, err
}

// UpsertPass records a pass. Repeated passes overwrite the row, they are
// never an error.
func (r *InteractionRepository) UpsertPass(ctx context.Context, actorID, recipientID uint64) error {
	pass := db.Pass{ActorID: actorID, RecipientID: recipientID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}, {Name: "recipient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).
		Create(&pass).Error
}

// UpsertBlock records a block. Idempotent.
func (r *InteractionRepository) UpsertBlock(ctx context.Context, blockerID, blockedID uint64) error {
	block := db.Block{BlockerID: blockerID, BlockedID: blockedID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&block).Error
}

// ListOutgoingLikes returns the ids the actor has liked.
func (r *InteractionRepository) ListOutgoingLikes(ctx context.Context, actorID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("actor_id = ?", actorID).
		Pluck("recipient_id", &ids).Error
	return ids, err
}

// ListOutgoingPasses returns the ids the actor has passed on.
func (r *InteractionRepository) ListOutgoingPasses(ctx context.Context, actorID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Pass{}).
		Where("actor_id = ?", actorID).
		Pluck("recipient_id", &ids).Error
	return ids, err
}

// ListBlocksEitherDirection returns every id the user has blocked plus every
// id that has blocked the user. Either direction hides both parties from
// each other.
func (r *InteractionRepository) ListBlocksEitherDirection(ctx context.Context, userID uint64) ([]uint64, error) {
	var blocked []uint64
	if err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("blocker_id = ?", userID).
		Pluck("blocked_id", &blocked).Error; err != nil {
		return nil, err
	}

	var blockers []uint64
	if err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("blocked_id = ?", userID).
		Pluck("blocker_id", &blockers).Error; err != nil {
		return nil, err
	}

	return append(blocked, blockers...), nil
}

// IsBlockedEitherDirection checks a single pair.
func (r *InteractionRepository) IsBlockedEitherDirection(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// ListAdmirers returns likes received by the recipient, newest first,
// excluding actors the recipient explicitly passed on. Cursor-based
// pagination over (created_at DESC, actor_id DESC).
func (r *InteractionRepository) ListAdmirers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	var likes []db.Like

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.InvalidInput("invalid pagination token")
	}

	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.recipient_id = ?", recipientID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM passes p
				WHERE p.actor_id = ?
				  AND p.recipient_id = l.actor_id
			)`, recipientID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE (b.blocker_id = ? AND b.blocked_id = l.actor_id)
				   OR (b.blocker_id = l.actor_id AND b.blocked_id = ?)
			)`, recipientID, recipientID).
		Order("l.created_at DESC, l.actor_id DESC").
		Limit(limit + 1)

	if cursor.ActorID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(l.created_at < ? OR (l.created_at = ? AND l.actor_id < ?))",
			ts, ts, cursor.ActorID,
		)
	}

	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ActorID:     last.ActorID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		likes = likes[:limit]
	}

	return likes, nextToken, nil
}

// CountAdmirers counts likes received by the recipient, with the same
// exclusions as ListAdmirers. Used as the fallback behind the Redis counter.
func (r *InteractionRepository) CountAdmirers(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.recipient_id = ?", recipientID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM passes p
				WHERE p.actor_id = ?
				  AND p.recipient_id = l.actor_id
			)`, recipientID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE (b.blocker_id = ? AND b.blocked_id = l.actor_id)
				   OR (b.blocker_id = l.actor_id AND b.blocked_id = ?)
			)`, recipientID, recipientID).
		Count(&count).Error
	return count, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
