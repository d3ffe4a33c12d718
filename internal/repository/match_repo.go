package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitmatch/engine/internal/db"
	"github.com/fitmatch/engine/internal/utils/pair"
)

// MatchRepository provides data access for matches. All methods normalize
// the pair, so callers may pass the two ids in any order.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// FindMatch returns the match for the pair, or nil when none exists.
func (r *MatchRepository) FindMatch(ctx context.Context, userA, userB uint64) (*db.Match, error) {
	a, b := pair.Normalize(userA, userB)

	var m db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMatchIfAbsent atomically creates the match for the pair. The unique
// index on the normalized pair plus OnConflict DoNothing makes this safe
// under concurrent reciprocal likes: the loser of the race gets the winner's
// row back with created=false instead of an error.
func (r *MatchRepository) CreateMatchIfAbsent(ctx context.Context, userA, userB uint64) (*db.Match, bool, error) {
	a, b := pair.Normalize(userA, userB)

	m := db.Match{
		ID:      uuid.NewString(),
		UserAID: a,
		UserBID: b,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
			DoNothing: true,
		}).
		Create(&m)
	if res.Error != nil {
		return nil, false, res.Error
	}

	if res.RowsAffected == 0 {
		existing, err := r.FindMatch(ctx, a, b)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return &m, true, nil
}

// DeleteMatch removes the match for the pair, if any. Called when either
// party blocks the other.
func (r *MatchRepository) DeleteMatch(ctx context.Context, userA, userB uint64) error {
	a, b := pair.Normalize(userA, userB)
	return r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Delete(&db.Match{}).Error
}
