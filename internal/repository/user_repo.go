package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fitmatch/engine/internal/db"
	svcErr "github.com/fitmatch/engine/internal/errors"
	"github.com/fitmatch/engine/internal/scoring"
)

// DailyLikeAllotment is how many likes a non-premium account gets per
// UTC calendar day.
const DailyLikeAllotment = 10

// UserRepository provides data access for user records. The engine treats
// users as read-mostly input; only the quota columns are written here.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetUser loads a user by id. Returns errors.ErrNotFound for unknown ids so
// callers never have to know about gorm sentinels.
func (r *UserRepository) GetUser(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListCandidates returns every user with known coordinates except the viewer.
// Exclusion-set and geofence filtering happen in the feed service; fetching
// the located pool is the store's job.
func (r *UserRepository) ListCandidates(ctx context.Context, excludingID uint64) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("id <> ?", excludingID).
		Find(&users).Error
	return users, err
}

// ResetDailyLikesIfNeeded restores the daily allotment the first time any
// action touches a non-premium account on a new UTC calendar day.
//
// Policy: calendar day in UTC, not a rolling window and not the
// day-of-month-only comparison that breaks across month boundaries.
// The passed user struct is refreshed in place.
func (r *UserRepository) ResetDailyLikesIfNeeded(ctx context.Context, u *db.User) error {
	if u.IsPremium {
		return nil
	}

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !u.LastLikeReset.Before(midnight) {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"likes_remaining": DailyLikeAllotment,
			"last_like_reset": now,
		}).Error
	if err != nil {
		return err
	}

	u.LikesRemaining = DailyLikeAllotment
	u.LastLikeReset = now
	return nil
}

// RefreshVerificationScores recomputes the cached profile-completeness score
// for every user. Profile edits are owned by an external service, so this
// runs after seeding and could run as a periodic job.
func (r *UserRepository) RefreshVerificationScores(ctx context.Context) error {
	var users []db.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return err
	}
	for i := range users {
		score := scoring.Verification(&users[i])
		if score == users[i].VerificationScore {
			continue
		}
		err := r.db.WithContext(ctx).
			Model(&db.User{}).
			Where("id = ?", users[i].ID).
			UpdateColumn("verification_score", score).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// DecrementLikes spends one like, flooring at zero, and returns the new
// balance. The WHERE guard keeps likes_remaining non-negative even under
// concurrent spends.
func (r *UserRepository) DecrementLikes(ctx context.Context, id uint64) (int, error) {
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ? AND likes_remaining > 0", id).
		UpdateColumn("likes_remaining", gorm.Expr("likes_remaining - 1")).Error
	if err != nil {
		return 0, err
	}

	var remaining int
	err = r.db.WithContext(ctx).
		Model(&db.User{}).
		Select("likes_remaining").
		Where("id = ?", id).
		Scan(&remaining).Error
	return remaining, err
}
