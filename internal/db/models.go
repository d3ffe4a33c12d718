package db

import (
	"time"
)

// Level is the self-reported experience level. The three values are ordered;
// compatibility scoring uses ordinal distance between them.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Ordinal returns the position of the level on the beginner..advanced scale.
// ok is false for the empty (unset) level or unknown values.
func (l Level) Ordinal() (int, bool) {
	switch l {
	case LevelBeginner:
		return 0, true
	case LevelIntermediate:
		return 1, true
	case LevelAdvanced:
		return 2, true
	}
	return 0, false
}

// StringList is a JSON-serialized string set column. Parsing happens once at
// the store boundary instead of inside scoring logic.
type StringList []string

// AvailabilityEntry maps a weekday to the time slots the user trains in.
type AvailabilityEntry struct {
	Day   string     `json:"day"`
	Slots StringList `json:"slots"`
}

type AvailabilityList []AvailabilityEntry

// User table. Read-mostly input to the engine; the quota fields
// (LikesRemaining, LastLikeReset) are the only columns the engine writes.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	DisplayName string `gorm:"size:64"`
	Bio         string `gorm:"size:1024"`
	AvatarURL   string `gorm:"size:255"`
	AgeRange    string `gorm:"size:16"`

	// Both set or both null.
	Latitude  *float64
	Longitude *float64

	Gym               string           `gorm:"size:128"`
	Goals             StringList       `gorm:"serializer:json;type:text"`
	Level             Level            `gorm:"size:16"`
	TrainingStyle     string           `gorm:"size:32"`
	Interests         StringList       `gorm:"serializer:json;type:text"`
	Availability      AvailabilityList `gorm:"serializer:json;type:text"`
	PreferredRadiusKm float64          `gorm:"default:10"`

	IsPremium         bool `gorm:"default:false"`
	LikesRemaining    int  `gorm:"not null;default:10"`
	LastLikeReset     time.Time
	VerificationScore int

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// HasCoordinates reports whether the profile carries a usable location.
func (u *User) HasCoordinates() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// Like is an actor's like of a recipient. Append-only, never updated:
// the unique pair constraint is what makes duplicate likes detectable and
// what the mutual-like check relies on.
//
// Composite PK: (ActorID, RecipientID).
// idx_recipient_created(recipient_id, created_at DESC, actor_id) serves the
// "who liked me" listing with cursor pagination.
type Like struct {
	ActorID     uint64    `gorm:"primaryKey"`
	RecipientID uint64    `gorm:"primaryKey;index:idx_recipient_created,priority:1"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_recipient_created,priority:2,sort:desc"`
}

// Pass is an actor's pass on a recipient. Idempotent upsert: repeated passes
// overwrite the row rather than duplicating it.
type Pass struct {
	ActorID     uint64    `gorm:"primaryKey"`
	RecipientID uint64    `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Block is directional, but either direction hides both users from each
// other's feed and destroys any existing match between them.
type Block struct {
	BlockerID uint64    `gorm:"primaryKey"`
	BlockedID uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match is created exactly once per unordered user pair the instant both
// directions of Like exist. UserAID < UserBID always (normalized pair); the
// unique composite index is what enforces exactly-once under concurrent
// reciprocal likes.
type Match struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserAID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	UserBID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
