package feed

import (
	"github.com/fitmatch/engine/internal/db"
	"github.com/fitmatch/engine/internal/geo"
	"github.com/fitmatch/engine/internal/scoring"
)

// Candidate is the public-facing projection of a user record, the shape
// swipe-feed clients render. Never persisted.
type Candidate struct {
	ID                 uint64              `json:"id"`
	DisplayName        string              `json:"displayName"`
	Bio                string              `json:"bio,omitempty"`
	AvatarURL          string              `json:"avatarUrl,omitempty"`
	AgeRange           string              `json:"ageRange,omitempty"`
	Gym                string              `json:"gym,omitempty"`
	Goals              []string            `json:"goals"`
	Level              db.Level            `json:"level,omitempty"`
	TrainingStyle      string              `json:"trainingStyle,omitempty"`
	Interests          []string            `json:"interests"`
	Availability       db.AvailabilityList `json:"availability"`
	VerificationScore  int                 `json:"verificationScore"`
	Distance           *float64            `json:"distance"` // km, one decimal; null without coordinates
	CompatibilityScore int                 `json:"compatibilityScore"`
}

// Project builds the public profile view of user. With a viewer attached it
// also carries distance (when both sides have coordinates) and the
// compatibility score. Neither record is mutated.
func Project(user *db.User, viewer *db.User) Candidate {
	c := Candidate{
		ID:                user.ID,
		DisplayName:       user.DisplayName,
		Bio:               user.Bio,
		AvatarURL:         user.AvatarURL,
		AgeRange:          user.AgeRange,
		Gym:               user.Gym,
		Goals:             append([]string(nil), user.Goals...),
		Level:             user.Level,
		TrainingStyle:     user.TrainingStyle,
		Interests:         append([]string(nil), user.Interests...),
		Availability:      append(db.AvailabilityList(nil), user.Availability...),
		VerificationScore: scoring.Verification(user),
	}

	if viewer == nil {
		return c
	}

	if viewer.HasCoordinates() && user.HasCoordinates() {
		d := geo.RoundKm(geo.DistanceKm(*viewer.Latitude, *viewer.Longitude, *user.Latitude, *user.Longitude))
		c.Distance = &d
	}
	c.CompatibilityScore = scoring.Compatibility(viewer, user)

	return c
}
