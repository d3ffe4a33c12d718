package scoring

import "github.com/fitmatch/engine/internal/db"

// Verification scores profile completeness in [0, 100]. It feeds the
// "verified" signal shown alongside feed candidates; it never gates matching.
func Verification(u *db.User) int {
	score := 0

	if u.DisplayName != "" {
		score += 10
	}
	if len(u.Bio) >= 20 {
		score += 15
	}
	if u.AvatarURL != "" {
		score += 15
	}
	if u.AgeRange != "" {
		score += 5
	}
	if u.Gym != "" {
		score += 15
	}
	if u.HasCoordinates() {
		score += 10
	}
	if len(u.Goals) > 0 {
		score += 10
	}
	if _, ok := u.Level.Ordinal(); ok {
		score += 5
	}
	if u.TrainingStyle != "" {
		score += 5
	}
	if len(u.Availability) > 0 {
		score += 5
	}
	if len(u.Interests) > 0 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
