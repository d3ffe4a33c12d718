package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	seedGyms   = []string{"Basic-Fit", "SportCity", "TrainMore", "Fit For Free", ""}
	seedGoals  = []string{"muscle_building", "powerlifting", "weight_loss", "cardio", "mobility", "crossfit"}
	seedLevels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
	seedStyles = []string{"strength", "hiit", "crossfit", "calisthenics"}
	seedDays   = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	seedSlots  = []string{"morning", "noon", "evening"}
)

// SeedDemoData resets the database and populates it with demo profiles
// clustered around Amsterdam, plus a spread of likes/passes with some
// guaranteed mutual pairs. Cached verification scores are filled afterwards
// by UserRepository.RefreshVerificationScores.
func SeedDemoData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"matches", "blocks", "passes", "likes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if db.Dialector.Name() == "mysql" {
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	const userCount = 20
	for i := 1; i <= userCount; i++ {
		// jitter within ~10 km of Amsterdam centrum
		lat := 52.3676 + (r.Float64()-0.5)*0.15
		lng := 4.9041 + (r.Float64()-0.5)*0.2

		u := User{
			Username:      fmt.Sprintf("user%d", i),
			Email:         fmt.Sprintf("user%d@example.com", i),
			PasswordHash:  string(hash),
			DisplayName:   fmt.Sprintf("Demo User %d", i),
			Bio:           "Looking for a consistent training partner near me.",
			AvatarURL:     fmt.Sprintf("https://cdn.example.com/avatars/%d.jpg", i),
			AgeRange:      "25-34",
			Latitude:      &lat,
			Longitude:     &lng,
			Gym:           seedGyms[r.Intn(len(seedGyms))],
			Level:         seedLevels[r.Intn(len(seedLevels))],
			TrainingStyle: seedStyles[r.Intn(len(seedStyles))],
			IsPremium:     i%7 == 0,
			LastLikeReset: time.Now().UTC(),
		}

		for _, g := range seedGoals {
			if r.Intn(2) == 0 {
				u.Goals = append(u.Goals, g)
			}
		}
		for _, g := range seedGoals {
			if r.Intn(3) == 0 {
				u.Interests = append(u.Interests, g)
			}
		}
		for _, d := range seedDays {
			if r.Intn(2) == 0 {
				entry := AvailabilityEntry{Day: d}
				for _, s := range seedSlots {
					if r.Intn(2) == 0 {
						entry.Slots = append(entry.Slots, s)
					}
				}
				if len(entry.Slots) > 0 {
					u.Availability = append(u.Availability, entry)
				}
			}
		}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Printf("Seeded %d users.", userCount)

	// Likes and passes: ~70% likes, every 3rd like made mutual.
	counter := 0
	for actor := uint64(1); actor <= userCount; actor++ {
		for j := 0; j < 6; j++ {
			recipient := uint64(r.Intn(userCount) + 1)
			if actor == recipient {
				continue
			}

			if r.Intn(100) < 70 {
				like := Like{ActorID: actor, RecipientID: recipient}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
					return fmt.Errorf("failed to seed like: %w", err)
				}
				if counter%3 == 0 {
					recip := Like{ActorID: recipient, RecipientID: actor}
					if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&recip).Error; err != nil {
						return fmt.Errorf("failed to seed reciprocal like: %w", err)
					}
				}
			} else {
				pass := Pass{ActorID: actor, RecipientID: recipient}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&pass).Error; err != nil {
					return fmt.Errorf("failed to seed pass: %w", err)
				}
			}
			counter++
		}
	}

	return nil
}
