package feed_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitmatch/engine/internal/app"
	"github.com/fitmatch/engine/internal/cache"
	"github.com/fitmatch/engine/internal/config"
	"github.com/fitmatch/engine/internal/db"
	svcErr "github.com/fitmatch/engine/internal/errors"
	"github.com/fitmatch/engine/internal/geo"
	"github.com/fitmatch/engine/internal/notify"
	"github.com/fitmatch/engine/internal/repository"
	"github.com/fitmatch/engine/internal/service/feed"
)

const (
	amsLat = 52.3676
	amsLng = 4.9041
)

func setupService(t *testing.T) (*feed.Service, *gorm.DB, *repository.InteractionRepository) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(gdb, cache.NewRedisCache(cfg), logger, notify.Nop{}, cfg)

	return feed.NewService(appCtx), gdb, repository.NewInteractionRepository(gdb)
}

func seedUser(t *testing.T, gdb *gorm.DB, id uint64, lat, lng float64, opts ...func(*db.User)) db.User {
	t.Helper()
	u := db.User{
		ID:             id,
		Username:       fmt.Sprintf("user%d", id),
		Email:          fmt.Sprintf("u%d@test.com", id),
		PasswordHash:   "x",
		DisplayName:    fmt.Sprintf("User %d", id),
		Latitude:       &lat,
		Longitude:      &lng,
		LikesRemaining: repository.DailyLikeAllotment,
		LastLikeReset:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&u)
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func seedUserNoCoords(t *testing.T, gdb *gorm.DB, id uint64, opts ...func(*db.User)) db.User {
	t.Helper()
	u := db.User{
		ID:           id,
		Username:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("u%d@test.com", id),
		PasswordHash: "x",
	}
	for _, opt := range opts {
		opt(&u)
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func feedIDs(candidates []feed.Candidate) []uint64 {
	ids := make([]uint64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestBuildFeed_ExcludesInteractedUsers(t *testing.T) {
	ctx := context.Background()
	svc, gdb, interactions := setupService(t)

	seedUser(t, gdb, 1, amsLat, amsLng)
	seedUser(t, gdb, 2, amsLat+0.005, amsLng)       // plain candidate
	seedUser(t, gdb, 3, amsLat+0.005, amsLng+0.005) // liked
	seedUser(t, gdb, 4, amsLat-0.005, amsLng)       // passed
	seedUser(t, gdb, 5, amsLat, amsLng+0.005)       // blocked by viewer
	seedUser(t, gdb, 6, amsLat, amsLng-0.005)       // blocks the viewer

	require.NoError(t, interactions.CreateLike(ctx, 1, 3))
	require.NoError(t, interactions.UpsertPass(ctx, 1, 4))
	require.NoError(t, interactions.UpsertBlock(ctx, 1, 5))
	require.NoError(t, interactions.UpsertBlock(ctx, 6, 1))

	candidates, err := svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10})
	require.NoError(t, err)

	ids := feedIDs(candidates)
	assert.Equal(t, []uint64{2}, ids)
}

func TestBuildFeed_RadiusBoundary(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	viewer := seedUser(t, gdb, 1, amsLat, amsLng)
	cand := seedUser(t, gdb, 2, amsLat+0.05, amsLng)

	d := geo.DistanceKm(*viewer.Latitude, *viewer.Longitude, *cand.Latitude, *cand.Longitude)

	// candidate at exactly the radius is included
	candidates, err := svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: d})
	require.NoError(t, err)
	assert.Len(t, candidates, 1)

	// a hair beyond the radius is excluded
	candidates, err = svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: d - 0.001})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestBuildFeed_GeofenceScenario(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	seedUser(t, gdb, 1, amsLat, amsLng)
	seedUser(t, gdb, 2, 52.3766, 4.9141) // ~1 km away
	seedUser(t, gdb, 3, 51.9244, 4.4777) // Rotterdam, ~57 km away

	candidates, err := svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10})
	require.NoError(t, err)

	ids := feedIDs(candidates)
	assert.Contains(t, ids, uint64(2))
	assert.NotContains(t, ids, uint64(3))

	require.NotNil(t, candidates[0].Distance)
	assert.InDelta(t, 1.2, *candidates[0].Distance, 0.5)
}

func TestBuildFeed_OptionalFilters(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	seedUser(t, gdb, 1, amsLat, amsLng, func(u *db.User) {
		u.Gym = "Basic-Fit"
	})
	seedUser(t, gdb, 2, amsLat+0.005, amsLng, func(u *db.User) {
		u.Gym = "basic-fit" // same gym, different case
		u.Goals = db.StringList{"powerlifting"}
		u.Level = db.LevelAdvanced
	})
	seedUser(t, gdb, 3, amsLat-0.005, amsLng, func(u *db.User) {
		u.Gym = "SportCity"
		u.Goals = db.StringList{"cardio"}
		u.Level = db.LevelBeginner
	})

	candidates, err := svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10, SameGymOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, feedIDs(candidates))

	candidates, err = svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10, Goals: []string{"cardio", "mobility"}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, feedIDs(candidates))

	candidates, err = svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10, Level: db.LevelAdvanced})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, feedIDs(candidates))
}

func TestBuildFeed_RankedByCompatibility(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	seedUser(t, gdb, 1, amsLat, amsLng, func(u *db.User) {
		u.Gym = "Basic-Fit"
		u.Goals = db.StringList{"muscle_building", "powerlifting"}
		u.Level = db.LevelIntermediate
	})
	// twin profile: top score
	seedUser(t, gdb, 2, amsLat+0.01, amsLng, func(u *db.User) {
		u.Gym = "Basic-Fit"
		u.Goals = db.StringList{"muscle_building", "powerlifting"}
		u.Level = db.LevelIntermediate
	})
	// different gym: strictly lower
	seedUser(t, gdb, 3, amsLat+0.005, amsLng, func(u *db.User) {
		u.Gym = "SportCity"
		u.Goals = db.StringList{"muscle_building", "powerlifting"}
		u.Level = db.LevelIntermediate
	})
	// nothing in common
	seedUser(t, gdb, 4, amsLat-0.005, amsLng)

	candidates, err := svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10})
	require.NoError(t, err)

	require.Equal(t, []uint64{2, 3, 4}, feedIDs(candidates))
	assert.GreaterOrEqual(t, candidates[0].CompatibilityScore, 70)
	assert.Greater(t, candidates[0].CompatibilityScore, candidates[1].CompatibilityScore)
	assert.Greater(t, candidates[1].CompatibilityScore, candidates[2].CompatibilityScore)
}

func TestBuildFeed_TieBreakIsDeterministic(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	seedUser(t, gdb, 1, amsLat, amsLng)
	// identical blank profiles, same score; 3 is closer than 2
	seedUser(t, gdb, 2, amsLat+0.02, amsLng)
	seedUser(t, gdb, 3, amsLat+0.005, amsLng)
	// same distance as 2: id breaks the tie
	seedUser(t, gdb, 4, amsLat-0.02, amsLng)

	candidates, err := svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2, 4}, feedIDs(candidates))
}

func TestBuildFeed_ViewerWithoutLocationUsesDefault(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	// config default viewpoint is Amsterdam centrum
	seedUserNoCoords(t, gdb, 1)
	seedUser(t, gdb, 2, amsLat+0.005, amsLng)
	seedUser(t, gdb, 3, 51.9244, 4.4777) // Rotterdam

	candidates, err := svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, feedIDs(candidates))
}

func TestBuildFeed_ViewerNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.BuildFeed(ctx, 42, feed.Filters{})
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestBuildFeed_ExpiredDeadline(t *testing.T) {
	svc, gdb, _ := setupService(t)
	seedUser(t, gdb, 1, amsLat, amsLng)
	seedUser(t, gdb, 2, amsLat+0.005, amsLng)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := svc.BuildFeed(ctx, 1, feed.Filters{RadiusKm: 10})
	require.Error(t, err)

	apiErr := svcErr.Map(err)
	assert.Equal(t, "TIMEOUT", apiErr.Code)
}

func TestProject_WithoutViewer(t *testing.T) {
	lat, lng := amsLat, amsLng
	u := &db.User{
		ID:          9,
		DisplayName: "Solo",
		Latitude:    &lat,
		Longitude:   &lng,
		Goals:       db.StringList{"cardio"},
	}

	c := feed.Project(u, nil)
	assert.Equal(t, uint64(9), c.ID)
	assert.Nil(t, c.Distance)
	assert.Zero(t, c.CompatibilityScore)
}

func TestProject_DistanceNullWithoutViewerCoords(t *testing.T) {
	lat, lng := amsLat, amsLng
	user := &db.User{ID: 2, Latitude: &lat, Longitude: &lng}
	viewer := &db.User{ID: 1}

	c := feed.Project(user, viewer)
	assert.Nil(t, c.Distance)
}
