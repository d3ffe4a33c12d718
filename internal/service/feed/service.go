package feed

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fitmatch/engine/internal/app"
	"github.com/fitmatch/engine/internal/db"
	svcErr "github.com/fitmatch/engine/internal/errors"
	"github.com/fitmatch/engine/internal/geo"
	"github.com/fitmatch/engine/internal/metrics"
	"github.com/fitmatch/engine/internal/repository"
)

// Filters narrow the candidate pool beyond the geofence.
type Filters struct {
	// RadiusKm <= 0 falls back to the viewer's preferred radius, then the
	// configured default.
	RadiusKm    float64  `validate:"gte=0,lte=500"`
	Goals       []string `validate:"max=10"`
	Level       db.Level `validate:"omitempty,oneof=beginner intermediate advanced"`
	SameGymOnly bool
}

// Service builds ranked swipe feeds. Read-only: it never caches scores or
// pools across calls, every feed is computed fresh against the store.
type Service struct {
	appCtx       *app.AppContext
	users        *repository.UserRepository
	interactions *repository.InteractionRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		users:        repository.NewUserRepository(appCtx.DB),
		interactions: repository.NewInteractionRepository(appCtx.DB),
	}
}

// BuildFeed returns feed candidates for the viewer, ranked by compatibility
// score descending (ties: distance ascending, then id ascending, so results
// are reproducible).
//
// Excluded up front: the viewer, anyone the viewer liked or passed on, and
// blocks in either direction. Candidates without coordinates never appear.
//
// Honors the caller's deadline; without one the configured feed timeout
// applies. On expiry the result is ErrTimeout, never a silently truncated
// list.
func (s *Service) BuildFeed(ctx context.Context, viewerID uint64, f Filters) ([]Candidate, error) {
	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.appCtx.Config.Feed.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	viewer, err := s.users.GetUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	radius := f.RadiusKm
	if radius <= 0 {
		radius = viewer.PreferredRadiusKm
	}
	if radius <= 0 {
		radius = s.appCtx.Config.Feed.DefaultRadiusKm
	}

	vLat, vLng := s.appCtx.Config.Feed.DefaultLatitude, s.appCtx.Config.Feed.DefaultLongitude
	if viewer.HasCoordinates() {
		vLat, vLng = *viewer.Latitude, *viewer.Longitude
	}

	excluded, err := s.exclusionSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	pool, err := s.users.ListCandidates(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	var goalFilter map[string]struct{}
	if len(f.Goals) > 0 {
		goalFilter = make(map[string]struct{}, len(f.Goals))
		for _, g := range f.Goals {
			goalFilter[g] = struct{}{}
		}
	}

	candidates := make([]Candidate, 0, len(pool))
	for i := range pool {
		if err := ctx.Err(); err != nil {
			// aborted computation, not an empty result
			return nil, svcErr.ErrTimeout
		}

		cand := &pool[i]
		if _, skip := excluded[cand.ID]; skip {
			continue
		}
		if !cand.HasCoordinates() {
			continue
		}

		dist := geo.DistanceKm(vLat, vLng, *cand.Latitude, *cand.Longitude)
		if dist > radius {
			continue
		}
		if f.SameGymOnly && viewer.Gym != "" && !strings.EqualFold(viewer.Gym, cand.Gym) {
			continue
		}
		if goalFilter != nil && !hasAnyGoal(cand.Goals, goalFilter) {
			continue
		}
		if f.Level != "" && cand.Level != f.Level {
			continue
		}

		c := Project(cand, viewer)
		// distance from the effective viewpoint, which covers viewers
		// running on the configured fallback location
		rounded := geo.RoundKm(dist)
		c.Distance = &rounded

		metrics.RecordCompatibility(c.CompatibilityScore)
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.CompatibilityScore != b.CompatibilityScore {
			return a.CompatibilityScore > b.CompatibilityScore
		}
		if *a.Distance != *b.Distance {
			return *a.Distance < *b.Distance
		}
		return a.ID < b.ID
	})

	metrics.RecordFeedBuild(start, len(candidates))
	s.appCtx.Logger.Debug("feed built",
		"viewer", viewerID,
		"pool", len(pool),
		"returned", len(candidates),
		"radius_km", radius,
	)

	return candidates, nil
}

// exclusionSet is the viewer's outgoing likes and passes, blocks in either
// direction, and the viewer's own id.
func (s *Service) exclusionSet(ctx context.Context, viewerID uint64) (map[uint64]struct{}, error) {
	excluded := map[uint64]struct{}{viewerID: {}}

	liked, err := s.interactions.ListOutgoingLikes(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	passed, err := s.interactions.ListOutgoingPasses(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.interactions.ListBlocksEitherDirection(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	for _, ids := range [][]uint64{liked, passed, blocked} {
		for _, id := range ids {
			excluded[id] = struct{}{}
		}
	}
	return excluded, nil
}

func hasAnyGoal(goals db.StringList, filter map[string]struct{}) bool {
	for _, g := range goals {
		if _, ok := filter[g]; ok {
			return true
		}
	}
	return false
}
