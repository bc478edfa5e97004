package hooks

import (
	"context"

	"github.com/briangreenhill/liftsync/cache"
	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

const DefaultLeaderboardLimit = 100

func (h *Hooks) DashboardOptions() cache.QueryOptions[liftapi.DashboardStats] {
	return cache.QueryOptions[liftapi.DashboardStats]{
		Key:   DashboardKey(),
		Fetch: h.api.GetDashboard,
	}
}

func (h *Hooks) Dashboard() *cache.Observer[liftapi.DashboardStats] {
	return cache.Observe(h.cache, h.DashboardOptions())
}

func (h *Hooks) StreakOptions() cache.QueryOptions[liftapi.Streak] {
	return cache.QueryOptions[liftapi.Streak]{
		Key:   StreakKey(),
		Fetch: h.api.GetStreak,
	}
}

func (h *Hooks) Streak() *cache.Observer[liftapi.Streak] {
	return cache.Observe(h.cache, h.StreakOptions())
}

func (h *Hooks) LeaderboardOptions(limit int) cache.QueryOptions[[]liftapi.LeaderboardEntry] {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	return cache.QueryOptions[[]liftapi.LeaderboardEntry]{
		Key: LeaderboardKey(limit),
		Fetch: func(ctx context.Context) ([]liftapi.LeaderboardEntry, error) {
			return h.api.GetLeaderboard(ctx, limit)
		},
	}
}

func (h *Hooks) Leaderboard(limit int) *cache.Observer[[]liftapi.LeaderboardEntry] {
	return cache.Observe(h.cache, h.LeaderboardOptions(limit))
}

func (h *Hooks) ExerciseProgressOptions(exerciseID string) cache.QueryOptions[liftapi.ExerciseProgress] {
	return cache.QueryOptions[liftapi.ExerciseProgress]{
		Key: ExerciseProgressKey(exerciseID),
		Fetch: func(ctx context.Context) (liftapi.ExerciseProgress, error) {
			return h.api.GetExerciseProgress(ctx, exerciseID)
		},
		Disabled: exerciseID == "",
	}
}

func (h *Hooks) ExerciseProgress(exerciseID string) *cache.Observer[liftapi.ExerciseProgress] {
	return cache.Observe(h.cache, h.ExerciseProgressOptions(exerciseID))
}

func (h *Hooks) AchievementsOptions() cache.QueryOptions[liftapi.AchievementSummary] {
	return cache.QueryOptions[liftapi.AchievementSummary]{
		Key:   AchievementsKey(),
		Fetch: h.api.GetAchievements,
	}
}

func (h *Hooks) Achievements() *cache.Observer[liftapi.AchievementSummary] {
	return cache.Observe(h.cache, h.AchievementsOptions())
}

// CheckAchievements asks the server to award anything newly earned.
func (h *Hooks) CheckAchievements() *cache.Mutation[struct{}, []liftapi.Achievement] {
	return mutation(h, ActionCheckAchievements, none[struct{}],
		func(ctx context.Context, _ struct{}) ([]liftapi.Achievement, error) {
			return h.api.CheckAchievements(ctx)
		})
}
