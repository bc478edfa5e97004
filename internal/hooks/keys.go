package hooks

import (
	"github.com/briangreenhill/liftsync/cache"
	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

// Query keys. Every parameter that changes a result is part of its key;
// the prefixes are what mutations invalidate.

func FriendsKey() cache.Key { return cache.Key{"friends"} }

func PendingRequestsKey() cache.Key { return cache.Key{"pending-requests"} }

func UserSearchKey(q string) cache.Key { return cache.Key{"user-search", q} }

func FeedPrefix() cache.Key { return cache.Key{"feed"} }

func FeedKey(page, limit int) cache.Key { return cache.Key{"feed", page, limit} }

func CommentsKey(workoutID string) cache.Key { return cache.Key{"comments", workoutID} }

func WorkoutsPrefix() cache.Key { return cache.Key{"workouts"} }

func WorkoutsKey(q liftapi.WorkoutsQuery) cache.Key { return cache.Key{"workouts", q} }

func WorkoutKey(id string) cache.Key { return cache.Key{"workout", id} }

func StatsPrefix() cache.Key { return cache.Key{"stats"} }

func WorkoutStatsKey(days int) cache.Key { return cache.Key{"stats", "workouts", days} }

func DashboardKey() cache.Key { return cache.Key{"stats", "dashboard"} }

func StreakKey() cache.Key { return cache.Key{"stats", "streak"} }

func LeaderboardKey(limit int) cache.Key { return cache.Key{"stats", "leaderboard", limit} }

func ExerciseProgressKey(exerciseID string) cache.Key {
	return cache.Key{"stats", "progress", exerciseID}
}

func AchievementsKey() cache.Key { return cache.Key{"achievements"} }
