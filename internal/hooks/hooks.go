// Package hooks binds the REST API to the query cache: read hooks return
// observers keyed by resource and parameters, mutation hooks perform an action
// and invalidate the keys its rule lists.
package hooks

import (
	"context"

	"github.com/briangreenhill/liftsync/cache"
	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

type SocialAPI interface {
	GetFriends(ctx context.Context) ([]liftapi.Friend, error)
	GetPendingRequests(ctx context.Context) ([]liftapi.FriendRequest, error)
	SendFriendRequest(ctx context.Context, userID string) (liftapi.Friendship, error)
	AcceptFriendRequest(ctx context.Context, requestID string) (liftapi.Friendship, error)
	RejectFriendRequest(ctx context.Context, requestID string) error
	RemoveFriend(ctx context.Context, friendID string) error
	SearchUsers(ctx context.Context, query string) ([]liftapi.UserSearchResult, error)
	GetFeed(ctx context.Context, page, limit int) (liftapi.FeedPage, error)
	LikeWorkout(ctx context.Context, workoutID string) (liftapi.Like, error)
	UnlikeWorkout(ctx context.Context, workoutID string) error
	GetComments(ctx context.Context, workoutID string) ([]liftapi.Comment, error)
	AddComment(ctx context.Context, workoutID, content string) (liftapi.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

type WorkoutAPI interface {
	GetWorkouts(ctx context.Context, q liftapi.WorkoutsQuery) (liftapi.WorkoutList, error)
	GetWorkout(ctx context.Context, workoutID string) (liftapi.Workout, error)
	CreateWorkout(ctx context.Context, in liftapi.WorkoutInput) (liftapi.Workout, error)
	UpdateWorkout(ctx context.Context, workoutID string, in liftapi.WorkoutUpdate) (liftapi.Workout, error)
	DeleteWorkout(ctx context.Context, workoutID string) error
	GetWorkoutStats(ctx context.Context, days int) (liftapi.WorkoutStats, error)
}

type StatsAPI interface {
	GetDashboard(ctx context.Context) (liftapi.DashboardStats, error)
	GetStreak(ctx context.Context) (liftapi.Streak, error)
	GetLeaderboard(ctx context.Context, limit int) ([]liftapi.LeaderboardEntry, error)
	GetExerciseProgress(ctx context.Context, exerciseID string) (liftapi.ExerciseProgress, error)
	GetAchievements(ctx context.Context) (liftapi.AchievementSummary, error)
	CheckAchievements(ctx context.Context) ([]liftapi.Achievement, error)
}

// API is everything the hooks call remotely. *liftapi.Client implements it.
type API interface {
	SocialAPI
	WorkoutAPI
	StatsAPI
}

var _ API = (*liftapi.Client)(nil)

// Hooks creates observers and mutations that share one cache.
type Hooks struct {
	cache *cache.Client
	api   API
	rules *Registry
}

// New returns hooks over c and api. A nil rules uses DefaultRules.
func New(c *cache.Client, api API, rules *Registry) *Hooks {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Hooks{cache: c, api: api, rules: rules}
}

func (h *Hooks) Cache() *cache.Client { return h.cache }

func (h *Hooks) Rules() *Registry { return h.rules }

func mutation[In, Out any](h *Hooks, a Action, id func(In) string, do func(context.Context, In) (Out, error)) *cache.Mutation[In, Out] {
	return cache.NewMutation(h.cache, cache.MutationOptions[In, Out]{
		Name: string(a),
		Do:   do,
		Invalidates: func(in In, _ Out) []cache.Key {
			return h.rules.Keys(a, id(in))
		},
	})
}

// noResult adapts a call that only reports an error.
func noResult[In any](fn func(context.Context, In) error) func(context.Context, In) (struct{}, error) {
	return func(ctx context.Context, in In) (struct{}, error) {
		return struct{}{}, fn(ctx, in)
	}
}

func self(id string) string { return id }

func none[In any](In) string { return "" }
