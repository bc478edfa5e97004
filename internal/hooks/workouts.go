package hooks

import (
	"context"

	"github.com/briangreenhill/liftsync/cache"
	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

const DefaultStatsDays = 30

func (h *Hooks) WorkoutsOptions(q liftapi.WorkoutsQuery) cache.QueryOptions[liftapi.WorkoutList] {
	return cache.QueryOptions[liftapi.WorkoutList]{
		Key: WorkoutsKey(q),
		Fetch: func(ctx context.Context) (liftapi.WorkoutList, error) {
			return h.api.GetWorkouts(ctx, q)
		},
	}
}

func (h *Hooks) Workouts(q liftapi.WorkoutsQuery) *cache.Observer[liftapi.WorkoutList] {
	return cache.Observe(h.cache, h.WorkoutsOptions(q))
}

func (h *Hooks) WorkoutOptions(id string) cache.QueryOptions[liftapi.Workout] {
	return cache.QueryOptions[liftapi.Workout]{
		Key: WorkoutKey(id),
		Fetch: func(ctx context.Context) (liftapi.Workout, error) {
			return h.api.GetWorkout(ctx, id)
		},
		Disabled: id == "",
	}
}

func (h *Hooks) Workout(id string) *cache.Observer[liftapi.Workout] {
	return cache.Observe(h.cache, h.WorkoutOptions(id))
}

func (h *Hooks) WorkoutStatsOptions(days int) cache.QueryOptions[liftapi.WorkoutStats] {
	if days <= 0 {
		days = DefaultStatsDays
	}
	return cache.QueryOptions[liftapi.WorkoutStats]{
		Key: WorkoutStatsKey(days),
		Fetch: func(ctx context.Context) (liftapi.WorkoutStats, error) {
			return h.api.GetWorkoutStats(ctx, days)
		},
	}
}

func (h *Hooks) WorkoutStats(days int) *cache.Observer[liftapi.WorkoutStats] {
	return cache.Observe(h.cache, h.WorkoutStatsOptions(days))
}

func (h *Hooks) CreateWorkout() *cache.Mutation[liftapi.WorkoutInput, liftapi.Workout] {
	return mutation(h, ActionCreateWorkout, none[liftapi.WorkoutInput], h.api.CreateWorkout)
}

// WorkoutPatch is the input of UpdateWorkout.
type WorkoutPatch struct {
	ID     string
	Update liftapi.WorkoutUpdate
}

func (h *Hooks) UpdateWorkout() *cache.Mutation[WorkoutPatch, liftapi.Workout] {
	return mutation(h, ActionUpdateWorkout,
		func(in WorkoutPatch) string { return in.ID },
		func(ctx context.Context, in WorkoutPatch) (liftapi.Workout, error) {
			return h.api.UpdateWorkout(ctx, in.ID, in.Update)
		})
}

func (h *Hooks) DeleteWorkout() *cache.Mutation[string, struct{}] {
	return mutation(h, ActionDeleteWorkout, self, noResult(h.api.DeleteWorkout))
}
