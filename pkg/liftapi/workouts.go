package liftapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) GetWorkouts(ctx context.Context, q WorkoutsQuery) (WorkoutList, error) {
	items, pg, err := getList[Workout](ctx, c, "/workouts", q.Values())
	if err != nil {
		return WorkoutList{}, err
	}
	wl := WorkoutList{Items: items}
	if pg != nil {
		wl.Pagination = *pg
	}
	return wl, nil
}

func (c *Client) GetWorkout(ctx context.Context, workoutID string) (Workout, error) {
	id, err := escape(workoutID)
	if err != nil {
		return Workout{}, err
	}
	return getItem[Workout](ctx, c, http.MethodGet, "/workouts/"+id, nil, nil)
}

func (c *Client) CreateWorkout(ctx context.Context, in WorkoutInput) (Workout, error) {
	return getItem[Workout](ctx, c, http.MethodPost, "/workouts", nil, in)
}

func (c *Client) UpdateWorkout(ctx context.Context, workoutID string, in WorkoutUpdate) (Workout, error) {
	id, err := escape(workoutID)
	if err != nil {
		return Workout{}, err
	}
	return getItem[Workout](ctx, c, http.MethodPatch, "/workouts/"+id, nil, in)
}

func (c *Client) DeleteWorkout(ctx context.Context, workoutID string) error {
	id, err := escape(workoutID)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, "/workouts/"+id, nil, nil, nil)
}

// GetWorkoutStats summarizes the last days of training.
func (c *Client) GetWorkoutStats(ctx context.Context, days int) (WorkoutStats, error) {
	return getItem[WorkoutStats](ctx, c, http.MethodGet, "/workouts/stats",
		url.Values{"days": {strconv.Itoa(days)}}, nil)
}
