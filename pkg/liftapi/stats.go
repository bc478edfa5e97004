package liftapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) GetDashboard(ctx context.Context) (DashboardStats, error) {
	return getItem[DashboardStats](ctx, c, http.MethodGet, "/stats/overview", nil, nil)
}

func (c *Client) GetStreak(ctx context.Context) (Streak, error) {
	return getItem[Streak](ctx, c, http.MethodGet, "/stats/streak", nil, nil)
}

func (c *Client) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	items, _, err := getList[LeaderboardEntry](ctx, c, "/stats/leaderboard",
		url.Values{"limit": {strconv.Itoa(limit)}})
	return items, err
}

func (c *Client) GetExerciseProgress(ctx context.Context, exerciseID string) (ExerciseProgress, error) {
	id, err := escape(exerciseID)
	if err != nil {
		return ExerciseProgress{}, err
	}
	return getItem[ExerciseProgress](ctx, c, http.MethodGet, "/stats/progress/"+id, nil, nil)
}
