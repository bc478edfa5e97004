package liftapi

import (
	"context"
	"net/http"
)

func (c *Client) GetAchievements(ctx context.Context) (AchievementSummary, error) {
	return getItem[AchievementSummary](ctx, c, http.MethodGet, "/achievements", nil, nil)
}

// CheckAchievements asks the server to evaluate progress and returns the
// achievements unlocked by this call.
func (c *Client) CheckAchievements(ctx context.Context) ([]Achievement, error) {
	var env listEnvelope[Achievement]
	if err := c.doJSON(ctx, http.MethodPost, "/achievements/check", nil, struct{}{}, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []Achievement{}
	}
	return env.Data, nil
}
