package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

// fakeAPI records every call and serves a tiny in-memory state. When err is
// set every call fails with it.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	likes map[string]int
	err   error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{likes: map[string]int{}}
}

func (f *fakeAPI) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) GetFriends(ctx context.Context) ([]liftapi.Friend, error) {
	if err := f.record("GetFriends"); err != nil {
		return nil, err
	}
	return []liftapi.Friend{{UserID: "friend1", Username: "ana", FriendshipID: "fs1"}}, nil
}

func (f *fakeAPI) GetPendingRequests(ctx context.Context) ([]liftapi.FriendRequest, error) {
	return []liftapi.FriendRequest{}, f.record("GetPendingRequests")
}

func (f *fakeAPI) SendFriendRequest(ctx context.Context, userID string) (liftapi.Friendship, error) {
	if err := f.record("SendFriendRequest(%s)", userID); err != nil {
		return liftapi.Friendship{}, err
	}
	return liftapi.Friendship{ID: "req1", RecipientID: userID, Status: liftapi.FriendshipPending}, nil
}

func (f *fakeAPI) AcceptFriendRequest(ctx context.Context, requestID string) (liftapi.Friendship, error) {
	if err := f.record("AcceptFriendRequest(%s)", requestID); err != nil {
		return liftapi.Friendship{}, err
	}
	return liftapi.Friendship{ID: requestID, Status: liftapi.FriendshipAccepted}, nil
}

func (f *fakeAPI) RejectFriendRequest(ctx context.Context, requestID string) error {
	return f.record("RejectFriendRequest(%s)", requestID)
}

func (f *fakeAPI) RemoveFriend(ctx context.Context, friendID string) error {
	return f.record("RemoveFriend(%s)", friendID)
}

func (f *fakeAPI) SearchUsers(ctx context.Context, query string) ([]liftapi.UserSearchResult, error) {
	return []liftapi.UserSearchResult{}, f.record("SearchUsers(%s)", query)
}

func (f *fakeAPI) GetFeed(ctx context.Context, page, limit int) (liftapi.FeedPage, error) {
	if err := f.record("GetFeed(%d,%d)", page, limit); err != nil {
		return liftapi.FeedPage{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return liftapi.FeedPage{Items: []liftapi.FeedWorkout{{
		ID:            "w1",
		Name:          "Push day",
		LikesCount:    f.likes["w1"],
		IsLikedByUser: f.likes["w1"] > 0,
	}}}, nil
}

func (f *fakeAPI) LikeWorkout(ctx context.Context, workoutID string) (liftapi.Like, error) {
	if err := f.record("LikeWorkout(%s)", workoutID); err != nil {
		return liftapi.Like{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes[workoutID]++
	return liftapi.Like{WorkoutID: workoutID, LikesCount: f.likes[workoutID]}, nil
}

func (f *fakeAPI) UnlikeWorkout(ctx context.Context, workoutID string) error {
	return f.record("UnlikeWorkout(%s)", workoutID)
}

func (f *fakeAPI) GetComments(ctx context.Context, workoutID string) ([]liftapi.Comment, error) {
	return []liftapi.Comment{}, f.record("GetComments(%s)", workoutID)
}

func (f *fakeAPI) AddComment(ctx context.Context, workoutID, content string) (liftapi.Comment, error) {
	if err := f.record("AddComment(%s,%s)", workoutID, content); err != nil {
		return liftapi.Comment{}, err
	}
	return liftapi.Comment{ID: "c1", WorkoutID: workoutID, Content: content}, nil
}

func (f *fakeAPI) DeleteComment(ctx context.Context, commentID string) error {
	return f.record("DeleteComment(%s)", commentID)
}

func (f *fakeAPI) GetWorkouts(ctx context.Context, q liftapi.WorkoutsQuery) (liftapi.WorkoutList, error) {
	return liftapi.WorkoutList{}, f.record("GetWorkouts(%d,%d)", q.Page, q.Limit)
}

func (f *fakeAPI) GetWorkout(ctx context.Context, workoutID string) (liftapi.Workout, error) {
	return liftapi.Workout{ID: workoutID}, f.record("GetWorkout(%s)", workoutID)
}

func (f *fakeAPI) CreateWorkout(ctx context.Context, in liftapi.WorkoutInput) (liftapi.Workout, error) {
	return liftapi.Workout{ID: "w9", Name: in.Name}, f.record("CreateWorkout(%s)", in.Name)
}

func (f *fakeAPI) UpdateWorkout(ctx context.Context, workoutID string, in liftapi.WorkoutUpdate) (liftapi.Workout, error) {
	return liftapi.Workout{ID: workoutID}, f.record("UpdateWorkout(%s)", workoutID)
}

func (f *fakeAPI) DeleteWorkout(ctx context.Context, workoutID string) error {
	return f.record("DeleteWorkout(%s)", workoutID)
}

func (f *fakeAPI) GetWorkoutStats(ctx context.Context, days int) (liftapi.WorkoutStats, error) {
	return liftapi.WorkoutStats{}, f.record("GetWorkoutStats(%d)", days)
}

func (f *fakeAPI) GetDashboard(ctx context.Context) (liftapi.DashboardStats, error) {
	return liftapi.DashboardStats{}, f.record("GetDashboard")
}

func (f *fakeAPI) GetStreak(ctx context.Context) (liftapi.Streak, error) {
	return liftapi.Streak{Days: 3}, f.record("GetStreak")
}

func (f *fakeAPI) GetLeaderboard(ctx context.Context, limit int) ([]liftapi.LeaderboardEntry, error) {
	return []liftapi.LeaderboardEntry{}, f.record("GetLeaderboard(%d)", limit)
}

func (f *fakeAPI) GetExerciseProgress(ctx context.Context, exerciseID string) (liftapi.ExerciseProgress, error) {
	return liftapi.ExerciseProgress{}, f.record("GetExerciseProgress(%s)", exerciseID)
}

func (f *fakeAPI) GetAchievements(ctx context.Context) (liftapi.AchievementSummary, error) {
	return liftapi.AchievementSummary{}, f.record("GetAchievements")
}

func (f *fakeAPI) CheckAchievements(ctx context.Context) ([]liftapi.Achievement, error) {
	return []liftapi.Achievement{}, f.record("CheckAchievements")
}
