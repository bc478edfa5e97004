package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/liftsync/cache"
	"github.com/briangreenhill/liftsync/internal/auth"
	"github.com/briangreenhill/liftsync/internal/hooks"
	"github.com/briangreenhill/liftsync/internal/http/routes"
	"github.com/briangreenhill/liftsync/internal/store"
	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

// session is one logged-in app instance: its own cache and hooks over the
// shared dev server.
type session struct {
	user  store.User
	hooks *hooks.Hooks

	mu          sync.Mutex
	invalidated []string
}

func (s *session) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.invalidated...)
}

func TestEndToEndSmoke(t *testing.T) {
	st := store.New()
	tokens := auth.TokenSigner{Secret: []byte("smoke")}
	srv := routes.New(routes.ServerOptions{Store: st, Tokens: tokens, Logger: zerolog.Nop()})
	ts := httptest.NewServer(srv.Router)
	defer ts.Close()

	login := func(name string) *session {
		u, err := st.AddUser(name)
		require.NoError(t, err)
		api, err := liftapi.New(liftapi.WithBaseURL(ts.URL+"/api"), liftapi.WithToken(tokens.Issue(u.ID, time.Hour)))
		require.NoError(t, err)
		s := &session{user: u}
		c := cache.New(cache.WithInvalidationListener(func(k cache.Key) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.invalidated = append(s.invalidated, k.String())
		}))
		s.hooks = hooks.New(c, api, nil)
		return s
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice := login("alice")
	bob := login("bob")

	// alice watches her friend list and pending requests for the whole test
	friends := alice.hooks.Friends()
	defer friends.Close()
	pending := alice.hooks.PendingRequests()
	defer pending.Close()
	res, err := friends.Wait(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Data)

	t.Log("Step 1: bob sends alice a friend request")
	_, err = bob.hooks.SendFriendRequest().Do(ctx, alice.user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{`["friends"]`}, bob.keys())

	t.Log("Step 2: alice accepts and both her queries refetch")
	require.NoError(t, alice.hooks.Cache().Refetch(ctx, hooks.PendingRequestsKey()))
	reqs := pending.Result().Data
	require.Len(t, reqs, 1)

	_, err = alice.hooks.AcceptFriendRequest().Do(ctx, reqs[0].RequestID)
	require.NoError(t, err)
	res, err = friends.Wait(ctx)
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "bob", res.Data[0].Username)
	pend, err := pending.Wait(ctx)
	require.NoError(t, err)
	assert.Empty(t, pend.Data)

	t.Log("Step 3: bob logs a workout, alice sees it in her feed")
	w, err := bob.hooks.CreateWorkout().Do(ctx, liftapi.WorkoutInput{
		Name: "Leg day",
		Exercises: []liftapi.WorkoutExercise{{
			ExerciseID: "squat",
			Sets:       []liftapi.WorkoutSet{{Completed: true}, {Completed: true}},
		}},
	})
	require.NoError(t, err)

	feed := alice.hooks.Feed(0, 0)
	defer feed.Close()
	page, err := feed.Wait(ctx)
	require.NoError(t, err)
	require.Len(t, page.Data.Items, 1)
	assert.Equal(t, 0, page.Data.Items[0].LikesCount)

	t.Log("Step 4: like then read the feed again")
	_, err = alice.hooks.LikeWorkout().Do(ctx, w.ID)
	require.NoError(t, err)
	page, err = feed.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Data.Items[0].LikesCount)
	assert.True(t, page.Data.Items[0].IsLikedByUser)

	t.Log("Step 5: comment refreshes both the thread and the feed")
	comments := alice.hooks.Comments(w.ID)
	defer comments.Close()
	_, err = comments.Wait(ctx)
	require.NoError(t, err)

	_, err = alice.hooks.AddComment().Do(ctx, hooks.CommentInput{WorkoutID: w.ID, Content: "deep squats"})
	require.NoError(t, err)
	thread, err := comments.Wait(ctx)
	require.NoError(t, err)
	require.Len(t, thread.Data, 1)
	assert.Equal(t, "deep squats", thread.Data[0].Content)
	page, err = feed.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Data.Items[0].CommentsCount)

	t.Log("Step 6: a failed mutation leaves the cache alone")
	before := len(alice.keys())
	_, err = alice.hooks.LikeWorkout().Do(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, liftapi.IsStatus(err, http.StatusNotFound))
	assert.Len(t, alice.keys(), before)

	t.Log("Step 7: bob's stats pick up the new workout")
	streakObs := bob.hooks.Streak()
	defer streakObs.Close()
	streak, err := streakObs.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.Data.Days)
}
