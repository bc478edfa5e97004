package liftapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(append([]Option{WithBaseURL(ts.URL + "/api"), WithToken("tok")}, opts...)...)
	require.NoError(t, err)
	return c
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New(WithBaseURL("/api"))
	require.Error(t, err)
}

func TestNewReportsUnparsableBaseURL(t *testing.T) {
	for _, raw := range []string{"://api.example.com", "http://[::1"} {
		c, err := New(WithBaseURL(raw))
		require.Error(t, err, raw)
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "invalid base url")
	}
}

func TestRequestsCarryAuthAndRequestID(t *testing.T) {
	reqs := make(chan *http.Request, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reqs <- r.Clone(context.Background())
		respond(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})

	friends, err := c.GetFriends(context.Background())
	require.NoError(t, err)
	assert.Empty(t, friends)
	assert.NotNil(t, friends)

	got := <-reqs
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/social/friends", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Len(t, got.Header.Get("X-Request-ID"), 36)
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestGetFeedSendsPaginationAndDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/social/feed", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		respond(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{{
				"_id":           "w1",
				"userId":        map[string]any{"_id": "u1", "username": "alice", "xp": 120},
				"name":          "Leg day",
				"date":          "2025-03-14T10:00:00Z",
				"exercises":     []any{},
				"xpEarned":      50,
				"likesCount":    3,
				"commentsCount": 1,
				"isLikedByUser": true,
			}},
			"pagination": map[string]any{"total": 11, "page": 2, "pages": 2},
		})
	})

	page, err := c.GetFeed(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, "w1", item.ID)
	assert.Equal(t, "alice", item.User.Username)
	assert.True(t, item.IsLikedByUser)
	assert.Equal(t, time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), item.Date)
	assert.Equal(t, Pagination{Total: 11, Page: 2, Pages: 2}, page.Pagination)
}

func TestNon2xxBecomesError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json message", http.StatusConflict, `{"success":false,"message":"already friends"}`, "already friends"},
		{"json error", http.StatusBadRequest, `{"error":"bad id"}`, "bad id"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
		{"empty", http.StatusInternalServerError, "", "500 Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.SendFriendRequest(context.Background(), "u42")
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, http.MethodPost, apiErr.Method)
			assert.Equal(t, "/social/friends/request", apiErr.Path)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestInvalidResponsePayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"username": "no id"}},
		})
	})

	_, err := c.GetFriends(context.Background())
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestInvalidRequestPayloadIsNotSent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	_, err := c.AddComment(context.Background(), "w1", "   ")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = c.SendFriendRequest(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = c.CreateWorkout(context.Background(), WorkoutInput{Name: "x", Visibility: "everyone"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestMissingIDIsRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	_, err := c.GetComments(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingID)
	assert.ErrorIs(t, c.UnlikeWorkout(context.Background(), " "), ErrMissingID)
	_, err = c.GetWorkout(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	paths := make(chan string, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteComment(context.Background(), "a/b"))
	assert.Equal(t, "/api/social/comments/a%2Fb", <-paths)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	_, err := c.GetStreak(context.Background())
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}
