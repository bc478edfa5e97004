package hooks

import (
	"context"
	"strings"

	"github.com/briangreenhill/liftsync/cache"
	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

const (
	DefaultFeedPage  = 1
	DefaultFeedLimit = 20
)

func (h *Hooks) FriendsOptions() cache.QueryOptions[[]liftapi.Friend] {
	return cache.QueryOptions[[]liftapi.Friend]{
		Key:   FriendsKey(),
		Fetch: h.api.GetFriends,
	}
}

func (h *Hooks) Friends() *cache.Observer[[]liftapi.Friend] {
	return cache.Observe(h.cache, h.FriendsOptions())
}

func (h *Hooks) PendingRequestsOptions() cache.QueryOptions[[]liftapi.FriendRequest] {
	return cache.QueryOptions[[]liftapi.FriendRequest]{
		Key:   PendingRequestsKey(),
		Fetch: h.api.GetPendingRequests,
	}
}

func (h *Hooks) PendingRequests() *cache.Observer[[]liftapi.FriendRequest] {
	return cache.Observe(h.cache, h.PendingRequestsOptions())
}

// SearchUsersOptions is disabled while q is blank.
func (h *Hooks) SearchUsersOptions(q string) cache.QueryOptions[[]liftapi.UserSearchResult] {
	q = strings.TrimSpace(q)
	return cache.QueryOptions[[]liftapi.UserSearchResult]{
		Key: UserSearchKey(q),
		Fetch: func(ctx context.Context) ([]liftapi.UserSearchResult, error) {
			return h.api.SearchUsers(ctx, q)
		},
		Disabled: q == "",
	}
}

func (h *Hooks) SearchUsers(q string) *cache.Observer[[]liftapi.UserSearchResult] {
	return cache.Observe(h.cache, h.SearchUsersOptions(q))
}

// FeedOptions fills in page 1 and 20 items for non-positive arguments.
func (h *Hooks) FeedOptions(page, limit int) cache.QueryOptions[liftapi.FeedPage] {
	if page <= 0 {
		page = DefaultFeedPage
	}
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return cache.QueryOptions[liftapi.FeedPage]{
		Key: FeedKey(page, limit),
		Fetch: func(ctx context.Context) (liftapi.FeedPage, error) {
			return h.api.GetFeed(ctx, page, limit)
		},
	}
}

func (h *Hooks) Feed(page, limit int) *cache.Observer[liftapi.FeedPage] {
	return cache.Observe(h.cache, h.FeedOptions(page, limit))
}

// CommentsOptions is disabled for an empty workout id.
func (h *Hooks) CommentsOptions(workoutID string) cache.QueryOptions[[]liftapi.Comment] {
	return cache.QueryOptions[[]liftapi.Comment]{
		Key: CommentsKey(workoutID),
		Fetch: func(ctx context.Context) ([]liftapi.Comment, error) {
			return h.api.GetComments(ctx, workoutID)
		},
		Disabled: workoutID == "",
	}
}

func (h *Hooks) Comments(workoutID string) *cache.Observer[[]liftapi.Comment] {
	return cache.Observe(h.cache, h.CommentsOptions(workoutID))
}

func (h *Hooks) SendFriendRequest() *cache.Mutation[string, liftapi.Friendship] {
	return mutation(h, ActionSendFriendRequest, self, h.api.SendFriendRequest)
}

func (h *Hooks) AcceptFriendRequest() *cache.Mutation[string, liftapi.Friendship] {
	return mutation(h, ActionAcceptFriendRequest, self, h.api.AcceptFriendRequest)
}

func (h *Hooks) RejectFriendRequest() *cache.Mutation[string, struct{}] {
	return mutation(h, ActionRejectFriendRequest, self, noResult(h.api.RejectFriendRequest))
}

func (h *Hooks) RemoveFriend() *cache.Mutation[string, struct{}] {
	return mutation(h, ActionRemoveFriend, self, noResult(h.api.RemoveFriend))
}

func (h *Hooks) LikeWorkout() *cache.Mutation[string, liftapi.Like] {
	return mutation(h, ActionLikeWorkout, self, h.api.LikeWorkout)
}

func (h *Hooks) UnlikeWorkout() *cache.Mutation[string, struct{}] {
	return mutation(h, ActionUnlikeWorkout, self, noResult(h.api.UnlikeWorkout))
}

type CommentInput struct {
	WorkoutID string
	Content   string
}

func (h *Hooks) AddComment() *cache.Mutation[CommentInput, liftapi.Comment] {
	return mutation(h, ActionAddComment,
		func(in CommentInput) string { return in.WorkoutID },
		func(ctx context.Context, in CommentInput) (liftapi.Comment, error) {
			return h.api.AddComment(ctx, in.WorkoutID, in.Content)
		})
}

// CommentRef identifies a comment together with the workout it belongs to,
// whose comment list is refreshed after deletion.
type CommentRef struct {
	WorkoutID string
	CommentID string
}

func (h *Hooks) DeleteComment() *cache.Mutation[CommentRef, struct{}] {
	return mutation(h, ActionDeleteComment,
		func(in CommentRef) string { return in.WorkoutID },
		noResult(func(ctx context.Context, in CommentRef) error {
			return h.api.DeleteComment(ctx, in.CommentID)
		}))
}
