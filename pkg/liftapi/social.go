package liftapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func (c *Client) GetFriends(ctx context.Context) ([]Friend, error) {
	items, _, err := getList[Friend](ctx, c, "/social/friends", nil)
	return items, err
}

func (c *Client) GetPendingRequests(ctx context.Context) ([]FriendRequest, error) {
	items, _, err := getList[FriendRequest](ctx, c, "/social/friends/requests", nil)
	return items, err
}

type friendRequestBody struct {
	RecipientID string `json:"recipientId" validate:"required"`
}

// SendFriendRequest asks userID to become a friend.
func (c *Client) SendFriendRequest(ctx context.Context, userID string) (Friendship, error) {
	return getItem[Friendship](ctx, c, http.MethodPost, "/social/friends/request", nil,
		friendRequestBody{RecipientID: strings.TrimSpace(userID)})
}

func (c *Client) AcceptFriendRequest(ctx context.Context, requestID string) (Friendship, error) {
	id, err := escape(requestID)
	if err != nil {
		return Friendship{}, err
	}
	return getItem[Friendship](ctx, c, http.MethodPost, "/social/friends/accept/"+id, nil, struct{}{})
}

func (c *Client) RejectFriendRequest(ctx context.Context, requestID string) error {
	id, err := escape(requestID)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, "/social/friends/reject/"+id, nil, nil, nil)
}

func (c *Client) RemoveFriend(ctx context.Context, friendID string) error {
	id, err := escape(friendID)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, "/social/friends/"+id, nil, nil, nil)
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]UserSearchResult, error) {
	items, _, err := getList[UserSearchResult](ctx, c, "/social/users/search", url.Values{"q": {query}})
	return items, err
}

// GetFeed returns one page of the friends feed. Pages start at 1.
func (c *Client) GetFeed(ctx context.Context, page, limit int) (FeedPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	items, pg, err := getList[FeedWorkout](ctx, c, "/social/feed", q)
	if err != nil {
		return FeedPage{}, err
	}
	fp := FeedPage{Items: items}
	if pg != nil {
		fp.Pagination = *pg
	}
	return fp, nil
}

func (c *Client) LikeWorkout(ctx context.Context, workoutID string) (Like, error) {
	id, err := escape(workoutID)
	if err != nil {
		return Like{}, err
	}
	return getItem[Like](ctx, c, http.MethodPost, "/social/workouts/"+id+"/like", nil, struct{}{})
}

func (c *Client) UnlikeWorkout(ctx context.Context, workoutID string) error {
	id, err := escape(workoutID)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, "/social/workouts/"+id+"/like", nil, nil, nil)
}

func (c *Client) GetComments(ctx context.Context, workoutID string) ([]Comment, error) {
	id, err := escape(workoutID)
	if err != nil {
		return nil, err
	}
	items, _, err := getList[Comment](ctx, c, "/social/workouts/"+id+"/comments", nil)
	return items, err
}

type commentBody struct {
	Content string `json:"content" validate:"required,max=500"`
}

func (c *Client) AddComment(ctx context.Context, workoutID, content string) (Comment, error) {
	id, err := escape(workoutID)
	if err != nil {
		return Comment{}, err
	}
	return getItem[Comment](ctx, c, http.MethodPost, "/social/workouts/"+id+"/comments", nil,
		commentBody{Content: strings.TrimSpace(content)})
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	id, err := escape(commentID)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, "/social/comments/"+id, nil, nil, nil)
}
