package hooks

import (
	"sort"

	"github.com/briangreenhill/liftsync/cache"
)

// Action names a state-changing remote call.
type Action string

const (
	ActionSendFriendRequest   Action = "send-friend-request"
	ActionAcceptFriendRequest Action = "accept-friend-request"
	ActionRejectFriendRequest Action = "reject-friend-request"
	ActionRemoveFriend        Action = "remove-friend"
	ActionLikeWorkout         Action = "like-workout"
	ActionUnlikeWorkout       Action = "unlike-workout"
	ActionAddComment          Action = "add-comment"
	ActionDeleteComment       Action = "delete-comment"
	ActionCreateWorkout       Action = "create-workout"
	ActionUpdateWorkout       Action = "update-workout"
	ActionDeleteWorkout       Action = "delete-workout"
	ActionCheckAchievements   Action = "check-achievements"
)

// Rule is the invalidation set of one action. Keys receives the id the
// action was called with (a workout id for comment actions, the workout id
// for workout updates) and returns the filters to invalidate on success.
type Rule struct {
	Action Action
	Keys   func(id string) []cache.Key
}

// Registry maps actions to their invalidation rules.
type Registry struct {
	rules map[Action]Rule
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[Action]Rule)}
}

// Register adds or replaces the rule for rule.Action.
func (r *Registry) Register(rule Rule) {
	r.rules[rule.Action] = rule
}

func (r *Registry) Rule(a Action) (Rule, bool) {
	rule, ok := r.rules[a]
	return rule, ok
}

// List returns the registered actions in name order.
func (r *Registry) List() []Action {
	out := make([]Action, 0, len(r.rules))
	for a := range r.rules {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys returns the keys a successful call of a invalidates. Unknown actions
// invalidate nothing.
func (r *Registry) Keys(a Action, id string) []cache.Key {
	rule, ok := r.rules[a]
	if !ok || rule.Keys == nil {
		return nil
	}
	return rule.Keys(id)
}

func fixed(keys ...func() cache.Key) func(string) []cache.Key {
	return func(string) []cache.Key {
		out := make([]cache.Key, 0, len(keys))
		for _, k := range keys {
			out = append(out, k())
		}
		return out
	}
}

// DefaultRules is the invalidation table of the app.
func DefaultRules() *Registry {
	r := NewRegistry()
	r.Register(Rule{Action: ActionSendFriendRequest, Keys: fixed(FriendsKey)})
	r.Register(Rule{Action: ActionAcceptFriendRequest, Keys: fixed(FriendsKey, PendingRequestsKey)})
	r.Register(Rule{Action: ActionRejectFriendRequest, Keys: fixed(PendingRequestsKey)})
	r.Register(Rule{Action: ActionRemoveFriend, Keys: fixed(FriendsKey)})
	r.Register(Rule{Action: ActionLikeWorkout, Keys: fixed(FeedPrefix)})
	r.Register(Rule{Action: ActionUnlikeWorkout, Keys: fixed(FeedPrefix)})
	r.Register(Rule{Action: ActionAddComment, Keys: func(workoutID string) []cache.Key {
		return []cache.Key{CommentsKey(workoutID), FeedPrefix()}
	}})
	r.Register(Rule{Action: ActionDeleteComment, Keys: func(workoutID string) []cache.Key {
		return []cache.Key{CommentsKey(workoutID), FeedPrefix()}
	}})
	r.Register(Rule{Action: ActionCreateWorkout, Keys: fixed(WorkoutsPrefix, StatsPrefix)})
	r.Register(Rule{Action: ActionUpdateWorkout, Keys: func(id string) []cache.Key {
		return []cache.Key{WorkoutsPrefix(), WorkoutKey(id), StatsPrefix()}
	}})
	r.Register(Rule{Action: ActionDeleteWorkout, Keys: fixed(WorkoutsPrefix, StatsPrefix)})
	r.Register(Rule{Action: ActionCheckAchievements, Keys: fixed(AchievementsKey)})
	return r
}
