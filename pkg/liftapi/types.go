package liftapi

import (
	"net/url"
	"strconv"
	"time"
)

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// UserRef is the populated user attached to feed items and comments.
type UserRef struct {
	ID       string `json:"_id" validate:"required"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
}

type Friend struct {
	UserID       string `json:"userId" validate:"required"`
	Username     string `json:"username"`
	XP           int    `json:"xp"`
	FriendshipID string `json:"friendshipId" validate:"required"`
}

type RequestUser struct {
	UserID   string `json:"userId" validate:"required"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
}

type FriendRequest struct {
	RequestID string      `json:"requestId" validate:"required"`
	User      RequestUser `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

type FriendshipStatus string

const (
	FriendshipNone     FriendshipStatus = "none"
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

type UserSearchResult struct {
	UserID           string           `json:"userId" validate:"required"`
	Username         string           `json:"username"`
	XP               int              `json:"xp"`
	FriendshipStatus FriendshipStatus `json:"friendshipStatus" validate:"omitempty,oneof=none pending accepted rejected blocked"`
}

// Friendship is the record returned by friend request actions.
type Friendship struct {
	ID          string           `json:"_id" validate:"required"`
	RequesterID string           `json:"requesterId"`
	RecipientID string           `json:"recipientId"`
	Status      FriendshipStatus `json:"status" validate:"omitempty,oneof=none pending accepted rejected blocked"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type FeedWorkout struct {
	ID            string            `json:"_id" validate:"required"`
	User          UserRef           `json:"userId"`
	Name          string            `json:"name"`
	Date          time.Time         `json:"date"`
	Exercises     []WorkoutExercise `json:"exercises" validate:"dive"`
	XPEarned      int               `json:"xpEarned"`
	LikesCount    int               `json:"likesCount" validate:"min=0"`
	CommentsCount int               `json:"commentsCount" validate:"min=0"`
	IsLikedByUser bool              `json:"isLikedByUser"`
}

type FeedPage struct {
	Items      []FeedWorkout
	Pagination Pagination
}

type Comment struct {
	ID        string    `json:"_id" validate:"required"`
	WorkoutID string    `json:"workoutId" validate:"required"`
	User      UserRef   `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Like struct {
	WorkoutID  string `json:"workoutId"`
	LikesCount int    `json:"likesCount"`
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityFriends Visibility = "friends"
	VisibilityPublic  Visibility = "public"
)

type WorkoutSet struct {
	Reps      *int     `json:"reps,omitempty" validate:"omitempty,min=0"`
	Weight    *float64 `json:"weight,omitempty" validate:"omitempty,min=0"`
	Duration  *int     `json:"duration,omitempty" validate:"omitempty,min=0"`
	Distance  *float64 `json:"distance,omitempty" validate:"omitempty,min=0"`
	Completed bool     `json:"completed"`
}

type WorkoutExercise struct {
	ExerciseID string       `json:"exerciseId" validate:"required"`
	Sets       []WorkoutSet `json:"sets" validate:"dive"`
	Notes      string       `json:"notes,omitempty"`
}

type Workout struct {
	ID         string            `json:"_id" validate:"required"`
	UserID     string            `json:"userId"`
	Name       string            `json:"name"`
	Date       time.Time         `json:"date"`
	Exercises  []WorkoutExercise `json:"exercises" validate:"dive"`
	Duration   int               `json:"duration,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	XPEarned   int               `json:"xpEarned"`
	Visibility Visibility        `json:"visibility,omitempty" validate:"omitempty,oneof=private friends public"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// WorkoutInput is the body of a create call.
type WorkoutInput struct {
	Name       string            `json:"name" validate:"required,max=100"`
	Date       *time.Time        `json:"date,omitempty"`
	Exercises  []WorkoutExercise `json:"exercises" validate:"dive"`
	Duration   int               `json:"duration,omitempty" validate:"min=0"`
	Notes      string            `json:"notes,omitempty" validate:"max=1000"`
	Visibility Visibility        `json:"visibility,omitempty" validate:"omitempty,oneof=private friends public"`
}

// WorkoutUpdate is a partial update; nil fields are left unchanged.
type WorkoutUpdate struct {
	Name       *string           `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Date       *time.Time        `json:"date,omitempty"`
	Exercises  []WorkoutExercise `json:"exercises,omitempty" validate:"omitempty,dive"`
	Duration   *int              `json:"duration,omitempty" validate:"omitempty,min=0"`
	Notes      *string           `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Visibility *Visibility       `json:"visibility,omitempty" validate:"omitempty,oneof=private friends public"`
}

// WorkoutsQuery filters a workout listing. It is comparable so it can be
// used as part of a cache key.
type WorkoutsQuery struct {
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	ExerciseID string `json:"exerciseId,omitempty"`
}

func (q WorkoutsQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.StartDate != "" {
		v.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("endDate", q.EndDate)
	}
	if q.ExerciseID != "" {
		v.Set("exerciseId", q.ExerciseID)
	}
	return v
}

type WorkoutList struct {
	Items      []Workout
	Pagination Pagination
}

type WorkoutStats struct {
	TotalWorkouts int     `json:"totalWorkouts" validate:"min=0"`
	TotalXP       int     `json:"totalXP"`
	TotalDuration int     `json:"totalDuration"`
	AvgDuration   float64 `json:"avgDuration"`
}

type OverallStats struct {
	TotalWorkouts int     `json:"totalWorkouts" validate:"min=0"`
	TotalXP       int     `json:"totalXP"`
	TotalDuration int     `json:"totalDuration"`
	AvgDuration   float64 `json:"avgDuration"`
	TotalSets     int     `json:"totalSets"`
}

type WeeklyStats struct {
	Workouts int `json:"workouts"`
	XPEarned int `json:"xpEarned"`
	Duration int `json:"duration"`
}

type DayCount struct {
	Date     string `json:"date"`
	Workouts int    `json:"workouts"`
	XP       int    `json:"xp"`
}

type DashboardUser struct {
	XP    int `json:"xp"`
	Level int `json:"level" validate:"min=1"`
}

type DashboardStats struct {
	Overall OverallStats  `json:"overall"`
	Weekly  WeeklyStats   `json:"weekly"`
	Chart   []DayCount    `json:"chart"`
	User    DashboardUser `json:"user"`
}

type Streak struct {
	Days int `json:"streak" validate:"min=0"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank" validate:"min=1"`
	UserID        string `json:"userId" validate:"required"`
	Username      string `json:"username"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	TotalWorkouts int    `json:"totalWorkouts"`
}

type ProgressPoint struct {
	Date      time.Time `json:"date"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	AvgWeight float64   `json:"avgWeight"`
	MaxWeight float64   `json:"maxWeight"`
	Volume    float64   `json:"volume"`
}

type PersonalRecords struct {
	MaxWeight float64 `json:"maxWeight"`
	MaxVolume float64 `json:"maxVolume"`
	MaxSets   int     `json:"maxSets"`
	MaxReps   int     `json:"maxReps"`
}

type ExerciseProgress struct {
	History         []ProgressPoint `json:"history"`
	PersonalRecords PersonalRecords `json:"personalRecords"`
}

type LocalizedText struct {
	EN string `json:"en"`
	ES string `json:"es,omitempty"`
}

type Achievement struct {
	Key         string        `json:"key" validate:"required"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Icon        string        `json:"icon,omitempty"`
	Category    string        `json:"category"`
	Requirement int           `json:"requirement" validate:"min=0"`
	XPReward    int           `json:"xpReward"`
	Rarity      string        `json:"rarity,omitempty"`
	Unlocked    bool          `json:"unlocked"`
	UnlockedAt  *time.Time    `json:"unlockedAt,omitempty"`
	Progress    int           `json:"progress"`
	Percentage  float64       `json:"percentage" validate:"min=0,max=100"`
}

type AchievementSummary struct {
	Achievements      []Achievement `json:"achievements" validate:"dive"`
	TotalUnlocked     int           `json:"totalUnlocked"`
	TotalAchievements int           `json:"totalAchievements"`
}
