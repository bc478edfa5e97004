package store

import (
	"time"

	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

type category string

const (
	catWorkout category = "workout"
	catStreak  category = "streak"
	catSocial  category = "social"
	catSets    category = "sets"
	catXP      category = "xp"
)

// catalog is ordered by category, then requirement.
var catalog = []liftapi.Achievement{
	{Key: "first_workout", Name: liftapi.LocalizedText{EN: "First Steps", ES: "Primeros Pasos"}, Description: liftapi.LocalizedText{EN: "Complete your first workout"}, Icon: "fitness", Category: string(catWorkout), Requirement: 1, XPReward: 50, Rarity: "common"},
	{Key: "workout_10", Name: liftapi.LocalizedText{EN: "Getting Started", ES: "Comenzando"}, Description: liftapi.LocalizedText{EN: "Complete 10 workouts"}, Icon: "barbell", Category: string(catWorkout), Requirement: 10, XPReward: 100, Rarity: "common"},
	{Key: "workout_50", Name: liftapi.LocalizedText{EN: "Dedicated", ES: "Dedicado"}, Description: liftapi.LocalizedText{EN: "Complete 50 workouts"}, Icon: "medal", Category: string(catWorkout), Requirement: 50, XPReward: 300, Rarity: "rare"},
	{Key: "streak_3", Name: liftapi.LocalizedText{EN: "On Fire", ES: "En Llamas"}, Description: liftapi.LocalizedText{EN: "Train 3 days in a row"}, Icon: "flame", Category: string(catStreak), Requirement: 3, XPReward: 75, Rarity: "common"},
	{Key: "streak_7", Name: liftapi.LocalizedText{EN: "Week Warrior", ES: "Guerrero Semanal"}, Description: liftapi.LocalizedText{EN: "Train 7 days in a row"}, Icon: "calendar", Category: string(catStreak), Requirement: 7, XPReward: 150, Rarity: "rare"},
	{Key: "social_1", Name: liftapi.LocalizedText{EN: "Social Butterfly", ES: "Mariposa Social"}, Description: liftapi.LocalizedText{EN: "Add your first friend"}, Icon: "people", Category: string(catSocial), Requirement: 1, XPReward: 50, Rarity: "common"},
	{Key: "sets_100", Name: liftapi.LocalizedText{EN: "Set Crusher", ES: "Aplastador de Series"}, Description: liftapi.LocalizedText{EN: "Complete 100 sets"}, Icon: "layers", Category: string(catSets), Requirement: 100, XPReward: 150, Rarity: "rare"},
	{Key: "xp_1000", Name: liftapi.LocalizedText{EN: "Rising Star", ES: "Estrella Naciente"}, Description: liftapi.LocalizedText{EN: "Earn 1000 XP"}, Icon: "star", Category: string(catXP), Requirement: 1000, XPReward: 200, Rarity: "epic"},
}

func (s *Store) progressLocked(userID string) map[category]int {
	p := map[category]int{}
	for _, w := range s.ownWorkouts(userID, time.Time{}) {
		p[catWorkout]++
		p[catSets] += countSets(w.Exercises)
	}
	p[catStreak] = s.streakLocked(userID)
	p[catSocial] = len(s.friendIDs(userID))
	if u, ok := s.users[userID]; ok {
		p[catXP] = u.XP
	}
	return p
}

// Achievements returns the catalog annotated with the caller's progress.
func (s *Store) Achievements(userID string) liftapi.AchievementSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress := s.progressLocked(userID)
	unlocked := s.unlocked[userID]

	sum := liftapi.AchievementSummary{
		Achievements:      make([]liftapi.Achievement, 0, len(catalog)),
		TotalUnlocked:     len(unlocked),
		TotalAchievements: len(catalog),
	}
	for _, a := range catalog {
		cur := progress[category(a.Category)]
		a.Progress = min(cur, a.Requirement)
		a.Percentage = min(float64(cur)/float64(a.Requirement)*100, 100)
		if at, ok := unlocked[a.Key]; ok {
			a.Unlocked = true
			a.UnlockedAt = &at
		}
		sum.Achievements = append(sum.Achievements, a)
	}
	return sum
}

// CheckAchievements unlocks every achievement whose requirement the caller
// now meets, credits the rewards, and returns the newly unlocked ones.
func (s *Store) CheckAchievements(userID string) ([]liftapi.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	progress := s.progressLocked(userID)
	if s.unlocked[userID] == nil {
		s.unlocked[userID] = make(map[string]time.Time)
	}
	now := s.now()
	out := []liftapi.Achievement{}
	for _, a := range catalog {
		if _, done := s.unlocked[userID][a.Key]; done {
			continue
		}
		cur := progress[category(a.Category)]
		if cur < a.Requirement {
			continue
		}
		s.unlocked[userID][a.Key] = now
		u.XP += a.XPReward
		a.Unlocked, a.UnlockedAt = true, &now
		a.Progress, a.Percentage = a.Requirement, 100
		out = append(out, a)
	}
	return out, nil
}
