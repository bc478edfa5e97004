package store

import (
	"sort"
	"time"

	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

const day = 24 * time.Hour

// level is 1 for the first 100 XP and one more per further 100.
func level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/100 + 1
}

func (s *Store) ownWorkouts(userID string, since time.Time) []*workout {
	var list []*workout
	for _, w := range s.workouts {
		if w.UserID == userID && !w.Date.Before(since) {
			list = append(list, w)
		}
	}
	sortNewestFirst(list)
	return list
}

func (s *Store) WorkoutStats(userID string, days int) liftapi.WorkoutStats {
	if days <= 0 {
		days = 30
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st liftapi.WorkoutStats
	for _, w := range s.ownWorkouts(userID, s.now().Add(-time.Duration(days)*day)) {
		st.TotalWorkouts++
		st.TotalXP += w.XPEarned
		st.TotalDuration += w.Duration
	}
	if st.TotalWorkouts > 0 {
		st.AvgDuration = float64(st.TotalDuration) / float64(st.TotalWorkouts)
	}
	return st
}

func (s *Store) Dashboard(userID string) (liftapi.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return liftapi.DashboardStats{}, ErrNotFound
	}
	now := s.now()

	var d liftapi.DashboardStats
	for _, w := range s.ownWorkouts(userID, time.Time{}) {
		d.Overall.TotalWorkouts++
		d.Overall.TotalXP += w.XPEarned
		d.Overall.TotalDuration += w.Duration
		d.Overall.TotalSets += countSets(w.Exercises)
	}
	if d.Overall.TotalWorkouts > 0 {
		d.Overall.AvgDuration = float64(d.Overall.TotalDuration) / float64(d.Overall.TotalWorkouts)
	}
	for _, w := range s.ownWorkouts(userID, now.Add(-7*day)) {
		d.Weekly.Workouts++
		d.Weekly.XPEarned += w.XPEarned
		d.Weekly.Duration += w.Duration
	}

	byDay := map[string]*liftapi.DayCount{}
	for _, w := range s.ownWorkouts(userID, now.Add(-30*day)) {
		key := w.Date.Format(dateLayout)
		dc, ok := byDay[key]
		if !ok {
			dc = &liftapi.DayCount{Date: key}
			byDay[key] = dc
		}
		dc.Workouts++
		dc.XP += w.XPEarned
	}
	d.Chart = make([]liftapi.DayCount, 0, len(byDay))
	for _, dc := range byDay {
		d.Chart = append(d.Chart, *dc)
	}
	sort.Slice(d.Chart, func(i, j int) bool { return d.Chart[i].Date < d.Chart[j].Date })

	d.User = liftapi.DashboardUser{XP: u.XP, Level: level(u.XP)}
	return d, nil
}

// Streak counts consecutive training days ending today or yesterday.
func (s *Store) Streak(userID string) liftapi.Streak {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return liftapi.Streak{Days: s.streakLocked(userID)}
}

func (s *Store) streakLocked(userID string) int {
	today := truncateDay(s.now())
	streak := 0
	var last time.Time
	for _, w := range s.ownWorkouts(userID, time.Time{}) {
		wd := truncateDay(w.Date)
		if streak == 0 {
			if today.Sub(wd) > day {
				return 0
			}
			streak, last = 1, wd
			continue
		}
		switch last.Sub(wd) {
		case 0:
		case day:
			streak++
			last = wd
		default:
			return streak
		}
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Leaderboard ranks users by XP.
func (s *Store) Leaderboard(limit int) []liftapi.LeaderboardEntry {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].XP != users[j].XP {
			return users[i].XP > users[j].XP
		}
		return users[i].Username < users[j].Username
	})
	if len(users) > limit {
		users = users[:limit]
	}
	out := make([]liftapi.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, liftapi.LeaderboardEntry{
			Rank:          i + 1,
			UserID:        u.ID,
			Username:      u.Username,
			XP:            u.XP,
			Level:         level(u.XP),
			TotalWorkouts: len(s.ownWorkouts(u.ID, time.Time{})),
		})
	}
	return out
}

// ExerciseProgress summarizes the caller's last 20 sessions of one exercise.
func (s *Store) ExerciseProgress(userID, exerciseID string) liftapi.ExerciseProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := liftapi.ExerciseProgress{History: []liftapi.ProgressPoint{}}
	for _, w := range s.ownWorkouts(userID, time.Time{}) {
		if len(p.History) == 20 {
			break
		}
		for _, e := range w.Exercises {
			if e.ExerciseID != exerciseID || len(e.Sets) == 0 {
				continue
			}
			pt := liftapi.ProgressPoint{Date: w.Date, Sets: len(e.Sets)}
			var total float64
			for _, set := range e.Sets {
				if set.Reps != nil {
					pt.Reps += *set.Reps
				}
				if set.Weight != nil {
					total += *set.Weight
					if *set.Weight > pt.MaxWeight {
						pt.MaxWeight = *set.Weight
					}
				}
			}
			pt.AvgWeight = total / float64(pt.Sets)
			pt.Volume = float64(pt.Reps) * pt.AvgWeight
			p.History = append(p.History, pt)
			break
		}
	}
	for _, pt := range p.History {
		pr := &p.PersonalRecords
		pr.MaxWeight = max(pr.MaxWeight, pt.MaxWeight)
		pr.MaxVolume = max(pr.MaxVolume, pt.Volume)
		pr.MaxSets = max(pr.MaxSets, pt.Sets)
		pr.MaxReps = max(pr.MaxReps, pt.Reps)
	}
	return p
}
