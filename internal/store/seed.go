package store

import (
	"fmt"

	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func sets(n, reps int, weight float64) []liftapi.WorkoutSet {
	out := make([]liftapi.WorkoutSet, n)
	for i := range out {
		out[i] = liftapi.WorkoutSet{Reps: intp(reps), Weight: floatp(weight), Completed: true}
	}
	return out
}

// Seed fills an empty store with three demo users: alice and bob are
// friends with a workout each, carol has a pending request to alice.
func Seed(s *Store) ([]User, error) {
	var users []User
	for _, name := range []string{"alice", "bob", "carol"} {
		u, err := s.AddUser(name)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", name, err)
		}
		users = append(users, u)
	}
	alice, bob, carol := users[0], users[1], users[2]

	req, err := s.SendFriendRequest(bob.ID, alice.ID)
	if err != nil {
		return nil, fmt.Errorf("seed friendship: %w", err)
	}
	if _, err := s.AcceptFriendRequest(alice.ID, req.ID); err != nil {
		return nil, fmt.Errorf("seed friendship: %w", err)
	}
	if _, err := s.SendFriendRequest(carol.ID, alice.ID); err != nil {
		return nil, fmt.Errorf("seed request: %w", err)
	}

	workouts := []struct {
		user User
		in   liftapi.WorkoutInput
	}{
		{alice, liftapi.WorkoutInput{
			Name:      "Push day",
			Duration:  55 * 60,
			Exercises: []liftapi.WorkoutExercise{{ExerciseID: "bench-press", Sets: sets(4, 8, 70)}},
		}},
		{bob, liftapi.WorkoutInput{
			Name:      "Leg day",
			Duration:  60 * 60,
			Exercises: []liftapi.WorkoutExercise{{ExerciseID: "squat", Sets: sets(5, 5, 100)}},
		}},
		{carol, liftapi.WorkoutInput{
			Name:       "Easy run",
			Duration:   30 * 60,
			Visibility: liftapi.VisibilityPublic,
		}},
	}
	for _, w := range workouts {
		if _, err := s.CreateWorkout(w.user.ID, w.in); err != nil {
			return nil, fmt.Errorf("seed workout %q: %w", w.in.Name, err)
		}
	}

	// reload so XP reflects the seeded workouts
	for i, u := range users {
		if users[i], err = s.User(u.ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}
