package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/liftsync/cache"
	"github.com/briangreenhill/liftsync/internal/calc"
	"github.com/briangreenhill/liftsync/internal/config"
	"github.com/briangreenhill/liftsync/internal/hooks"
	"github.com/briangreenhill/liftsync/pkg/liftapi"
)

const version = "liftsync v0.1.0"

func main() {
	if err := runCLI(os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runCLI(args []string) error {
	return run(context.Background(), args, os.Stdout, nil)
}

// app is one CLI invocation. cfg is loaded on first use so that help and
// the calculators work without any configuration.
type app struct {
	out io.Writer
	cfg *config.Config

	mu          sync.Mutex
	invalidated []string
}

func run(ctx context.Context, args []string, out io.Writer, cfg *config.Config) error {
	a := &app{out: out, cfg: cfg}
	if len(args) == 0 {
		a.usage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "--help", "-h":
		a.usage()
		return nil
	case "version", "--version", "-v":
		fmt.Fprintln(out, version)
		return nil
	case "bodyfat":
		return a.bodyFat(rest)
	case "tdee":
		return a.tdee(rest)
	case "macros":
		return a.macros(rest)
	case "recomp":
		return a.recomp(rest)
	case "1rm":
		return a.oneRepMax(rest)
	}

	h, err := a.hooks()
	if err != nil {
		return err
	}
	switch cmd {
	case "friends":
		return a.friends(ctx, h)
	case "requests":
		return a.requests(ctx, h)
	case "search":
		return a.search(ctx, h, strings.Join(rest, " "))
	case "add-friend":
		return a.mutate(rest, "user id", func(id string) error {
			f, err := h.SendFriendRequest().Do(ctx, id)
			if err == nil {
				fmt.Fprintf(out, "Friend request %s sent to %s\n", f.ID, id)
			}
			return err
		})
	case "accept":
		return a.mutate(rest, "request id", func(id string) error {
			_, err := h.AcceptFriendRequest().Do(ctx, id)
			if err == nil {
				fmt.Fprintf(out, "Accepted request %s\n", id)
			}
			return err
		})
	case "reject":
		return a.mutate(rest, "request id", func(id string) error {
			_, err := h.RejectFriendRequest().Do(ctx, id)
			if err == nil {
				fmt.Fprintf(out, "Rejected request %s\n", id)
			}
			return err
		})
	case "unfriend":
		return a.mutate(rest, "friend id", func(id string) error {
			_, err := h.RemoveFriend().Do(ctx, id)
			if err == nil {
				fmt.Fprintf(out, "Removed friend %s\n", id)
			}
			return err
		})
	case "feed":
		return a.feed(ctx, h, rest)
	case "like":
		return a.mutate(rest, "workout id", func(id string) error {
			l, err := h.LikeWorkout().Do(ctx, id)
			if err == nil {
				fmt.Fprintf(out, "Liked %s (%d likes)\n", id, l.LikesCount)
			}
			return err
		})
	case "unlike":
		return a.mutate(rest, "workout id", func(id string) error {
			_, err := h.UnlikeWorkout().Do(ctx, id)
			if err == nil {
				fmt.Fprintf(out, "Unliked %s\n", id)
			}
			return err
		})
	case "comments":
		return a.comments(ctx, h, rest)
	case "comment":
		if len(rest) < 2 {
			return errors.New("usage: liftsync comment <workout id> <text>")
		}
		return a.mutate(rest[:1], "workout id", func(id string) error {
			c, err := h.AddComment().Do(ctx, hooks.CommentInput{WorkoutID: id, Content: strings.Join(rest[1:], " ")})
			if err == nil {
				fmt.Fprintf(out, "Comment %s added to %s\n", c.ID, id)
			}
			return err
		})
	case "workouts":
		return a.workouts(ctx, h)
	case "streak":
		return a.streak(ctx, h)
	case "leaderboard":
		return a.leaderboard(ctx, h, rest)
	case "achievements":
		return a.achievements(ctx, h)
	case "check-achievements":
		got, err := h.CheckAchievements().Do(ctx, struct{}{})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d new achievement(s)\n", len(got))
		for _, ach := range got {
			fmt.Fprintf(out, "- %s (+%d XP)\n", ach.Name.EN, ach.XPReward)
		}
		a.reportInvalidations()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *app) usage() {
	fmt.Fprintln(a.out, "Usage: liftsync <command> [args]")
	fmt.Fprintln(a.out, "Social:")
	fmt.Fprintln(a.out, "  friends | requests | search <query>")
	fmt.Fprintln(a.out, "  add-friend <user id> | accept <request id> | reject <request id> | unfriend <friend id>")
	fmt.Fprintln(a.out, "  feed [page] [limit] | like <workout id> | unlike <workout id>")
	fmt.Fprintln(a.out, "  comments <workout id> | comment <workout id> <text>")
	fmt.Fprintln(a.out, "Training:")
	fmt.Fprintln(a.out, "  workouts | streak | leaderboard [limit] | achievements | check-achievements")
	fmt.Fprintln(a.out, "Calculators:")
	fmt.Fprintln(a.out, "  bodyfat -sex male -weight 80 -height 180 -neck 38 -waist 85")
	fmt.Fprintln(a.out, "  tdee -sex male -age 30 -weight 80 -height 180 -activity moderate -goal cut")
	fmt.Fprintln(a.out, "  macros -tdee 2500 -goal cut -split balanced")
	fmt.Fprintln(a.out, "  recomp <date,weight,bodyfat> <date,weight,bodyfat> ...")
	fmt.Fprintln(a.out, "  1rm -weight 100 -reps 5 [-formula epley]")
	fmt.Fprintln(a.out, "Environment:")
	fmt.Fprintln(a.out, "  LIFTSYNC_API_URL    API base URL (default "+config.DefaultURL+")")
	fmt.Fprintln(a.out, "  LIFTSYNC_TOKEN      Bearer token")
	fmt.Fprintln(a.out, "  LIFTSYNC_CONFIG     Config file (default ~/.config/liftsync/config.toml)")
}

func (a *app) hooks() (*hooks.Hooks, error) {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !a.cfg.HasToken() {
		return nil, errors.New("no API token configured, set LIFTSYNC_TOKEN")
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(a.cfg.Level())
	api, err := liftapi.New(
		liftapi.WithBaseURL(a.cfg.APIURL),
		liftapi.WithToken(a.cfg.Token),
		liftapi.WithTimeout(a.cfg.Timeout),
		liftapi.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	c := cache.New(
		cache.WithLogger(logger),
		cache.WithStaleTime(a.cfg.StaleTime),
		cache.WithInvalidationListener(a.recordInvalidation),
	)
	return hooks.New(c, api, nil), nil
}

func (a *app) recordInvalidation(k cache.Key) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.invalidated = append(a.invalidated, k.String())
}

// mutate runs fn with the first argument and reports which cached queries the
// mutation invalidated.
func (a *app) mutate(args []string, what string, fn func(id string) error) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("missing %s", what)
	}
	if err := fn(args[0]); err != nil {
		return err
	}
	a.reportInvalidations()
	return nil
}

func (a *app) reportInvalidations() {
	a.mu.Lock()
	keys := append([]string(nil), a.invalidated...)
	a.mu.Unlock()
	if len(keys) > 0 {
		fmt.Fprintf(a.out, "Invalidated: %s\n", strings.Join(keys, " "))
	}
}

// wait blocks until the observer has a result and detaches it.
func wait[T any](ctx context.Context, o *cache.Observer[T]) (T, error) {
	defer o.Close()
	res, err := o.Wait(ctx)
	return res.Data, err
}

func (a *app) friends(ctx context.Context, h *hooks.Hooks) error {
	friends, err := wait(ctx, h.Friends())
	if err != nil {
		return fmt.Errorf("failed to get friends: %w", err)
	}
	fmt.Fprintf(a.out, "Friends (%d)\n", len(friends))
	for _, f := range friends {
		fmt.Fprintf(a.out, "- %s  %d XP  (%s)\n", f.Username, f.XP, f.UserID)
	}
	return nil
}

func (a *app) requests(ctx context.Context, h *hooks.Hooks) error {
	reqs, err := wait(ctx, h.PendingRequests())
	if err != nil {
		return fmt.Errorf("failed to get friend requests: %w", err)
	}
	fmt.Fprintf(a.out, "Pending requests (%d)\n", len(reqs))
	for _, r := range reqs {
		fmt.Fprintf(a.out, "- %s from %s, %s\n", r.RequestID, r.User.Username, r.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *app) search(ctx context.Context, h *hooks.Hooks, q string) error {
	if strings.TrimSpace(q) == "" {
		return errors.New("missing search query")
	}
	users, err := wait(ctx, h.SearchUsers(q))
	if err != nil {
		return fmt.Errorf("failed to search users: %w", err)
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "- %s (%s) %s\n", u.Username, u.UserID, u.FriendshipStatus)
	}
	return nil
}

func intArg(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", args[i], err)
	}
	return n, nil
}

func (a *app) feed(ctx context.Context, h *hooks.Hooks, args []string) error {
	page, err := intArg(args, 0, hooks.DefaultFeedPage)
	if err != nil {
		return err
	}
	limit, err := intArg(args, 1, a.cfg.FeedPageSize)
	if err != nil {
		return err
	}
	feed, err := wait(ctx, h.Feed(page, limit))
	if err != nil {
		return fmt.Errorf("failed to get feed: %w", err)
	}
	fmt.Fprintln(a.out, "## Feed")
	for _, w := range feed.Items {
		liked := ""
		if w.IsLikedByUser {
			liked = " ♥"
		}
		fmt.Fprintf(a.out, "- [%s] %s by %s on %s: %d likes, %d comments%s\n",
			w.ID, w.Name, w.User.Username, w.Date.Format("2006-01-02"), w.LikesCount, w.CommentsCount, liked)
	}
	p := feed.Pagination
	fmt.Fprintf(a.out, "Page %d of %d (%d total)\n", p.Page, p.Pages, p.Total)
	return nil
}

func (a *app) comments(ctx context.Context, h *hooks.Hooks, args []string) error {
	if len(args) == 0 {
		return errors.New("missing workout id")
	}
	comments, err := wait(ctx, h.Comments(args[0]))
	if err != nil {
		return fmt.Errorf("failed to get comments: %w", err)
	}
	fmt.Fprintf(a.out, "Comments (%d)\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(a.out, "- %s: %s\n", c.User.Username, c.Content)
	}
	return nil
}

func (a *app) workouts(ctx context.Context, h *hooks.Hooks) error {
	list, err := wait(ctx, h.Workouts(liftapi.WorkoutsQuery{}))
	if err != nil {
		return fmt.Errorf("failed to get workouts: %w", err)
	}
	fmt.Fprintln(a.out, "## Workouts")
	for _, w := range list.Items {
		fmt.Fprintf(a.out, "- [%s] %s on %s, %d exercises, %d XP\n",
			w.ID, w.Name, w.Date.Format("2006-01-02"), len(w.Exercises), w.XPEarned)
	}
	return nil
}

func (a *app) streak(ctx context.Context, h *hooks.Hooks) error {
	s, err := wait(ctx, h.Streak())
	if err != nil {
		return fmt.Errorf("failed to get streak: %w", err)
	}
	fmt.Fprintf(a.out, "Streak: %d day(s)\n", s.Days)
	return nil
}

func (a *app) leaderboard(ctx context.Context, h *hooks.Hooks, args []string) error {
	limit, err := intArg(args, 0, hooks.DefaultLeaderboardLimit)
	if err != nil {
		return err
	}
	entries, err := wait(ctx, h.Leaderboard(limit))
	if err != nil {
		return fmt.Errorf("failed to get leaderboard: %w", err)
	}
	fmt.Fprintln(a.out, "## Leaderboard")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%d. %s  %d XP\n", e.Rank, e.Username, e.XP)
	}
	return nil
}

func (a *app) achievements(ctx context.Context, h *hooks.Hooks) error {
	sum, err := wait(ctx, h.Achievements())
	if err != nil {
		return fmt.Errorf("failed to get achievements: %w", err)
	}
	fmt.Fprintf(a.out, "Achievements: %d/%d unlocked\n", sum.TotalUnlocked, sum.TotalAchievements)
	for _, ach := range sum.Achievements {
		mark := " "
		if ach.Unlocked {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] %s (%d/%d)\n", mark, ach.Name.EN, ach.Progress, ach.Requirement)
	}
	return nil
}

func (a *app) bodyFat(args []string) error {
	fs := flag.NewFlagSet("bodyfat", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var m calc.Measurements
	sex := fs.String("sex", "male", "male or female")
	method := fs.String("method", string(calc.Navy), "navy, jackson3 or jackson7")
	fs.IntVar(&m.Age, "age", 30, "age in years")
	fs.Float64Var(&m.Weight, "weight", 0, "weight in kg")
	fs.Float64Var(&m.Height, "height", 0, "height in cm")
	fs.Float64Var(&m.Neck, "neck", 0, "neck circumference in cm")
	fs.Float64Var(&m.Waist, "waist", 0, "waist circumference in cm")
	fs.Float64Var(&m.Hip, "hip", 0, "hip circumference in cm")
	fs.Float64Var(&m.Chest, "chest", 0, "chest skinfold in mm")
	fs.Float64Var(&m.Abdomen, "abdomen", 0, "abdominal skinfold in mm")
	fs.Float64Var(&m.Thigh, "thigh", 0, "thigh skinfold in mm")
	fs.Float64Var(&m.Tricep, "tricep", 0, "tricep skinfold in mm")
	fs.Float64Var(&m.Suprailiac, "suprailiac", 0, "suprailiac skinfold in mm")
	fs.Float64Var(&m.Midaxillary, "midaxillary", 0, "midaxillary skinfold in mm")
	fs.Float64Var(&m.Subscapular, "subscapular", 0, "subscapular skinfold in mm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m.Sex = calc.Sex(*sex)

	res, err := calc.BodyFat(calc.Method(*method), m)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Body fat: %.1f%% (%s, %s)\n", res.BodyFat, res.Category.Label, res.Category.Range)
	fmt.Fprintf(a.out, "Fat mass: %.1f kg\n", res.FatMass)
	fmt.Fprintf(a.out, "Lean mass: %.1f kg\n", res.LeanMass)
	return nil
}

func (a *app) macros(args []string) error {
	fs := flag.NewFlagSet("macros", flag.ContinueOnError)
	fs.SetOutput(a.out)
	tdee := fs.Float64("tdee", 0, "daily energy expenditure in kcal")
	goal := fs.String("goal", string(calc.Maintain), "cut, maintain or bulk")
	split := fs.String("split", string(calc.Balanced), "balanced, high-protein, low-carb or keto")
	meals := fs.Int("meals", 3, "meals per day")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := calc.MacroSplit(*tdee, calc.Goal(*goal), calc.Split(*split))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Calories: %d kcal\n", m.Calories)
	fmt.Fprintf(a.out, "Protein: %dg (%d kcal)\n", m.Protein.Grams, m.Protein.Kcal)
	fmt.Fprintf(a.out, "Carbs: %dg (%d kcal)\n", m.Carbs.Grams, m.Carbs.Kcal)
	fmt.Fprintf(a.out, "Fat: %dg (%d kcal)\n", m.Fat.Grams, m.Fat.Kcal)
	fmt.Fprintf(a.out, "Split: %d%% protein, %d%% carbs, %d%% fat\n",
		calc.Percent(m.Protein.Kcal, m.Calories), calc.Percent(m.Carbs.Kcal, m.Calories), calc.Percent(m.Fat.Kcal, m.Calories))
	per := m.PerMeal(*meals)
	fmt.Fprintf(a.out, "Per meal (%d): %dg protein, %dg carbs, %dg fat\n", *meals, per.Protein.Grams, per.Carbs.Grams, per.Fat.Grams)
	return nil
}

func (a *app) tdee(args []string) error {
	fs := flag.NewFlagSet("tdee", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var p calc.Person
	sex := fs.String("sex", string(calc.Male), "male or female")
	activity := fs.String("activity", string(calc.Moderate), "sedentary, light, moderate, active or very-active")
	goal := fs.String("goal", string(calc.Maintain), "cut, maintain or bulk")
	fs.IntVar(&p.Age, "age", 30, "age in years")
	fs.Float64Var(&p.Weight, "weight", 0, "weight in kg")
	fs.Float64Var(&p.Height, "height", 0, "height in cm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p.Sex = calc.Sex(*sex)
	p.Activity = calc.Activity(*activity)

	plan, err := calc.Plan(p, calc.Goal(*goal))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "BMR: %d kcal\n", plan.BMR)
	fmt.Fprintf(a.out, "TDEE: %d kcal\n", plan.TDEE)
	fmt.Fprintf(a.out, "Target (%s): %d kcal\n", *goal, plan.Calories)
	fmt.Fprintf(a.out, "Protein: %dg (%d kcal, %d%%)\n", plan.ProteinG, plan.ProteinKcal, calc.Percent(plan.ProteinKcal, plan.Calories))
	fmt.Fprintf(a.out, "Carbs: %dg (%d kcal, %d%%)\n", plan.CarbsG, plan.CarbsKcal, calc.Percent(plan.CarbsKcal, plan.Calories))
	fmt.Fprintf(a.out, "Fat: %dg (%d kcal, %d%%)\n", plan.FatG, plan.FatKcal, calc.Percent(plan.FatKcal, plan.Calories))
	return nil
}

// parseEntry reads a check-in written as date,weight,bodyfat.
func parseEntry(s string) (calc.Entry, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return calc.Entry{}, fmt.Errorf("check-in %q: want date,weight,bodyfat", s)
	}
	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return calc.Entry{}, fmt.Errorf("check-in %q: %w", s, err)
	}
	weight, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return calc.Entry{}, fmt.Errorf("check-in %q: %w", s, err)
	}
	bf, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return calc.Entry{}, fmt.Errorf("check-in %q: %w", s, err)
	}
	return calc.Entry{Date: date, Weight: weight, BodyFat: bf}, nil
}

func (a *app) recomp(args []string) error {
	entries := make([]calc.Entry, 0, len(args))
	for _, arg := range args {
		e, err := parseEntry(arg)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	p, err := calc.CompositionProgress(entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "From %s to %s\n", p.From.Format("2006-01-02"), p.To.Format("2006-01-02"))
	fmt.Fprintf(a.out, "Weight: %+.1f kg\n", p.Weight)
	fmt.Fprintf(a.out, "Body fat: %+.1f%%\n", p.BodyFat)
	fmt.Fprintf(a.out, "Fat mass: %+.1f kg\n", p.FatMass)
	fmt.Fprintf(a.out, "Lean mass: %+.1f kg\n", p.LeanMass)
	return nil
}

func (a *app) oneRepMax(args []string) error {
	fs := flag.NewFlagSet("1rm", flag.ContinueOnError)
	fs.SetOutput(a.out)
	weight := fs.Float64("weight", 0, "weight lifted in kg")
	reps := fs.Int("reps", 0, "reps performed (1-15)")
	formula := fs.String("formula", string(calc.Epley), "epley, brzycki or lander")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orm, err := calc.OneRepMax(calc.Formula(*formula), *weight, *reps)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Estimated 1RM: %.1f kg\n", orm)
	for _, l := range calc.Percentages(orm) {
		fmt.Fprintf(a.out, "  %3d%%  %6.1f kg  %s reps\n", l.Percent, l.Weight, l.Reps)
	}
	return nil
}
