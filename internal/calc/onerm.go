package calc

type Formula string

const (
	Epley   Formula = "epley"
	Brzycki Formula = "brzycki"
	Lander  Formula = "lander"
)

var formulas = map[Formula]func(w, r float64) float64{
	Epley:   func(w, r float64) float64 { return w * (1 + r/30) },
	Brzycki: func(w, r float64) float64 { return w * (36 / (37 - r)) },
	Lander:  func(w, r float64) float64 { return 100 * w / (101.3 - 2.67123*r) },
}

const MaxReps = 15

// OneRepMax estimates a one-rep max from weight lifted for reps.
func OneRepMax(f Formula, weight float64, reps int) (float64, error) {
	if weight <= 0 {
		return 0, invalid("weight must be positive")
	}
	if reps < 1 || reps > MaxReps {
		return 0, invalid("reps must be between 1 and %d", MaxReps)
	}
	fn, ok := formulas[f]
	if !ok {
		return 0, invalid("formula %q", f)
	}
	if reps == 1 {
		return weight, nil
	}
	return round1(fn(weight, float64(reps))), nil
}

type Load struct {
	Percent int
	Weight  float64
	Reps    string
}

var loadTable = []struct {
	pct  int
	reps string
}{
	{100, "1"}, {95, "2"}, {93, "3"}, {90, "4"}, {87, "5"}, {85, "6"}, {83, "7"},
	{80, "8"}, {77, "9"}, {75, "10"}, {70, "11-12"}, {67, "12-15"}, {65, "15+"},
}

// Percentages lists training loads derived from oneRM.
func Percentages(oneRM float64) []Load {
	out := make([]Load, 0, len(loadTable))
	for _, l := range loadTable {
		out = append(out, Load{Percent: l.pct, Weight: round1(oneRM * float64(l.pct) / 100), Reps: l.reps})
	}
	return out
}
