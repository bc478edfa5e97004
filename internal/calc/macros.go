package calc

type Split string

const (
	Balanced    Split = "balanced"
	HighProtein Split = "high-protein"
	LowCarb     Split = "low-carb"
	Keto        Split = "keto"
)

// ratio is a macro split in percent of calories.
type ratio struct{ protein, carbs, fat float64 }

var splits = map[Split]ratio{
	Balanced:    {30, 40, 30},
	HighProtein: {40, 30, 30},
	LowCarb:     {35, 20, 45},
	Keto:        {25, 5, 70},
}

const (
	MinTDEE = 1000
	MaxTDEE = 5000
)

type Macro struct {
	Grams int
	Kcal  int
}

type Macros struct {
	Calories int
	Protein  Macro
	Carbs    Macro
	Fat      Macro
}

// MacroSplit turns a known TDEE into a calorie target for goal and divides it
// by split.
func MacroSplit(tdee float64, goal Goal, split Split) (Macros, error) {
	if tdee < MinTDEE || tdee > MaxTDEE {
		return Macros{}, invalid("tdee %.0f outside [%d, %d]", tdee, MinTDEE, MaxTDEE)
	}
	adj, ok := goals[goal]
	if !ok {
		return Macros{}, invalid("goal %q", goal)
	}
	r, ok := splits[split]
	if !ok {
		return Macros{}, invalid("split %q", split)
	}

	calories := tdee + adj.kcal
	protein := calories * r.protein / 100
	carbs := calories * r.carbs / 100
	fat := calories * r.fat / 100

	return Macros{
		Calories: roundInt(calories),
		Protein:  Macro{Grams: roundInt(protein / 4), Kcal: roundInt(protein)},
		Carbs:    Macro{Grams: roundInt(carbs / 4), Kcal: roundInt(carbs)},
		Fat:      Macro{Grams: roundInt(fat / 9), Kcal: roundInt(fat)},
	}, nil
}

// PerMeal divides daily grams evenly over meals.
func (m Macros) PerMeal(meals int) Macros {
	if meals <= 0 {
		return m
	}
	div := func(x Macro) Macro {
		return Macro{Grams: roundInt(float64(x.Grams) / float64(meals)), Kcal: roundInt(float64(x.Kcal) / float64(meals))}
	}
	return Macros{
		Calories: roundInt(float64(m.Calories) / float64(meals)),
		Protein:  div(m.Protein),
		Carbs:    div(m.Carbs),
		Fat:      div(m.Fat),
	}
}
