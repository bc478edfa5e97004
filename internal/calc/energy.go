package calc

type Activity string

const (
	Sedentary  Activity = "sedentary"
	Light      Activity = "light"
	Moderate   Activity = "moderate"
	Active     Activity = "active"
	VeryActive Activity = "very-active"
)

var activityMultiplier = map[Activity]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

type Goal string

const (
	Cut      Goal = "cut"
	Maintain Goal = "maintain"
	Bulk     Goal = "bulk"
)

type goalAdjustment struct {
	kcal    float64
	protein float64 // g per kg
}

var goals = map[Goal]goalAdjustment{
	Cut:      {kcal: -500, protein: 2.2},
	Maintain: {kcal: 0, protein: 1.8},
	Bulk:     {kcal: 300, protein: 2.0},
}

// fatPerKg is the daily fat intake in g per kg of bodyweight.
const fatPerKg = 0.8

type Person struct {
	Sex      Sex
	Age      int
	Weight   float64 // kg
	Height   float64 // cm
	Activity Activity
}

func (p Person) validate() error {
	if err := p.Sex.valid(); err != nil {
		return err
	}
	if p.Weight <= 0 {
		return invalid("weight must be positive")
	}
	if p.Height <= 0 {
		return invalid("height must be positive")
	}
	if p.Age <= 0 || p.Age > 120 {
		return invalid("age must be between 1 and 120")
	}
	if _, ok := activityMultiplier[p.Activity]; !ok {
		return invalid("activity level %q", p.Activity)
	}
	return nil
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal.
func BMR(p Person) float64 {
	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Sex == Male {
		return bmr + 5
	}
	return bmr - 161
}

type EnergyPlan struct {
	BMR         int
	TDEE        int
	Calories    int
	ProteinG    int
	CarbsG      int
	FatG        int
	ProteinKcal int
	CarbsKcal   int
	FatKcal     int
}

// Plan derives a daily calorie and macro target for p and goal. Protein and
// fat are set per kg of bodyweight; carbs fill the remaining calories.
func Plan(p Person, goal Goal) (EnergyPlan, error) {
	if err := p.validate(); err != nil {
		return EnergyPlan{}, err
	}
	adj, ok := goals[goal]
	if !ok {
		return EnergyPlan{}, invalid("goal %q", goal)
	}

	bmr := BMR(p)
	tdee := bmr * activityMultiplier[p.Activity]
	calories := roundInt(tdee + adj.kcal)

	protein := roundInt(p.Weight * adj.protein)
	fat := roundInt(p.Weight * fatPerKg)
	carbs := roundInt(float64(calories-protein*4-fat*9) / 4)

	return EnergyPlan{
		BMR:         roundInt(bmr),
		TDEE:        roundInt(tdee),
		Calories:    calories,
		ProteinG:    protein,
		CarbsG:      carbs,
		FatG:        fat,
		ProteinKcal: protein * 4,
		CarbsKcal:   carbs * 4,
		FatKcal:     fat * 9,
	}, nil
}

// Percent is the share of part in total, rounded to a whole percent.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return roundInt(float64(part) / float64(total) * 100)
}
