package calc

import "math"

// Method selects a body fat estimation formula.
type Method string

const (
	Navy     Method = "navy"
	Jackson3 Method = "jackson3"
	Jackson7 Method = "jackson7"
)

// Measurements are tape measurements in cm and skinfolds in mm. Only the
// fields the chosen method needs have to be set.
type Measurements struct {
	Sex    Sex
	Age    int
	Weight float64 // kg
	Height float64
	Neck   float64
	Waist  float64
	Hip    float64

	Chest       float64
	Abdomen     float64
	Thigh       float64
	Tricep      float64
	Suprailiac  float64
	Midaxillary float64
	Subscapular float64
}

// Category is a body fat band for one sex.
type Category struct {
	Label string
	Range string
}

type BodyFatResult struct {
	BodyFat  float64
	FatMass  float64
	LeanMass float64
	Category Category
}

// BodyFat estimates body fat percentage with method and splits weight into fat
// and lean mass.
func BodyFat(method Method, in Measurements) (BodyFatResult, error) {
	if err := in.Sex.valid(); err != nil {
		return BodyFatResult{}, err
	}
	if in.Weight <= 0 || in.Age <= 0 {
		return BodyFatResult{}, invalid("weight and age are required")
	}

	var (
		bf  float64
		err error
	)
	switch method {
	case Navy, "":
		bf, err = navy(in)
	case Jackson3:
		bf, err = jackson3(in)
	case Jackson7:
		bf, err = jackson7(in)
	default:
		return BodyFatResult{}, invalid("method %q", method)
	}
	if err != nil {
		return BodyFatResult{}, err
	}

	fat := in.Weight * bf / 100
	return BodyFatResult{
		BodyFat:  round1(bf),
		FatMass:  round1(fat),
		LeanMass: round1(in.Weight - fat),
		Category: BodyFatCategory(bf, in.Sex),
	}, nil
}

func navy(in Measurements) (float64, error) {
	if in.Height <= 0 || in.Neck <= 0 || in.Waist <= 0 || (in.Sex == Female && in.Hip <= 0) {
		return 0, invalid("navy method needs height, neck and waist (and hip for women)")
	}
	var bf float64
	if in.Sex == Male {
		if in.Waist <= in.Neck {
			return 0, invalid("waist must be larger than neck")
		}
		bf = 495/(1.0324-0.19077*math.Log10(in.Waist-in.Neck)+0.15456*math.Log10(in.Height)) - 450
	} else {
		if in.Waist+in.Hip <= in.Neck {
			return 0, invalid("waist plus hip must be larger than neck")
		}
		bf = 495/(1.29579-0.35004*math.Log10(in.Waist+in.Hip-in.Neck)+0.221*math.Log10(in.Height)) - 450
	}
	return clamp(bf, 0, 100), nil
}

func jackson3(in Measurements) (float64, error) {
	age := float64(in.Age)
	if in.Sex == Male {
		if in.Chest <= 0 || in.Abdomen <= 0 || in.Thigh <= 0 {
			return 0, invalid("jackson3 needs chest, abdomen and thigh skinfolds")
		}
		sum := in.Chest + in.Abdomen + in.Thigh
		return siri(1.10938 - 0.0008267*sum + 0.0000016*sum*sum - 0.0002574*age), nil
	}
	if in.Tricep <= 0 || in.Suprailiac <= 0 || in.Thigh <= 0 {
		return 0, invalid("jackson3 needs tricep, suprailiac and thigh skinfolds")
	}
	sum := in.Tricep + in.Suprailiac + in.Thigh
	return siri(1.0994921 - 0.0009929*sum + 0.0000023*sum*sum - 0.0001392*age), nil
}

func jackson7(in Measurements) (float64, error) {
	folds := []float64{in.Chest, in.Abdomen, in.Thigh, in.Tricep, in.Suprailiac, in.Midaxillary, in.Subscapular}
	var sum float64
	for _, f := range folds {
		if f <= 0 {
			return 0, invalid("jackson7 needs all 7 skinfolds")
		}
		sum += f
	}
	age := float64(in.Age)
	if in.Sex == Male {
		return siri(1.112 - 0.00043499*sum + 0.00000055*sum*sum - 0.00028826*age), nil
	}
	return siri(1.097 - 0.00046971*sum + 0.00000056*sum*sum - 0.00012828*age), nil
}

// siri converts body density to a body fat percentage.
func siri(density float64) float64 { return 495/density - 450 }

// BodyFatCategory returns the band bf falls in for sex.
func BodyFatCategory(bf float64, sex Sex) Category {
	if sex == Male {
		switch {
		case bf < 6:
			return Category{"essential", "2-5%"}
		case bf < 14:
			return Category{"athletic", "6-13%"}
		case bf < 18:
			return Category{"fitness", "14-17%"}
		case bf < 25:
			return Category{"average", "18-24%"}
		default:
			return Category{"obese", "25%+"}
		}
	}
	switch {
	case bf < 14:
		return Category{"essential", "10-13%"}
	case bf < 21:
		return Category{"athletic", "14-20%"}
	case bf < 25:
		return Category{"fitness", "21-24%"}
	case bf < 32:
		return Category{"average", "25-31%"}
	default:
		return Category{"obese", "32%+"}
	}
}
