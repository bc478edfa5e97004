package calc

import (
	"sort"
	"time"
)

// Entry is one body composition check-in.
type Entry struct {
	Date    time.Time
	Weight  float64 // kg
	BodyFat float64 // percent
}

type Composition struct {
	FatMass  float64
	LeanMass float64
}

func Compose(weight, bodyFat float64) (Composition, error) {
	if weight <= 0 {
		return Composition{}, invalid("weight must be positive")
	}
	if bodyFat < 0 || bodyFat > 100 {
		return Composition{}, invalid("body fat %.1f outside [0, 100]", bodyFat)
	}
	fat := weight * bodyFat / 100
	return Composition{FatMass: round1(fat), LeanMass: round1(weight - fat)}, nil
}

// Progress is the change from the first to the latest entry.
type Progress struct {
	From, To time.Time
	Weight   float64
	BodyFat  float64
	FatMass  float64
	LeanMass float64
}

// CompositionProgress compares the earliest and latest entries by date. It
// needs at least two entries.
func CompositionProgress(entries []Entry) (Progress, error) {
	if len(entries) < 2 {
		return Progress{}, invalid("need at least two entries, got %d", len(entries))
	}
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	first, last := sorted[0], sorted[len(sorted)-1]

	a, err := Compose(first.Weight, first.BodyFat)
	if err != nil {
		return Progress{}, err
	}
	b, err := Compose(last.Weight, last.BodyFat)
	if err != nil {
		return Progress{}, err
	}
	return Progress{
		From:     first.Date,
		To:       last.Date,
		Weight:   round1(last.Weight - first.Weight),
		BodyFat:  round1(last.BodyFat - first.BodyFat),
		FatMass:  round1(b.FatMass - a.FatMass),
		LeanMass: round1(b.LeanMass - a.LeanMass),
	}, nil
}
