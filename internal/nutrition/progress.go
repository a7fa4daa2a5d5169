package nutrition

import (
	"math"
	"strconv"
)

const (
	LabelCalories = "Calories"
	LabelProtein  = "Protein"
	LabelCarbs    = "Carbs"
	LabelFat      = "Fat"
)

// Labels lists the tracked nutrients in display order.
var Labels = []string{LabelCalories, LabelProtein, LabelCarbs, LabelFat}

// Progress is the state of one nutrient against its daily target.
type Progress struct {
	Label   string  `json:"label"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
	Unit    string  `json:"unit"`
	Display string  `json:"display"`
}

// Fraction returns Percent scaled to [0, 1].
func (p Progress) Fraction() float64 {
	return p.Percent / 100
}

// Compute maps current against target. Percent is clamped to [0, 100]; a
// target that is not a positive finite number yields 0%.
func Compute(label string, current, target float64) Progress {
	current = sanitize(clampInf(current))
	unit := UnitFor(label)

	var percent float64
	if validTarget(target) {
		percent = math.Min(current/target*100, 100)
	}

	return Progress{
		Label:   label,
		Current: current,
		Target:  target,
		Percent: percent,
		Unit:    unit,
		Display: FormatAmount(Round(current)) + " / " + FormatAmount(target) + " " + unit,
	}
}

// UnitFor returns "kcal" for calories and "g" for everything else.
func UnitFor(label string) string {
	if label == LabelCalories {
		return "kcal"
	}
	return "g"
}

// Round rounds half up: 0.5 becomes 1 and -0.5 becomes 0. The fraction is
// compared directly since v+0.5 can itself round up.
func Round(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}

// FormatAmount prints v in its shortest decimal form (2000, 62.5).
func FormatAmount(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// clampInf maps +Inf to the largest finite value so an overflowing total
// still reads as past its target.
func clampInf(v float64) float64 {
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func validTarget(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
