package nutrition

// Totals holds nutrient sums over a set of entries. Totals are derived on
// demand and never persisted.
type Totals struct {
	Cal  float64 `json:"cal"`
	Pro  float64 `json:"pro"`
	Carb float64 `json:"carb"`
	Fat  float64 `json:"fat"`
}

// Aggregate sums each nutrient across entries. Fields that are not finite
// non-negative numbers contribute 0. Sums saturate at math.MaxFloat64.
func Aggregate(entries []Entry) Totals {
	var t Totals
	for _, e := range entries {
		t.Cal = clampInf(t.Cal + sanitize(e.Cal))
		t.Pro = clampInf(t.Pro + sanitize(e.Pro))
		t.Carb = clampInf(t.Carb + sanitize(e.Carb))
		t.Fat = clampInf(t.Fat + sanitize(e.Fat))
	}
	return t
}

// For returns the total for a nutrient label, or 0 for an unknown label.
func (t Totals) For(label string) float64 {
	switch label {
	case LabelCalories:
		return t.Cal
	case LabelProtein:
		return t.Pro
	case LabelCarbs:
		return t.Carb
	case LabelFat:
		return t.Fat
	}
	return 0
}
