package nutrition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTarget is returned by ParseTarget for values that are not
// positive numbers.
var ErrInvalidTarget = errors.New("target must be a positive number")

// Settings keys holding target overrides.
const (
	SettingTargetCal  = "target_cal"
	SettingTargetPro  = "target_pro"
	SettingTargetCarb = "target_carb"
	SettingTargetFat  = "target_fat"
)

// Targets are the daily goals per nutrient.
type Targets struct {
	Cal  float64 `json:"cal"`
	Pro  float64 `json:"pro"`
	Carb float64 `json:"carb"`
	Fat  float64 `json:"fat"`
}

func DefaultTargets() Targets {
	return Targets{Cal: 2000, Pro: 50, Carb: 250, Fat: 65}
}

// For returns the target for a nutrient label, or 0 for an unknown label.
func (t Targets) For(label string) float64 {
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

// Settings renders the targets as settings key/value pairs.
func (t Targets) Settings() map[string]string {
	return map[string]string{
		SettingTargetCal:  FormatAmount(t.Cal),
		SettingTargetPro:  FormatAmount(t.Pro),
		SettingTargetCarb: FormatAmount(t.Carb),
		SettingTargetFat:  FormatAmount(t.Fat),
	}
}

// SettingsReader is the subset of the settings store targets are read from.
type SettingsReader interface {
	GetSetting(key string) (string, error)
}

// LoadTargets reads target overrides from r. Any override that is missing
// or invalid falls back to the default for that nutrient.
func LoadTargets(r SettingsReader) Targets {
	t := DefaultTargets()
	if r == nil {
		return t
	}
	read := func(key string, dst *float64) {
		v, err := r.GetSetting(key)
		if err != nil {
			return
		}
		if f, err := ParseTarget(v); err == nil {
			*dst = f
		}
	}
	read(SettingTargetCal, &t.Cal)
	read(SettingTargetPro, &t.Pro)
	read(SettingTargetCarb, &t.Carb)
	read(SettingTargetFat, &t.Fat)
	return t
}

// ParseTarget parses a target value entered by the user.
func ParseTarget(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !validTarget(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	return f, nil
}
