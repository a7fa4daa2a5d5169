package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/sadopc/nutriplan/internal/catalog"
	"github.com/sadopc/nutriplan/internal/nutrition"
	"github.com/sadopc/nutriplan/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewMeals viewState = iota
	viewProducts
	viewFoodLog
	viewSettings
	viewDetails
)

// viewNames are the tabs shown in the header. viewDetails has no tab.
var viewNames = []string{"Meals", "Products", "Food Log", "Settings"}

const (
	searchDebounce = 500 * time.Millisecond
	toastDuration  = 3 * time.Second
	fetchTimeout   = 30 * time.Second
)

// Catalog is the data-fetch boundary used by the views.
type Catalog interface {
	Home(ctx context.Context) catalog.Home
	SearchMeals(ctx context.Context, query string) []catalog.Meal
	MealByID(ctx context.Context, id string) *catalog.Meal
	FilterByCategory(ctx context.Context, category string) []catalog.Meal
	MealsByArea(ctx context.Context, area string) []catalog.Meal
	SearchProducts(ctx context.Context, query string) []catalog.Product
	ProductByBarcode(ctx context.Context, code string) []catalog.Product
}

// Store is the persistence the views use besides the food log itself:
// target settings and the food log row's last write time.
type Store interface {
	GetSetting(key string) (string, error)
	SetSettings(values map[string]string) error
	GetAllSettings() ([]store.Setting, error)
	GetRecord(key string) (*store.Record, error)
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type clearStatusMsg struct {
	id int
}

type loggedMsg struct {
	entry nutrition.Entry
}

type logClearedMsg struct{}

type targetsSavedMsg struct {
	targets nutrition.Targets
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func fetchContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), fetchTimeout)
}

// macroLine renders "<pro>g P | <carb>g C | <fat>g F".
func macroLine(pro, carb, fat float64) string {
	return fmt.Sprintf("%sg P | %sg C | %sg F",
		nutrition.FormatAmount(pro),
		nutrition.FormatAmount(carb),
		nutrition.FormatAmount(fat),
	)
}

func kcal(v float64) string {
	return nutrition.FormatAmount(nutrition.Round(v)) + " kcal"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
