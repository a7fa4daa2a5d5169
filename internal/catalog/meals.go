package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sadopc/nutriplan/internal/nutrition"
	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AllRecipes is the area filter that lists the default search instead of
// filtering by area.
const AllRecipes = "All Recipes"

// Areas are the cuisine filters offered in the meals view.
var Areas = []string{
	AllRecipes, "American", "British", "Chinese", "Egyptian", "French",
	"Indian", "Italian", "Japanese", "Mexican", "Moroccan", "Thai",
}

// maxIngredients is the number of strIngredientN slots in a TheMealDB meal.
const maxIngredients = 20

// RecipeEstimate is the fixed nutrition logged for a recipe; TheMealDB
// publishes no nutrition data.
var RecipeEstimate = nutrition.Item{Cal: 450, Pro: 25, Carb: 40, Fat: 12}

type Category struct {
	ID          string
	Name        string
	Thumb       string
	Description string
}

type Ingredient struct {
	Name    string
	Measure string
}

// Meal is a TheMealDB recipe. Filter endpoints only fill ID, Name and Thumb.
type Meal struct {
	ID           string
	Name         string
	Category     string
	Area         string
	Instructions string
	Thumb        string
	YouTube      string
	Tags         []string
	Ingredients  []Ingredient
}

// LogItem returns the food log item for this meal.
func (m Meal) LogItem() nutrition.Item {
	item := RecipeEstimate
	item.Name = m.Name
	return item
}

// EmbedURL rewrites a YouTube watch link into its embeddable form.
func (m Meal) EmbedURL() string {
	return strings.Replace(m.YouTube, "watch?v=", "embed/", 1)
}

func (c *Client) Categories(ctx context.Context) []Category {
	doc, ok := c.fetch(ctx, c.mealDB+"/categories.php")
	if !ok {
		return nil
	}
	var out []Category
	// Misses come back as {"categories":null}; ForEach would visit the null.
	list := doc.Get("categories")
	if !list.IsArray() {
		return nil
	}
	list.ForEach(func(_, v gjson.Result) bool {
		out = append(out, Category{
			ID:          v.Get("idCategory").String(),
			Name:        v.Get("strCategory").String(),
			Thumb:       v.Get("strCategoryThumb").String(),
			Description: v.Get("strCategoryDescription").String(),
		})
		return true
	})
	return out
}

// SearchMeals searches by free text. An empty query lists the default set.
// At most MaxMeals are returned.
func (c *Client) SearchMeals(ctx context.Context, query string) []Meal {
	meals := c.meals(ctx, c.mealDB+"/search.php?s="+url.QueryEscape(query))
	if len(meals) > MaxMeals {
		meals = meals[:MaxMeals]
	}
	return meals
}

// MealByID returns nil when the meal does not exist or the lookup fails.
func (c *Client) MealByID(ctx context.Context, id string) *Meal {
	meals := c.meals(ctx, c.mealDB+"/lookup.php?i="+url.QueryEscape(id))
	if len(meals) == 0 {
		return nil
	}
	return &meals[0]
}

func (c *Client) FilterByCategory(ctx context.Context, category string) []Meal {
	return c.meals(ctx, c.mealDB+"/filter.php?c="+url.QueryEscape(category))
}

func (c *Client) FilterByArea(ctx context.Context, area string) []Meal {
	return c.meals(ctx, c.mealDB+"/filter.php?a="+url.QueryEscape(NormalizeArea(area)))
}

// MealsByArea resolves an area filter button: AllRecipes runs the default
// search, anything else filters by area.
func (c *Client) MealsByArea(ctx context.Context, area string) []Meal {
	if area == "" || area == AllRecipes {
		return c.SearchMeals(ctx, "")
	}
	return c.FilterByArea(ctx, area)
}

// NormalizeArea title-cases an area name and fixes the common
// "Egyptain" misspelling.
func NormalizeArea(area string) string {
	area = strings.TrimSpace(area)
	if strings.EqualFold(area, "egyptain") {
		return "Egyptian"
	}
	return cases.Title(language.English).String(area)
}

func (c *Client) meals(ctx context.Context, rawURL string) []Meal {
	doc, ok := c.fetch(ctx, rawURL)
	if !ok {
		return nil
	}
	// TheMealDB answers a miss with {"meals":null}.
	list := doc.Get("meals")
	if !list.IsArray() {
		return nil
	}
	var out []Meal
	list.ForEach(func(_, v gjson.Result) bool {
		out = append(out, parseMeal(v))
		return true
	})
	return out
}

func parseMeal(v gjson.Result) Meal {
	m := Meal{
		ID:           v.Get("idMeal").String(),
		Name:         v.Get("strMeal").String(),
		Category:     v.Get("strCategory").String(),
		Area:         v.Get("strArea").String(),
		Instructions: v.Get("strInstructions").String(),
		Thumb:        v.Get("strMealThumb").String(),
		YouTube:      v.Get("strYoutube").String(),
	}
	for _, tag := range strings.Split(v.Get("strTags").String(), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			m.Tags = append(m.Tags, tag)
		}
	}
	for i := 1; i <= maxIngredients; i++ {
		name := strings.TrimSpace(v.Get(fmt.Sprintf("strIngredient%d", i)).String())
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(v.Get(fmt.Sprintf("strMeasure%d", i)).String()),
		})
	}
	return m
}
