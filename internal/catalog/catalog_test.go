package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const mealJSON = `{
	"idMeal": "52771",
	"strMeal": "Spicy Arrabiata Penne",
	"strCategory": "Vegetarian",
	"strArea": "Italian",
	"strInstructions": "Bring a large pot of water to a boil.",
	"strMealThumb": "https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
	"strTags": "Pasta,Curry",
	"strYoutube": "https://www.youtube.com/watch?v=1IszT_guI08",
	"strIngredient1": "penne rigate",
	"strMeasure1": "1 pound",
	"strIngredient2": "olive oil",
	"strMeasure2": "1/4 cup",
	"strIngredient3": "",
	"strMeasure3": "",
	"strIngredient4": null,
	"strIngredient5": " garlic ",
	"strMeasure5": " 3 cloves "
}`

// newTestServer serves a fake TheMealDB and Open Food Facts.
func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/meal/categories.php", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		fmt.Fprint(w, `{"categories":[
			{"idCategory":"1","strCategory":"Beef","strCategoryThumb":"b.png","strCategoryDescription":"Beef dishes"},
			{"idCategory":"2","strCategory":"Chicken","strCategoryThumb":"c.png","strCategoryDescription":"Chicken dishes"}
		]}`)
	})
	mux.HandleFunc("/meal/search.php", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Query().Get("s") {
		case "none":
			fmt.Fprint(w, `{"meals":null}`)
		case "many":
			var items []string
			for i := 0; i < 40; i++ {
				items = append(items, fmt.Sprintf(`{"idMeal":"%d","strMeal":"Meal %d"}`, i, i))
			}
			fmt.Fprintf(w, `{"meals":[%s]}`, strings.Join(items, ","))
		default:
			fmt.Fprintf(w, `{"meals":[%s]}`, mealJSON)
		}
	})
	mux.HandleFunc("/meal/lookup.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") == "52771" {
			fmt.Fprintf(w, `{"meals":[%s]}`, mealJSON)
			return
		}
		fmt.Fprint(w, `{"meals":null}`)
	})
	mux.HandleFunc("/meal/filter.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		name := q.Get("c") + q.Get("a")
		fmt.Fprintf(w, `{"meals":[{"idMeal":"1","strMeal":%q,"strMealThumb":"t.png"}]}`, name)
	})

	mux.HandleFunc("/off/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page_size") != "20" || q.Get("json") != "1" || q.Get("search_simple") != "1" || q.Get("action") != "process" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		if q.Get("search_terms") == "many" {
			var items []string
			for i := 0; i < 30; i++ {
				items = append(items, fmt.Sprintf(`{"code":"%d","product_name":"P%d"}`, i, i))
			}
			fmt.Fprintf(w, `{"products":[%s]}`, strings.Join(items, ","))
			return
		}
		fmt.Fprint(w, `{"products":[
			{"code":"3017620422003","product_name":"Nutella","brands":"Ferrero","nutrition_grades":"e",
			 "nutriments":{"energy-kcal_100g":539,"proteins_100g":6.3,"carbohydrates_100g":57.5,"fat_100g":30.9}},
			{"code":"1","product_name":"Oat drink","nutrition_grades":"B",
			 "nutriments":{"energy-kcal_100g":"45","proteins_100g":"1","carbohydrates_100g":"6.5g","fat_100g":"n/a"}},
			{"code":"2","product_name":"Mystery"}
		]}`)
	})
	mux.HandleFunc("/off/product/", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/off/product/"), ".json")
		if code == "737628064502" {
			fmt.Fprint(w, `{"status":1,"product":{"product_name":"Rice noodles","nutriments":{"energy-kcal_100g":385,"fat_100g":0.5}}}`)
			return
		}
		fmt.Fprint(w, `{"status":0,"status_verbose":"product not found"}`)
	})

	mux.HandleFunc("/broken/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json`)
	})
	mux.HandleFunc("/null/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"meals":null,"categories":null,"products":null}`)
	})
	mux.HandleFunc("/fail/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := newTestServer(t, &hits)
	c := New(Options{
		MealDBURL:        srv.URL + "/meal/",
		ProductSearchURL: srv.URL + "/off/search",
		ProductURL:       srv.URL + "/off/product",
		Timeout:          5 * time.Second,
	})
	return c, &hits
}

// ============================================================
// Meals
// ============================================================

func TestCategories(t *testing.T) {
	c, _ := newTestClient(t)
	cats := c.Categories(context.Background())
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].Name != "Beef" || cats[0].ID != "1" || cats[0].Description != "Beef dishes" {
		t.Fatalf("unexpected category %+v", cats[0])
	}
}

func TestSearchMealsParsesMeal(t *testing.T) {
	c, _ := newTestClient(t)
	meals := c.SearchMeals(context.Background(), "penne")
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(meals))
	}
	m := meals[0]
	if m.ID != "52771" || m.Name != "Spicy Arrabiata Penne" || m.Area != "Italian" || m.Category != "Vegetarian" {
		t.Fatalf("unexpected meal %+v", m)
	}
	if len(m.Tags) != 2 || m.Tags[0] != "Pasta" {
		t.Fatalf("unexpected tags %v", m.Tags)
	}
	want := []Ingredient{
		{Name: "penne rigate", Measure: "1 pound"},
		{Name: "olive oil", Measure: "1/4 cup"},
		{Name: "garlic", Measure: "3 cloves"},
	}
	if len(m.Ingredients) != len(want) {
		t.Fatalf("expected %d ingredients, got %v", len(want), m.Ingredients)
	}
	for i := range want {
		if m.Ingredients[i] != want[i] {
			t.Fatalf("ingredient[%d] = %+v, want %+v", i, m.Ingredients[i], want[i])
		}
	}
}

func TestSearchMealsCapped(t *testing.T) {
	c, _ := newTestClient(t)
	meals := c.SearchMeals(context.Background(), "many")
	if len(meals) != MaxMeals {
		t.Fatalf("expected %d meals, got %d", MaxMeals, len(meals))
	}
}

func TestSearchMealsNull(t *testing.T) {
	c, _ := newTestClient(t)
	if meals := c.SearchMeals(context.Background(), "none"); len(meals) != 0 {
		t.Fatalf("expected no meals, got %d", len(meals))
	}
}

func TestMealByID(t *testing.T) {
	c, _ := newTestClient(t)
	m := c.MealByID(context.Background(), "52771")
	if m == nil || m.Name != "Spicy Arrabiata Penne" {
		t.Fatalf("unexpected meal %+v", m)
	}
	if c.MealByID(context.Background(), "0") != nil {
		t.Fatal("missing meal should be nil")
	}
}

func TestFilters(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if got := c.FilterByCategory(ctx, "Seafood"); len(got) != 1 || got[0].Name != "Seafood" {
		t.Fatalf("FilterByCategory = %+v", got)
	}
	if got := c.FilterByArea(ctx, "egyptain"); len(got) != 1 || got[0].Name != "Egyptian" {
		t.Fatalf("FilterByArea should normalize the area, got %+v", got)
	}
	if got := c.MealsByArea(ctx, AllRecipes); len(got) != 1 || got[0].ID != "52771" {
		t.Fatalf("AllRecipes should run the default search, got %+v", got)
	}
	if got := c.MealsByArea(ctx, "japanese"); len(got) != 1 || got[0].Name != "Japanese" {
		t.Fatalf("MealsByArea = %+v", got)
	}
}

func TestNormalizeArea(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Egyptain", "Egyptian"},
		{"egyptian", "Egyptian"},
		{" italian ", "Italian"},
		{"British", "British"},
	}
	for _, tt := range tests {
		if got := NormalizeArea(tt.in); got != tt.want {
			t.Errorf("NormalizeArea(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHome(t *testing.T) {
	c, hits := newTestClient(t)
	h := c.Home(context.Background())
	if len(h.Categories) != 2 || len(h.Meals) != 1 {
		t.Fatalf("unexpected home %+v", h)
	}
	if atomic.LoadInt32(hits) != 2 {
		t.Fatalf("expected 2 requests, got %d", *hits)
	}
}

func TestMealLogItemAndEmbed(t *testing.T) {
	m := Meal{Name: "Kushari", YouTube: "https://www.youtube.com/watch?v=abc"}
	item := m.LogItem()
	if item.Name != "Kushari" || item.Cal != 450 || item.Pro != 25 || item.Carb != 40 || item.Fat != 12 {
		t.Fatalf("unexpected log item %+v", item)
	}
	if m.EmbedURL() != "https://www.youtube.com/embed/abc" {
		t.Fatalf("EmbedURL = %q", m.EmbedURL())
	}
	if RecipeEstimate.Name != "" {
		t.Fatal("LogItem must not mutate RecipeEstimate")
	}
}

// ============================================================
// Products
// ============================================================

func TestSearchProducts(t *testing.T) {
	c, _ := newTestClient(t)
	products := c.SearchProducts(context.Background(), "spread")
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	n := products[0]
	if n.Name != "Nutella" || n.Brand != "Ferrero" || n.NutriScore != "e" {
		t.Fatalf("unexpected product %+v", n)
	}
	if n.Cal != 539 || n.Pro != 6.3 || n.Carb != 57.5 || n.Fat != 30.9 {
		t.Fatalf("unexpected nutriments %+v", n)
	}
	if p := products[1]; p.Cal != 45 || p.Pro != 1 || p.Carb != 6.5 || p.Fat != 0 {
		t.Fatalf("string nutriments should parse, got %+v", products[1])
	}
	if products[2].Cal != 0 {
		t.Fatal("missing nutriments should be 0")
	}
}

func TestSearchProductsCapped(t *testing.T) {
	c, _ := newTestClient(t)
	if got := c.SearchProducts(context.Background(), "many"); len(got) != MaxProducts {
		t.Fatalf("expected %d products, got %d", MaxProducts, len(got))
	}
}

func TestProductByBarcode(t *testing.T) {
	c, _ := newTestClient(t)
	got := c.ProductByBarcode(context.Background(), "737628064502")
	if len(got) != 1 {
		t.Fatalf("expected 1 product, got %d", len(got))
	}
	if got[0].Code != "737628064502" || got[0].Name != "Rice noodles" || got[0].Cal != 385 {
		t.Fatalf("unexpected product %+v", got[0])
	}
	if got := c.ProductByBarcode(context.Background(), "000"); len(got) != 0 {
		t.Fatalf("unknown barcode should be empty, got %v", got)
	}
	if got := c.ProductByBarcode(context.Background(), "  "); got != nil {
		t.Fatal("blank barcode should not query")
	}
}

func TestFilterByGrade(t *testing.T) {
	products := []Product{
		{Name: "A", NutriScore: "a"},
		{Name: "B", NutriScore: "B"},
		{Name: "none"},
	}
	if got := FilterByGrade(products, ""); len(got) != 3 {
		t.Fatalf("empty grade should keep all, got %d", len(got))
	}
	if got := FilterByGrade(products, "b"); len(got) != 1 || got[0].Name != "B" {
		t.Fatalf("grade b = %+v", got)
	}
	if got := FilterByGrade(products, "e"); len(got) != 0 {
		t.Fatalf("grade e = %+v", got)
	}
}

func TestProductLogItem(t *testing.T) {
	p := Product{Name: "Skyr", Cal: 63, Pro: 11, Carb: 4, Fat: 0.2}
	item := p.LogItem()
	if item.Name != "Skyr" || item.Cal != 63 || item.Fat != 0.2 {
		t.Fatalf("unexpected item %+v", item)
	}
}

// ============================================================
// Failure handling
// ============================================================

func TestFailuresReturnEmpty(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	ctx := context.Background()

	for _, base := range []string{srv.URL + "/broken", srv.URL + "/fail", "http://127.0.0.1:1"} {
		c := New(Options{MealDBURL: base, ProductSearchURL: base + "/search", ProductURL: base, Timeout: time.Second})
		if got := c.Categories(ctx); got != nil {
			t.Errorf("%s: Categories = %v, want nil", base, got)
		}
		if got := c.SearchMeals(ctx, "x"); got != nil {
			t.Errorf("%s: SearchMeals = %v, want nil", base, got)
		}
		if got := c.MealByID(ctx, "1"); got != nil {
			t.Errorf("%s: MealByID = %v, want nil", base, got)
		}
		if got := c.SearchProducts(ctx, "x"); got != nil {
			t.Errorf("%s: SearchProducts = %v, want nil", base, got)
		}
		if got := c.ProductByBarcode(ctx, "1"); got != nil {
			t.Errorf("%s: ProductByBarcode = %v, want nil", base, got)
		}
	}
}

func TestNullListsAreEmpty(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	ctx := context.Background()
	base := srv.URL + "/null"
	c := New(Options{MealDBURL: base, ProductSearchURL: base + "/search", ProductURL: base, Timeout: time.Second})

	if got := c.Categories(ctx); len(got) != 0 {
		t.Errorf("Categories = %+v, want none", got)
	}
	if got := c.SearchMeals(ctx, "zzz"); len(got) != 0 {
		t.Errorf("SearchMeals = %+v, want none", got)
	}
	if got := c.MealByID(ctx, "0"); got != nil {
		t.Errorf("MealByID = %+v, want nil", got)
	}
	if got := c.FilterByCategory(ctx, "zzz"); len(got) != 0 {
		t.Errorf("FilterByCategory = %+v, want none", got)
	}
	if got := c.FilterByArea(ctx, "zzz"); len(got) != 0 {
		t.Errorf("FilterByArea = %+v, want none", got)
	}
	if got := c.SearchProducts(ctx, "zzz"); len(got) != 0 {
		t.Errorf("SearchProducts = %+v, want none", got)
	}
	if h := c.Home(ctx); len(h.Categories) != 0 || len(h.Meals) != 0 {
		t.Errorf("Home = %+v, want empty", h)
	}
}

func TestCancelledContext(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := c.SearchMeals(ctx, "penne"); got != nil {
		t.Fatalf("cancelled request should be empty, got %v", got)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(Options{})
	if c.mealDB != DefaultMealDBURL || c.productSearch != DefaultProductSearchURL || c.product != DefaultProductURL {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.http.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", c.http.Timeout)
	}
}
