package catalog

import (
	"context"
	"net/url"
	"strings"

	"github.com/sadopc/nutriplan/internal/nutrition"
	"github.com/tidwall/gjson"
)

// ProductCategories are the quick searches offered in the products view.
var ProductCategories = []string{
	"Breakfast cereals", "Beverages", "Dairies", "Snacks", "Fruits", "Cheeses",
}

// NutriScoreGrades in display order.
var NutriScoreGrades = []string{"a", "b", "c", "d", "e"}

// Product is an Open Food Facts product. Nutrient amounts are per 100 g.
type Product struct {
	Code       string
	Name       string
	Brand      string
	Quantity   string
	NutriScore string
	ImageURL   string
	Cal        float64
	Pro        float64
	Carb       float64
	Fat        float64
}

// LogItem returns the food log item for 100 g of the product.
func (p Product) LogItem() nutrition.Item {
	return nutrition.Item{Name: p.Name, Cal: p.Cal, Pro: p.Pro, Carb: p.Carb, Fat: p.Fat}
}

// SearchProducts runs a free-text product search capped at MaxProducts.
func (c *Client) SearchProducts(ctx context.Context, query string) []Product {
	q := url.Values{}
	q.Set("search_terms", query)
	q.Set("search_simple", "1")
	q.Set("action", "process")
	q.Set("json", "1")
	q.Set("page_size", "20")

	doc, ok := c.fetch(ctx, c.productSearch+"?"+q.Encode())
	if !ok {
		return nil
	}
	list := doc.Get("products")
	if !list.IsArray() {
		return nil
	}
	var out []Product
	list.ForEach(func(_, v gjson.Result) bool {
		out = append(out, parseProduct(v))
		return len(out) < MaxProducts
	})
	return out
}

// ProductByBarcode looks up one product by exact barcode. It returns an
// empty slice when the product is unknown.
func (c *Client) ProductByBarcode(ctx context.Context, code string) []Product {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	doc, ok := c.fetch(ctx, c.product+"/"+url.PathEscape(code)+".json")
	if !ok {
		return nil
	}
	raw := doc.Get("product")
	if !raw.IsObject() {
		return nil
	}
	p := parseProduct(raw)
	if p.Code == "" {
		p.Code = code
	}
	return []Product{p}
}

// FilterByGrade keeps products with the given Nutri-Score grade, compared
// case-insensitively. An empty grade keeps everything.
func FilterByGrade(products []Product, grade string) []Product {
	if grade == "" {
		return products
	}
	var out []Product
	for _, p := range products {
		if p.NutriScore != "" && strings.EqualFold(p.NutriScore, grade) {
			out = append(out, p)
		}
	}
	return out
}

func parseProduct(v gjson.Result) Product {
	image := v.Get("image_front_small_url").String()
	if image == "" {
		image = v.Get("image_url").String()
	}
	// Nutriments arrive as numbers, numeric strings or junk.
	item := nutrition.ParseItem(
		v.Get("product_name").String(),
		nutriment(v, "energy-kcal_100g"),
		nutriment(v, "proteins_100g"),
		nutriment(v, "carbohydrates_100g"),
		nutriment(v, "fat_100g"),
	)
	return Product{
		Code:       v.Get("code").String(),
		Name:       item.Name,
		Brand:      v.Get("brands").String(),
		Quantity:   v.Get("quantity").String(),
		NutriScore: v.Get("nutrition_grades").String(),
		ImageURL:   image,
		Cal:        item.Cal,
		Pro:        item.Pro,
		Carb:       item.Carb,
		Fat:        item.Fat,
	}
}

func nutriment(v gjson.Result, key string) string {
	return v.Get("nutriments." + key).String()
}
