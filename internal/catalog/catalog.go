// Package catalog reads recipes from TheMealDB and food products from
// Open Food Facts. Every call fails open: transport, status and decoding
// errors are logged and surface as nil or empty results.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMealDBURL        = "https://www.themealdb.com/api/json/v1/1"
	DefaultProductSearchURL = "https://world.openfoodfacts.org/cgi/search.pl"
	DefaultProductURL       = "https://world.openfoodfacts.org/api/v0/product"

	// MaxMeals caps free-text meal search results.
	MaxMeals = 25
	// MaxProducts caps product search results.
	MaxProducts = 20

	maxBodyBytes = 8 << 20
	userAgent    = "nutriplan/1.0"
)

type Options struct {
	MealDBURL        string
	ProductSearchURL string
	ProductURL       string
	Timeout          time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	mealDB        string
	productSearch string
	product       string
	http          *http.Client
}

func New(opts Options) *Client {
	c := &Client{
		mealDB:        strings.TrimRight(or(opts.MealDBURL, DefaultMealDBURL), "/"),
		productSearch: or(opts.ProductSearchURL, DefaultProductSearchURL),
		product:       strings.TrimRight(or(opts.ProductURL, DefaultProductURL), "/"),
		http:          opts.HTTPClient,
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	return c
}

// Home is the data shown when the meals view first opens.
type Home struct {
	Categories []Category
	Meals      []Meal
}

// Home fetches categories and the default meal list concurrently.
func (c *Client) Home(ctx context.Context) Home {
	var (
		h Home
		g errgroup.Group
	)
	g.Go(func() error {
		h.Categories = c.Categories(ctx)
		return nil
	})
	g.Go(func() error {
		h.Meals = c.SearchMeals(ctx, "")
		return nil
	})
	g.Wait()
	return h
}

// fetch GETs rawURL and returns the parsed JSON document. ok is false on
// any failure, which has already been logged.
func (c *Client) fetch(ctx context.Context, rawURL string) (gjson.Result, bool) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		log.Printf("catalog: fetch failed: %s: %v", rawURL, err)
		return gjson.Result{}, false
	}
	if !gjson.ValidBytes(body) {
		log.Printf("catalog: invalid json from %s", rawURL)
		return gjson.Result{}, false
	}
	return gjson.ParseBytes(body), true
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
