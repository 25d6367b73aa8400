package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"backend/config"

	"go.uber.org/zap"
)

// RawProduct is the variable-shape product record returned by Open Food
// Facts. Nutriments carries per-100g and per-serving values keyed like
// "proteins_100g" / "proteins_serving"; values arrive as numbers or strings.
type RawProduct struct {
	Code        string                 `json:"code"`
	ProductName string                 `json:"product_name"`
	Brands      string                 `json:"brands"`
	ServingSize string                 `json:"serving_size,omitempty"`
	Nutriments  map[string]interface{} `json:"nutriments"`
}

// OpenFoodFactsClient wraps the Open Food Facts barcode and search
// endpoints. Absence of data is an expected outcome at this layer: lookups
// return nil/empty on not-found and on transport failure, never an error.
type OpenFoodFactsClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

func NewOpenFoodFactsClient(cfg config.FoodDBConfig, logger *zap.Logger) *OpenFoodFactsClient {
	return &OpenFoodFactsClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:    logger,
	}
}

type productResponse struct {
	Status  int         `json:"status"` // 1 = found
	Product *RawProduct `json:"product"`
}

type searchResponse struct {
	Products []RawProduct `json:"products"`
}

// LookupByBarcode fetches a product by its barcode. The caller validates the
// barcode format before invoking. Returns nil when the product does not
// exist or the database is unreachable.
func (c *OpenFoodFactsClient) LookupByBarcode(ctx context.Context, barcode string) *RawProduct {
	u := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))

	var pr productResponse
	if !c.getJSON(ctx, u, &pr) {
		return nil
	}
	if pr.Status != 1 || pr.Product == nil {
		c.logger.Debug("barcode not in food database", zap.String("barcode", barcode))
		return nil
	}
	return pr.Product
}

// SearchByText runs a free-text product search and returns results in the
// database's relevance order. Empty on no matches or transport failure.
func (c *OpenFoodFactsClient) SearchByText(ctx context.Context, query string, limit int) []RawProduct {
	q := url.Values{}
	q.Set("search_terms", query)
	q.Set("page_size", strconv.Itoa(limit))
	q.Set("json", "1")
	u := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, q.Encode())

	var sr searchResponse
	if !c.getJSON(ctx, u, &sr) {
		return nil
	}
	return sr.Products
}

// getJSON performs the request and decodes into out. Failures are logged and
// reported as false so callers degrade to the next resolution strategy.
func (c *OpenFoodFactsClient) getJSON(ctx context.Context, u string, out interface{}) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.logger.Warn("failed to build food database request", zap.Error(err))
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("food database unreachable", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("food database returned non-2xx", zap.Int("status", resp.StatusCode))
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("failed to decode food database response", zap.Error(err))
		return false
	}
	return true
}

// NormalizeProduct converts a raw product into a NutritionRecord.
//
// When a serving size is known (the product's own, or the caller-supplied
// override) per-serving values are preferred; each nutrient independently
// falls back to its _100g value when the serving value is absent. Missing
// values default to 0. Calories round to whole kcal, gram values to one
// decimal place (halves away from zero, via math.Round).
//
// Returns nil only when the product has no name or no nutriment block at
// all; a named product with all-zero nutrients is still a valid result.
func NormalizeProduct(raw *RawProduct, servingOverride string) *NutritionRecord {
	if raw == nil {
		return nil
	}
	name := strings.TrimSpace(raw.ProductName)
	if name == "" || len(raw.Nutriments) == 0 {
		return nil
	}

	serving := firstNonEmpty(strings.TrimSpace(servingOverride), strings.TrimSpace(raw.ServingSize))

	nutrient := func(key string) float64 {
		if serving != "" {
			if v, ok := nutrimentValue(raw.Nutriments, key+"_serving"); ok {
				return v
			}
		}
		v, _ := nutrimentValue(raw.Nutriments, key+"_100g")
		return v
	}

	basis := serving
	if basis == "" {
		basis = "100g"
	}

	desc := name
	if brand := strings.TrimSpace(raw.Brands); brand != "" {
		desc += " by " + brand
	}
	desc += fmt.Sprintf(" (per %s)", basis)

	return &NutritionRecord{
		FoodDetails: FoodDetails{
			Name:        name,
			Description: strings.TrimSpace(desc),
		},
		Macronutrients: Macronutrients{
			Calories:     roundKcal(nutrient("energy-kcal")),
			ProteinGrams: roundGrams(nutrient("proteins")),
			Carbohydrates: Carbohydrates{
				TotalGrams: roundGrams(nutrient("carbohydrates")),
				FiberGrams: roundGrams(nutrient("fiber")),
				SugarGrams: roundGrams(nutrient("sugars")),
			},
			Fat: Fat{
				TotalGrams:     roundGrams(nutrient("fat")),
				SaturatedGrams: roundGrams(nutrient("saturated-fat")),
			},
		},
	}
}

// nutrimentValue reads one value from the nutriments map. Open Food Facts
// serialises numbers inconsistently, so both JSON numbers and numeric
// strings are accepted.
func nutrimentValue(nutriments map[string]interface{}, key string) (float64, bool) {
	v, ok := nutriments[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
