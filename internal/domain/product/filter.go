package product

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sentinel query value meaning "no filtering"
const filterAll = "all"

// Filter is the set of optional listing query parameters. Zero values and
// the "all" sentinel leave the corresponding criterion off.
type Filter struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	PriceRange string `form:"priceRange"`
	Rating     string `form:"rating"`
	SortBy     string `form:"sortBy"`
}

// Apply narrows and orders a user's product list. Criteria combine
// conjunctively; an unrecognized sortBy preserves the input order. The
// input slice is not mutated.
func (f Filter) Apply(products []Product) []Product {
	filtered := make([]Product, 0, len(products))

	minPrice, maxPrice := parsePriceRange(f.PriceRange)
	minRating, hasRating := parseRating(f.Rating)
	search := strings.ToLower(f.Search)

	for _, p := range products {
		if search != "" {
			name := strings.ToLower(p.Name)
			desc := strings.ToLower(p.Description)

			if !strings.Contains(name, search) && !strings.Contains(desc, search) {
				continue
			}
		}

		if f.Category != "" && f.Category != filterAll && p.Category != f.Category {
			continue
		}

		if minPrice != nil && p.Price < *minPrice {
			continue
		}

		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}

		if hasRating && p.Rating < minRating {
			continue
		}

		filtered = append(filtered, p)
	}

	sortProducts(f.SortBy, filtered)

	return filtered
}

// parsePriceRange understands "min-max" (inclusive), "min+" and bare "min"
// (lower bound only). An unparsable side means no bound on that side.
func parsePriceRange(priceRange string) (*float64, *float64) {
	if priceRange == "" || priceRange == filterAll {
		return nil, nil
	}

	minPart, maxPart, hasMax := strings.Cut(priceRange, "-")
	minPart = strings.TrimSuffix(strings.TrimSpace(minPart), "+")

	var minPrice, maxPrice *float64

	if v, err := strconv.ParseFloat(minPart, 64); err == nil {
		minPrice = &v
	}

	if hasMax {
		if v, err := strconv.ParseFloat(strings.TrimSpace(maxPart), 64); err == nil {
			maxPrice = &v
		}
	}

	return minPrice, maxPrice
}

// "4" and "4+" both mean rating >= 4.
func parseRating(rating string) (float64, bool) {
	if rating == "" || rating == filterAll {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(rating), "+"), 64)

	if err != nil {
		return 0, false
	}

	return v, true
}

func sortProducts(sortBy string, products []Product) {
	if sortBy == "" {
		return
	}

	// locale-aware ordering for product names
	coll := collate.New(language.English)

	switch sortBy {
	case "name-asc":
		sort.SliceStable(products, func(i, j int) bool {
			return coll.CompareString(products[i].Name, products[j].Name) < 0
		})
	case "name-desc":
		sort.SliceStable(products, func(i, j int) bool {
			return coll.CompareString(products[j].Name, products[i].Name) < 0
		})
	case "price-asc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case "price-desc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Price < products[i].Price
		})
	case "rating-desc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Rating < products[i].Rating
		})
	}
}
