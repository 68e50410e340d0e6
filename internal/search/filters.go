package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/models"
)

const (
	SortRating     = "rating"
	SortPriceLow   = "price_low"
	SortPriceHigh  = "price_high"
	SortExperience = "experience"

	DefaultSort = SortRating
)

var sortOptions = map[string]bool{
	SortRating:     true,
	SortPriceLow:   true,
	SortPriceHigh:  true,
	SortExperience: true,
}

// RatingOptions are the only accepted min_rating values.
var RatingOptions = []float64{3.0, 3.5, 4.0, 4.5}

// Filters is the mutable facet set behind the provider search page.
// Nil pointers and empty strings mean "not set".
type Filters struct {
	Service       string   `json:"service"`
	Location      string   `json:"location"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	MinRating     *float64 `json:"min_rating,omitempty"`
	MinExperience *int     `json:"min_experience,omitempty"`
	Available     bool     `json:"available"`
	SortBy        string   `json:"sort_by"`
}

func DefaultFilters() Filters {
	return Filters{SortBy: DefaultSort}
}

// Searchable reports whether an explicit search may be issued.
func (f Filters) Searchable() bool {
	return strings.TrimSpace(f.Service) != "" || strings.TrimSpace(f.Location) != ""
}

func (f Filters) Validate() error {
	ve := &httperr.ValidationError{}

	if loc := strings.TrimSpace(f.Location); loc != "" && !models.IsLocation(loc) {
		ve.Add("location", "invalid", "Please choose a location from the list.")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		ve.Add("max_price", "invalid", "Max price cannot be negative.")
	}
	if f.MinRating != nil && !validRating(*f.MinRating) {
		ve.Add("min_rating", "invalid", "Minimum rating must be 3.0, 3.5, 4.0 or 4.5.")
	}
	if f.MinExperience != nil && *f.MinExperience < 0 {
		ve.Add("min_experience", "invalid", "Experience cannot be negative.")
	}
	if f.SortBy != "" && !sortOptions[f.SortBy] {
		ve.Add("sort_by", "invalid", "Unknown sort order.")
	}
	return ve.OrNil()
}

func validRating(v float64) bool {
	for _, r := range RatingOptions {
		if v == r {
			return true
		}
	}
	return false
}

// Compose maps the filters to the /providers/search query. Only facets
// that constrain the result set are emitted; the default sort is implied.
func Compose(f Filters) url.Values {
	q := url.Values{}

	if s := strings.TrimSpace(f.Service); s != "" {
		q.Set("service", s)
	}
	if l := strings.TrimSpace(f.Location); l != "" {
		q.Set("location", l)
	}
	if f.MaxPrice != nil && *f.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.MinRating != nil {
		q.Set("min_rating", strconv.FormatFloat(*f.MinRating, 'f', 1, 64))
	}
	if f.MinExperience != nil && *f.MinExperience > 0 {
		q.Set("min_experience", strconv.Itoa(*f.MinExperience))
	}
	if f.Available {
		q.Set("available", "true")
	}
	if f.SortBy != "" && f.SortBy != DefaultSort {
		q.Set("sort_by", f.SortBy)
	}
	return q
}
