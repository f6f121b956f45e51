package domain

import (
	"math"
	"strings"
)

// StayPageSize is the fixed number of stays returned per page.
const StayPageSize = 38

// MaxStayPage is the largest page whose offset still fits in an int.
const MaxStayPage = math.MaxInt / StayPageSize

// StayFilter carries the optional list/search parameters from the HTTP layer
// to the repo layer. The zero value matches every stay and selects page 0.
//
// Text fields are absent when empty. List fields are absent when they hold no
// non-empty elements. Numeric fields are absent when nil; the HTTP layer
// leaves them nil when the raw value does not parse.
type StayFilter struct {
	// Name and Type are case-insensitive substring matches.
	Name string
	Type string

	// Destination is a case-insensitive substring match on loc.country.
	Destination string

	// Amenities matches when any amenity of the stay contains any element
	// (case-insensitive).
	Amenities []string

	// RoomTypes matches when any room type title equals one of the elements.
	RoomTypes []string

	// PropertyTypes matches when the property type equals one of the elements.
	PropertyTypes []string

	// MinPrice and MaxPrice bound price inclusively. A missing bound
	// defaults to 0 and +Inf respectively.
	MinPrice *float64
	MaxPrice *float64

	// Guests, Bathrooms, Bedrooms and Beds are inclusive lower bounds on
	// capacity, bathrooms, bedrooms and beds.
	Guests    *int
	Bathrooms *int
	Bedrooms  *int
	Beds      *int

	// Page is the zero-based page index.
	Page int
}

// Normalize returns a copy of f with text trimmed, empty list elements
// dropped and the page clamped to [0, MaxStayPage].
func (f StayFilter) Normalize() StayFilter {
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.TrimSpace(f.Type)
	f.Destination = strings.TrimSpace(f.Destination)
	f.Amenities = cleanList(f.Amenities)
	f.RoomTypes = cleanList(f.RoomTypes)
	f.PropertyTypes = cleanList(f.PropertyTypes)
	f.Page = min(max(f.Page, 0), MaxStayPage)
	return f
}

// PriceRange returns the inclusive price bounds and whether a price
// constraint applies at all.
func (f StayFilter) PriceRange() (lo, hi float64, ok bool) {
	if f.MinPrice == nil && f.MaxPrice == nil {
		return 0, 0, false
	}
	lo, hi = 0, math.Inf(1)
	if f.MinPrice != nil {
		lo = *f.MinPrice
	}
	if f.MaxPrice != nil {
		hi = *f.MaxPrice
	}
	return lo, hi, true
}

// Offset returns the number of matching stays skipped before the page.
func (f StayFilter) Offset() int {
	// Saturates instead of overflowing for pages past MaxStayPage.
	return min(max(f.Page, 0), MaxStayPage) * StayPageSize
}

// cleanList splits comma-joined elements, trims them and drops empties.
// Returns nil when nothing remains.
func cleanList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
