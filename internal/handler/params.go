package handler

import (
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

// stayFilterFromQuery binds the list query string into a StayFilter.
// Scalars use form style; lists are comma-separated (form, explode=false),
// and repeated keys (amenities=a&amenities=b) are joined into one list.
// A parameter that fails to bind is treated as absent.
func stayFilterFromQuery(q url.Values) domain.StayFilter {
	var f domain.StayFilter

	f.Name, _ = queryParam[string](q, "name", true)
	f.Type, _ = queryParam[string](q, "type", true)
	f.Destination, _ = queryParam[string](q, "destination", true)

	f.Amenities, _ = queryParam[[]string](q, "amenities", false)
	f.RoomTypes, _ = queryParam[[]string](q, "roomTypes", false)
	f.PropertyTypes, _ = queryParam[[]string](q, "propertyTypes", false)

	f.MinPrice = optional[float64](q, "minPrice")
	f.MaxPrice = optional[float64](q, "maxPrice")
	f.Guests = optional[int](q, "guests")
	f.Bathrooms = optional[int](q, "bathrooms")
	f.Bedrooms = optional[int](q, "bedrooms")
	f.Beds = optional[int](q, "beds")

	f.Page, _ = queryParam[int](q, "page", true)
	return f
}

func queryParam[T any](q url.Values, name string, explode bool) (T, bool) {
	var v T
	if !q.Has(name) {
		return v, false
	}
	if values := q[name]; !explode && len(values) > 1 {
		q = url.Values{name: {strings.Join(values, ",")}}
	}
	if err := runtime.BindQueryParameter("form", explode, false, name, q, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

func optional[T any](q url.Values, name string) *T {
	v, ok := queryParam[T](q, name, true)
	if !ok {
		return nil
	}
	return &v
}
