package repo

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

// BuildPgCriteria renders f as a WHERE clause over the stays.doc JSONB
// column together with its named arguments. Clauses are joined with AND;
// with no clauses the result is "TRUE".
func BuildPgCriteria(f domain.StayFilter) (string, pgx.NamedArgs) {
	f = f.Normalize()
	var clauses []string
	args := pgx.NamedArgs{}

	if f.Name != "" {
		clauses = append(clauses, pgContains(`doc->>'name'`, "name"))
		args["name"] = escapeLike(f.Name)
	}
	if f.Type != "" {
		clauses = append(clauses, pgContains(`doc->>'type'`, "type"))
		args["type"] = escapeLike(f.Type)
	}
	if len(f.Amenities) > 0 {
		clauses = append(clauses, pgAnyContains("amenities", "amenities"))
		args["amenities"] = likePatterns(f.Amenities)
	}
	if len(f.RoomTypes) > 0 {
		clauses = append(clauses, `EXISTS (
			SELECT 1 FROM jsonb_array_elements(COALESCE(doc->'roomTypes', '[]'::jsonb)) AS rt
			WHERE rt->>'title' = ANY(@room_types::text[]))`)
		args["room_types"] = f.RoomTypes
	}
	if lo, hi, ok := f.PriceRange(); ok {
		clauses = append(clauses, `(doc->>'price')::float8 BETWEEN @min_price AND @max_price`)
		args["min_price"] = lo
		args["max_price"] = hi
	}
	if f.Destination != "" {
		clauses = append(clauses, pgContains(`doc->'loc'->>'country'`, "destination"))
		args["destination"] = escapeLike(f.Destination)
	}
	if len(f.PropertyTypes) > 0 {
		clauses = append(clauses, pgIn(`doc->>'propertyType'`, "property_types"))
		args["property_types"] = f.PropertyTypes
	}
	for _, b := range []struct {
		field string
		value *int
	}{
		{"capacity", f.Guests},
		{"bathrooms", f.Bathrooms},
		{"bedrooms", f.Bedrooms},
		{"beds", f.Beds},
	} {
		if b.value == nil {
			continue
		}
		clauses = append(clauses, pgAtLeast(b.field, b.field))
		args[b.field] = *b.value
	}

	if len(clauses) == 0 {
		return "TRUE", args
	}
	return strings.Join(clauses, " AND "), args
}

// pgContains is a case-insensitive substring match of expr against an
// already LIKE-escaped argument.
func pgContains(expr, param string) string {
	return expr + ` ILIKE '%' || @` + param + ` || '%'`
}

// pgAnyContains matches when any element of the JSON array field matches any
// of the LIKE patterns in param.
func pgAnyContains(field, param string) string {
	return `EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(COALESCE(doc->'` + field + `', '[]'::jsonb)) AS el
			WHERE el ILIKE ANY(@` + param + `::text[]))`
}

func pgIn(expr, param string) string {
	return expr + ` = ANY(@` + param + `::text[])`
}

func pgAtLeast(field, param string) string {
	return `(doc->>'` + field + `')::numeric >= @` + param + `::int`
}

// escapeLike escapes the LIKE metacharacters in s so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func likePatterns(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = "%" + escapeLike(t) + "%"
	}
	return out
}
