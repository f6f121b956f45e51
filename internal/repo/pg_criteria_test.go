package repo_test

import (
	"math"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
	"github.com/GuyBarda/airbxb-backend/internal/repo"
)

func TestBuildPgCriteria_Empty(t *testing.T) {
	where, args := repo.BuildPgCriteria(domain.StayFilter{})

	assert.Equal(t, "TRUE", where)
	assert.Empty(t, args)
}

func TestBuildPgCriteria_TextIsEscaped(t *testing.T) {
	where, args := repo.BuildPgCriteria(domain.StayFilter{Name: `50%_off\`})

	assert.Equal(t, `doc->>'name' ILIKE '%' || @name || '%'`, where)
	assert.Equal(t, pgx.NamedArgs{"name": `50\%\_off\\`}, args)
}

func TestBuildPgCriteria_ClausesAreConjoined(t *testing.T) {
	where, args := repo.BuildPgCriteria(domain.StayFilter{
		Destination:   "Spain",
		PropertyTypes: []string{"House", "Loft"},
		Amenities:     []string{"wifi"},
		RoomTypes:     []string{"Private room"},
		MinPrice:      ptr(100.0),
		Guests:        ptr(2),
	})

	assert.Contains(t, where, `doc->'loc'->>'country' ILIKE '%' || @destination || '%'`)
	assert.Contains(t, where, `doc->>'propertyType' = ANY(@property_types::text[])`)
	assert.Contains(t, where, `el ILIKE ANY(@amenities::text[])`)
	assert.Contains(t, where, `rt->>'title' = ANY(@room_types::text[])`)
	assert.Contains(t, where, `(doc->>'price')::float8 BETWEEN @min_price AND @max_price`)
	assert.Contains(t, where, `(doc->>'capacity')::numeric >= @capacity::int`)

	assert.Equal(t, "Spain", args["destination"])
	assert.Equal(t, []string{"House", "Loft"}, args["property_types"])
	assert.Equal(t, []string{"%wifi%"}, args["amenities"])
	assert.Equal(t, []string{"Private room"}, args["room_types"])
	assert.Equal(t, 100.0, args["min_price"])
	assert.Equal(t, math.Inf(1), args["max_price"])
	assert.Equal(t, 2, args["capacity"])
}
