package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestStayFilter_Normalize(t *testing.T) {
	f := domain.StayFilter{
		Name:          "  villa ",
		Type:          "   ",
		Destination:   " Portugal",
		Amenities:     []string{"wifi, pool", "", " tv "},
		RoomTypes:     []string{" ", ","},
		PropertyTypes: []string{"House"},
		Page:          -3,
	}.Normalize()

	assert.Equal(t, "villa", f.Name)
	assert.Empty(t, f.Type)
	assert.Equal(t, "Portugal", f.Destination)
	assert.Equal(t, []string{"wifi", "pool", "tv"}, f.Amenities)
	assert.Nil(t, f.RoomTypes, "a list of blanks is absent")
	assert.Equal(t, []string{"House"}, f.PropertyTypes)
	assert.Zero(t, f.Page)
}

func TestStayFilter_PriceRange(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.StayFilter
		lo, hi float64
		ok     bool
	}{
		{name: "no bounds", filter: domain.StayFilter{}, ok: false},
		{name: "min only", filter: domain.StayFilter{MinPrice: ptr(100.0)}, lo: 100, hi: math.Inf(1), ok: true},
		{name: "max only", filter: domain.StayFilter{MaxPrice: ptr(150.0)}, lo: 0, hi: 150, ok: true},
		{name: "both", filter: domain.StayFilter{MinPrice: ptr(100.0), MaxPrice: ptr(150.0)}, lo: 100, hi: 150, ok: true},
		{name: "zero min still a bound", filter: domain.StayFilter{MinPrice: ptr(0.0)}, lo: 0, hi: math.Inf(1), ok: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi, ok := tc.filter.PriceRange()
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.lo, lo)
			assert.Equal(t, tc.hi, hi)
		})
	}
}

func TestStayFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, domain.StayFilter{}.Offset())
	assert.Equal(t, 38, domain.StayFilter{Page: 1}.Offset())
	assert.Equal(t, 76, domain.StayFilter{Page: 2}.Offset())
	assert.Equal(t, 0, domain.StayFilter{Page: -1}.Offset())
}

func TestStayFilter_Offset_HugePageDoesNotOverflow(t *testing.T) {
	for _, page := range []int{domain.MaxStayPage, domain.MaxStayPage + 1, math.MaxInt} {
		off := domain.StayFilter{Page: page}.Offset()
		assert.Positive(t, off, "page %d", page)
		assert.Equal(t, domain.MaxStayPage*domain.StayPageSize, off)
	}
}

func TestStayFilter_Normalize_ClampsHugePage(t *testing.T) {
	f := domain.StayFilter{Page: math.MaxInt}.Normalize()

	assert.Equal(t, domain.MaxStayPage, f.Page)
}
