package repo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
	"github.com/GuyBarda/airbxb-backend/internal/repo"
)

func ptr[T any](v T) *T { return &v }

func TestBuildMongoCriteria_Empty_MatchesEverything(t *testing.T) {
	assert.Equal(t, bson.D{}, repo.BuildMongoCriteria(domain.StayFilter{}))
}

func TestBuildMongoCriteria_BlankTextIsAbsent(t *testing.T) {
	f := domain.StayFilter{Name: "  ", Type: "", Destination: " ", Amenities: []string{""}, Page: 4}
	assert.Equal(t, bson.D{}, repo.BuildMongoCriteria(f))
}

func TestBuildMongoCriteria_TextFields(t *testing.T) {
	got := repo.BuildMongoCriteria(domain.StayFilter{
		Name:        "villa",
		Type:        "Entire home",
		Destination: "portugal",
	})

	assert.Equal(t, bson.D{
		{Key: "name", Value: primitive.Regex{Pattern: "villa", Options: "i"}},
		{Key: "type", Value: primitive.Regex{Pattern: "Entire home", Options: "i"}},
		{Key: "loc.country", Value: primitive.Regex{Pattern: "portugal", Options: "i"}},
	}, got)
}

func TestBuildMongoCriteria_TextIsMatchedLiterally(t *testing.T) {
	got := repo.BuildMongoCriteria(domain.StayFilter{Name: "a.b(c)*"})

	assert.Equal(t, bson.D{
		{Key: "name", Value: primitive.Regex{Pattern: `a\.b\(c\)\*`, Options: "i"}},
	}, got)
}

func TestBuildMongoCriteria_Amenities(t *testing.T) {
	got := repo.BuildMongoCriteria(domain.StayFilter{Amenities: []string{"wifi, Pool"}})

	assert.Equal(t, bson.D{
		{Key: "amenities", Value: bson.D{{Key: "$in", Value: bson.A{
			primitive.Regex{Pattern: "wifi", Options: "i"},
			primitive.Regex{Pattern: "Pool", Options: "i"},
		}}}},
	}, got)
}

func TestBuildMongoCriteria_SetMembership(t *testing.T) {
	got := repo.BuildMongoCriteria(domain.StayFilter{
		RoomTypes:     []string{"Entire home/apt", "Private room"},
		PropertyTypes: []string{"Loft"},
	})

	assert.Equal(t, bson.D{
		{Key: "roomTypes.title", Value: bson.D{{Key: "$in", Value: bson.A{"Entire home/apt", "Private room"}}}},
		{Key: "propertyType", Value: bson.D{{Key: "$in", Value: bson.A{"Loft"}}}},
	}, got)
}

func TestBuildMongoCriteria_PriceDefaults(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.StayFilter
		lo, hi float64
	}{
		{"min only", domain.StayFilter{MinPrice: ptr(100.0)}, 100, math.Inf(1)},
		{"max only", domain.StayFilter{MaxPrice: ptr(150.0)}, 0, 150},
		{"both", domain.StayFilter{MinPrice: ptr(100.0), MaxPrice: ptr(150.0)}, 100, 150},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := repo.BuildMongoCriteria(tc.filter)
			assert.Equal(t, bson.D{
				{Key: "price", Value: bson.D{{Key: "$gte", Value: tc.lo}, {Key: "$lte", Value: tc.hi}}},
			}, got)
		})
	}
}

func TestBuildMongoCriteria_LowerBounds(t *testing.T) {
	got := repo.BuildMongoCriteria(domain.StayFilter{
		Guests:    ptr(4),
		Bathrooms: ptr(1),
		Bedrooms:  ptr(2),
		Beds:      ptr(3),
	})

	assert.Equal(t, bson.D{
		{Key: "capacity", Value: bson.D{{Key: "$gte", Value: 4}}},
		{Key: "bathrooms", Value: bson.D{{Key: "$gte", Value: 1}}},
		{Key: "bedrooms", Value: bson.D{{Key: "$gte", Value: 2}}},
		{Key: "beds", Value: bson.D{{Key: "$gte", Value: 3}}},
	}, got)
}

func TestBuildMongoCriteria_IgnoresPage(t *testing.T) {
	assert.Equal(t,
		repo.BuildMongoCriteria(domain.StayFilter{Name: "loft"}),
		repo.BuildMongoCriteria(domain.StayFilter{Name: "loft", Page: 3}),
	)
}
