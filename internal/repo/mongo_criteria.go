package repo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

// BuildMongoCriteria renders f as a MongoDB filter document.
// Every present parameter contributes one top-level clause; MongoDB ANDs
// top-level clauses implicitly. An empty document matches every stay.
func BuildMongoCriteria(f domain.StayFilter) bson.D {
	f = f.Normalize()
	criteria := bson.D{}

	if f.Name != "" {
		criteria = append(criteria, mongoContains("name", f.Name))
	}
	if f.Type != "" {
		criteria = append(criteria, mongoContains("type", f.Type))
	}
	if len(f.Amenities) > 0 {
		criteria = append(criteria, mongoAnyContains("amenities", f.Amenities))
	}
	if len(f.RoomTypes) > 0 {
		criteria = append(criteria, mongoIn("roomTypes.title", f.RoomTypes))
	}
	if lo, hi, ok := f.PriceRange(); ok {
		criteria = append(criteria, mongoBetween("price", lo, hi))
	}
	if f.Destination != "" {
		criteria = append(criteria, mongoContains("loc.country", f.Destination))
	}
	if len(f.PropertyTypes) > 0 {
		criteria = append(criteria, mongoIn("propertyType", f.PropertyTypes))
	}
	if f.Guests != nil {
		criteria = append(criteria, mongoAtLeast("capacity", *f.Guests))
	}
	if f.Bathrooms != nil {
		criteria = append(criteria, mongoAtLeast("bathrooms", *f.Bathrooms))
	}
	if f.Bedrooms != nil {
		criteria = append(criteria, mongoAtLeast("bedrooms", *f.Bedrooms))
	}
	if f.Beds != nil {
		criteria = append(criteria, mongoAtLeast("beds", *f.Beds))
	}

	return criteria
}

// mongoPattern is a case-insensitive regex matching term literally anywhere.
func mongoPattern(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

func mongoContains(field, term string) bson.E {
	return bson.E{Key: field, Value: mongoPattern(term)}
}

// mongoAnyContains matches when any element of the array field contains any
// of terms. $in accepts regexes and applies them per array element.
func mongoAnyContains(field string, terms []string) bson.E {
	patterns := make(bson.A, len(terms))
	for i, term := range terms {
		patterns[i] = mongoPattern(term)
	}
	return bson.E{Key: field, Value: bson.D{{Key: "$in", Value: patterns}}}
}

func mongoIn(field string, values []string) bson.E {
	in := make(bson.A, len(values))
	for i, v := range values {
		in[i] = v
	}
	return bson.E{Key: field, Value: bson.D{{Key: "$in", Value: in}}}
}

func mongoBetween(field string, lo, hi float64) bson.E {
	return bson.E{Key: field, Value: bson.D{
		{Key: "$gte", Value: lo},
		{Key: "$lte", Value: hi},
	}}
}

func mongoAtLeast(field string, lower int) bson.E {
	return bson.E{Key: field, Value: bson.D{{Key: "$gte", Value: lower}}}
}
