// Package domain contains the core data types for the stay catalog.
// This package has no dependencies on other internal packages and is
// imported by every layer (repo, service, handler).
package domain

import "slices"

// Stay is a property listing available for booking.
// ID is assigned by the store on Add and never changes afterwards.
// Every other field is client-supplied and persisted as-is. Numeric fields
// are always stored, zero included, so range filters see them.
type Stay struct {
	ID           string     `json:"_id,omitempty" bson:"-"`
	Name         string     `json:"name,omitempty" bson:"name,omitempty"`
	Type         string     `json:"type,omitempty" bson:"type,omitempty"`
	Summary      string     `json:"summary,omitempty" bson:"summary,omitempty"`
	ImgURLs      []string   `json:"imgUrls,omitempty" bson:"imgUrls,omitempty"`
	Amenities    []string   `json:"amenities,omitempty" bson:"amenities,omitempty"`
	RoomTypes    []RoomType `json:"roomTypes,omitempty" bson:"roomTypes,omitempty"`
	Price        float64    `json:"price" bson:"price"`
	Capacity     int        `json:"capacity" bson:"capacity"`
	Loc          *Location  `json:"loc,omitempty" bson:"loc,omitempty"`
	PropertyType string     `json:"propertyType,omitempty" bson:"propertyType,omitempty"`
	Bathrooms    int        `json:"bathrooms" bson:"bathrooms"`
	Bedrooms     int        `json:"bedrooms" bson:"bedrooms"`
	Beds         int        `json:"beds" bson:"beds"`
	Host         *MiniUser  `json:"host,omitempty" bson:"host,omitempty"`
	Msgs         []Message  `json:"msgs,omitempty" bson:"msgs,omitempty"`
}

// updatableFields are the top-level JSON keys an update may set. The ID and
// the message thread are absent.
var updatableFields = map[string]bool{
	"name": true, "type": true, "summary": true, "imgUrls": true,
	"amenities": true, "roomTypes": true, "price": true, "capacity": true,
	"loc": true, "propertyType": true, "bathrooms": true, "bedrooms": true,
	"beds": true, "host": true,
}

// UpdatableFields filters keys down to the Stay fields an update may set,
// sorted and without duplicates. "_id", "msgs" and unknown keys are dropped.
func UpdatableFields(keys []string) []string {
	var out []string
	for _, k := range keys {
		if updatableFields[k] && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// RoomType is one bookable room configuration of a stay.
// Filters match on Title.
type RoomType struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	ImgURL      string `json:"imgUrl,omitempty" bson:"imgUrl,omitempty"`
}

// Location is where a stay is. The destination filter matches on Country.
type Location struct {
	Country     string  `json:"country,omitempty" bson:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty" bson:"countryCode,omitempty"`
	City        string  `json:"city,omitempty" bson:"city,omitempty"`
	Address     string  `json:"address,omitempty" bson:"address,omitempty"`
	Lat         float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng         float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// MiniUser is the embedded reference to a user (stay host, message author).
type MiniUser struct {
	ID       string `json:"_id,omitempty" bson:"_id,omitempty"`
	Fullname string `json:"fullname,omitempty" bson:"fullname,omitempty"`
	ImgURL   string `json:"imgUrl,omitempty" bson:"imgUrl,omitempty"`
}

// Message is one entry of a stay's message thread.
// ID is generated by the service, not the store, and is unique within the
// parent stay's Msgs.
type Message struct {
	ID  string    `json:"id" bson:"id"`
	Txt string    `json:"txt" bson:"txt"`
	By  *MiniUser `json:"by,omitempty" bson:"by,omitempty"`
}

// StayPage is one page of a filtered stay listing.
// TotalCount is the size of the whole filtered set, not of Stays.
type StayPage struct {
	Stays      []Stay `json:"stays"`
	TotalCount int64  `json:"totalCount"`
}
