package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property types and categories are closed sets; anything else is rejected at
// the validation layer.
var (
	PropertyTypes      = []string{"sale", "rent"}
	PropertyCategories = []string{"apartment", "villa", "house", "plot", "commercial"}
)

// Validation bounds shared by the validation layer and its tests.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinDescriptionLength = 10
	MaxDescriptionLength = 5000
	MaxLocationLength    = 200
	MinBeds              = 0
	MaxBeds              = 50
	MinBaths             = 0
	MaxBaths             = 50
)

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Specs struct {
	Beds  int    `bson:"beds" json:"beds"`
	Baths int    `bson:"baths" json:"baths"`
	Area  string `bson:"area" json:"area"`
}

// Property is a single listing. Price is numeric, in the smallest currency
// unit, so budget range filters run directly in the database.
type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Location     string             `bson:"location" json:"location"`
	Coordinates  *Coordinates       `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Type         string             `bson:"type" json:"type"`
	Category     string             `bson:"category" json:"category"`
	Specs        Specs              `bson:"specs" json:"specs"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	Images       []string           `bson:"images" json:"images"`
	ExternalLink string             `bson:"externalLink,omitempty" json:"externalLink,omitempty"`
	Featured     bool               `bson:"featured" json:"featured"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidPropertyType(t string) bool {
	return contains(PropertyTypes, t)
}

func ValidPropertyCategory(c string) bool {
	return contains(PropertyCategories, c)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
