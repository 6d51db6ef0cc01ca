package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultWhatsAppNumber seeds the settings document on first read.
const DefaultWhatsAppNumber = "919876543210"

// Settings is a singleton document; at most one exists, lazily created on the
// first GET.
type Settings struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WhatsAppNumber string             `bson:"whatsappNumber" json:"whatsappNumber"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
