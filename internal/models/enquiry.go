package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var EnquiryStatuses = []string{"new", "contacted", "closed"}

const (
	MinEnquiryNameLength    = 2
	MaxEnquiryNameLength    = 100
	MinEnquiryMessageLength = 10
	MaxEnquiryMessageLength = 1000
)

// Enquiry is a contact-form submission. Property is nil for general
// enquiries not tied to a listing.
type Enquiry struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Phone     string              `bson:"phone" json:"phone"`
	Message   string              `bson:"message" json:"message"`
	Property  *primitive.ObjectID `bson:"property,omitempty" json:"property,omitempty"`
	Status    string              `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func ValidEnquiryStatus(s string) bool {
	return contains(EnquiryStatuses, s)
}
