// Package validation enforces the request contracts: every mutation payload is
// parsed into a typed struct and checked field by field, producing a
// structured error list instead of an opaque binding error. A non-empty list
// short-circuits the request with 400 before anything touches the database.
package validation

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skyline-estates/api/internal/models"
)

// FieldError pairs a field name with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Errors []FieldError

func (e *Errors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

var (
	phonePattern    = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	whatsappPattern = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// CoordinatesPayload mirrors models.Coordinates for decoding.
type CoordinatesPayload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type SpecsPayload struct {
	Beds  *int    `json:"beds"`
	Baths *int    `json:"baths"`
	Area  *string `json:"area"`
}

// PropertyPayload is the JSON body of create/update requests. Pointer fields
// distinguish "absent" from "zero", so updates validate only what was sent.
type PropertyPayload struct {
	Title        *string             `json:"title"`
	Description  *string             `json:"description"`
	Price        *float64            `json:"price"`
	Location     *string             `json:"location"`
	Coordinates  *CoordinatesPayload `json:"coordinates"`
	Type         *string             `json:"type"`
	Category     *string             `json:"category"`
	Specs        *SpecsPayload       `json:"specs"`
	Amenities    *[]string           `json:"amenities"`
	Images       *[]string           `json:"images"`
	ExternalLink *string             `json:"externalLink"`
	Featured     *bool               `json:"featured"`
}

// DecodeProperty parses the JSON payload, translating type mismatches (e.g. a
// string price or a non-array amenities) into field errors.
func DecodeProperty(data []byte) (*PropertyPayload, Errors) {
	var p PropertyPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, decodeErrors(err)
	}
	return &p, nil
}

func decodeErrors(err error) Errors {
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return Errors{{Field: field, Message: fmt.Sprintf("must be of type %s", typeErr.Type)}}
	}
	return Errors{{Field: "body", Message: "invalid JSON"}}
}

// PropertyCreate validates a full listing payload; every required field must
// be present and within bounds.
func PropertyCreate(p *PropertyPayload) Errors {
	var errs Errors

	checkStringBounds(&errs, "title", p.Title, true, models.MinTitleLength, models.MaxTitleLength)
	checkStringBounds(&errs, "description", p.Description, true, models.MinDescriptionLength, models.MaxDescriptionLength)
	checkStringBounds(&errs, "location", p.Location, true, 1, models.MaxLocationLength)

	if p.Price == nil {
		errs.add("price", "Price is required")
	} else if *p.Price < 0 {
		errs.add("price", "Price must be a non-negative number")
	}

	if p.Type == nil {
		errs.add("type", "Type is required")
	} else if !models.ValidPropertyType(*p.Type) {
		errs.add("type", `Type must be either "sale" or "rent"`)
	}

	if p.Category == nil {
		errs.add("category", "Category is required")
	} else if !models.ValidPropertyCategory(*p.Category) {
		errs.add("category", "Invalid category")
	}

	if p.Specs == nil || p.Specs.Area == nil || strings.TrimSpace(*p.Specs.Area) == "" {
		errs.add("specs.area", "Area is required")
	}
	checkSpecs(&errs, p.Specs)
	checkOptional(&errs, p)

	return errs
}

// PropertyUpdate validates only the fields present in the payload.
func PropertyUpdate(p *PropertyPayload) Errors {
	var errs Errors

	checkStringBounds(&errs, "title", p.Title, false, models.MinTitleLength, models.MaxTitleLength)
	checkStringBounds(&errs, "description", p.Description, false, models.MinDescriptionLength, models.MaxDescriptionLength)
	checkStringBounds(&errs, "location", p.Location, false, 1, models.MaxLocationLength)

	if p.Price != nil && *p.Price < 0 {
		errs.add("price", "Price must be a non-negative number")
	}
	if p.Type != nil && !models.ValidPropertyType(*p.Type) {
		errs.add("type", `Type must be either "sale" or "rent"`)
	}
	if p.Category != nil && !models.ValidPropertyCategory(*p.Category) {
		errs.add("category", "Invalid category")
	}
	checkSpecs(&errs, p.Specs)
	checkOptional(&errs, p)

	return errs
}

func checkSpecs(errs *Errors, s *SpecsPayload) {
	if s == nil {
		return
	}
	if s.Beds != nil && (*s.Beds < models.MinBeds || *s.Beds > models.MaxBeds) {
		errs.add("specs.beds", fmt.Sprintf("Beds must be between %d and %d", models.MinBeds, models.MaxBeds))
	}
	if s.Baths != nil && (*s.Baths < models.MinBaths || *s.Baths > models.MaxBaths) {
		errs.add("specs.baths", fmt.Sprintf("Baths must be between %d and %d", models.MinBaths, models.MaxBaths))
	}
}

func checkOptional(errs *Errors, p *PropertyPayload) {
	if p.Coordinates != nil {
		if p.Coordinates.Lat != nil && (*p.Coordinates.Lat < -90 || *p.Coordinates.Lat > 90) {
			errs.add("coordinates.lat", "Latitude must be between -90 and 90")
		}
		if p.Coordinates.Lng != nil && (*p.Coordinates.Lng < -180 || *p.Coordinates.Lng > 180) {
			errs.add("coordinates.lng", "Longitude must be between -180 and 180")
		}
	}
	if p.ExternalLink != nil && *p.ExternalLink != "" {
		if u, err := url.Parse(*p.ExternalLink); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.add("externalLink", "External link must be a valid URL")
		}
	}
}

// EnquiryPayload is the public contact-form body.
type EnquiryPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	PropertyID string `json:"propertyId"`
}

// Enquiry normalizes the payload in place (whitespace trimmed) and validates
// the normalized values, so what passes here is exactly what gets stored.
func Enquiry(p *EnquiryPayload) Errors {
	var errs Errors

	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Message = strings.TrimSpace(p.Message)
	p.PropertyID = strings.TrimSpace(p.PropertyID)

	if p.Name == "" {
		errs.add("name", "Name is required")
	} else if len(p.Name) < models.MinEnquiryNameLength || len(p.Name) > models.MaxEnquiryNameLength {
		errs.add("name", fmt.Sprintf("Name must be between %d and %d characters", models.MinEnquiryNameLength, models.MaxEnquiryNameLength))
	}

	if p.Email == "" {
		errs.add("email", "Email is required")
	} else if _, err := mail.ParseAddress(p.Email); err != nil {
		errs.add("email", "Must be a valid email address")
	}

	if p.Phone == "" {
		errs.add("phone", "Phone is required")
	} else if !phonePattern.MatchString(p.Phone) {
		errs.add("phone", "Invalid phone number format")
	}

	if p.Message == "" {
		errs.add("message", "Message is required")
	} else if len(p.Message) < models.MinEnquiryMessageLength || len(p.Message) > models.MaxEnquiryMessageLength {
		errs.add("message", fmt.Sprintf("Message must be between %d and %d characters", models.MinEnquiryMessageLength, models.MaxEnquiryMessageLength))
	}

	if p.PropertyID != "" && !ValidObjectID(p.PropertyID) {
		errs.add("propertyId", "Invalid property ID")
	}

	return errs
}

// LoginPayload and RegisterPayload share the username/password shape; register
// additionally enforces charset and password strength.
type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(p *CredentialsPayload) Errors {
	var errs Errors
	p.Username = strings.TrimSpace(p.Username)
	if p.Username == "" {
		errs.add("username", "Username is required")
	}
	if p.Password == "" {
		errs.add("password", "Password is required")
	}
	return errs
}

func Register(p *CredentialsPayload) Errors {
	var errs Errors

	p.Username = strings.TrimSpace(p.Username)
	switch {
	case p.Username == "":
		errs.add("username", "Username is required")
	case len(p.Username) < models.MinUsernameLength || len(p.Username) > models.MaxUsernameLength:
		errs.add("username", fmt.Sprintf("Username must be between %d and %d characters", models.MinUsernameLength, models.MaxUsernameLength))
	case !usernamePattern.MatchString(p.Username):
		errs.add("username", "Username can only contain letters, numbers, and underscores")
	}

	switch {
	case p.Password == "":
		errs.add("password", "Password is required")
	case len(p.Password) < models.MinPasswordLength:
		errs.add("password", fmt.Sprintf("Password must be at least %d characters", models.MinPasswordLength))
	case !strongPassword(p.Password):
		errs.add("password", "Password must contain at least one uppercase letter, one lowercase letter, and one number")
	}

	return errs
}

func strongPassword(pw string) bool {
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// SettingsPayload carries the admin-editable site settings.
type SettingsPayload struct {
	WhatsAppNumber string `json:"whatsappNumber"`
}

// Settings normalizes the payload in place before matching, so the stored
// number is always the bare 10-15 digit string.
func Settings(p *SettingsPayload) Errors {
	var errs Errors
	p.WhatsAppNumber = strings.TrimSpace(p.WhatsAppNumber)
	if !whatsappPattern.MatchString(p.WhatsAppNumber) {
		errs.add("whatsappNumber", "WhatsApp number must be 10-15 digits")
	}
	return errs
}

// EnquiryStatusPayload updates an enquiry's lifecycle state.
type EnquiryStatusPayload struct {
	Status string `json:"status"`
}

func EnquiryStatus(p *EnquiryStatusPayload) Errors {
	var errs Errors
	if !models.ValidEnquiryStatus(p.Status) {
		errs.add("status", `Status must be one of "new", "contacted" or "closed"`)
	}
	return errs
}

// ValidObjectID reports whether s has the shape of a document id.
func ValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

func checkStringBounds(errs *Errors, field string, v *string, required bool, min, max int) {
	if v == nil {
		if required {
			errs.add(field, fmt.Sprintf("%s is required", title(field)))
		}
		return
	}
	s := strings.TrimSpace(*v)
	if required && s == "" {
		errs.add(field, fmt.Sprintf("%s is required", title(field)))
		return
	}
	if len(s) < min || len(s) > max {
		if min <= 1 {
			errs.add(field, fmt.Sprintf("%s must be less than %d characters", title(field), max))
		} else {
			errs.add(field, fmt.Sprintf("%s must be between %d and %d characters", title(field), min, max))
		}
	}
}

func title(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
