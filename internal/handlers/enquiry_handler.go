package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skyline-estates/api/internal/models"
	"github.com/skyline-estates/api/internal/validation"
)

// CreateEnquiry records a public contact-form submission, optionally tied to
// a listing.
func (h *Handler) CreateEnquiry(c *gin.Context) {
	var payload validation.EnquiryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationFailed(c, validation.Errors{{Field: "body", Message: "Invalid request body"}})
		return
	}
	if errs := validation.Enquiry(&payload); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	now := time.Now().UTC()
	enquiry := models.Enquiry{
		ID:        primitive.NewObjectID(),
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Message:   payload.Message,
		Status:    "new",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if payload.PropertyID != "" {
		propertyID, _ := primitive.ObjectIDFromHex(payload.PropertyID)
		enquiry.Property = &propertyID
	}

	if _, err := h.DB.Collection("enquiries").InsertOne(c.Request.Context(), enquiry); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enquiry)
}

// enquiryListItem is an enquiry with the referenced listing's title joined
// in, so the admin view can show what each enquiry is about.
type enquiryListItem struct {
	models.Enquiry `bson:",inline"`
	PropertyTitle  *string `bson:"propertyTitle" json:"propertyTitle,omitempty"`
}

// enquiryListPipeline sorts newest first and joins the property title for
// enquiries tied to a listing; general enquiries get no title.
func enquiryListPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "properties"},
			{Key: "localField", Value: "property"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "propertyDoc"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "propertyTitle", Value: bson.D{
				{Key: "$arrayElemAt", Value: bson.A{"$propertyDoc.title", 0}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "propertyDoc", Value: 0}}}},
	}
}

// ListEnquiries returns all enquiries, newest first, each carrying the title
// of the listing it references. Admin only.
func (h *Handler) ListEnquiries(c *gin.Context) {
	ctx := c.Request.Context()

	cursor, err := h.DB.Collection("enquiries").Aggregate(ctx, enquiryListPipeline())
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var enquiries []enquiryListItem
	if err = cursor.All(ctx, &enquiries); err != nil {
		h.serverError(c, err)
		return
	}
	if enquiries == nil {
		enquiries = make([]enquiryListItem, 0)
	}

	c.JSON(http.StatusOK, enquiries)
}

// UpdateEnquiryStatus moves an enquiry through its lifecycle
// (new → contacted → closed). Admin only.
func (h *Handler) UpdateEnquiryStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		validationFailed(c, validation.Errors{{Field: "id", Message: "Invalid ID format"}})
		return
	}

	var payload validation.EnquiryStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationFailed(c, validation.Errors{{Field: "body", Message: "Invalid request body"}})
		return
	}
	if errs := validation.EnquiryStatus(&payload); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	update := bson.M{"$set": bson.M{"status": payload.Status, "updatedAt": time.Now().UTC()}}
	result, err := h.DB.Collection("enquiries").UpdateOne(c.Request.Context(), bson.M{"_id": id}, update)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Enquiry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enquiry updated"})
}

// DeleteEnquiry removes an enquiry by id. Admin only.
func (h *Handler) DeleteEnquiry(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		validationFailed(c, validation.Errors{{Field: "id", Message: "Invalid ID format"}})
		return
	}

	result, err := h.DB.Collection("enquiries").DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		h.serverError(c, err)
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Enquiry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enquiry deleted"})
}
