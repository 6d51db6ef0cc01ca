package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skyline-estates/api/internal/models"
	"github.com/skyline-estates/api/internal/query"
	"github.com/skyline-estates/api/internal/services"
	"github.com/skyline-estates/api/internal/validation"
)

// ListProperties serves the public catalog with filtering, sorting and
// pagination. Malformed filter values degrade to no constraint.
func (h *Handler) ListProperties(c *gin.Context) {
	params := query.ListParams{
		Type:      c.Query("type"),
		Category:  c.Query("category"),
		Featured:  c.Query("featured"),
		Location:  c.Query("location"),
		MinBudget: c.Query("minBudget"),
		MaxBudget: c.Query("maxBudget"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		Sort:      c.Query("sort"),
	}
	filter := params.Filter()
	window := params.Window()

	ctx := c.Request.Context()
	collection := h.DB.Collection("properties")

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		h.serverError(c, err)
		return
	}

	cursor, err := collection.Find(ctx, filter, params.FindOptions(window))
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err = cursor.All(ctx, &properties); err != nil {
		h.serverError(c, err)
		return
	}
	if properties == nil {
		properties = make([]models.Property, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"pagination": query.Paginate(window, total, len(properties)),
	})
}

// GetProperty returns a single listing or 404.
func (h *Handler) GetProperty(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
		return
	}

	var property models.Property
	err = h.DB.Collection("properties").FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// GetSimilarProperties returns up to three other listings sharing the
// source's category and type. Ordering is unspecified.
func (h *Handler) GetSimilarProperties(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
		return
	}

	ctx := c.Request.Context()
	collection := h.DB.Collection("properties")

	var source models.Property
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&source); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	findOptions := options.Find().SetLimit(query.SimilarLimit)
	cursor, err := collection.Find(ctx, query.SimilarFilter(&source), findOptions)
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var similar []models.Property
	if err = cursor.All(ctx, &similar); err != nil {
		h.serverError(c, err)
		return
	}
	if similar == nil {
		similar = make([]models.Property, 0)
	}

	c.JSON(http.StatusOK, similar)
}

// CreateProperty inserts a new listing. The multipart body carries the JSON
// payload in a `data` field plus up to ten image files; images are uploaded
// before the document write.
func (h *Handler) CreateProperty(c *gin.Context) {
	raw, err := propertyPayloadBytes(c)
	if err != nil {
		validationFailed(c, validation.Errors{{Field: "data", Message: "Property payload is required"}})
		return
	}

	payload, errs := validation.DecodeProperty(raw)
	if errs == nil {
		errs = validation.PropertyCreate(payload)
	}
	if len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	files := imageFiles(c)
	if err := services.ValidateImages(files); err != nil {
		validationFailed(c, validation.Errors{{Field: "images", Message: err.Error()}})
		return
	}

	images := []string{}
	if payload.Images != nil {
		images = append(images, *payload.Images...)
	}
	if len(files) > 0 {
		uploaded, err := h.Uploads.UploadImages(c.Request.Context(), files)
		if err != nil {
			h.serverError(c, err)
			return
		}
		images = append(images, uploaded...)
	}

	now := time.Now().UTC()
	property := models.Property{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(*payload.Title),
		Description: strings.TrimSpace(*payload.Description),
		Price:       *payload.Price,
		Location:    strings.TrimSpace(*payload.Location),
		Type:        *payload.Type,
		Category:    *payload.Category,
		Specs:       specsFromPayload(payload.Specs),
		Amenities:   []string{},
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if payload.Amenities != nil {
		property.Amenities = *payload.Amenities
	}
	if payload.Featured != nil {
		property.Featured = *payload.Featured
	}
	if payload.ExternalLink != nil {
		property.ExternalLink = strings.TrimSpace(*payload.ExternalLink)
	}
	if payload.Coordinates != nil && payload.Coordinates.Lat != nil && payload.Coordinates.Lng != nil {
		property.Coordinates = &models.Coordinates{Lat: *payload.Coordinates.Lat, Lng: *payload.Coordinates.Lng}
	}

	if _, err := h.DB.Collection("properties").InsertOne(c.Request.Context(), property); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

// UpdateProperty applies the provided fields to an existing listing. Newly
// uploaded images are appended to the caller-supplied retained image list.
func (h *Handler) UpdateProperty(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		validationFailed(c, validation.Errors{{Field: "id", Message: "Invalid ID format"}})
		return
	}

	raw, err := propertyPayloadBytes(c)
	if err != nil {
		validationFailed(c, validation.Errors{{Field: "data", Message: "Property payload is required"}})
		return
	}

	payload, errs := validation.DecodeProperty(raw)
	if errs == nil {
		errs = validation.PropertyUpdate(payload)
	}
	if len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	files := imageFiles(c)
	if err := services.ValidateImages(files); err != nil {
		validationFailed(c, validation.Errors{{Field: "images", Message: err.Error()}})
		return
	}

	set := updateFields(payload)
	if len(files) > 0 {
		uploaded, err := h.Uploads.UploadImages(c.Request.Context(), files)
		if err != nil {
			h.serverError(c, err)
			return
		}
		retained := []string{}
		if payload.Images != nil {
			retained = *payload.Images
		}
		set["images"] = append(retained, uploaded...)
	}
	set["updatedAt"] = time.Now().UTC()

	var updated models.Property
	err = h.DB.Collection("properties").FindOneAndUpdate(
		c.Request.Context(),
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProperty removes a listing by id.
func (h *Handler) DeleteProperty(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		validationFailed(c, validation.Errors{{Field: "id", Message: "Invalid ID format"}})
		return
	}

	result, err := h.DB.Collection("properties").DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		h.serverError(c, err)
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

// propertyPayloadBytes reads the listing JSON either from the multipart
// `data` field or, for requests without files, from the raw body.
func propertyPayloadBytes(c *gin.Context) ([]byte, error) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		data := c.PostForm("data")
		if data == "" {
			return nil, errors.New("missing data field")
		}
		return []byte(data), nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		return nil, errors.New("empty body")
	}
	return raw, nil
}

func imageFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

func specsFromPayload(s *validation.SpecsPayload) models.Specs {
	specs := models.Specs{}
	if s == nil {
		return specs
	}
	if s.Beds != nil {
		specs.Beds = *s.Beds
	}
	if s.Baths != nil {
		specs.Baths = *s.Baths
	}
	if s.Area != nil {
		specs.Area = strings.TrimSpace(*s.Area)
	}
	return specs
}

// updateFields builds the $set document from the fields the caller provided.
func updateFields(p *validation.PropertyPayload) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		set["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Location != nil {
		set["location"] = strings.TrimSpace(*p.Location)
	}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Specs != nil {
		if p.Specs.Beds != nil {
			set["specs.beds"] = *p.Specs.Beds
		}
		if p.Specs.Baths != nil {
			set["specs.baths"] = *p.Specs.Baths
		}
		if p.Specs.Area != nil {
			set["specs.area"] = strings.TrimSpace(*p.Specs.Area)
		}
	}
	if p.Amenities != nil {
		set["amenities"] = *p.Amenities
	}
	if p.Images != nil {
		set["images"] = *p.Images
	}
	if p.ExternalLink != nil {
		set["externalLink"] = strings.TrimSpace(*p.ExternalLink)
	}
	if p.Featured != nil {
		set["featured"] = *p.Featured
	}
	if p.Coordinates != nil && p.Coordinates.Lat != nil && p.Coordinates.Lng != nil {
		set["coordinates"] = models.Coordinates{Lat: *p.Coordinates.Lat, Lng: *p.Coordinates.Lng}
	}
	return set
}
