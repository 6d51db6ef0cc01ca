package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skyline-estates/api/internal/models"
	"github.com/skyline-estates/api/internal/validation"
)

// GetSettings returns the singleton settings document, creating it with
// defaults the first time it is read.
func (h *Handler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()
	collection := h.DB.Collection("settings")

	var settings models.Settings
	err := collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.serverError(c, err)
			return
		}
		now := time.Now().UTC()
		settings = models.Settings{
			ID:             primitive.NewObjectID(),
			WhatsAppNumber: models.DefaultWhatsAppNumber,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := collection.InsertOne(ctx, settings); err != nil {
			h.serverError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings changes the WhatsApp contact number. Admin only; upserts so
// it works even before the first public read.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var payload validation.SettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationFailed(c, validation.Errors{{Field: "body", Message: "Invalid request body"}})
		return
	}
	if errs := validation.Settings(&payload); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"whatsappNumber": payload.WhatsAppNumber, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	var settings models.Settings
	err := h.DB.Collection("settings").FindOneAndUpdate(
		c.Request.Context(),
		bson.M{},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&settings)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
