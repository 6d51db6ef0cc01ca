package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skyline-estates/api/internal/models"
	"github.com/skyline-estates/api/internal/utils"
	"github.com/skyline-estates/api/internal/validation"
)

// Login verifies admin credentials and issues a 7-day token.
func (h *Handler) Login(c *gin.Context) {
	var payload validation.CredentialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationFailed(c, validation.Errors{{Field: "body", Message: "Invalid request body"}})
		return
	}
	if errs := validation.Login(&payload); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"username": payload.Username}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(payload.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(h.Cfg.JWT.Secret, user.ID.Hex(), user.Role, h.Cfg.JWT.Expiry)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Verify lets the client confirm its credential is still valid and fetch the
// current identity. Runs behind the admin middleware, so reaching it at all
// means the token checked out.
func (h *Handler) Verify(c *gin.Context) {
	userIDHex, _ := c.Get("userID")
	userID, err := primitive.ObjectIDFromHex(userIDHex.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	var user models.User
	err = h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "user": user})
}

// RegisterAdmin creates a further admin account. Admin only; the first admin
// is bootstrapped offline via cmd/createadmin.
func (h *Handler) RegisterAdmin(c *gin.Context) {
	var payload validation.CredentialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationFailed(c, validation.Errors{{Field: "body", Message: "Invalid request body"}})
		return
	}
	if errs := validation.Register(&payload); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	collection := h.DB.Collection("users")
	ctx := c.Request.Context()

	count, err := collection.CountDocuments(ctx, bson.M{"username": payload.Username})
	if err != nil {
		h.serverError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
		return
	}

	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		h.serverError(c, err)
		return
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		Username: payload.Username,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if _, err := collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
