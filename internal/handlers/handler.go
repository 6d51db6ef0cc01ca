package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skyline-estates/api/internal/config"
	"github.com/skyline-estates/api/internal/services"
	"github.com/skyline-estates/api/internal/validation"
)

// Handler carries the shared dependencies of every endpoint.
type Handler struct {
	DB      *mongo.Database
	Uploads *services.UploadService
	Cfg     *config.Config
}

func NewHandler(db *mongo.Database, uploads *services.UploadService, cfg *config.Config) *Handler {
	return &Handler{
		DB:      db,
		Uploads: uploads,
		Cfg:     cfg,
	}
}

// serverError hides internal detail in production and echoes it otherwise.
func (h *Handler) serverError(c *gin.Context, err error) {
	body := gin.H{"message": "Server error"}
	if !h.Cfg.Production() && err != nil {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// validationFailed renders the structured field-error list.
func validationFailed(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "Validation failed",
		"errors":  errs,
	})
}
