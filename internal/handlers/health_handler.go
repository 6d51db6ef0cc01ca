package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Health reports liveness, the environment sanity check, and whether the
// database currently answers a ping.
func (h *Handler) Health(c *gin.Context) {
	dbStatus := "disconnected"
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Client().Ping(ctx, readpref.Primary()); err == nil {
			dbStatus = "connected"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "Server is running",
		"env_check": gin.H{
			"mongo_uri_exists": h.Cfg.Mongo.URI != "",
			"mode":             h.Cfg.Server.Env,
		},
		"database": dbStatus,
	})
}
