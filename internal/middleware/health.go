package middleware

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes exposes a liveness endpoint that also pings the store.
func RegisterHealthRoutes(router *gin.Engine, db *sql.DB) {
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
