package auditlog

import (
	"net/http"
	"strconv"

	"stockroom/internal/repository"
	"stockroom/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuditLogHandler struct {
	r *repository.Repository
}

func NewAuditLogHandler(r *repository.Repository) *AuditLogHandler {
	return &AuditLogHandler{r: r}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/audit-logs", security.Authorize("admin"), h.GetLogs)
	}
}

func (h *AuditLogHandler) GetLogs(c *gin.Context) {
	resourceType := c.Query("resource_type")
	resourceID := 0
	if raw := c.Query("resource_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "resource_id must be numeric"})
			return
		}
		resourceID = parsed
	}

	logs, err := h.r.GetLogs(resourceType, resourceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch audit logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
