package statuses

import (
	"net/http"
	"strconv"

	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/metadata"
	"stockroom/pkg/models"
	"stockroom/pkg/security"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	r StatusRepository
}

func NewStatusHandler(r StatusRepository) *StatusHandler {
	return &StatusHandler{r: r}
}

func (h *StatusHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/statuses", h.GetStatusLabels)
		protectedRoutes.GET("/statuses/:id", h.GetStatusLabel)
		protectedRoutes.POST("/statuses", security.Authorize("admin"), h.CreateStatusLabel)
	}
}

func (h *StatusHandler) GetStatusLabels(c *gin.Context) {
	labels, err := h.r.GetStatusLabels()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch status labels", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, labels)
}

func (h *StatusHandler) GetStatusLabel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind id, value must be status label ID"})
		return
	}

	label, err := h.r.GetStatusLabel(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch status label", "details": err.Error()})
		return
	}
	if label == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate status label with given id"})
		return
	}

	c.JSON(http.StatusOK, label)
}

func (h *StatusHandler) CreateStatusLabel(c *gin.Context) {
	var req models.StatusLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	// The type drives deployability rules, so only the known set is accepted.
	statusType, err := metadata.NewStatus(req.Type)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status type", "details": err.Error()})
		return
	}

	label, err := h.r.PersistStatusLabel(req.Name, statusType.String())
	if err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Status label name already registered"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create status label"})
			return
		}
	}

	c.JSON(http.StatusCreated, label)
}
