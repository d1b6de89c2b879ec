package assets

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"stockroom/internal/assignment"
	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/metadata"
	"stockroom/pkg/models"
	"stockroom/pkg/security"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	r        *AssetsRepository
	service  *AssetService
	resolver *assignment.Resolver
}

func NewAssetHandler(r *AssetsRepository, service *AssetService, resolver *assignment.Resolver) *AssetHandler {
	return &AssetHandler{
		r:        r,
		service:  service,
		resolver: resolver,
	}
}

func (h *AssetHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/assets", h.GetAssets)
		protectedRoutes.GET("/assets/:id", h.GetAsset)
		protectedRoutes.GET("/assets/:id/assignee", h.GetAssetAssignee)
		protectedRoutes.POST("/assets", h.CreateAsset)
		protectedRoutes.PUT("/assets/:id", h.UpdateAsset)
		protectedRoutes.DELETE("/assets/:id", security.Authorize("admin"), h.RemoveAsset)
		protectedRoutes.POST("/assets/:id/checkout", h.CheckoutAsset)
		protectedRoutes.POST("/assets/:id/checkin", h.CheckinAsset)
	}
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	assets, err := h.r.GetAssetList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind id, value must be asset ID"})
		return
	}

	asset, err := h.r.GetAsset(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch asset", "details": err.Error()})
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate asset with given id"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

// GetAssetAssignee renders the label of whoever the asset is assigned to.
// A dangling reference comes back as an empty label, not an error.
func (h *AssetHandler) GetAssetAssignee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind id, value must be asset ID"})
		return
	}

	asset, err := h.r.GetAsset(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch asset", "details": err.Error()})
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate asset with given id"})
		return
	}

	label, err := h.resolver.Describe(assigneeTarget(asset.Assignment))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to resolve assignee", "details": err.Error()})
		return
	}

	assignee := ""
	if label != nil {
		assignee = *label
	}

	c.JSON(http.StatusOK, gin.H{"assignee": assignee, "kind": asset.Assignment.Kind.String()})
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actingUserID := actingUser(c)

	asset, err := h.r.PersistAsset(req, actingUserID)
	if err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset tag already registered"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create asset"})
			return
		}
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind id, value must be asset ID"})
		return
	}

	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.r.UpdateAsset(id, req, actingUser(c)); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset tag already registered"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update asset"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset updated"})
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind id, value must be asset ID"})
		return
	}

	asset, err := h.r.GetAsset(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to validate asset", "details": err.Error()})
		return
	}
	if asset == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to locate asset with given id"})
		return
	}
	if asset.Assignment.IsAssigned() {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"message": "Asset cannot be removed",
			"details": "Asset is currently assigned, check it in first",
		})
		return
	}

	if err := h.r.SoftDeleteAsset(id, actingUser(c)); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove asset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset removed"})
}

func (h *AssetHandler) CheckoutAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind id, value must be asset ID"})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	kind, err := metadata.NewTargetKind(req.TargetKind)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid target kind", "details": err.Error()})
		return
	}

	actingUserID := actingUser(c)
	if actingUserID == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify acting user"})
		return
	}

	target := metadata.AssignmentTarget{Kind: kind, ID: req.TargetID}
	asset, err := h.service.Checkout(id, target, req.AssignedAt, req.ExpectedCheckin, *actingUserID)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) CheckinAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind id, value must be asset ID"})
		return
	}

	// Both fields are optional, so an empty body is a valid checkin.
	var req models.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actingUserID := actingUser(c)
	if actingUserID == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify acting user"})
		return
	}

	asset, err := h.service.Checkin(id, *actingUserID, req.StatusID, req.LocationID)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

// assigneeTarget maps the stored assignment onto the entity its assignee id
// references. An asset-kind assignment stores the custodian's user id, frozen
// at checkout, so it resolves as a user, never as an asset.
func assigneeTarget(assignment models.Assignment) metadata.AssignmentTarget {
	if !assignment.IsAssigned() || assignment.AssignedTo == nil {
		return metadata.Unassigned()
	}
	if assignment.Kind == metadata.TargetLocation {
		return metadata.LocationTarget(*assignment.AssignedTo)
	}
	return metadata.UserTarget(*assignment.AssignedTo)
}

func actingUser(c *gin.Context) *int {
	id, err := security.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

// respondAssignmentError maps the business-error taxonomy onto HTTP codes.
func respondAssignmentError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *custom_error.ValidationError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *custom_error.NotFoundError:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *custom_error.AlreadyAssignedError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *custom_error.AlreadyUnassignedError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": e.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operation failed", "details": err.Error()})
	}
}
