package licenses

import (
	"net/http"
	"strconv"

	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/metadata"
	"stockroom/pkg/models"
	"stockroom/pkg/security"

	"github.com/gin-gonic/gin"
)

type LicenseHandler struct {
	licensesRepo   *LicensesRepository
	seatsRepo      *SeatsRepository
	licenseService *LicenseService
	seatService    *SeatService
}

func NewLicenseHandler(lr *LicensesRepository, sr *SeatsRepository, ls *LicenseService, ss *SeatService) *LicenseHandler {
	return &LicenseHandler{
		licensesRepo:   lr,
		seatsRepo:      sr,
		licenseService: ls,
		seatService:    ss,
	}
}

func (h *LicenseHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/licenses", h.GetLicenses)
		protectedRoutes.GET("/licenses/:id", h.GetLicense)
		protectedRoutes.GET("/licenses/:id/seats", h.GetLicenseSeats)
		protectedRoutes.POST("/licenses", h.CreateLicense)
		protectedRoutes.PUT("/licenses/:id", h.UpdateLicense)
		protectedRoutes.DELETE("/licenses/:id", security.Authorize("admin"), h.RemoveLicense)
		protectedRoutes.POST("/seats/:id/checkout", h.CheckoutSeat)
		protectedRoutes.POST("/seats/:id/checkin", h.CheckinSeat)
	}
}

func (h *LicenseHandler) GetLicenses(c *gin.Context) {
	licenses, err := h.licensesRepo.GetLicenseList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch licenses", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, licenses)
}

func (h *LicenseHandler) GetLicense(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	license, err := h.licensesRepo.GetLicense(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch license", "details": err.Error()})
		return
	}
	if license == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate license with given id"})
		return
	}

	c.JSON(http.StatusOK, license)
}

func (h *LicenseHandler) GetLicenseSeats(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	license, err := h.licensesRepo.GetLicense(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch license", "details": err.Error()})
		return
	}
	if license == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate license with given id"})
		return
	}

	seats, err := h.seatsRepo.GetSeatsByLicense(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch license seats", "details": err.Error()})
		return
	}

	available := 0
	for i := range seats {
		if seats[i].IsAvailable() {
			available++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"license_id": id,
		"seats":      seats,
		"total":      len(seats),
		"available":  available,
	})
}

func (h *LicenseHandler) CreateLicense(c *gin.Context) {
	var req models.LicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	license, err := h.licenseService.CreateLicense(req, actingUser(c))
	if err != nil {
		respondLicenseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, license)
}

func (h *LicenseHandler) UpdateLicense(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req models.LicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	license, err := h.licenseService.UpdateLicense(id, req, actingUser(c))
	if err != nil {
		respondLicenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, license)
}

func (h *LicenseHandler) RemoveLicense(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.licenseService.DeleteLicense(id, actingUser(c)); err != nil {
		respondLicenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "License removed"})
}

func (h *LicenseHandler) CheckoutSeat(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req models.SeatCheckoutRequest
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
	seat, err := h.seatService.Checkout(id, target, *actingUserID)
	if err != nil {
		respondLicenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, seat)
}

func (h *LicenseHandler) CheckinSeat(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	actingUserID := actingUser(c)
	if actingUserID == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify acting user"})
		return
	}

	seat, err := h.seatService.Checkin(id, *actingUserID)
	if err != nil {
		respondLicenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, seat)
}

func bindID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind id, value must be a numeric ID"})
		return 0, false
	}
	return id, true
}

func actingUser(c *gin.Context) *int {
	id, err := security.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

func respondLicenseError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *custom_error.ValidationError:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *custom_error.NotFoundError:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *custom_error.AlreadyAssignedError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *custom_error.AlreadyUnassignedError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *custom_error.NotReassignableError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *custom_error.InsufficientSeatsError:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     e.Error(),
			"required":  e.Required,
			"available": e.Available,
			"assigned":  e.Assigned,
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operation failed", "details": err.Error()})
	}
}
