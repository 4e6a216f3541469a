// internal/interfaces/http/handlers/vendor.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/vendor"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// VendorHandler handles vendor endpoints
type VendorHandler struct {
	vendorService *vendor.Service
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *VendorHandler {
	mailer := email.NewService(cfg, log)
	return &VendorHandler{
		vendorService: vendor.NewService(db, log, mailer),
	}
}

// Apply handles POST /vendors/apply
func (h *VendorHandler) Apply(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req vendor.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	v, err := h.vendorService.Apply(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Application submitted",
		"data":    v,
	})
}

// ListVendors handles GET /vendors
func (h *VendorHandler) ListVendors(c *gin.Context) {
	req := vendor.ListRequest{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	}

	resp, err := h.vendorService.List(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetVendorBySlug handles GET /vendors/:slug
func (h *VendorHandler) GetVendorBySlug(c *gin.Context) {
	v, err := h.vendorService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": v})
}

// GetMyStore handles GET /vendor/store
func (h *VendorHandler) GetMyStore(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	v, err := h.vendorService.GetByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": v})
}

// UpdateMyStore handles PUT /vendor/store
func (h *VendorHandler) UpdateMyStore(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req vendor.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	v, err := h.vendorService.UpdateProfile(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store updated",
		"data":    v,
	})
}
