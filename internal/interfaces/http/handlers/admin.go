// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/vendor"
	"github.com/your-org/marketplace-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// AdminHandler handles admin endpoints
type AdminHandler struct {
	db            *gorm.DB
	vendorService *vendor.Service
	counters      *catalog.CounterService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *AdminHandler {
	mailer := email.NewService(cfg, log)
	return &AdminHandler{
		db:            db,
		vendorService: vendor.NewService(db, log, mailer),
		counters:      catalog.NewCounterService(log),
	}
}

// ListVendorApplications handles GET /admin/vendors
func (h *AdminHandler) ListVendorApplications(c *gin.Context) {
	req := vendor.ListRequest{
		Status: c.DefaultQuery("status", string(vendor.ApplicationStatusPending)),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}

	resp, err := h.vendorService.List(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ReviewApplication handles PUT /admin/vendors/:id/application
func (h *AdminHandler) ReviewApplication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req vendor.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	v, err := h.vendorService.ReviewApplication(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Application reviewed",
		"data":    v,
	})
}

// SetVendorVerified handles PUT /admin/vendors/:id/verified
func (h *AdminHandler) SetVendorVerified(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
		return
	}

	v, err := h.vendorService.SetVerified(id, req.Verified)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verified flag updated",
		"data":    v,
	})
}

// ReconcileCounters handles POST /admin/counters/reconcile
func (h *AdminHandler) ReconcileCounters(c *gin.Context) {
	if err := h.counters.Reconcile(h.db); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Counters reconciled"})
}
