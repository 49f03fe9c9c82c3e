package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/mesadigital/restaurante_backend/workflow"
)

func getProfileConfigHandler(c *gin.Context) {
	tenantId, ok := tenantIdOrAbort(c)
	if !ok {
		return
	}

	cfg, err := models.GetOrCreateRestaurantConfig(c.Request.Context(), tenantId)
	if err != nil {
		respondError(c, err)
		return
	}

	status := models.ResolveRestaurantStatus(cfg.Hours(), cfg.ManualStatusOverride, time.Now())
	c.JSON(http.StatusOK, gin.H{"success": true, "config": cfg, "resolved_status": status})
}

func updateProfileConfigHandler(c *gin.Context) {
	var input models.NewRestaurantConfig
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	cfg, err := models.UpdateRestaurantConfig(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "config": cfg})
}

func dashboardHandler(c *gin.Context) {
	tenantId, ok := tenantIdOrAbort(c)
	if !ok {
		return
	}

	summary, err := workflow.BuildDashboardSummary(c.Request.Context(), tenantId, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

type billingStatusRequest struct {
	TenantId int    `json:"tenant_id" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// billingStatusHandler is called by the payment webhook relay, authenticated
// by a shared secret header rather than a tenant token.
func billingStatusHandler(c *gin.Context) {
	secret := os.Getenv("BILLING_WEBHOOK_SECRET")
	if secret == "" || c.GetHeader("X-Billing-Secret") != secret {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req billingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := utils.SetSkipTenantScopeInContext(c.Request.Context(), true)
	tenant, err := models.SetTenantPlanStatus(ctx, req.TenantId, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tenant_id": tenant.ID, "plan_status": tenant.PlanStatus})
}
