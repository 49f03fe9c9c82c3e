package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/mesadigital/restaurante_backend/workflow"
)

// tenantIdFromMenuParam parses the public URL segment, which is either a
// plain tenant id ("3") or an id-slug pair ("3-pizzaria-do-ze").
func tenantIdFromMenuParam(param string) (int, error) {
	head := param
	if idx := strings.IndexByte(param, '-'); idx > 0 {
		head = param[:idx]
	}
	id, err := strconv.Atoi(head)
	if err != nil || id <= 0 {
		return 0, utils.ValidationErrorf("identificador de cardápio inválido: %s", param)
	}
	return id, nil
}

func menuHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "menuHandler")
	defer span.End()

	tenantId, err := tenantIdFromMenuParam(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	tenant, err := models.GetTenant(ctx, tenantId)
	if err != nil {
		respondError(c, err)
		return
	}

	cfg, err := models.GetOrCreateRestaurantConfig(ctx, tenantId)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := models.GetActiveProducts(ctx, tenantId)
	if err != nil {
		respondError(c, err)
		return
	}

	neighborhoods, err := models.GetTenantNeighborhoods(ctx, tenantId)
	if err != nil {
		respondError(c, err)
		return
	}

	status := models.ResolveRestaurantStatus(cfg.Hours(), cfg.ManualStatusOverride, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"restaurant": gin.H{
			"id":                tenant.ID,
			"name":              tenant.Name,
			"slug":              tenant.Slug,
			"whatsapp":          tenant.Whatsapp,
			"description":       cfg.Description,
			"address":           cfg.Address,
			"phone":             cfg.Phone,
			"status":            status,
			"delivery_time_min": cfg.DeliveryTimeMin,
			"delivery_time_max": cfg.DeliveryTimeMax,
			"pickup_time":       cfg.PickupTime,
		},
		"products":      products,
		"neighborhoods": neighborhoods,
	})
}

func publicCheckoutHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "publicCheckoutHandler")
	defer span.End()

	tenantId, err := tenantIdFromMenuParam(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := workflow.CreateDeliveryOrder(ctx, tenantId, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"order_id": order.ID,
		"total":    order.TotalPrice,
		"status":   order.Status,
	})
}

func orderConfirmationHandler(c *gin.Context) {
	tenantId, err := tenantIdFromMenuParam(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	orderId, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		respondError(c, utils.ValidationErrorf("id de pedido inválido"))
		return
	}

	order, err := models.GetPublicOrder(c.Request.Context(), tenantId, orderId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"order":      order,
		"change_due": models.ChangeDue(order.ChangeFor, order.TotalPrice),
	})
}

func pixInfoHandler(c *gin.Context) {
	tenantId, err := tenantIdFromMenuParam(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	cfg, err := models.GetOrCreateRestaurantConfig(c.Request.Context(), tenantId)
	if err != nil {
		respondError(c, err)
		return
	}

	pixKey := cfg.PixKey
	configured := pixKey != ""
	if !configured {
		pixKey = "Chave PIX não configurada. Combine o pagamento com o restaurante."
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"configured": configured,
		"pix_key":    pixKey,
	})
}
