package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/mesadigital/restaurante_backend/workflow"
	"github.com/shopspring/decimal"
)

func tenantIdOrAbort(c *gin.Context) (int, bool) {
	tenantId, ok := utils.GetTenantIdFromContext(c.Request.Context())
	if !ok || tenantId <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return 0, false
	}
	return tenantId, true
}

func registerSummaryHandler(c *gin.Context) {
	tenantId, ok := tenantIdOrAbort(c)
	if !ok {
		return
	}

	view, err := workflow.RegisterSummary(c.Request.Context(), tenantId, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "register": view})
}

type openRegisterRequest struct {
	OpeningAmount string `json:"opening_amount" binding:"required"`
}

func openRegisterHandler(c *gin.Context) {
	tenantId, ok := tenantIdOrAbort(c)
	if !ok {
		return
	}

	var req openRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	amount, err := utils.ParseLocalizedDecimal(req.OpeningAmount)
	if err != nil {
		respondError(c, utils.ValidationErrorf("valor de abertura inválido: %s", req.OpeningAmount))
		return
	}

	userName, _ := utils.GetUserNameFromContext(c.Request.Context())
	session, err := workflow.OpenCashSession(c.Request.Context(), tenantId, amount, userName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "session": session})
}

type closeRegisterRequest struct {
	ClosingAmount string `json:"closing_amount" binding:"required"`
	Notes         string `json:"notes"`
}

func closeRegisterHandler(c *gin.Context) {
	tenantId, ok := tenantIdOrAbort(c)
	if !ok {
		return
	}

	var req closeRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	amount, err := utils.ParseLocalizedDecimal(req.ClosingAmount)
	if err != nil {
		respondError(c, utils.ValidationErrorf("valor de fechamento inválido: %s", req.ClosingAmount))
		return
	}

	session, err := workflow.CloseCashSession(c.Request.Context(), tenantId, amount, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

type addMovementRequest struct {
	Type          string `json:"type" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description"`
	PaymentMethod string `json:"payment_method"`
}

func addMovementHandler(c *gin.Context) {
	tenantId, ok := tenantIdOrAbort(c)
	if !ok {
		return
	}

	var req addMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	amount, err := utils.ParseLocalizedDecimal(req.Amount)
	if err != nil {
		respondError(c, utils.ValidationErrorf("valor inválido: %s", req.Amount))
		return
	}

	movement, err := workflow.AddCashMovement(c.Request.Context(), tenantId,
		models.MovementType(req.Type), amount, req.Description, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "movement": movement})
}

func searchBalcaoProductsHandler(c *gin.Context) {
	tenantId, ok := tenantIdOrAbort(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "products": []*models.Product{}})
		return
	}

	products, err := models.SearchBalcaoProducts(c.Request.Context(), tenantId, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func finalizeCounterOrderHandler(c *gin.Context) {
	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := workflow.FinalizeCounterOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"order":      order,
		"change_due": models.ChangeDue(order.ChangeFor, order.TotalPrice),
	})
}

func editCounterOrderHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, utils.ValidationErrorf("id inválido"))
		return
	}

	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := workflow.EditCounterOrder(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func deleteCounterOrderHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, utils.ValidationErrorf("id inválido"))
		return
	}

	if err := workflow.DeleteCounterOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// printOrderHandler returns the receipt payload the counter printer needs.
func printOrderHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, utils.ValidationErrorf("id inválido"))
		return
	}

	order, err := models.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, gin.H{
			"name":       name,
			"quantity":   item.Quantity,
			"unit_price": item.PriceAtOrder,
			"line_total": item.PriceAtOrder.Mul(decimal.NewFromInt(int64(item.Quantity))),
			"note":       item.Note,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"receipt": gin.H{
			"order_id":       order.ID,
			"created_at":     order.CreatedAt,
			"items":          items,
			"delivery_fee":   order.DeliveryFee,
			"total":          order.TotalPrice,
			"payment_method": order.PaymentMethod,
			"change_for":     order.ChangeFor,
			"change_due":     models.ChangeDue(order.ChangeFor, order.TotalPrice),
		},
	})
}

func cashHistoryHandler(c *gin.Context) {
	tenantId, ok := tenantIdOrAbort(c)
	if !ok {
		return
	}

	now := time.Now()
	start, end := utils.MonthRange(now)
	if qStart, qEnd, err := parseDateRange(c); err != nil {
		respondError(c, err)
		return
	} else {
		if qStart != nil {
			start = *qStart
		}
		if qEnd != nil {
			end = *qEnd
		}
	}

	history, err := workflow.CashHistory(c.Request.Context(), tenantId, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}
