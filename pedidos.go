package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/mesadigital/restaurante_backend/workflow"
)

// parseDateRange reads optional start_date / end_date query params
// (YYYY-MM-DD). The end bound is exclusive of the following midnight.
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return nil, nil, utils.ValidationErrorf("start_date inválida: %s", raw)
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return nil, nil, utils.ValidationErrorf("end_date inválida: %s", raw)
		}
		t = t.AddDate(0, 0, 1)
		end = &t
	}
	return start, end, nil
}

func listActiveOrdersHandler(c *gin.Context) {
	ctx := c.Request.Context()

	statuses := models.ActiveOrderStatuses()
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		statuses = []models.OrderStatus{status}
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := models.GetOrdersByStatus(ctx, statuses, "created_at", start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func listCompletedOrdersHandler(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := models.GetOrdersByStatus(c.Request.Context(),
		[]models.OrderStatus{models.OrderStatusCompleted}, "completed_at", start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func listCancelledOrdersHandler(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := models.GetOrdersByStatus(c.Request.Context(),
		[]models.OrderStatus{models.OrderStatusCancelled}, "canceled_at", start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func getOrderHandler(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"order":      order,
		"change_due": models.ChangeDue(order.ChangeFor, order.TotalPrice),
	})
}

func createStaffOrderHandler(c *gin.Context) {
	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := workflow.CreateStaffOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

func advanceOrderHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, utils.ValidationErrorf("id inválido"))
		return
	}

	order, err := workflow.AdvanceOrderStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func cancelOrderHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, utils.ValidationErrorf("id inválido"))
		return
	}

	var req cancelOrderRequest
	// Body is optional; a bare cancel gets the default reason.
	_ = c.ShouldBindJSON(&req)

	order, err := workflow.CancelOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}
