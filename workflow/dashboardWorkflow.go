package workflow

import (
	"context"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
)

// DashboardSummary is the panel's landing-page snapshot for the day.
type DashboardSummary struct {
	OrdersToday     int64                      `json:"orders_today"`
	RevenueToday    decimal.Decimal            `json:"revenue_today"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
	ActiveOrders    int64                      `json:"active_orders"`
}

// BuildDashboardSummary derives today's figures from completed orders.
func BuildDashboardSummary(ctx context.Context, tenantId int, now time.Time) (*DashboardSummary, error) {
	db := config.GetDB()
	start, end := utils.DayRange(now)

	var completed []models.Order
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			tenantId, models.OrderStatusCompleted, start, end).
		Find(&completed).Error
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		OrdersToday:     int64(len(completed)),
		RevenueToday:    decimal.Zero,
		ByPaymentMethod: map[string]decimal.Decimal{},
	}
	for _, order := range completed {
		summary.RevenueToday = summary.RevenueToday.Add(order.TotalPrice)
		method := order.PaymentMethod
		if method == "" {
			method = "unknown"
		}
		summary.ByPaymentMethod[method] = summary.ByPaymentMethod[method].Add(order.TotalPrice)
	}

	err = db.WithContext(ctx).Model(&models.Order{}).
		Where("tenant_id = ? AND status IN ?", tenantId, models.ActiveOrderStatuses()).
		Count(&summary.ActiveOrders).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}
