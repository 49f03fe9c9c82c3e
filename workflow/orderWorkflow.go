package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultCancelReason = "Motivo não especificado"

// CreateDeliveryOrder handles the public checkout. The tenant comes from
// the URL, never from auth context. Item resolution, customer upsert and
// the order insert share one transaction.
func CreateDeliveryOrder(ctx context.Context, tenantId int, input *models.NewOrder) (*models.Order, error) {
	logger := config.GetLogger()

	if input.OrderType == "" {
		input.OrderType = models.OrderTypeDelivery
	}
	if err := input.ValidatePublic(); err != nil {
		return nil, err
	}
	changeFor, err := input.ParsedChangeFor()
	if err != nil {
		return nil, err
	}

	// Lenient boundary: a phone libphonenumber dislikes is logged, not rejected.
	if perr := utils.ValidatePhoneNumber(input.CustomerPhone, utils.CountryCode); perr != nil {
		logger.WithField("phone", input.CustomerPhone).Info("checkout phone failed validation")
	}

	cfg, err := models.GetOrCreateRestaurantConfig(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	if models.ResolveRestaurantStatus(cfg.Hours(), cfg.ManualStatusOverride, time.Now()) == models.RestaurantClosed {
		return nil, utils.ConflictErrorf("restaurante fechado no momento")
	}

	var order models.Order
	err = config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, subtotal, rerr := models.ResolveOrderItems(ctx, tx, tenantId, input.Items)
		if rerr != nil {
			config.LogError(logger, "orderWorkflow.go", "CreateDeliveryOrder", "ResolveOrderItems", input.Items, rerr)
			return rerr
		}
		if len(items) == 0 {
			return utils.ValidationErrorf("nenhum item válido no pedido")
		}

		customer, cerr := models.FindOrCreateCustomerByPhone(ctx, tx, tenantId,
			input.CustomerName, input.CustomerPhone, input.Address, input.ComplementNote)
		if cerr != nil {
			config.LogError(logger, "orderWorkflow.go", "CreateDeliveryOrder", "FindOrCreateCustomer", input.CustomerPhone, cerr)
			return cerr
		}

		deliveryFee := decimal.Zero
		neighborhoodName := strings.TrimSpace(input.Neighborhood)
		if input.OrderType == models.OrderTypeDelivery {
			neighborhood, nerr := models.ResolveNeighborhood(ctx, tx, tenantId, input.NeighborhoodId, input.Neighborhood)
			if nerr != nil {
				return nerr
			}
			deliveryFee = models.DeliveryFeeFor(neighborhood, cfg)
			if neighborhood != nil && neighborhoodName == "" {
				neighborhoodName = neighborhood.Name
			}
		}

		order = models.Order{
			TenantId:       tenantId,
			Status:         models.OrderStatusPending,
			OrderType:      input.OrderType,
			PaymentMethod:  input.PaymentMethod,
			TotalPrice:     subtotal.Add(deliveryFee),
			DeliveryFee:    deliveryFee,
			ChangeFor:      changeFor,
			CustomerName:   strings.TrimSpace(input.CustomerName),
			CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
			Address:        strings.TrimSpace(input.Address),
			Neighborhood:   neighborhoodName,
			ComplementNote: input.ComplementNote,
			Note:           input.Note,
			Items:          items,
		}
		if customer != nil {
			order.CustomerId = &customer.ID
		}
		if oerr := tx.Create(&order).Error; oerr != nil {
			config.LogError(logger, "orderWorkflow.go", "CreateDeliveryOrder", "CreateOrder", order, oerr)
			return oerr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateStaffOrder is the panel's manual order entry (phone orders, table
// service). No availability gate: staff can always type an order in.
func CreateStaffOrder(ctx context.Context, input *models.NewOrder) (*models.Order, error) {
	logger := config.GetLogger()
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, utils.ValidationErrorf("tenant id is required")
	}

	if input.OrderType == "" {
		if strings.TrimSpace(input.TableNumber) != "" {
			input.OrderType = models.OrderTypeTable
		} else {
			input.OrderType = models.OrderTypeDelivery
		}
	}
	if len(input.Items) == 0 {
		return nil, utils.ValidationErrorf("pedido sem itens")
	}
	changeFor, err := input.ParsedChangeFor()
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, subtotal, rerr := models.ResolveOrderItems(ctx, tx, tenantId, input.Items)
		if rerr != nil {
			return rerr
		}
		if len(items) == 0 {
			return utils.ValidationErrorf("nenhum item válido no pedido")
		}

		var customerId *int
		if strings.TrimSpace(input.CustomerPhone) != "" {
			customer, cerr := models.FindOrCreateCustomerByPhone(ctx, tx, tenantId,
				input.CustomerName, input.CustomerPhone, input.Address, input.ComplementNote)
			if cerr != nil {
				return cerr
			}
			if customer != nil {
				customerId = &customer.ID
			}
		}

		deliveryFee := decimal.Zero
		if input.OrderType == models.OrderTypeDelivery && (input.NeighborhoodId > 0 || strings.TrimSpace(input.Neighborhood) != "") {
			cfg, gerr := models.GetOrCreateRestaurantConfig(ctx, tenantId)
			if gerr != nil {
				return gerr
			}
			neighborhood, nerr := models.ResolveNeighborhood(ctx, tx, tenantId, input.NeighborhoodId, input.Neighborhood)
			if nerr != nil {
				return nerr
			}
			deliveryFee = models.DeliveryFeeFor(neighborhood, cfg)
		}

		order = models.Order{
			TenantId:       tenantId,
			CustomerId:     customerId,
			Status:         models.OrderStatusPending,
			OrderType:      input.OrderType,
			PaymentMethod:  input.PaymentMethod,
			TotalPrice:     subtotal.Add(deliveryFee),
			DeliveryFee:    deliveryFee,
			ChangeFor:      changeFor,
			CustomerName:   strings.TrimSpace(input.CustomerName),
			CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
			Address:        strings.TrimSpace(input.Address),
			Neighborhood:   strings.TrimSpace(input.Neighborhood),
			ComplementNote: input.ComplementNote,
			TableNumber:    strings.TrimSpace(input.TableNumber),
			Note:           input.Note,
			Items:          items,
		}
		if oerr := tx.Create(&order).Error; oerr != nil {
			config.LogError(logger, "orderWorkflow.go", "CreateStaffOrder", "CreateOrder", order, oerr)
			return oerr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AdvanceOrderStatus moves an order one step forward in the kitchen
// sequence. Reaching COMPLETED stamps the timestamp and, when the register
// is open, posts the sale into the ledger in the same transaction. With the
// register closed the completion still succeeds and no ledger row is
// written.
func AdvanceOrderStatus(ctx context.Context, orderId int) (*models.Order, error) {
	logger := config.GetLogger()
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, utils.ValidationErrorf("tenant id is required")
	}

	var order models.Order
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantId).First(&order, orderId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}

		next, err := order.Status.Next()
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"Status": next}
		var completedAt time.Time
		if next == models.OrderStatusCompleted {
			completedAt = time.Now()
			updates["CompletedAt"] = completedAt
		}
		if uerr := tx.Model(&order).Updates(updates).Error; uerr != nil {
			config.LogError(logger, "orderWorkflow.go", "AdvanceOrderStatus", "UpdateOrder", orderId, uerr)
			return uerr
		}
		order.Status = next
		if next == models.OrderStatusCompleted {
			order.CompletedAt = &completedAt
			if perr := postSaleMovement(ctx, tx, logger, &order); perr != nil {
				return perr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// postSaleMovement records the completed order in the open cash session.
// No open session means no ledger row; the completion itself stands.
func postSaleMovement(ctx context.Context, tx *gorm.DB, logger *logrus.Logger, order *models.Order) error {
	session, err := models.GetActiveCashSession(ctx, tx, order.TenantId)
	if err != nil {
		if utils.IsNotFound(err) {
			logger.WithField("order_id", order.ID).Info("order completed with register closed; no sale movement")
			return nil
		}
		return err
	}

	movement := models.CashMovement{
		TenantId:      order.TenantId,
		SessionId:     session.ID,
		OrderId:       &order.ID,
		Type:          models.MovementTypeSale,
		Amount:        order.TotalPrice,
		Description:   saleDescription(order),
		PaymentMethod: order.PaymentMethod,
	}
	if err := tx.Create(&movement).Error; err != nil {
		config.LogError(logger, "orderWorkflow.go", "postSaleMovement", "CreateMovement", movement, err)
		return err
	}
	return nil
}

// CancelOrder marks an active order as cancelled with a reason. Terminal
// orders reject the cancel.
func CancelOrder(ctx context.Context, orderId int, reason string) (*models.Order, error) {
	logger := config.GetLogger()
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, utils.ValidationErrorf("tenant id is required")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}

	var order models.Order
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantId).First(&order, orderId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if !order.Status.CanCancel() {
			return utils.ConflictErrorf("pedido já finalizado (%s)", order.Status)
		}

		now := time.Now()
		if uerr := tx.Model(&order).Updates(map[string]interface{}{
			"Status":       models.OrderStatusCancelled,
			"CancelReason": reason,
			"CanceledAt":   now,
		}).Error; uerr != nil {
			config.LogError(logger, "orderWorkflow.go", "CancelOrder", "UpdateOrder", orderId, uerr)
			return uerr
		}
		order.Status = models.OrderStatusCancelled
		order.CancelReason = reason
		order.CanceledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
