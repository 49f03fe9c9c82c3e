package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"gorm.io/gorm"
)

// FinalizeCounterOrder records a walk-up sale: the order is born COMPLETED
// with no customer, and its sale movement lands in the open session within
// the same transaction. A closed register rejects the sale outright.
func FinalizeCounterOrder(ctx context.Context, input *models.NewOrder) (*models.Order, error) {
	logger := config.GetLogger()
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, utils.ValidationErrorf("tenant id is required")
	}

	if len(input.Items) == 0 {
		return nil, utils.ValidationErrorf("pedido sem itens")
	}
	changeFor, err := input.ParsedChangeFor()
	if err != nil {
		return nil, err
	}

	release, err := utils.TenantLock(ctx, tenantId, "counterFinalize", "counterWorkflow.go", "FinalizeCounterOrder")
	if err != nil {
		return nil, err
	}
	defer release()

	var order models.Order
	err = config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, serr := models.GetActiveCashSession(ctx, tx, tenantId)
		if serr != nil {
			if utils.IsNotFound(serr) {
				return utils.ConflictErrorf("caixa fechado: abra o caixa antes de registrar vendas")
			}
			return serr
		}

		items, subtotal, rerr := models.ResolveOrderItems(ctx, tx, tenantId, input.Items)
		if rerr != nil {
			config.LogError(logger, "counterWorkflow.go", "FinalizeCounterOrder", "ResolveOrderItems", input.Items, rerr)
			return rerr
		}
		if len(items) == 0 {
			return utils.ValidationErrorf("nenhum item válido no pedido")
		}

		now := time.Now()
		order = models.Order{
			TenantId:      tenantId,
			Status:        models.OrderStatusCompleted,
			OrderType:     models.OrderTypeCounter,
			PaymentMethod: input.PaymentMethod,
			TotalPrice:    subtotal,
			ChangeFor:     changeFor,
			Note:          input.Note,
			Items:         items,
			CompletedAt:   &now,
		}
		if oerr := tx.Create(&order).Error; oerr != nil {
			config.LogError(logger, "counterWorkflow.go", "FinalizeCounterOrder", "CreateOrder", order, oerr)
			return oerr
		}

		movement := models.CashMovement{
			TenantId:      tenantId,
			SessionId:     session.ID,
			OrderId:       &order.ID,
			Type:          models.MovementTypeSale,
			Amount:        order.TotalPrice,
			Description:   saleDescription(&order),
			PaymentMethod: order.PaymentMethod,
		}
		if merr := tx.Create(&movement).Error; merr != nil {
			config.LogError(logger, "counterWorkflow.go", "FinalizeCounterOrder", "CreateMovement", movement, merr)
			return merr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// EditCounterOrder replaces a counter sale's item set, recomputes its total
// and keeps the linked ledger row consistent. The original movement is
// updated in place; if no movement exists (the session that recorded it is
// gone) a new one is created only when a session is currently open.
func EditCounterOrder(ctx context.Context, orderId int, input *models.NewOrder) (*models.Order, error) {
	logger := config.GetLogger()
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, utils.ValidationErrorf("tenant id is required")
	}

	if len(input.Items) == 0 {
		return nil, utils.ValidationErrorf("pedido sem itens")
	}

	var order models.Order
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND customer_id IS NULL", tenantId).
			First(&order, orderId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}

		items, subtotal, rerr := models.ResolveOrderItems(ctx, tx, tenantId, input.Items)
		if rerr != nil {
			return rerr
		}
		if len(items) == 0 {
			return utils.ValidationErrorf("nenhum item válido no pedido")
		}

		// The original flow rebuilds the item set from scratch on every edit.
		if derr := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; derr != nil {
			config.LogError(logger, "counterWorkflow.go", "EditCounterOrder", "DeleteOldItems", order.ID, derr)
			return derr
		}
		for i := range items {
			items[i].OrderId = order.ID
		}
		if cerr := tx.Create(&items).Error; cerr != nil {
			config.LogError(logger, "counterWorkflow.go", "EditCounterOrder", "InsertItems", order.ID, cerr)
			return cerr
		}

		updates := map[string]interface{}{"TotalPrice": subtotal}
		if strings.TrimSpace(input.PaymentMethod) != "" {
			updates["PaymentMethod"] = input.PaymentMethod
		}
		if uerr := tx.Model(&order).Updates(updates).Error; uerr != nil {
			config.LogError(logger, "counterWorkflow.go", "EditCounterOrder", "UpdateOrder", order.ID, uerr)
			return uerr
		}
		order.TotalPrice = subtotal
		order.Items = items

		movement, merr := models.FindSaleMovementForOrder(ctx, tx, tenantId, order.ID)
		if merr != nil {
			return merr
		}
		if movement != nil {
			if uerr := tx.Model(movement).Updates(map[string]interface{}{
				"Amount":      subtotal,
				"Description": saleDescription(&order),
			}).Error; uerr != nil {
				config.LogError(logger, "counterWorkflow.go", "EditCounterOrder", "UpdateMovement", movement.ID, uerr)
				return uerr
			}
			return nil
		}

		session, serr := models.GetActiveCashSession(ctx, tx, tenantId)
		if serr != nil {
			if utils.IsNotFound(serr) {
				return nil
			}
			return serr
		}
		replacement := models.CashMovement{
			TenantId:      tenantId,
			SessionId:     session.ID,
			OrderId:       &order.ID,
			Type:          models.MovementTypeSale,
			Amount:        subtotal,
			Description:   saleDescription(&order),
			PaymentMethod: order.PaymentMethod,
		}
		if cerr := tx.Create(&replacement).Error; cerr != nil {
			config.LogError(logger, "counterWorkflow.go", "EditCounterOrder", "CreateReplacementMovement", replacement, cerr)
			return cerr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteCounterOrder removes a counter sale entirely: ledger rows, items
// and the order, one transaction, no orphans.
func DeleteCounterOrder(ctx context.Context, orderId int) error {
	logger := config.GetLogger()
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return utils.ValidationErrorf("tenant id is required")
	}

	return config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("tenant_id = ? AND customer_id IS NULL", tenantId).
			First(&order, orderId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}

		if derr := tx.Where("tenant_id = ? AND order_id = ?", tenantId, order.ID).
			Delete(&models.CashMovement{}).Error; derr != nil {
			config.LogError(logger, "counterWorkflow.go", "DeleteCounterOrder", "DeleteMovements", order.ID, derr)
			return derr
		}
		if derr := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; derr != nil {
			config.LogError(logger, "counterWorkflow.go", "DeleteCounterOrder", "DeleteItems", order.ID, derr)
			return derr
		}
		if derr := tx.Delete(&order).Error; derr != nil {
			config.LogError(logger, "counterWorkflow.go", "DeleteCounterOrder", "DeleteOrder", order.ID, derr)
			return derr
		}
		return nil
	})
}
