package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashMovement is one immutable ledger row. Outflows (expense, withdrawal)
// are stored with a negative amount; everything else is positive.
type CashMovement struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TenantId      int             `gorm:"index;not null" json:"tenant_id"`
	SessionId     int             `gorm:"index;not null" json:"session_id"`
	OrderId       *int            `gorm:"index" json:"order_id"`
	Type          MovementType    `gorm:"size:20;not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description   string          `gorm:"size:255" json:"description"`
	PaymentMethod string          `gorm:"size:30" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// PeriodTotals are the day-summary figures. All values are non-negative
// magnitudes; withdrawals count as expenses, as the register report shows
// them together.
type PeriodTotals struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalDeposits decimal.Decimal `json:"total_deposits"`
}

// SummarizeMovements aggregates ledger rows into display totals. Pure.
func SummarizeMovements(movements []CashMovement) PeriodTotals {
	totals := PeriodTotals{
		TotalSales:    decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalDeposits: decimal.Zero,
	}
	for _, m := range movements {
		switch m.Type {
		case MovementTypeSale:
			totals.TotalSales = totals.TotalSales.Add(m.Amount)
		case MovementTypeExpense, MovementTypeWithdrawal:
			totals.TotalExpenses = totals.TotalExpenses.Add(m.Amount.Abs())
		case MovementTypeDeposit:
			totals.TotalDeposits = totals.TotalDeposits.Add(m.Amount)
		}
	}
	return totals
}

// GetSessionMovements lists a session's ledger in insertion order.
func GetSessionMovements(ctx context.Context, tx *gorm.DB, tenantId int, sessionId int) ([]CashMovement, error) {
	var movements []CashMovement
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantId, sessionId).
		Order("created_at, id").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// GetMovementsInRange lists a tenant's ledger rows in [start, end).
func GetMovementsInRange(ctx context.Context, tx *gorm.DB, tenantId int, start, end time.Time) ([]CashMovement, error) {
	var movements []CashMovement
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantId, start, end).
		Order("created_at, id").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// FindSaleMovementForOrder returns the sale row linked to an order, if any.
func FindSaleMovementForOrder(ctx context.Context, tx *gorm.DB, tenantId int, orderId int) (*CashMovement, error) {
	var movement CashMovement
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ? AND type = ?", tenantId, orderId, MovementTypeSale).
		First(&movement).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &movement, nil
}
