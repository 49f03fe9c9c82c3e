package models

import (
	"context"
	"errors"
	"time"

	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashSession is one open-to-close span of the register. At most one row
// per tenant may have closed_at NULL.
type CashSession struct {
	ID            int              `gorm:"primary_key" json:"id"`
	TenantId      int              `gorm:"index;not null" json:"tenant_id"`
	OpenedBy      string           `gorm:"size:120" json:"opened_by"`
	OpeningAmount decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"opening_amount"`
	ClosingAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"closing_amount"`
	// ExpectedAmount is the running balance captured at close time.
	ExpectedAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"expected_amount"`
	Notes          string           `gorm:"size:500" json:"notes"`
	OpenedAt       time.Time        `gorm:"autoCreateTime" json:"opened_at"`
	ClosedAt       *time.Time       `gorm:"index" json:"closed_at"`
}

func (s *CashSession) IsOpen() bool {
	return s.ClosedAt == nil
}

// GetActiveCashSession returns the tenant's open session, or
// ErrorRecordNotFound when the register is closed. Callers inside a
// workflow pass their transaction so the check and the writes see the
// same snapshot.
func GetActiveCashSession(ctx context.Context, tx *gorm.DB, tenantId int) (*CashSession, error) {
	var session CashSession
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND closed_at IS NULL", tenantId).
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SessionBalance computes the running drawer balance: the opening float
// plus every movement except the opening and closing markers. Expense and
// withdrawal rows are stored negative, so plain addition is correct. Pure.
func SessionBalance(openingAmount decimal.Decimal, movements []CashMovement) decimal.Decimal {
	balance := openingAmount
	for _, m := range movements {
		if m.Type == MovementTypeOpening || m.Type == MovementTypeClosing {
			continue
		}
		balance = balance.Add(m.Amount)
	}
	return balance
}
