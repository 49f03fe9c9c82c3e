package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterView is the payload behind GET /caixa: the open session (nil when
// the register is closed), its running balance, the day totals and the data
// the counter screen needs.
type RegisterView struct {
	Session       *models.CashSession   `json:"session"`
	Balance       decimal.Decimal       `json:"balance"`
	Totals        models.PeriodTotals   `json:"totals"`
	Movements     []models.CashMovement `json:"movements"`
	CounterOrders []*models.Order       `json:"counter_orders"`
	Products      []*models.Product     `json:"products"`
}

// DayMovements is one bucket of the cash history, grouped by calendar day.
type DayMovements struct {
	Date      string                `json:"date"`
	Totals    models.PeriodTotals   `json:"totals"`
	Movements []models.CashMovement `json:"movements"`
}

// OpenCashSession opens the register with the given float and posts the
// opening marker movement. A tenant may hold only one open session; the
// advisory lock narrows the race and the in-transaction check decides.
func OpenCashSession(ctx context.Context, tenantId int, openingAmount decimal.Decimal, openedBy string) (*models.CashSession, error) {
	logger := config.GetLogger()

	if openingAmount.IsNegative() {
		return nil, utils.ValidationErrorf("valor de abertura não pode ser negativo")
	}

	release, err := utils.TenantLock(ctx, tenantId, "cashSessionOpen", "cashWorkflow.go", "OpenCashSession")
	if err != nil {
		return nil, err
	}
	defer release()

	var session models.CashSession
	err = config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, aerr := models.GetActiveCashSession(ctx, tx, tenantId); aerr == nil {
			return utils.ConflictErrorf("caixa já está aberto")
		} else if !utils.IsNotFound(aerr) {
			return aerr
		}

		session = models.CashSession{
			TenantId:      tenantId,
			OpenedBy:      openedBy,
			OpeningAmount: openingAmount,
		}
		if cerr := tx.Create(&session).Error; cerr != nil {
			config.LogError(logger, "cashWorkflow.go", "OpenCashSession", "CreateSession", tenantId, cerr)
			return cerr
		}

		opening := models.CashMovement{
			TenantId:    tenantId,
			SessionId:   session.ID,
			Type:        models.MovementTypeOpening,
			Amount:      openingAmount,
			Description: "Abertura de caixa",
		}
		if cerr := tx.Create(&opening).Error; cerr != nil {
			config.LogError(logger, "cashWorkflow.go", "OpenCashSession", "CreateOpeningMovement", session.ID, cerr)
			return cerr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseCashSession closes the open session, recording the counted amount
// alongside the expected balance, and posts the closing marker.
func CloseCashSession(ctx context.Context, tenantId int, closingAmount decimal.Decimal, notes string) (*models.CashSession, error) {
	logger := config.GetLogger()

	var session *models.CashSession
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = models.GetActiveCashSession(ctx, tx, tenantId)
		if err != nil {
			if utils.IsNotFound(err) {
				return utils.ConflictErrorf("caixa fechado")
			}
			return err
		}

		movements, err := models.GetSessionMovements(ctx, tx, tenantId, session.ID)
		if err != nil {
			config.LogError(logger, "cashWorkflow.go", "CloseCashSession", "GetSessionMovements", session.ID, err)
			return err
		}
		expected := models.SessionBalance(session.OpeningAmount, movements)

		now := time.Now()
		if uerr := tx.Model(session).Updates(map[string]interface{}{
			"ClosingAmount":  closingAmount,
			"ExpectedAmount": expected,
			"Notes":          notes,
			"ClosedAt":       now,
		}).Error; uerr != nil {
			config.LogError(logger, "cashWorkflow.go", "CloseCashSession", "UpdateSession", session.ID, uerr)
			return uerr
		}
		session.ClosingAmount = &closingAmount
		session.ExpectedAmount = &expected
		session.Notes = notes
		session.ClosedAt = &now

		closing := models.CashMovement{
			TenantId:    tenantId,
			SessionId:   session.ID,
			Type:        models.MovementTypeClosing,
			Amount:      closingAmount,
			Description: "Fechamento de caixa",
		}
		if cerr := tx.Create(&closing).Error; cerr != nil {
			config.LogError(logger, "cashWorkflow.go", "CloseCashSession", "CreateClosingMovement", session.ID, cerr)
			return cerr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// AddCashMovement posts a manual deposit, withdrawal or expense into the
// open session. Outflow amounts are stored negative regardless of the sign
// the client typed.
func AddCashMovement(ctx context.Context, tenantId int, movementType models.MovementType, amount decimal.Decimal, description, paymentMethod string) (*models.CashMovement, error) {
	logger := config.GetLogger()

	switch movementType {
	case models.MovementTypeDeposit, models.MovementTypeWithdrawal, models.MovementTypeExpense:
	default:
		return nil, utils.ValidationErrorf("tipo de movimentação inválido: %s", movementType)
	}
	if amount.IsZero() {
		return nil, utils.ValidationErrorf("valor não pode ser zero")
	}

	stored := amount.Abs()
	if movementType == models.MovementTypeWithdrawal || movementType == models.MovementTypeExpense {
		stored = stored.Neg()
	}

	var movement models.CashMovement
	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, serr := models.GetActiveCashSession(ctx, tx, tenantId)
		if serr != nil {
			if utils.IsNotFound(serr) {
				return utils.ConflictErrorf("caixa fechado")
			}
			return serr
		}

		movement = models.CashMovement{
			TenantId:      tenantId,
			SessionId:     session.ID,
			Type:          movementType,
			Amount:        stored,
			Description:   description,
			PaymentMethod: paymentMethod,
		}
		if cerr := tx.Create(&movement).Error; cerr != nil {
			config.LogError(logger, "cashWorkflow.go", "AddCashMovement", "CreateMovement", movement, cerr)
			return cerr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

// RegisterSummary assembles the register screen: session state, balance,
// day totals and today's counter sales.
func RegisterSummary(ctx context.Context, tenantId int, now time.Time) (*RegisterView, error) {
	db := config.GetDB()
	view := &RegisterView{
		Balance: decimal.Zero,
		Totals:  models.SummarizeMovements(nil),
	}

	session, err := models.GetActiveCashSession(ctx, db, tenantId)
	if err != nil && !utils.IsNotFound(err) {
		return nil, err
	}

	if session != nil {
		movements, merr := models.GetSessionMovements(ctx, db, tenantId, session.ID)
		if merr != nil {
			return nil, merr
		}
		view.Session = session
		view.Movements = movements
		view.Balance = models.SessionBalance(session.OpeningAmount, movements)
		view.Totals = models.SummarizeMovements(movements)
	}

	counterOrders, err := models.GetTodayCounterOrders(ctx, db, tenantId, now)
	if err != nil {
		return nil, err
	}
	view.CounterOrders = counterOrders

	// The counter screen offers the sellable catalog before any search.
	products, err := models.GetCounterProducts(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	view.Products = products

	return view, nil
}

// CashHistory groups a date range's ledger rows by calendar day, newest
// day first. Defaults to the current month when the range is open.
func CashHistory(ctx context.Context, tenantId int, start, end time.Time) ([]DayMovements, error) {
	db := config.GetDB()
	movements, err := models.GetMovementsInRange(ctx, db, tenantId, start, end)
	if err != nil {
		return nil, err
	}

	byDay := map[string][]models.CashMovement{}
	var dayOrder []string
	for _, m := range movements {
		day := m.CreatedAt.Format("2006-01-02")
		if _, seen := byDay[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		byDay[day] = append(byDay[day], m)
	}

	history := make([]DayMovements, 0, len(dayOrder))
	for i := len(dayOrder) - 1; i >= 0; i-- {
		day := dayOrder[i]
		history = append(history, DayMovements{
			Date:      day,
			Totals:    models.SummarizeMovements(byDay[day]),
			Movements: byDay[day],
		})
	}
	return history, nil
}

// saleDescription labels the ledger row created when an order completes.
func saleDescription(order *models.Order) string {
	if order.OrderType == models.OrderTypeCounter {
		return fmt.Sprintf("Venda de Balcão - Pedido #%d", order.ID)
	}
	return fmt.Sprintf("Venda - Pedido #%d", order.ID)
}
