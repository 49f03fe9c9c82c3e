package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSessionBalanceExcludesMarkers(t *testing.T) {
	opening := decimal.NewFromInt(100)
	movements := []CashMovement{
		{Type: MovementTypeOpening, Amount: decimal.NewFromInt(100)},
		{Type: MovementTypeSale, Amount: decimal.NewFromInt(50)},
		{Type: MovementTypeExpense, Amount: decimal.NewFromInt(-30)},
	}

	got := SessionBalance(opening, movements)
	if want := decimal.NewFromInt(120); !got.Equal(want) {
		t.Fatalf("balance = %s; want %s", got, want)
	}
}

func TestSessionBalanceClosingExcluded(t *testing.T) {
	opening := decimal.NewFromInt(100)
	movements := []CashMovement{
		{Type: MovementTypeOpening, Amount: decimal.NewFromInt(100)},
		{Type: MovementTypeSale, Amount: decimal.NewFromInt(50)},
		{Type: MovementTypeClosing, Amount: decimal.NewFromInt(150)},
	}

	got := SessionBalance(opening, movements)
	if want := decimal.NewFromInt(150); !got.Equal(want) {
		t.Fatalf("balance = %s; want %s", got, want)
	}
}

func TestSessionBalanceEmptyLedger(t *testing.T) {
	opening := decimal.NewFromInt(80)
	if got := SessionBalance(opening, nil); !got.Equal(opening) {
		t.Fatalf("balance = %s; want %s", got, opening)
	}
}

func TestSummarizeMovementsMagnitudes(t *testing.T) {
	movements := []CashMovement{
		{Type: MovementTypeOpening, Amount: decimal.NewFromInt(100)},
		{Type: MovementTypeSale, Amount: decimal.NewFromInt(50)},
		{Type: MovementTypeSale, Amount: decimal.NewFromInt(25)},
		{Type: MovementTypeExpense, Amount: decimal.NewFromInt(-30)},
		{Type: MovementTypeWithdrawal, Amount: decimal.NewFromInt(-20)},
		{Type: MovementTypeDeposit, Amount: decimal.NewFromInt(10)},
		{Type: MovementTypeClosing, Amount: decimal.NewFromInt(135)},
	}

	totals := SummarizeMovements(movements)
	if !totals.TotalSales.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("sales = %s; want 75", totals.TotalSales)
	}
	// Withdrawals report together with expenses, as positive magnitudes.
	if !totals.TotalExpenses.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expenses = %s; want 50", totals.TotalExpenses)
	}
	if !totals.TotalDeposits.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("deposits = %s; want 10", totals.TotalDeposits)
	}
}

func TestSummarizeMovementsEmpty(t *testing.T) {
	totals := SummarizeMovements(nil)
	if !totals.TotalSales.Equal(decimal.Zero) || !totals.TotalExpenses.Equal(decimal.Zero) || !totals.TotalDeposits.Equal(decimal.Zero) {
		t.Fatalf("empty totals not zero: %+v", totals)
	}
}
