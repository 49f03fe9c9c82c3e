package models

import (
	"testing"

	"github.com/mesadigital/restaurante_backend/utils"
)

func TestOrderStatusSequenceAdvancesForward(t *testing.T) {
	steps := []struct {
		from OrderStatus
		want OrderStatus
	}{
		{OrderStatusPending, OrderStatusPreparing},
		{OrderStatusPreparing, OrderStatusSent},
		{OrderStatusSent, OrderStatusCompleted},
	}
	for _, step := range steps {
		got, err := step.from.Next()
		if err != nil {
			t.Fatalf("Next(%s): unexpected error: %v", step.from, err)
		}
		if got != step.want {
			t.Fatalf("Next(%s) = %s; want %s", step.from, got, step.want)
		}
	}
}

func TestOrderStatusTerminalRejectsAdvance(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled} {
		if _, err := status.Next(); err == nil {
			t.Fatalf("Next(%s): expected error, got nil", status)
		} else if !utils.IsConflict(err) {
			t.Fatalf("Next(%s): expected conflict error, got %v", status, err)
		}
		if !status.IsTerminal() {
			t.Fatalf("IsTerminal(%s) = false; want true", status)
		}
		if status.CanCancel() {
			t.Fatalf("CanCancel(%s) = true; want false", status)
		}
	}
}

func TestOrderStatusUnknownRejected(t *testing.T) {
	if _, err := OrderStatus("SHIPPED").Next(); err == nil {
		t.Fatal("Next(SHIPPED): expected error, got nil")
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("ParseOrderStatus(shipped): expected error, got nil")
	}
}

func TestParseOrderStatusNormalizesCase(t *testing.T) {
	got, err := ParseOrderStatus(" preparing ")
	if err != nil {
		t.Fatalf("ParseOrderStatus: %v", err)
	}
	if got != OrderStatusPreparing {
		t.Fatalf("ParseOrderStatus = %s; want %s", got, OrderStatusPreparing)
	}
}

func TestActiveOrderStatusesExcludeTerminal(t *testing.T) {
	for _, status := range ActiveOrderStatuses() {
		if status.IsTerminal() {
			t.Fatalf("active status %s is terminal", status)
		}
	}
}
