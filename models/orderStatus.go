package models

import (
	"strings"

	"github.com/mesadigital/restaurante_backend/utils"
)

// The kitchen flow advances strictly forward:
// PENDING -> PREPARING -> SENT -> COMPLETED.
var orderStatusSequence = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusSent,
	OrderStatusCompleted,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusPreparing:
		return OrderStatusPreparing, nil
	case OrderStatusSent:
		return OrderStatusSent, nil
	case OrderStatusCompleted:
		return OrderStatusCompleted, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	}
	return "", utils.ValidationErrorf("unknown order status %q", s)
}

// Next returns the status that follows s in the kitchen sequence.
// Terminal statuses have no successor.
func (s OrderStatus) Next() (OrderStatus, error) {
	if s.IsTerminal() {
		return "", utils.ConflictErrorf("pedido já finalizado (%s)", s)
	}
	for i, st := range orderStatusSequence {
		if st == s {
			return orderStatusSequence[i+1], nil
		}
	}
	return "", utils.ValidationErrorf("unknown order status %q", string(s))
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanCancel reports whether an order in this status may still be cancelled.
func (s OrderStatus) CanCancel() bool {
	return !s.IsTerminal()
}

// ActiveOrderStatuses are the statuses shown on the live kitchen panel.
func ActiveOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusSent}
}
