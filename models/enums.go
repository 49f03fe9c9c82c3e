package models

// OrderStatus values are stored uppercase, exactly as the kitchen panel
// and the public tracking page consume them.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusSent      OrderStatus = "SENT"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// MovementType classifies every row in the cash ledger.
type MovementType string

const (
	MovementTypeOpening    MovementType = "opening"
	MovementTypeClosing    MovementType = "closing"
	MovementTypeSale       MovementType = "sale"
	MovementTypeDeposit    MovementType = "deposit"
	MovementTypeWithdrawal MovementType = "withdrawal"
	MovementTypeExpense    MovementType = "expense"
)

// ManualOverride is the restaurant-status switch in the profile config.
// "auto" defers to the business-hours table.
type ManualOverride string

const (
	OverrideAuto   ManualOverride = "auto"
	OverrideOpen   ManualOverride = "open"
	OverrideClosed ManualOverride = "closed"
)

// RestaurantStatus is the resolved answer shown on the public menu.
type RestaurantStatus string

const (
	RestaurantOpen   RestaurantStatus = "open"
	RestaurantClosed RestaurantStatus = "closed"
)

// OrderType distinguishes how the order entered the system.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
	OrderTypeCounter  OrderType = "counter"
	OrderTypeTable    OrderType = "table"
)

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodPix  = "pix"
)

const (
	PlanStatusActive   = "active"
	PlanStatusInactive = "inactive"
)
