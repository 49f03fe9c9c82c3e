package models

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID             int              `gorm:"primary_key" json:"id"`
	TenantId       int              `gorm:"index;not null" json:"tenant_id"`
	CustomerId     *int             `gorm:"index" json:"customer_id"`
	Customer       *Customer        `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
	Status         OrderStatus      `gorm:"size:20;not null;index" json:"status"`
	OrderType      OrderType        `gorm:"size:20;not null" json:"order_type"`
	PaymentMethod  string           `gorm:"size:30" json:"payment_method"`
	TotalPrice     decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"total_price"`
	DeliveryFee    decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_fee"`
	ChangeFor      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"change_for"`
	CustomerName   string           `gorm:"size:120" json:"customer_name"`
	CustomerPhone  string           `gorm:"size:30" json:"customer_phone"`
	Address        string           `gorm:"size:255" json:"address"`
	Neighborhood   string           `gorm:"size:120" json:"neighborhood"`
	ComplementNote string           `gorm:"size:255" json:"complement_note"`
	TableNumber    string           `gorm:"size:20" json:"table_number"`
	Note           string           `gorm:"size:500" json:"note"`
	CancelReason   string           `gorm:"size:255" json:"cancel_reason"`
	Items          []OrderItem      `gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	CompletedAt    *time.Time       `gorm:"index" json:"completed_at"`
	CanceledAt     *time.Time       `json:"canceled_at"`
}

// OrderItem snapshots the product price at order time; later catalog edits
// never touch past orders.
type OrderItem struct {
	ID           int             `gorm:"primary_key" json:"id"`
	OrderId      int             `gorm:"index;not null" json:"order_id"`
	TenantId     int             `gorm:"index;not null" json:"tenant_id"`
	ProductId    int             `gorm:"not null" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductId" json:"product,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	PriceAtOrder decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_order"`
	Note         string          `gorm:"size:255" json:"note"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// NewOrder is the canonical create request. Every entrypoint (public
// checkout, staff panel, counter) adapts its JSON into this one shape
// before any business logic runs.
type NewOrder struct {
	CustomerName   string         `json:"customer_name"`
	CustomerPhone  string         `json:"customer_phone"`
	Address        string         `json:"address"`
	Neighborhood   string         `json:"neighborhood"`
	NeighborhoodId int            `json:"neighborhood_id"`
	ComplementNote string         `json:"complement_note"`
	TableNumber    string         `json:"table_number"`
	OrderType      OrderType      `json:"order_type"`
	PaymentMethod  string         `json:"payment_method"`
	ChangeFor      string         `json:"change_for"`
	Note           string         `json:"note"`
	Items          []NewOrderItem `json:"items"`
}

// UnmarshalJSON adapts every frontend spelling into the canonical request:
// the storefront sends "client_name"/"client_phone"/"client_address" and
// "order_items", the panel sends the canonical keys. Canonical wins when
// both appear.
func (input *NewOrder) UnmarshalJSON(data []byte) error {
	var aux struct {
		CustomerName   string         `json:"customer_name"`
		ClientName     string         `json:"client_name"`
		CustomerPhone  string         `json:"customer_phone"`
		ClientPhone    string         `json:"client_phone"`
		Address        string         `json:"address"`
		ClientAddress  string         `json:"client_address"`
		Neighborhood   string         `json:"neighborhood"`
		NeighborhoodId int            `json:"neighborhood_id"`
		ComplementNote string         `json:"complement_note"`
		TableNumber    string         `json:"table_number"`
		OrderType      OrderType      `json:"order_type"`
		PaymentMethod  string         `json:"payment_method"`
		ChangeFor      string         `json:"change_for"`
		Note           string         `json:"note"`
		Items          []NewOrderItem `json:"items"`
		OrderItems     []NewOrderItem `json:"order_items"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	input.CustomerName = firstNonEmpty(aux.CustomerName, aux.ClientName)
	input.CustomerPhone = firstNonEmpty(aux.CustomerPhone, aux.ClientPhone)
	input.Address = firstNonEmpty(aux.Address, aux.ClientAddress)
	input.Neighborhood = aux.Neighborhood
	input.NeighborhoodId = aux.NeighborhoodId
	input.ComplementNote = aux.ComplementNote
	input.TableNumber = aux.TableNumber
	input.OrderType = aux.OrderType
	input.PaymentMethod = aux.PaymentMethod
	input.ChangeFor = aux.ChangeFor
	input.Note = aux.Note
	input.Items = aux.Items
	if len(input.Items) == 0 {
		input.Items = aux.OrderItems
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type NewOrderItem struct {
	ProductId int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// UnmarshalJSON tolerates the field spellings the different frontends send:
// "product_id" or "id" for the product, "note" or "observation" for the
// free-text line.
func (i *NewOrderItem) UnmarshalJSON(data []byte) error {
	var aux struct {
		ProductId   int    `json:"product_id"`
		Id          int    `json:"id"`
		Quantity    int    `json:"quantity"`
		Note        string `json:"note"`
		Observation string `json:"observation"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	i.ProductId = aux.ProductId
	if i.ProductId == 0 {
		i.ProductId = aux.Id
	}
	i.Quantity = aux.Quantity
	i.Note = aux.Note
	if i.Note == "" {
		i.Note = aux.Observation
	}
	return nil
}

// ValidatePublic enforces the required checkout fields before any write.
func (input *NewOrder) ValidatePublic() error {
	var missing []string
	if strings.TrimSpace(input.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		missing = append(missing, "customer_phone")
	}
	if input.OrderType == OrderTypeDelivery && strings.TrimSpace(input.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		missing = append(missing, "payment_method")
	}
	if len(missing) > 0 {
		return utils.ValidationErrorf("campos obrigatórios: %s", strings.Join(missing, ", "))
	}
	if len(input.Items) == 0 {
		return utils.ValidationErrorf("pedido sem itens")
	}
	return nil
}

// ParsedChangeFor parses the optional cash-change field; empty means the
// client did not ask for change. The field only means anything on cash
// orders, so any value sent with another payment method is discarded.
func (input *NewOrder) ParsedChangeFor() (*decimal.Decimal, error) {
	if input.PaymentMethod != PaymentMethodCash {
		return nil, nil
	}
	raw := strings.TrimSpace(input.ChangeFor)
	if raw == "" {
		return nil, nil
	}
	v, err := utils.ParseLocalizedDecimal(raw)
	if err != nil {
		return nil, utils.ValidationErrorf("valor de troco inválido: %s", raw)
	}
	return &v, nil
}

// DeliveryFeeFor resolves the fee with fixed precedence: the neighborhood's
// own fee, else the config default, else zero. Pure.
func DeliveryFeeFor(neighborhood *Neighborhood, cfg *RestaurantConfig) decimal.Decimal {
	if neighborhood != nil {
		return neighborhood.DeliveryFee
	}
	if cfg != nil {
		return cfg.DefaultDeliveryFee
	}
	return decimal.Zero
}

// ChangeDue returns changeFor - total, or nil when no change was requested.
// The raw difference is returned even when negative; presentation decides
// what to do with it.
func ChangeDue(changeFor *decimal.Decimal, total decimal.Decimal) *decimal.Decimal {
	if changeFor == nil {
		return nil
	}
	due := changeFor.Sub(total)
	return &due
}

// ResolveOrderItems turns requested items into persisted-shape rows with
// snapshot prices, and sums the subtotal. Unknown products and non-positive
// quantities are skipped silently, matching the lenient order boundary.
func ResolveOrderItems(ctx context.Context, tx *gorm.DB, tenantId int, items []NewOrderItem) ([]OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	resolved := make([]OrderItem, 0, len(items))

	for _, item := range items {
		if item.ProductId <= 0 || item.Quantity <= 0 {
			continue
		}
		var product Product
		err := tx.WithContext(ctx).
			Where("tenant_id = ? AND id = ?", tenantId, item.ProductId).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, decimal.Zero, err
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		resolved = append(resolved, OrderItem{
			TenantId:     tenantId,
			ProductId:    product.ID,
			Quantity:     item.Quantity,
			PriceAtOrder: product.Price,
			Note:         item.Note,
		})
	}

	return resolved, total, nil
}

/* queries */

func GetOrder(ctx context.Context, id int) (*Order, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}
	return utils.FetchModel[Order](ctx, tenantId, id, "Items", "Items.Product", "Customer")
}

// GetPublicOrder is the unauthenticated confirmation-page lookup: the order
// must belong to the tenant in the URL.
func GetPublicOrder(ctx context.Context, tenantId int, id int) (*Order, error) {
	db := config.GetDB()
	var order Order
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantId).
		Preload("Items").Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &order, nil
}

// GetOrdersByStatus lists orders in the given statuses, optionally bounded
// on the status-relevant timestamp column.
func GetOrdersByStatus(ctx context.Context, statuses []OrderStatus, dateColumn string, start, end *time.Time) ([]*Order, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantId, statuses).
		Preload("Items").Preload("Items.Product").Preload("Customer").
		Order("created_at DESC")
	if start != nil {
		dbCtx = dbCtx.Where(dateColumn+" >= ?", *start)
	}
	if end != nil {
		dbCtx = dbCtx.Where(dateColumn+" < ?", *end)
	}

	var orders []*Order
	if err := dbCtx.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetTodayCounterOrders lists today's balcão sales: completed orders with
// no customer, created within the current day.
func GetTodayCounterOrders(ctx context.Context, tx *gorm.DB, tenantId int, now time.Time) ([]*Order, error) {
	start, end := utils.DayRange(now)
	var orders []*Order
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND customer_id IS NULL AND created_at >= ? AND created_at < ?",
			tenantId, OrderStatusCompleted, start, end).
		Preload("Items").Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
