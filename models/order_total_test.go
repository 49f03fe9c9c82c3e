package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

// Three lines of 10.50 x 2 plus a 5.00 fee must land on exactly 68.00,
// with no float drift anywhere.
func TestOrderTotalDecimalConsistency(t *testing.T) {
	unit := mustDecimal(t, "10.50")
	subtotal := decimal.Zero
	for i := 0; i < 3; i++ {
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(2)))
	}
	fee := mustDecimal(t, "5.00")
	total := subtotal.Add(fee)

	if want := mustDecimal(t, "68.00"); !total.Equal(want) {
		t.Fatalf("total = %s; want %s", total, want)
	}
	if total.StringFixed(2) != "68.00" {
		t.Fatalf("total serialized = %s; want 68.00", total.StringFixed(2))
	}
}

func TestDeliveryFeePrecedence(t *testing.T) {
	neighborhood := &Neighborhood{DeliveryFee: mustDecimal(t, "8.00")}
	cfg := &RestaurantConfig{DefaultDeliveryFee: mustDecimal(t, "3.50")}

	if got := DeliveryFeeFor(neighborhood, cfg); !got.Equal(mustDecimal(t, "8.00")) {
		t.Fatalf("neighborhood fee: got %s; want 8.00", got)
	}
	if got := DeliveryFeeFor(nil, cfg); !got.Equal(mustDecimal(t, "3.50")) {
		t.Fatalf("config default fee: got %s; want 3.50", got)
	}
	if got := DeliveryFeeFor(nil, nil); !got.Equal(decimal.Zero) {
		t.Fatalf("no source: got %s; want 0", got)
	}
}

func TestChangeDueRawDifference(t *testing.T) {
	total := mustDecimal(t, "68.00")

	if got := ChangeDue(nil, total); got != nil {
		t.Fatalf("nil changeFor: got %s; want nil", got)
	}

	changeFor := mustDecimal(t, "100.00")
	got := ChangeDue(&changeFor, total)
	if got == nil || !got.Equal(mustDecimal(t, "32.00")) {
		t.Fatalf("change due = %v; want 32.00", got)
	}

	// Insufficient cash yields the raw negative difference, deterministically.
	short := mustDecimal(t, "50.00")
	for i := 0; i < 3; i++ {
		got := ChangeDue(&short, total)
		if got == nil || !got.Equal(mustDecimal(t, "-18.00")) {
			t.Fatalf("short change due = %v; want -18.00", got)
		}
	}
}

func TestNewOrderItemTolerantKeys(t *testing.T) {
	var item NewOrderItem
	if err := json.Unmarshal([]byte(`{"id":3,"quantity":2,"observation":"sem cebola"}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.ProductId != 3 || item.Quantity != 2 || item.Note != "sem cebola" {
		t.Fatalf("legacy keys: %+v", item)
	}

	if err := json.Unmarshal([]byte(`{"product_id":7,"id":3,"quantity":1,"note":"a","observation":"b"}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.ProductId != 7 {
		t.Fatalf("product_id should win over id: got %d", item.ProductId)
	}
	if item.Note != "a" {
		t.Fatalf("note should win over observation: got %q", item.Note)
	}
}

func TestNewOrderValidatePublic(t *testing.T) {
	valid := NewOrder{
		CustomerName:  "Maria",
		CustomerPhone: "11999990000",
		Address:       "Rua A, 10",
		OrderType:     OrderTypeDelivery,
		PaymentMethod: PaymentMethodCash,
		Items:         []NewOrderItem{{ProductId: 1, Quantity: 1}},
	}
	if err := valid.ValidatePublic(); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}

	missingAddress := valid
	missingAddress.Address = ""
	if err := missingAddress.ValidatePublic(); err == nil {
		t.Fatal("delivery without address accepted")
	}

	// Pickup needs no address.
	pickup := valid
	pickup.Address = ""
	pickup.OrderType = OrderTypePickup
	if err := pickup.ValidatePublic(); err != nil {
		t.Fatalf("pickup without address rejected: %v", err)
	}

	noItems := valid
	noItems.Items = nil
	if err := noItems.ValidatePublic(); err == nil {
		t.Fatal("order without items accepted")
	}
}

func TestParsedChangeForLocalized(t *testing.T) {
	order := NewOrder{PaymentMethod: PaymentMethodCash, ChangeFor: "100,00"}
	got, err := order.ParsedChangeFor()
	if err != nil {
		t.Fatalf("ParsedChangeFor: %v", err)
	}
	if got == nil || !got.Equal(mustDecimal(t, "100.00")) {
		t.Fatalf("ParsedChangeFor = %v; want 100.00", got)
	}

	order.ChangeFor = "  "
	if got, err := order.ParsedChangeFor(); err != nil || got != nil {
		t.Fatalf("blank ChangeFor: got %v, %v; want nil, nil", got, err)
	}

	order.ChangeFor = "abc"
	if _, err := order.ParsedChangeFor(); err == nil {
		t.Fatal("invalid ChangeFor accepted")
	}

	// Change only makes sense when paying in cash.
	pix := NewOrder{PaymentMethod: PaymentMethodPix, ChangeFor: "100,00"}
	if got, err := pix.ParsedChangeFor(); err != nil || got != nil {
		t.Fatalf("non-cash ChangeFor: got %v, %v; want nil, nil", got, err)
	}
}
