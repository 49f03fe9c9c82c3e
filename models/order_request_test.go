package models

import (
	"encoding/json"
	"testing"
)

// The storefront posts client_* keys, neighborhood_id and order_items; all
// of them must land on the canonical request fields.
func TestNewOrderUnmarshalStorefrontKeys(t *testing.T) {
	body := `{
		"client_name": "Maria",
		"client_phone": "11999990000",
		"client_address": "Rua A, 10",
		"neighborhood_id": 2,
		"payment_method": "cash",
		"change_for": "100,00",
		"order_items": [
			{"product_id": 1, "quantity": 2},
			{"product_id": 3, "quantity": 1, "observation": "sem cebola"}
		]
	}`

	var input NewOrder
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if input.CustomerName != "Maria" {
		t.Fatalf("client_name not mapped: %q", input.CustomerName)
	}
	if input.CustomerPhone != "11999990000" {
		t.Fatalf("client_phone not mapped: %q", input.CustomerPhone)
	}
	if input.Address != "Rua A, 10" {
		t.Fatalf("client_address not mapped: %q", input.Address)
	}
	if input.NeighborhoodId != 2 {
		t.Fatalf("neighborhood_id not mapped: %d", input.NeighborhoodId)
	}
	if len(input.Items) != 2 || input.Items[0].ProductId != 1 || input.Items[1].Note != "sem cebola" {
		t.Fatalf("order_items not mapped: %+v", input.Items)
	}

	input.OrderType = OrderTypeDelivery
	if err := input.ValidatePublic(); err != nil {
		t.Fatalf("storefront body rejected: %v", err)
	}
}

func TestNewOrderUnmarshalCanonicalKeysStillWork(t *testing.T) {
	body := `{
		"customer_name": "João",
		"customer_phone": "11888880000",
		"address": "Rua B, 20",
		"neighborhood": "Centro",
		"payment_method": "pix",
		"items": [{"product_id": 5, "quantity": 1}]
	}`

	var input NewOrder
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if input.CustomerName != "João" || input.CustomerPhone != "11888880000" {
		t.Fatalf("canonical keys not mapped: %+v", input)
	}
	if input.Neighborhood != "Centro" || len(input.Items) != 1 {
		t.Fatalf("canonical keys not mapped: %+v", input)
	}
}

func TestNewOrderUnmarshalCanonicalWinsOverLegacy(t *testing.T) {
	body := `{
		"customer_name": "Canonical",
		"client_name": "Legacy",
		"items": [{"product_id": 1, "quantity": 1}],
		"order_items": [{"product_id": 9, "quantity": 9}]
	}`

	var input NewOrder
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if input.CustomerName != "Canonical" {
		t.Fatalf("customer_name should win over client_name: %q", input.CustomerName)
	}
	if len(input.Items) != 1 || input.Items[0].ProductId != 1 {
		t.Fatalf("items should win over order_items: %+v", input.Items)
	}
}
