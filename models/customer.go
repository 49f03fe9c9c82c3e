package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Customer is the delivery-side contact. Counter sales deliberately carry
// no customer; that absence is how they are recognized later.
type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	TenantId  int       `gorm:"index;not null" json:"tenant_id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Phone     string    `gorm:"size:30;not null" json:"phone"`
	Address   string    `gorm:"size:255" json:"address"`
	Reference string    `gorm:"size:255" json:"reference"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FindOrCreateCustomerByPhone upserts the checkout contact inside the order
// transaction, keyed by phone within the tenant. Name and address refresh on
// every order so the latest delivery data wins.
func FindOrCreateCustomerByPhone(ctx context.Context, tx *gorm.DB, tenantId int, name, phone, address, reference string) (*Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}

	var customer Customer
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantId, phone).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = Customer{
			TenantId:  tenantId,
			Name:      strings.TrimSpace(name),
			Phone:     phone,
			Address:   strings.TrimSpace(address),
			Reference: strings.TrimSpace(reference),
		}
		if cerr := tx.WithContext(ctx).Create(&customer).Error; cerr != nil {
			return nil, cerr
		}
		return &customer, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if n := strings.TrimSpace(name); n != "" && n != customer.Name {
		updates["Name"] = n
	}
	if a := strings.TrimSpace(address); a != "" && a != customer.Address {
		updates["Address"] = a
	}
	if r := strings.TrimSpace(reference); r != "" && r != customer.Reference {
		updates["Reference"] = r
	}
	if len(updates) > 0 {
		if uerr := tx.WithContext(ctx).Model(&customer).Updates(updates).Error; uerr != nil {
			return nil, uerr
		}
	}
	return &customer, nil
}
