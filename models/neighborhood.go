package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Neighborhood carries the per-area delivery fee. When a checkout names a
// neighborhood that has no row, the config's default fee applies.
type Neighborhood struct {
	ID          int             `gorm:"primary_key" json:"id"`
	TenantId    int             `gorm:"index;not null" json:"tenant_id"`
	Name        string          `gorm:"size:120;not null" json:"name"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewNeighborhood struct {
	Name        string `json:"name" binding:"required"`
	DeliveryFee string `json:"delivery_fee" binding:"required"`
}

func CreateNeighborhood(ctx context.Context, input *NewNeighborhood) (*Neighborhood, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}

	fee, err := utils.ParseLocalizedDecimal(input.DeliveryFee)
	if err != nil || fee.IsNegative() {
		return nil, utils.ValidationErrorf("taxa de entrega inválida: %s", input.DeliveryFee)
	}
	if err := utils.ValidateUnique[Neighborhood](ctx, tenantId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	db := config.GetDB()
	n := Neighborhood{
		TenantId:    tenantId,
		Name:        strings.TrimSpace(input.Name),
		DeliveryFee: fee,
	}
	if err := db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func UpdateNeighborhood(ctx context.Context, id int, input *NewNeighborhood) (*Neighborhood, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}

	fee, err := utils.ParseLocalizedDecimal(input.DeliveryFee)
	if err != nil || fee.IsNegative() {
		return nil, utils.ValidationErrorf("taxa de entrega inválida: %s", input.DeliveryFee)
	}

	db := config.GetDB()
	n, err := utils.FetchModel[Neighborhood](ctx, tenantId, id)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Neighborhood](ctx, tenantId, "name", input.Name, id); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&n).Updates(map[string]interface{}{
		"Name":        strings.TrimSpace(input.Name),
		"DeliveryFee": fee,
	}).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func DeleteNeighborhood(ctx context.Context, id int) (*Neighborhood, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}

	db := config.GetDB()
	n, err := utils.FetchModel[Neighborhood](ctx, tenantId, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func GetNeighborhoods(ctx context.Context) ([]*Neighborhood, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}
	return utils.FetchAllModels[Neighborhood](ctx, tenantId)
}

// GetTenantNeighborhoods lists the delivery zones for the public menu;
// takes the tenant explicitly because the cardapio routes carry no auth
// context.
func GetTenantNeighborhoods(ctx context.Context, tenantId int) ([]*Neighborhood, error) {
	db := config.GetDB()
	var neighborhoods []*Neighborhood
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantId).
		Order("name").
		Find(&neighborhoods).Error
	if err != nil {
		return nil, err
	}
	return neighborhoods, nil
}

// ResolveNeighborhood finds the delivery zone a checkout named, by id when
// one was sent, falling back to the free-text name. A miss either way is
// not an error; the order just gets the default fee.
func ResolveNeighborhood(ctx context.Context, db *gorm.DB, tenantId int, id int, name string) (*Neighborhood, error) {
	if id > 0 {
		var n Neighborhood
		err := db.WithContext(ctx).
			Where("tenant_id = ?", tenantId).
			First(&n, id).Error
		if err == nil {
			return &n, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return FindNeighborhoodByName(ctx, db, tenantId, name)
}

// FindNeighborhoodByName does a case-insensitive lookup for checkout fee
// resolution; a miss is not an error.
func FindNeighborhoodByName(ctx context.Context, db *gorm.DB, tenantId int, name string) (*Neighborhood, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var n Neighborhood
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(name) = LOWER(?)", tenantId, name).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
