package models

import (
	"context"
	"errors"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `gorm:"primary_key" json:"id"`
	TenantId    int             `gorm:"index;not null" json:"tenant_id"`
	Name        string          `gorm:"size:120;not null" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	Category    string          `gorm:"size:60" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	// Sales-channel flags, independent of each other: a product can be
	// delivery-only, counter-only, or both.
	IsDelivery *bool     `gorm:"not null;default:true" json:"is_delivery"`
	IsBalcao   *bool     `gorm:"not null;default:true" json:"is_balcao"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price" binding:"required"`
	ImageURL    string `json:"image_url"`
	IsDelivery  *bool  `json:"is_delivery"`
	IsBalcao    *bool  `json:"is_balcao"`
}

func (input *NewProduct) validate(ctx context.Context, tenantId int, id int) (decimal.Decimal, error) {
	price, err := utils.ParseLocalizedDecimal(input.Price)
	if err != nil {
		return decimal.Zero, utils.ValidationErrorf("preço inválido: %s", input.Price)
	}
	if price.IsNegative() {
		return decimal.Zero, utils.ValidationErrorf("preço não pode ser negativo")
	}
	if err := utils.ValidateUnique[Product](ctx, tenantId, "name", input.Name, id); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}

	price, err := input.validate(ctx, tenantId, 0)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	product := Product{
		TenantId:    tenantId,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       price,
		ImageURL:    input.ImageURL,
		IsActive:    utils.NewTrue(),
		IsDelivery:  utils.DefaultTrue(input.IsDelivery),
		IsBalcao:    utils.DefaultTrue(input.IsBalcao),
	}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}

	db := config.GetDB()
	product, err := utils.FetchModel[Product](ctx, tenantId, id)
	if err != nil {
		return nil, err
	}
	price, err := input.validate(ctx, tenantId, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
		"Category":    input.Category,
		"Price":       price,
		"ImageURL":    input.ImageURL,
	}
	if input.IsDelivery != nil {
		updates["IsDelivery"] = *input.IsDelivery
	}
	if input.IsBalcao != nil {
		updates["IsBalcao"] = *input.IsBalcao
	}
	if err := db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}

	return product, nil
}

func ToggleActiveProduct(ctx context.Context, id int, isActive bool) (*Product, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}

	db := config.GetDB()
	product, err := utils.FetchModel[Product](ctx, tenantId, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&product).
		Update("is_active", isActive).Error; err != nil {
		return nil, err
	}
	product.IsActive = &isActive
	return product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}
	return utils.FetchModel[Product](ctx, tenantId, id)
}

func GetProducts(ctx context.Context) ([]*Product, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}
	return utils.FetchAllModels[Product](ctx, tenantId)
}

// GetActiveProducts lists the menu the public page shows, which is the
// delivery channel; takes the tenant explicitly because the cardapio routes
// carry no auth context.
func GetActiveProducts(ctx context.Context, tenantId int) ([]*Product, error) {
	db := config.GetDB()
	var products []*Product
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ? AND is_delivery = ?", tenantId, true, true).
		Order("category, name").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetCounterProducts lists the sellable counter catalog.
func GetCounterProducts(ctx context.Context, tenantId int) ([]*Product, error) {
	db := config.GetDB()
	var products []*Product
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ? AND is_balcao = ?", tenantId, true, true).
		Order("category, name").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// SearchBalcaoProducts powers the counter-sale autocomplete: prefix matches
// rank before substring matches, capped at the search limit. Only products
// flagged for the counter channel appear.
func SearchBalcaoProducts(ctx context.Context, tenantId int, query string) ([]*Product, error) {
	db := config.GetDB()
	var products []*Product
	err := db.WithContext(ctx).
		Raw(`SELECT * FROM products
			WHERE tenant_id = ? AND is_active = 1 AND is_balcao = 1 AND name LIKE ?
			ORDER BY CASE WHEN name LIKE ? THEN 0 ELSE 1 END, name
			LIMIT ?`,
			tenantId, "%"+query+"%", query+"%", config.SearchLimit).
		Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
