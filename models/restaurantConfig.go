package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const restaurantConfigCacheTTL = 10 * time.Minute

// RestaurantConfig holds one row per tenant: presentation metadata,
// business hours and delivery defaults that drive the public menu.
type RestaurantConfig struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	TenantId             int             `gorm:"uniqueIndex;not null" json:"tenant_id"`
	Description          string          `gorm:"size:500" json:"description"`
	Address              string          `gorm:"size:255" json:"address"`
	Phone                string          `gorm:"size:30" json:"phone"`
	BusinessHours        string          `gorm:"type:text" json:"business_hours"`
	ManualStatusOverride ManualOverride  `gorm:"size:10;not null;default:auto" json:"manual_status_override"`
	DefaultDeliveryFee   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"default_delivery_fee"`
	PixKey               string          `gorm:"size:140" json:"pix_key"`
	DeliveryTimeMin      int             `gorm:"not null;default:30" json:"delivery_time_min"`
	DeliveryTimeMax      int             `gorm:"not null;default:60" json:"delivery_time_max"`
	PickupTime           int             `gorm:"not null;default:20" json:"pickup_time"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRestaurantConfig struct {
	Description          string `json:"description"`
	Address              string `json:"address"`
	Phone                string `json:"phone"`
	BusinessHours        string `json:"business_hours"`
	ManualStatusOverride string `json:"manual_status_override"`
	DefaultDeliveryFee   string `json:"default_delivery_fee"`
	PixKey               string `json:"pix_key"`
	DeliveryTimeMin      *int   `json:"delivery_time_min"`
	DeliveryTimeMax      *int   `json:"delivery_time_max"`
	PickupTime           *int   `json:"pickup_time"`
}

// Hours decodes the stored business-hours JSON, tolerating bad text.
func (c *RestaurantConfig) Hours() BusinessHoursMap {
	return ParseBusinessHours(c.BusinessHours)
}

func restaurantConfigCacheKey(tenantId int) string {
	return fmt.Sprintf("restaurantConfig:%d", tenantId)
}

// GetOrCreateRestaurantConfig returns the tenant's config row, creating the
// default one on first access. Reads go through the Redis cache; the public
// menu hits this on every page load.
func GetOrCreateRestaurantConfig(ctx context.Context, tenantId int) (*RestaurantConfig, error) {
	var cached RestaurantConfig
	if ok, err := config.GetRedisObject(restaurantConfigCacheKey(tenantId), &cached); err == nil && ok {
		return &cached, nil
	}

	db := config.GetDB()
	var cfg RestaurantConfig
	err := db.WithContext(ctx).Where("tenant_id = ?", tenantId).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = RestaurantConfig{
			TenantId:             tenantId,
			ManualStatusOverride: OverrideAuto,
			DefaultDeliveryFee:   decimal.Zero,
			DeliveryTimeMin:      30,
			DeliveryTimeMax:      60,
			PickupTime:           20,
		}
		// Concurrent first access can race; the unique index decides.
		if cerr := db.WithContext(ctx).Create(&cfg).Error; cerr != nil {
			if ferr := db.WithContext(ctx).Where("tenant_id = ?", tenantId).First(&cfg).Error; ferr != nil {
				return nil, cerr
			}
		}
	} else if err != nil {
		return nil, err
	}

	_ = config.SetRedisObject(restaurantConfigCacheKey(tenantId), &cfg, restaurantConfigCacheTTL)
	return &cfg, nil
}

// UpdateRestaurantConfig applies a profile save and invalidates the cache.
func UpdateRestaurantConfig(ctx context.Context, input *NewRestaurantConfig) (*RestaurantConfig, error) {
	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId <= 0 {
		return nil, errors.New("tenant id is required")
	}

	cfg, err := GetOrCreateRestaurantConfig(ctx, tenantId)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Description": input.Description,
		"Address":     input.Address,
		"Phone":       input.Phone,
		"PixKey":      input.PixKey,
	}

	if input.BusinessHours != "" {
		// Reject hours the resolver could not read back.
		if parsed := ParseBusinessHours(input.BusinessHours); len(parsed) == 0 {
			return nil, utils.ValidationErrorf("horário de funcionamento inválido")
		}
		updates["BusinessHours"] = input.BusinessHours
	}

	if input.ManualStatusOverride != "" {
		switch ManualOverride(input.ManualStatusOverride) {
		case OverrideAuto, OverrideOpen, OverrideClosed:
			updates["ManualStatusOverride"] = input.ManualStatusOverride
		default:
			return nil, utils.ValidationErrorf("manual_status_override must be auto, open or closed")
		}
	}

	if input.DefaultDeliveryFee != "" {
		fee, perr := utils.ParseLocalizedDecimal(input.DefaultDeliveryFee)
		if perr != nil || fee.IsNegative() {
			return nil, utils.ValidationErrorf("taxa de entrega inválida")
		}
		updates["DefaultDeliveryFee"] = fee
	}

	if input.DeliveryTimeMin != nil {
		updates["DeliveryTimeMin"] = *input.DeliveryTimeMin
	}
	if input.DeliveryTimeMax != nil {
		updates["DeliveryTimeMax"] = *input.DeliveryTimeMax
	}
	if input.PickupTime != nil {
		updates["PickupTime"] = *input.PickupTime
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(cfg).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := config.RemoveRedisKey(restaurantConfigCacheKey(tenantId)); err != nil {
		config.LogError(config.GetLogger(), "models", "UpdateRestaurantConfig", "cache invalidation failed", tenantId, err)
	}

	return GetOrCreateRestaurantConfig(ctx, tenantId)
}
