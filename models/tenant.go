package models

import (
	"context"
	"strings"
	"time"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/utils"
)

// Tenant is one restaurant account. Every domain row carries its id and
// every staff query is scoped to it.
type Tenant struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Slug         string    `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Whatsapp     string    `gorm:"size:30" json:"whatsapp"`
	PlanStatus   string    `gorm:"size:20;not null;default:inactive" json:"plan_status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTenant struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Whatsapp string `json:"whatsapp"`
}

func CreateTenant(ctx context.Context, input *NewTenant) (*Tenant, error) {
	db := config.GetDB()

	slug := Slugify(input.Slug)
	if slug == "" {
		return nil, utils.ValidationErrorf("slug inválido")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Tenant{}).
		Where("slug = ? OR email = ?", slug, input.Email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictErrorf("slug ou email já cadastrado")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	tenant := Tenant{
		Name:         input.Name,
		Slug:         slug,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Whatsapp:     input.Whatsapp,
		PlanStatus:   PlanStatusInactive,
	}
	if err := db.WithContext(ctx).Create(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func GetTenant(ctx context.Context, id int) (*Tenant, error) {
	db := config.GetDB()
	var tenant Tenant
	if err := db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &tenant, nil
}

func GetTenantByEmail(ctx context.Context, email string) (*Tenant, error) {
	db := config.GetDB()
	var tenant Tenant
	err := db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&tenant).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &tenant, nil
}

// SetTenantPlanStatus flips the billing flag. Called by the internal
// billing webhook surface, never by tenant-facing routes.
func SetTenantPlanStatus(ctx context.Context, id int, status string) (*Tenant, error) {
	if status != PlanStatusActive && status != PlanStatusInactive {
		return nil, utils.ValidationErrorf("invalid plan status %q", status)
	}

	db := config.GetDB()
	tenant, err := GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(tenant).
		Update("plan_status", status).Error; err != nil {
		return nil, err
	}
	tenant.PlanStatus = status
	return tenant, nil
}

// Slugify lowers, trims and collapses anything non-alphanumeric to dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
