package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mesadigital/restaurante_backend/config"
	"github.com/mesadigital/restaurante_backend/models"
	"github.com/mesadigital/restaurante_backend/utils"
	"github.com/shopspring/decimal"
)

// Seeds a tenant with a starter catalog so a fresh environment has
// something to order from.
func main() {
	name := flag.String("name", "", "Restaurant name (required)")
	slug := flag.String("slug", "", "URL slug (defaults to a slugified name)")
	email := flag.String("email", "", "Login email (required)")
	password := flag.String("password", "", "Login password (required)")
	whatsapp := flag.String("whatsapp", "", "WhatsApp contact number")
	activate := flag.Bool("activate", false, "Mark the plan active immediately")
	withSamples := flag.Bool("with-samples", true, "Seed a small sample catalog")
	flag.Parse()

	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*email) == "" || strings.TrimSpace(*password) == "" {
		fmt.Fprintln(os.Stderr, "usage: seed-tenant -name <name> -email <email> -password <password> [-slug <slug>] [-activate]")
		os.Exit(1)
	}
	if strings.TrimSpace(*slug) == "" {
		*slug = *name
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	tenant, err := models.CreateTenant(ctx, &models.NewTenant{
		Name:     *name,
		Slug:     *slug,
		Email:    *email,
		Password: *password,
		Whatsapp: *whatsapp,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create tenant: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created tenant %d (%s) slug=%s\n", tenant.ID, tenant.Name, tenant.Slug)

	if *activate {
		if _, err := models.SetTenantPlanStatus(ctx, tenant.ID, models.PlanStatusActive); err != nil {
			fmt.Fprintf(os.Stderr, "failed to activate plan: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("plan activated")
	}

	if _, err := models.GetOrCreateRestaurantConfig(ctx, tenant.ID); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create restaurant config: %v\n", err)
		os.Exit(1)
	}

	if !*withSamples {
		return
	}

	tenantCtx := utils.SetTenantIdInContext(ctx, tenant.ID)
	samples := []struct {
		name     string
		category string
		price    string
	}{
		{"Pizza Margherita", "Pizzas", "45,00"},
		{"Pizza Calabresa", "Pizzas", "48,00"},
		{"Refrigerante Lata", "Bebidas", "6,50"},
		{"Água Mineral", "Bebidas", "4,00"},
	}
	for _, s := range samples {
		if _, err := models.CreateProduct(tenantCtx, &models.NewProduct{
			Name:     s.name,
			Category: s.category,
			Price:    s.price,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed product %q: %v\n", s.name, err)
			os.Exit(1)
		}
	}
	if _, err := models.CreateNeighborhood(tenantCtx, &models.NewNeighborhood{
		Name:        "Centro",
		DeliveryFee: decimal.NewFromInt(5).StringFixed(2),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed neighborhood: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("sample catalog seeded")
}
