package models

import (
	"log"

	"github.com/mesadigital/restaurante_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Tenant{}, &RestaurantConfig{},
		&Product{}, &Neighborhood{}, &Customer{},
		&Order{}, &OrderItem{},
		&CashSession{}, &CashMovement{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
