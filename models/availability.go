package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DayHours is one weekday entry of the business-hours table.
// Times are "HH:MM" strings in the restaurant's local time.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// BusinessHoursMap is keyed by lowercase English weekday name
// ("monday" ... "sunday"), the format the profile page saves.
type BusinessHoursMap map[string]DayHours

// ParseBusinessHours tolerantly decodes the stored JSON text. Malformed or
// empty text yields an empty map, which resolves to closed every day.
func ParseBusinessHours(raw string) BusinessHoursMap {
	hours := BusinessHoursMap{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return hours
	}
	if err := json.Unmarshal([]byte(raw), &hours); err != nil {
		return BusinessHoursMap{}
	}
	return hours
}

// ResolveRestaurantStatus decides whether the restaurant accepts orders
// right now. A manual override wins outright; otherwise the weekday's
// configured window is compared against the clock. "HH:MM" strings in
// 24h form compare correctly as plain strings.
func ResolveRestaurantStatus(hours BusinessHoursMap, override ManualOverride, now time.Time) RestaurantStatus {
	switch override {
	case OverrideOpen:
		return RestaurantOpen
	case OverrideClosed:
		return RestaurantClosed
	}

	day := strings.ToLower(now.Weekday().String())
	window, ok := hours[day]
	if !ok || window.Open == "" || window.Close == "" {
		return RestaurantClosed
	}

	current := now.Format("15:04")
	if window.Open <= current && current < window.Close {
		return RestaurantOpen
	}
	return RestaurantClosed
}
