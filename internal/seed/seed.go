// Package seed loads the bay layout and a starter menu.
package seed

import (
	"context"
	"fmt"

	"github.com/swingeats/swingeats/internal/models"
)

type Store interface {
	EnsureBays(ctx context.Context, bays []models.Bay) error
	UpsertMenuItem(ctx context.Context, item *models.MenuItem) error
}

const Floors = 3

// Bays numbers bays 1..n and spreads them evenly over the floors, lowest
// numbers on floor 1.
func Bays(n int) []models.Bay {
	if n <= 0 {
		return nil
	}
	perFloor := (n + Floors - 1) / Floors
	out := make([]models.Bay, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Bay{
			ID:     uint(i),
			Floor:  (i-1)/perFloor + 1,
			Status: models.BayEmpty,
		})
	}
	return out
}

func Menu() []models.MenuItem {
	return []models.MenuItem{
		{Name: "Range Fries", Category: "Shareables", Description: "Shoestring fries, sea salt", PriceCents: 695, Station: "Fry", PrepSeconds: 240, Active: true},
		{Name: "Buffalo Wings", Category: "Shareables", Description: "Ten wings, blue cheese", PriceCents: 1595, Station: "Fry", PrepSeconds: 600, Active: true},
		{Name: "Loaded Nachos", Category: "Shareables", Description: "Queso, jalapeno, pico", PriceCents: 1395, Station: "Oven", PrepSeconds: 420, Active: true},
		{Name: "Double Eagle Burger", Category: "Mains", Description: "Two smashed patties, cheddar", PriceCents: 1795, Station: "FlatTop", PrepSeconds: 480, Active: true},
		{Name: "Chicken Tenders", Category: "Mains", Description: "Hand breaded, honey mustard", PriceCents: 1495, Station: "Fry", PrepSeconds: 360, Active: true},
		{Name: "Margherita Pizza", Category: "Pizza", Description: "San Marzano, fresh mozzarella", PriceCents: 1695, Station: "PizzaOven", PrepSeconds: 540, Active: true},
		{Name: "Pepperoni Pizza", Category: "Pizza", Description: "Cup and char pepperoni", PriceCents: 1795, Station: "PizzaOven", PrepSeconds: 540, Active: true},
		{Name: "Caesar Salad", Category: "Greens", Description: "Romaine, parmesan, croutons", PriceCents: 1195, Station: "Cold", PrepSeconds: 180, Active: true},
		{Name: "Churro Bites", Category: "Dessert", Description: "Cinnamon sugar, chocolate dip", PriceCents: 895, Station: "Fry", PrepSeconds: 240, Active: true},
		{Name: "Draft Lager", Category: "Drinks", Description: "16oz", PriceCents: 750, Station: "Bar", PrepSeconds: 60, Active: true},
	}
}

// Load creates missing bays and upserts the starter menu when withMenu is
// set. It is safe to run on every start.
func Load(ctx context.Context, store Store, bayCount int, withMenu bool) ([]models.MenuItem, error) {
	if err := store.EnsureBays(ctx, Bays(bayCount)); err != nil {
		return nil, fmt.Errorf("seed bays: %w", err)
	}
	if !withMenu {
		return nil, nil
	}
	items := Menu()
	for i := range items {
		if err := store.UpsertMenuItem(ctx, &items[i]); err != nil {
			return nil, fmt.Errorf("seed menu item %q: %w", items[i].Name, err)
		}
	}
	return items, nil
}
