package repositories

import (
	"github.com/shopspring/decimal"

	"kasir/internal/models"
)

// SampleMenu is the catalog served in memory mode and seeded into an empty
// database. The second Classic Burger repeats the first on purpose; fetches
// drop it.
func SampleMenu() []models.RawProduct {
	return []models.RawProduct{
		{ID: 1, Title: "Classic Burger", Price: decimal.RequireFromString("10.00"), Category: "Main", Description: "Beef patty, lettuce and tomato"},
		{ID: 2, Title: "Margherita Pizza", Price: decimal.RequireFromString("15.00"), Category: "Main", Description: "Tomato, mozzarella and basil"},
		{ID: 3, Title: "Caesar Salad", Price: decimal.RequireFromString("8.00"), Category: "Appetizer", Description: "Romaine, parmesan and croutons"},
		{ID: 4, Title: "Iced Tea", Price: decimal.RequireFromString("3.50"), Category: "Drinks", Description: "Brewed black tea over ice"},
		{ID: 5, Title: "Classic Burger", Price: decimal.RequireFromString("10.00"), Category: "Main", Description: "Beef patty, lettuce and tomato"},
		{ID: 6, Title: "Chocolate Lava Cake", Price: decimal.RequireFromString("6.75"), Category: "Dessert", Description: "Warm cake with a molten center"},
	}
}
