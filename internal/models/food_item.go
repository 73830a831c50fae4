package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FoodItem: Menüdeki satılabilir yemek kaydı
// Cost DishCost.TotalCost'u, Price geçerli fiyatı yansıtır;
// DishCost kaydı yoksa Price doğrudan düzenlenebilir
type FoodItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100;not null;unique" json:"name"`
	Category  string          `gorm:"size:50" json:"category"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"cost"`
	Price     decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"price"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
