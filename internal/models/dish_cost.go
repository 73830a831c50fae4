package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DishCost: Yemeğin türetilmiş maliyet/fiyat kaydı
// TotalCost her zaman iki maliyet bileşeninden, SuggestedPrice her zaman
// TotalCost + kâr marjından yeniden hesaplanır.
// Geçerli fiyat = UseManualPrice ise ManualPrice, değilse SuggestedPrice
type DishCost struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	FoodItemID          uint             `gorm:"uniqueIndex;not null" json:"food_item_id"`
	FoodItem            FoodItem         `json:"-"`
	TotalIngredientCost decimal.Decimal  `gorm:"type:decimal(12,4);not null" json:"total_ingredient_cost"`
	TotalOverheadCost   decimal.Decimal  `gorm:"type:decimal(12,4);not null" json:"total_overhead_cost"`
	TotalCost           decimal.Decimal  `gorm:"type:decimal(12,4);not null" json:"total_cost"`
	ProfitMargin        decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"profit_margin"` // [0,100), varsayılan 70
	SuggestedPrice      decimal.Decimal  `gorm:"type:decimal(12,4);not null" json:"suggested_price"`
	UseManualPrice      bool             `gorm:"not null;default:false" json:"use_manual_price"`
	ManualPrice         *decimal.Decimal `gorm:"type:decimal(12,4)" json:"manual_price"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`

	Ingredients []DishIngredient `json:"ingredients"`
}

// DishIngredient: Raporlama için denormalize malzeme kopyası
// Reçete her değiştiğinde komple yenilenir, RecipeIngredient ile senkron tutulur
type DishIngredient struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	DishCostID   uint            `gorm:"index;not null" json:"dish_cost_id"`
	IngredientID uint            `gorm:"index;not null" json:"ingredient_id"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Quantity     float64         `gorm:"not null" json:"quantity"`
	Unit         string          `gorm:"size:20" json:"unit"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"unit_cost"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"total_cost"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// EffectivePrice - Satışta geçerli olan fiyat
func (d *DishCost) EffectivePrice() decimal.Decimal {
	if d.UseManualPrice && d.ManualPrice != nil {
		return *d.ManualPrice
	}
	return d.SuggestedPrice
}
