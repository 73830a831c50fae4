package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe: Bir yemeğin reçetesi (malzeme satırları + porsiyon sayısı)
// Her yemeğin (FoodItem) en fazla bir reçetesi olur; malzeme düzenlemesinde
// satırlar komple değiştirilir, versiyonlama yapılmaz
type Recipe struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	FoodItemID     uint            `gorm:"uniqueIndex;not null" json:"food_item_id"`
	FoodItem       FoodItem        `json:"-"`
	Serves         int             `gorm:"not null" json:"serves"` // porsiyon sayısı (> 0)
	TotalCost      decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"total_cost"`
	CostPerServing decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"cost_per_serving"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Ingredients []RecipeIngredient `json:"ingredients"`
}

// RecipeIngredient: Reçete malzeme satırı
// LineCost = malzemenin birim maliyeti x miktar (kayıt anında hesaplanır)
type RecipeIngredient struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RecipeID     uint            `gorm:"index;not null" json:"recipe_id"`
	IngredientID uint            `gorm:"index;not null" json:"ingredient_id"`
	Quantity     float64         `gorm:"not null" json:"quantity"` // > 0
	Unit         string          `gorm:"size:20" json:"unit"`
	LineCost     decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"line_cost"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
