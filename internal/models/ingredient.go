package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient: Malzeme kataloğu (birim maliyet + anlık stok)
// Stok miktarı sadece InventoryTransaction üzerinden veya doğrudan düzenleme ile değişir
type Ingredient struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:100;not null;unique" json:"name"`
	Unit          string          `gorm:"size:20;not null" json:"unit"` // kg, adet, litre vs.
	UnitCost      decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"unit_cost"`
	StockQuantity float64         `gorm:"not null;default:0" json:"stock_quantity"`
	ReorderLevel  float64         `gorm:"not null;default:0" json:"reorder_level"` // kritik stok seviyesi
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
