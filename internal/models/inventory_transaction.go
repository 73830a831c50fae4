package models

import "time"

type TransactionType string

const (
	TransactionTypePurchase    TransactionType = "purchase"    // satın alma (stok girişi)
	TransactionTypeAdjustment  TransactionType = "adjustment"  // sayım düzeltmesi
	TransactionTypeWaste       TransactionType = "waste"       // zayiat
	TransactionTypeConsumption TransactionType = "consumption" // sipariş tüketimi
)

// InventoryTransaction: Her stok hareketi için değişmez kayıt
// Sadece eklenir; asla güncellenmez veya silinmez
type InventoryTransaction struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	CorrelationID    string          `gorm:"size:36;index" json:"correlation_id"` // uuid
	IngredientID     uint            `gorm:"index;not null" json:"ingredient_id"`
	Ingredient       Ingredient      `json:"-"`
	Type             TransactionType `gorm:"size:20;not null" json:"type"`
	Quantity         float64         `gorm:"not null" json:"quantity"` // işaretli delta
	PreviousQuantity float64         `gorm:"not null" json:"previous_quantity"`
	NewQuantity      float64         `gorm:"not null" json:"new_quantity"`
	Unit             string          `gorm:"size:20" json:"unit"`
	Notes            string          `gorm:"size:255" json:"notes"`
	ReferenceType    string          `gorm:"size:50;index" json:"reference_type"` // ör: "food_item"
	ReferenceID      uint            `gorm:"index" json:"reference_id"`
	CreatedAt        time.Time       `json:"created_at"`
}
