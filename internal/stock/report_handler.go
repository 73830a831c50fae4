package stock

import (
	"fmt"
	"time"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/stock/low
// Kritik seviyenin altına (veya eşit) düşen malzemeler - sipariş verme listesi
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ingredients []models.Ingredient
		if err := database.DB.
			Where("stock_quantity <= reorder_level").
			Order("stock_quantity asc").
			Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		type LowStockRow struct {
			IngredientID uint    `json:"ingredient_id"`
			Name         string  `json:"name"`
			Unit         string  `json:"unit"`
			Quantity     float64 `json:"quantity"`
			ReorderLevel float64 `json:"reorder_level"`
			Shortfall    float64 `json:"shortfall"` // kritik seviyeye göre eksik
		}

		rows := make([]LowStockRow, 0, len(ingredients))
		for _, ing := range ingredients {
			rows = append(rows, LowStockRow{
				IngredientID: ing.ID,
				Name:         ing.Name,
				Unit:         ing.Unit,
				Quantity:     ing.StockQuantity,
				ReorderLevel: ing.ReorderLevel,
				Shortfall:    ing.ReorderLevel - ing.StockQuantity,
			})
		}

		return c.JSON(rows)
	}
}

// GET /api/stock/usage/monthly?year=2026&month=8
// Aylık hareket özeti: malzeme başına giren/çıkan toplamlar
func MonthlyUsageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year ve month zorunlu")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
		}

		loc := time.Now().Location()
		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		nextMonth := firstDay.AddDate(0, 1, 0)

		// Ay içindeki hareketleri tipe göre topla
		type aggRow struct {
			IngredientID uint    `gorm:"column:ingredient_id"`
			Type         string  `gorm:"column:type"`
			Total        float64 `gorm:"column:total"`
		}
		var aggs []aggRow
		if err := database.DB.Raw(`
			SELECT ingredient_id, type, SUM(quantity) AS total
			FROM inventory_transactions
			WHERE created_at >= ? AND created_at < ?
			GROUP BY ingredient_id, type
		`, firstDay, nextMonth).Scan(&aggs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareket özeti hesaplanamadı")
		}

		var ingredients []models.Ingredient
		if err := database.DB.Order("name asc").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		type UsageRow struct {
			IngredientID uint    `json:"ingredient_id"`
			Name         string  `json:"name"`
			Unit         string  `json:"unit"`
			PurchasedQty float64 `json:"purchased_qty"` // satın alma girişleri
			AdjustedQty  float64 `json:"adjusted_qty"`  // sayım düzeltmeleri (işaretli)
			WastedQty    float64 `json:"wasted_qty"`    // zayiat (pozitif gösterilir)
			ConsumedQty  float64 `json:"consumed_qty"`  // sipariş tüketimi (pozitif gösterilir)
			CurrentQty   float64 `json:"current_qty"`
		}

		byIngredient := make(map[uint]*UsageRow, len(ingredients))
		rows := make([]*UsageRow, 0, len(ingredients))
		for _, ing := range ingredients {
			row := &UsageRow{
				IngredientID: ing.ID,
				Name:         ing.Name,
				Unit:         ing.Unit,
				CurrentQty:   ing.StockQuantity,
			}
			byIngredient[ing.ID] = row
			rows = append(rows, row)
		}

		for _, agg := range aggs {
			row, ok := byIngredient[agg.IngredientID]
			if !ok {
				continue
			}
			switch models.TransactionType(agg.Type) {
			case models.TransactionTypePurchase:
				row.PurchasedQty += agg.Total
			case models.TransactionTypeAdjustment:
				row.AdjustedQty += agg.Total
			case models.TransactionTypeWaste:
				row.WastedQty += -agg.Total
			case models.TransactionTypeConsumption:
				row.ConsumedQty += -agg.Total
			}
		}

		return c.JSON(fiber.Map{
			"year":  year,
			"month": month,
			"rows":  rows,
		})
	}
}
