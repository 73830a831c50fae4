package stock

import (
	"fmt"
	"time"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/stock/transactions?ingredient_id=1&type=consumption&date_from=2026-08-01&date_to=2026-08-31
// Stok hareket defteri: sadece okunur, filtrelenebilir
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.InventoryTransaction{})

		if ingStr := c.Query("ingredient_id"); ingStr != "" {
			var ingID uint
			if _, err := fmt.Sscan(ingStr, &ingID); err != nil || ingID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "ingredient_id geçersiz")
			}
			query = query.Where("ingredient_id = ?", ingID)
		}

		if txType := c.Query("type"); txType != "" {
			query = query.Where("type = ?", txType)
		}

		// Tarih filtresi (opsiyonel)
		if dateFrom := c.Query("date_from"); dateFrom != "" {
			if d, err := time.Parse("2006-01-02", dateFrom); err == nil {
				query = query.Where("created_at >= ?", d)
			}
		}
		if dateTo := c.Query("date_to"); dateTo != "" {
			if d, err := time.Parse("2006-01-02", dateTo); err == nil {
				// Tarih sonuna kadar (23:59:59)
				d = d.Add(24*time.Hour - time.Second)
				query = query.Where("created_at <= ?", d)
			}
		}

		var transactions []models.InventoryTransaction
		if err := query.Order("created_at DESC, id DESC").Limit(1000).Find(&transactions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		resp := make([]TransactionResponse, 0, len(transactions))
		for _, t := range transactions {
			resp = append(resp, transactionResponse(t))
		}
		return c.JSON(resp)
	}
}
