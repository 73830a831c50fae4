package stock

import (
	"fmt"
	"strings"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type IngredientResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	StockQuantity float64         `json:"stock_quantity"`
	ReorderLevel  float64         `json:"reorder_level"`
}

type CreateIngredientRequest struct {
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	StockQuantity float64         `json:"stock_quantity"`
	ReorderLevel  float64         `json:"reorder_level"`
}

type UpdateIngredientRequest struct {
	Name         *string          `json:"name"`
	Unit         *string          `json:"unit"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	ReorderLevel *float64         `json:"reorder_level"`
}

// Yardımcı: Kullanıcı bilgilerini al
func getUserInfoForStock(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

func ingredientResponse(ing models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:            ing.ID,
		Name:          ing.Name,
		Unit:          ing.Unit,
		UnitCost:      ing.UnitCost,
		StockQuantity: ing.StockQuantity,
		ReorderLevel:  ing.ReorderLevel,
	}
}

// GET /api/ingredients
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ingredients []models.Ingredient
		if err := database.DB.Order("name asc").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		resp := make([]IngredientResponse, 0, len(ingredients))
		for _, ing := range ingredients {
			resp = append(resp, ingredientResponse(ing))
		}
		return c.JSON(resp)
	}
}

// GET /api/ingredients/:id
func GetIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}
		return c.JSON(ingredientResponse(ing))
	}
}

// POST /api/admin/ingredients (sadece admin)
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)

		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve unit zorunlu")
		}
		if body.UnitCost.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "unit_cost negatif olamaz")
		}
		if body.StockQuantity < 0 || body.ReorderLevel < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock_quantity ve reorder_level negatif olamaz")
		}

		ing := models.Ingredient{
			Name:          body.Name,
			Unit:          body.Unit,
			UnitCost:      body.UnitCost,
			StockQuantity: body.StockQuantity,
			ReorderLevel:  body.ReorderLevel,
		}

		if err := database.DB.Create(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme oluşturulamadı")
		}

		// Audit log
		userID, userName, err := getUserInfoForStock(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Malzeme eklendi: %s (%s)", ing.Name, ing.Unit),
				Before:      nil,
				After:       ing,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(ingredientResponse(ing))
	}
}

// PUT /api/admin/ingredients/:id
// Stok miktarı buradan DEĞİL, stok hareketleri üzerinden değişir
func UpdateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}
		before := ing

		var body UpdateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			ing.Name = name
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "unit boş olamaz")
			}
			ing.Unit = unit
		}
		if body.UnitCost != nil {
			if body.UnitCost.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "unit_cost negatif olamaz")
			}
			ing.UnitCost = *body.UnitCost
		}
		if body.ReorderLevel != nil {
			if *body.ReorderLevel < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "reorder_level negatif olamaz")
			}
			ing.ReorderLevel = *body.ReorderLevel
		}

		if err := database.DB.Save(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme güncellenemedi")
		}

		// Audit log
		userID, userName, err := getUserInfoForStock(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Malzeme güncellendi: %s", ing.Name),
				Before:      before,
				After:       ing,
			})
		}

		return c.JSON(ingredientResponse(ing))
	}
}

// DELETE /api/admin/ingredients/:id
// Reçete satırı referans ediyorsa silinemez
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		var refCount int64
		database.DB.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", ing.ID).Count(&refCount)
		if refCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Bu malzeme %d reçete satırında kullanılıyor, önce reçetelerden çıkarın", refCount))
		}

		// Audit log
		userID, userName, err := getUserInfoForStock(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Malzeme silindi: %s", ing.Name),
				Before:      ing,
				After:       nil,
			})
		}

		if err := database.DB.Delete(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme silinemedi")
		}

		return c.JSON(fiber.Map{
			"message": "Malzeme başarıyla silindi",
		})
	}
}
