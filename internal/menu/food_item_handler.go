package menu

import (
	"errors"
	"fmt"
	"strings"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type FoodItemResponse struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Cost     decimal.Decimal `json:"cost"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}

type CreateFoodItemRequest struct {
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Price    *decimal.Decimal `json:"price"` // opsiyonel; DishCost oluşunca oradan yönetilir
}

type UpdateFoodItemRequest struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	IsActive *bool            `json:"is_active"`
}

// Yardımcı: Kullanıcı bilgilerini al
func getUserInfoForMenu(c *fiber.Ctx) (uint, string, error) {
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

// Motor hatalarını HTTP durum kodlarına çevir
func fiberErrForCosting(err error) error {
	var vErr *costing.ValidationError
	var nsErr *costing.NegativeStockError

	switch {
	case errors.Is(err, costing.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	case errors.As(err, &nsErr):
		return fiber.NewError(fiber.StatusConflict, nsErr.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func foodItemResponse(f models.FoodItem) FoodItemResponse {
	return FoodItemResponse{
		ID:       f.ID,
		Name:     f.Name,
		Category: f.Category,
		Cost:     f.Cost,
		Price:    f.Price,
		IsActive: f.IsActive,
	}
}

// GET /api/food-items
func ListFoodItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.FoodItem{})

		// Varsayılan: sadece aktif yemekler
		if c.Query("include_inactive") != "true" {
			dbq = dbq.Where("is_active = ?", true)
		}
		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category = ?", category)
		}

		var items []models.FoodItem
		if err := dbq.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemekler listelenemedi")
		}

		resp := make([]FoodItemResponse, 0, len(items))
		for _, f := range items {
			resp = append(resp, foodItemResponse(f))
		}
		return c.JSON(resp)
	}
}

// GET /api/food-items/:id
func GetFoodItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.FoodItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}
		return c.JSON(foodItemResponse(item))
	}
}

// POST /api/admin/food-items (sadece admin)
func CreateFoodItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFoodItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		item := models.FoodItem{
			Name:     body.Name,
			Category: strings.TrimSpace(body.Category),
			IsActive: true,
		}
		if body.Price != nil {
			if body.Price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "price negatif olamaz")
			}
			item.Price = *body.Price
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek oluşturulamadı")
		}

		// Audit log
		userID, userName, err := getUserInfoForMenu(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "food_item",
				EntityID:    item.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Yemek eklendi: %s", item.Name),
				Before:      nil,
				After:       item,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(foodItemResponse(item))
	}
}

// PUT /api/admin/food-items/:id
// Fiyat sadece DishCost kaydı YOKKEN buradan düzenlenebilir;
// kayıt varsa fiyat dish-costs/pricing üzerinden yönetilir
func UpdateFoodItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.FoodItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yemek bulunamadı")
		}
		before := item

		var body UpdateFoodItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			item.Name = name
		}
		if body.Category != nil {
			item.Category = strings.TrimSpace(*body.Category)
		}
		if body.IsActive != nil {
			item.IsActive = *body.IsActive
		}
		if body.Price != nil {
			if body.Price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "price negatif olamaz")
			}
			var dishCostCount int64
			database.DB.Model(&models.DishCost{}).Where("food_item_id = ?", item.ID).Count(&dishCostCount)
			if dishCostCount > 0 {
				return fiber.NewError(fiber.StatusBadRequest,
					"Bu yemeğin maliyet kaydı var, fiyat dish-costs/pricing üzerinden yönetilir")
			}
			item.Price = *body.Price
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yemek güncellenemedi")
		}

		// Audit log
		userID, userName, err := getUserInfoForMenu(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "food_item",
				EntityID:    item.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Yemek güncellendi: %s", item.Name),
				Before:      before,
				After:       item,
			})
		}

		return c.JSON(foodItemResponse(item))
	}
}
