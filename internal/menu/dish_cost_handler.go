package menu

import (
	"fmt"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type DishIngredientResponse struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"name"`
	Quantity     float64         `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

type DishCostResponse struct {
	ID                  uint                     `json:"id"`
	FoodItemID          uint                     `json:"food_item_id"`
	TotalIngredientCost decimal.Decimal          `json:"total_ingredient_cost"`
	TotalOverheadCost   decimal.Decimal          `json:"total_overhead_cost"`
	TotalCost           decimal.Decimal          `json:"total_cost"`
	ProfitMargin        decimal.Decimal          `json:"profit_margin"`
	SuggestedPrice      decimal.Decimal          `json:"suggested_price"`
	UseManualPrice      bool                     `json:"use_manual_price"`
	ManualPrice         *decimal.Decimal         `json:"manual_price"`
	EffectivePrice      decimal.Decimal          `json:"effective_price"`
	Ingredients         []DishIngredientResponse `json:"ingredients"`
}

type SetPricingRequest struct {
	OverheadCost   decimal.Decimal  `json:"overhead_cost"`
	ProfitMargin   decimal.Decimal  `json:"profit_margin"`
	UseManualPrice bool             `json:"use_manual_price"`
	ManualPrice    *decimal.Decimal `json:"manual_price"`
}

func dishCostResponse(d models.DishCost, ingredients []models.DishIngredient) DishCostResponse {
	resp := DishCostResponse{
		ID:                  d.ID,
		FoodItemID:          d.FoodItemID,
		TotalIngredientCost: d.TotalIngredientCost,
		TotalOverheadCost:   d.TotalOverheadCost,
		TotalCost:           d.TotalCost,
		ProfitMargin:        d.ProfitMargin,
		SuggestedPrice:      d.SuggestedPrice,
		UseManualPrice:      d.UseManualPrice,
		ManualPrice:         d.ManualPrice,
		EffectivePrice:      d.EffectivePrice(),
		Ingredients:         make([]DishIngredientResponse, 0, len(ingredients)),
	}
	for _, row := range ingredients {
		resp.Ingredients = append(resp.Ingredients, DishIngredientResponse{
			IngredientID: row.IngredientID,
			Name:         row.Name,
			Quantity:     row.Quantity,
			Unit:         row.Unit,
			UnitCost:     row.UnitCost,
			TotalCost:    row.TotalCost,
		})
	}
	return resp
}

// GET /api/dish-costs/:foodItemID
func GetDishCostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		foodItemID, err := parseFoodItemID(c)
		if err != nil {
			return err
		}

		var dish models.DishCost
		if err := database.DB.First(&dish, "food_item_id = ?", foodItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Maliyet kaydı bulunamadı")
		}

		var ingredients []models.DishIngredient
		database.DB.Where("dish_cost_id = ?", dish.ID).Order("id asc").Find(&ingredients)

		return c.JSON(dishCostResponse(dish, ingredients))
	}
}

// PUT /api/dish-costs/:foodItemID/pricing
// Genel gider, kâr marjı ve manuel fiyat ayarları; maliyet ve
// geçerli fiyat yeniden hesaplanıp FoodItem'a yansıtılır
func SetPricingHandler(svc *costing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		foodItemID, err := parseFoodItemID(c)
		if err != nil {
			return err
		}

		var body SetPricingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		dish, err := svc.SetPricing(c.Context(), foodItemID, costing.PricingInput{
			OverheadCost:   body.OverheadCost,
			ProfitMargin:   body.ProfitMargin,
			UseManualPrice: body.UseManualPrice,
			ManualPrice:    body.ManualPrice,
		})
		if err != nil {
			return fiberErrForCosting(err)
		}

		// Audit log
		userID, userName, uerr := getUserInfoForMenu(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "dish_cost",
				EntityID:    dish.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Fiyatlama güncellendi: yemek %d, geçerli fiyat %s", foodItemID, dish.EffectivePrice().String()),
				Before:      nil,
				After:       dish,
			})
		}

		var ingredients []models.DishIngredient
		database.DB.Where("dish_cost_id = ?", dish.ID).Order("id asc").Find(&ingredients)

		return c.JSON(dishCostResponse(*dish, ingredients))
	}
}
