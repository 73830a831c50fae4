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

type RecipeLineRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

type SaveRecipeRequest struct {
	Serves      int                 `json:"serves"`
	Ingredients []RecipeLineRequest `json:"ingredients"`
}

type RecipeLineResponse struct {
	ID           uint            `json:"id"`
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"name"`
	Quantity     float64         `json:"quantity"`
	Unit         string          `json:"unit"`
	LineCost     decimal.Decimal `json:"line_cost"`
}

type RecipeResponse struct {
	ID                   uint                 `json:"id"`
	FoodItemID           uint                 `json:"food_item_id"`
	Serves               int                  `json:"serves"`
	TotalCost            decimal.Decimal      `json:"total_cost"`
	CostPerServing       decimal.Decimal      `json:"cost_per_serving"`
	Ingredients          []RecipeLineResponse `json:"ingredients"`
	MissingIngredientIDs []uint               `json:"missing_ingredient_ids,omitempty"`
}

func parseFoodItemID(c *fiber.Ctx) (uint, error) {
	idStr := c.Params("foodItemID")
	var id uint
	if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "foodItemID geçersiz")
	}
	return id, nil
}

// PUT /api/recipes/:foodItemID
// Reçeteyi komple değiştirir; maliyetler yeniden hesaplanır,
// DishCost ve FoodItem kayıtları güncellenir
func SaveRecipeHandler(svc *costing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		foodItemID, err := parseFoodItemID(c)
		if err != nil {
			return err
		}

		var body SaveRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		lines := make([]costing.RecipeLineInput, 0, len(body.Ingredients))
		for _, line := range body.Ingredients {
			lines = append(lines, costing.RecipeLineInput{
				IngredientID: line.IngredientID,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
			})
		}

		result, err := svc.SaveRecipe(c.Context(), foodItemID, body.Serves, lines)
		if err != nil {
			return fiberErrForCosting(err)
		}

		// Audit log
		userID, userName, uerr := getUserInfoForMenu(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "recipe",
				EntityID:    result.Recipe.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Reçete kaydedildi: yemek %d, %d malzeme, maliyet %s", foodItemID, len(lines), result.Recipe.TotalCost.String()),
				Before:      nil,
				After:       result.Recipe,
			})
		}

		return c.JSON(recipeResponseFor(result.Recipe, result.MissingIngredientIDs))
	}
}

// GET /api/recipes/:foodItemID
func GetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		foodItemID, err := parseFoodItemID(c)
		if err != nil {
			return err
		}

		var recipe models.Recipe
		if err := database.DB.Preload("Ingredients").First(&recipe, "food_item_id = ?", foodItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}

		return c.JSON(recipeResponseFor(recipe, nil))
	}
}

func recipeResponseFor(recipe models.Recipe, missingIDs []uint) RecipeResponse {
	// Satır adları için malzemeleri toplu oku
	lines := recipe.Ingredients
	if lines == nil {
		database.DB.Where("recipe_id = ?", recipe.ID).Order("id asc").Find(&lines)
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.IngredientID)
	}
	nameByID := make(map[uint]string, len(ids))
	if len(ids) > 0 {
		var ingredients []models.Ingredient
		if err := database.DB.Where("id IN ?", ids).Find(&ingredients).Error; err == nil {
			for _, ing := range ingredients {
				nameByID[ing.ID] = ing.Name
			}
		}
	}

	resp := RecipeResponse{
		ID:                   recipe.ID,
		FoodItemID:           recipe.FoodItemID,
		Serves:               recipe.Serves,
		TotalCost:            recipe.TotalCost,
		CostPerServing:       recipe.CostPerServing,
		Ingredients:          make([]RecipeLineResponse, 0, len(lines)),
		MissingIngredientIDs: missingIDs,
	}
	for _, line := range lines {
		resp.Ingredients = append(resp.Ingredients, RecipeLineResponse{
			ID:           line.ID,
			IngredientID: line.IngredientID,
			Name:         nameByID[line.IngredientID],
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			LineCost:     line.LineCost,
		})
	}
	return resp
}
