package costing

import (
	"context"
	"errors"

	"mutfak-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore: Store'un Postgres implementasyonu
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Ingredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &ing, nil
}

func (s *GormStore) IngredientsByIDs(ctx context.Context, ids []uint) (map[uint]models.Ingredient, error) {
	result := make(map[uint]models.Ingredient, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	for _, ing := range ingredients {
		result[ing.ID] = ing
	}
	return result, nil
}

// AdjustStock - okuma+yazma yarışına girmeden stok değiştirir.
// WHERE koşulu negatif sonucu veritabanı tarafında reddeder; iki eşzamanlı
// düşüm aynı satırda sıralanır, kayıp güncelleme olmaz.
func (s *GormStore) AdjustStock(ctx context.Context, id uint, delta float64) (float64, float64, error) {
	var current float64
	res := s.db.WithContext(ctx).Raw(`
		UPDATE ingredients
		SET stock_quantity = stock_quantity + ?, updated_at = NOW()
		WHERE id = ? AND stock_quantity + ? >= 0
		RETURNING stock_quantity
	`, delta, id, delta).Scan(&current)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Satır ya yok ya da düşüm stoku eksiye indirecekti; ayırt et
		var ing models.Ingredient
		if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
			return 0, 0, mapGormErr(err)
		}
		return 0, 0, &NegativeStockError{IngredientID: id, Current: ing.StockQuantity, Requested: delta}
	}
	return current - delta, current, nil
}

func (s *GormStore) RecipeByFoodItem(ctx context.Context, foodItemID uint) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.db.WithContext(ctx).First(&r, "food_item_id = ?", foodItemID).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &r, nil
}

func (s *GormStore) RecipeLines(ctx context.Context, recipeID uint) ([]models.RecipeIngredient, error) {
	var lines []models.RecipeIngredient
	if err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("id asc").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *GormStore) SaveRecipe(ctx context.Context, r *models.Recipe) error {
	return s.db.WithContext(ctx).Save(r).Error
}

func (s *GormStore) ReplaceRecipeLines(ctx context.Context, recipeID uint, lines []models.RecipeIngredient) error {
	if err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].RecipeID = recipeID
	}
	return s.db.WithContext(ctx).Create(&lines).Error
}

func (s *GormStore) DishCostByFoodItem(ctx context.Context, foodItemID uint) (*models.DishCost, error) {
	var d models.DishCost
	if err := s.db.WithContext(ctx).First(&d, "food_item_id = ?", foodItemID).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &d, nil
}

func (s *GormStore) SaveDishCost(ctx context.Context, d *models.DishCost) error {
	return s.db.WithContext(ctx).Save(d).Error
}

func (s *GormStore) ReplaceDishIngredients(ctx context.Context, dishCostID uint, rows []models.DishIngredient) error {
	if err := s.db.WithContext(ctx).Where("dish_cost_id = ?", dishCostID).Delete(&models.DishIngredient{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].DishCostID = dishCostID
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

func (s *GormStore) FoodItem(ctx context.Context, id uint) (*models.FoodItem, error) {
	var f models.FoodItem
	if err := s.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &f, nil
}

func (s *GormStore) UpdateFoodItemPricing(ctx context.Context, id uint, cost, price decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&models.FoodItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cost":  cost,
		"price": price,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AppendTransaction(ctx context.Context, t *models.InventoryTransaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func mapGormErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
