package costing

import (
	"context"

	"mutfak-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Store: Maliyet/stok motorunun depolama kapısı.
// Servis sadece bu arayüze bağımlıdır; Postgres (GormStore) ve
// test için bellek-içi (MemoryStore) implementasyonları vardır.
type Store interface {
	// Malzeme kataloğu
	Ingredient(ctx context.Context, id uint) (*models.Ingredient, error)
	// IngredientsByIDs - tek seferde toplu okuma (reçete maliyetlendirmesi için)
	IngredientsByIDs(ctx context.Context, ids []uint) (map[uint]models.Ingredient, error)
	// AdjustStock - stok miktarını TEK atomik adımda delta kadar değiştirir.
	// Sonuç sıfırın altına inecekse hiçbir şey değiştirmeden NegativeStockError döner.
	// Dönüş: değişim öncesi ve sonrası miktar.
	AdjustStock(ctx context.Context, id uint, delta float64) (previous, current float64, err error)

	// Reçete
	RecipeByFoodItem(ctx context.Context, foodItemID uint) (*models.Recipe, error)
	RecipeLines(ctx context.Context, recipeID uint) ([]models.RecipeIngredient, error)
	SaveRecipe(ctx context.Context, r *models.Recipe) error
	// ReplaceRecipeLines - mevcut satırların tamamını siler, yenilerini ekler
	ReplaceRecipeLines(ctx context.Context, recipeID uint, lines []models.RecipeIngredient) error

	// Yemek maliyeti
	DishCostByFoodItem(ctx context.Context, foodItemID uint) (*models.DishCost, error)
	SaveDishCost(ctx context.Context, d *models.DishCost) error
	ReplaceDishIngredients(ctx context.Context, dishCostID uint, rows []models.DishIngredient) error

	// Menü kaydı
	FoodItem(ctx context.Context, id uint) (*models.FoodItem, error)
	UpdateFoodItemPricing(ctx context.Context, id uint, cost, price decimal.Decimal) error

	// Stok hareket defteri (sadece ekleme)
	AppendTransaction(ctx context.Context, t *models.InventoryTransaction) error

	// Transaction - fn içindeki tüm yazmaları tek sınırda çalıştırır;
	// fn hata dönerse hiçbiri kalıcı olmaz
	Transaction(ctx context.Context, fn func(Store) error) error
}
