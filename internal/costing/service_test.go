package costing

import (
	"context"
	"errors"
	"testing"
	"time"

	"mutfak-backend/internal/models"
	"mutfak-backend/internal/notify"

	"github.com/stretchr/testify/require"
)

// newTestService - bellek-içi store ve bildirim ile servis kurar
func newTestService(t *testing.T, policy DeductionPolicy) (*Service, *MemoryStore, *notify.MemoryNotifier) {
	t.Helper()
	store := NewMemoryStore()
	notifier := notify.NewMemoryNotifier()
	svc := NewService(store, notifier, 5*time.Second, policy)
	return svc, store, notifier
}

func seedFlourAndSalt(store *MemoryStore) (models.Ingredient, models.Ingredient, models.FoodItem) {
	flour := store.PutIngredient(models.Ingredient{Name: "Un", Unit: "kg", UnitCost: dec("2"), StockQuantity: 10})
	salt := store.PutIngredient(models.Ingredient{Name: "Tuz", Unit: "kg", UnitCost: dec("1"), StockQuantity: 5})
	pide := store.PutFoodItem(models.FoodItem{Name: "Pide", Category: "Ana Yemek", IsActive: true})
	return flour, salt, pide
}

func TestSaveRecipeCreatesRecipeAndDishCost(t *testing.T) {
	svc, store, notifier := newTestService(t, DeductBestEffort)
	flour, salt, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	result, err := svc.SaveRecipe(ctx, pide.ID, 4, []RecipeLineInput{
		{IngredientID: flour.ID, Quantity: 0.5},
		{IngredientID: salt.ID, Quantity: 0.01},
	})
	require.NoError(t, err)

	require.True(t, result.Recipe.TotalCost.Equal(dec("1.01")))
	require.True(t, result.Recipe.CostPerServing.Equal(dec("0.2525")))
	require.Equal(t, 4, result.Recipe.Serves)

	// DishCost varsayılan %70 marjla açılır; önerilen fiyat = 1.01 / 0.3
	require.True(t, result.DishCost.ProfitMargin.Equal(dec("70")))
	require.True(t, result.DishCost.TotalIngredientCost.Equal(dec("1.01")))
	require.True(t, result.DishCost.TotalCost.Equal(dec("1.01")))
	require.True(t, result.DishCost.SuggestedPrice.Equal(dec("3.3667")), "önerilen fiyat %s", result.DishCost.SuggestedPrice)

	// Menü kaydına yansır
	item, err := store.FoodItem(ctx, pide.ID)
	require.NoError(t, err)
	require.True(t, item.Cost.Equal(dec("1.01")))
	require.True(t, item.Price.Equal(dec("3.3667")))

	// Satırlar saklandı
	recipe, err := store.RecipeByFoodItem(ctx, pide.ID)
	require.NoError(t, err)
	lines, err := store.RecipeLines(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	require.NotEmpty(t, notifier.Successes)
	require.Empty(t, notifier.Errors)
}

func TestSaveRecipeIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	flour, _, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	input := []RecipeLineInput{{IngredientID: flour.ID, Quantity: 1.5}}

	first, err := svc.SaveRecipe(ctx, pide.ID, 3, input)
	require.NoError(t, err)
	second, err := svc.SaveRecipe(ctx, pide.ID, 3, input)
	require.NoError(t, err)

	// Aynı girdiyle tekrar kayıt aynı son duruma ulaşır, kayıt çoğalmaz
	require.Equal(t, first.Recipe.ID, second.Recipe.ID)
	require.Equal(t, first.DishCost.ID, second.DishCost.ID)
	require.True(t, first.Recipe.TotalCost.Equal(second.Recipe.TotalCost))

	lines, err := store.RecipeLines(ctx, second.Recipe.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestSaveRecipePreservesPricingSettings(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	flour, _, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	// Önce fiyatlama: genel gider 1, marj 70
	_, err := svc.SetPricing(ctx, pide.ID, PricingInput{
		OverheadCost: dec("1"),
		ProfitMargin: dec("70"),
	})
	require.NoError(t, err)

	// Malzeme maliyeti 5 olan reçete -> toplam 6 -> önerilen 20
	result, err := svc.SaveRecipe(ctx, pide.ID, 1, []RecipeLineInput{
		{IngredientID: flour.ID, Quantity: 2.5},
	})
	require.NoError(t, err)

	require.True(t, result.DishCost.TotalIngredientCost.Equal(dec("5")))
	require.True(t, result.DishCost.TotalOverheadCost.Equal(dec("1")))
	require.True(t, result.DishCost.TotalCost.Equal(dec("6")))
	require.True(t, result.DishCost.SuggestedPrice.Equal(dec("20")), "önerilen fiyat %s", result.DishCost.SuggestedPrice)

	item, err := store.FoodItem(ctx, pide.ID)
	require.NoError(t, err)
	require.True(t, item.Price.Equal(dec("20")))
}

func TestSaveRecipeValidation(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	flour, _, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	var vErr *ValidationError

	_, err := svc.SaveRecipe(ctx, pide.ID, 0, []RecipeLineInput{{IngredientID: flour.ID, Quantity: 1}})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "serves", vErr.Field)

	_, err = svc.SaveRecipe(ctx, pide.ID, 2, []RecipeLineInput{{IngredientID: flour.ID, Quantity: -1}})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quantity", vErr.Field)

	_, err = svc.SaveRecipe(ctx, 9999, 2, []RecipeLineInput{{IngredientID: flour.ID, Quantity: 1}})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRecipeReportsMissingIngredients(t *testing.T) {
	svc, store, notifier := newTestService(t, DeductBestEffort)
	flour, _, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	result, err := svc.SaveRecipe(ctx, pide.ID, 2, []RecipeLineInput{
		{IngredientID: flour.ID, Quantity: 1},
		{IngredientID: 777, Quantity: 2}, // katalogda yok
	})
	require.NoError(t, err)

	require.Equal(t, []uint{777}, result.MissingIngredientIDs)
	// Bilinmeyen malzeme maliyete katılmaz
	require.True(t, result.Recipe.TotalCost.Equal(dec("2")))
	// Kullanıcı uyarılır ama kayıt başarılıdır
	require.NotEmpty(t, notifier.Errors)
	require.NotEmpty(t, notifier.Successes)
}

func TestSaveRecipeRollsBackOnPersistFailure(t *testing.T) {
	svc, store, notifier := newTestService(t, DeductBestEffort)
	flour, _, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	store.FailOn("SaveDishCost", errors.New("disk dolu"))

	_, err := svc.SaveRecipe(ctx, pide.ID, 2, []RecipeLineInput{{IngredientID: flour.ID, Quantity: 1}})
	require.Error(t, err)

	var pErr *PersistenceError
	require.ErrorAs(t, err, &pErr)

	// Transaction geri alındı: ne reçete ne fiyat değişikliği kaldı
	_, err = store.RecipeByFoodItem(ctx, pide.ID)
	require.ErrorIs(t, err, ErrNotFound)

	item, err := store.FoodItem(ctx, pide.ID)
	require.NoError(t, err)
	require.True(t, item.Price.Equal(dec("0")))

	require.NotEmpty(t, notifier.Errors)
	require.Empty(t, notifier.Successes)
}

func TestSetPricingManualPriceOverride(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	flour, _, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	_, err := svc.SaveRecipe(ctx, pide.ID, 1, []RecipeLineInput{{IngredientID: flour.ID, Quantity: 2.5}})
	require.NoError(t, err)

	manual := dec("15")
	dish, err := svc.SetPricing(ctx, pide.ID, PricingInput{
		ProfitMargin:   dec("70"),
		UseManualPrice: true,
		ManualPrice:    &manual,
	})
	require.NoError(t, err)

	// Önerilen fiyat hesaplanmaya devam eder, geçerli fiyat manueldir
	require.True(t, dish.SuggestedPrice.Equal(dec("16.6667")), "önerilen fiyat %s", dish.SuggestedPrice)
	require.True(t, dish.EffectivePrice().Equal(dec("15")))

	item, err := store.FoodItem(ctx, pide.ID)
	require.NoError(t, err)
	require.True(t, item.Price.Equal(dec("15")))
}

func TestSetPricingValidation(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	_, _, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	var vErr *ValidationError

	_, err := svc.SetPricing(ctx, pide.ID, PricingInput{ProfitMargin: dec("100")})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "profit_margin", vErr.Field)

	_, err = svc.SetPricing(ctx, pide.ID, PricingInput{OverheadCost: dec("-1")})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "overhead_cost", vErr.Field)

	_, err = svc.SetPricing(ctx, pide.ID, PricingInput{UseManualPrice: true})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "manual_price", vErr.Field)
}

func TestSetPricingWithoutRecipeCreatesDishCost(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	_, _, pide := seedFlourAndSalt(store)
	ctx := context.Background()

	// Reçete girilmeden fiyatlama yapılabilir
	dish, err := svc.SetPricing(ctx, pide.ID, PricingInput{
		OverheadCost: dec("2"),
		ProfitMargin: dec("50"),
	})
	require.NoError(t, err)

	require.True(t, dish.TotalIngredientCost.Equal(dec("0")))
	require.True(t, dish.TotalCost.Equal(dec("2")))
	require.True(t, dish.SuggestedPrice.Equal(dec("4")))
}
