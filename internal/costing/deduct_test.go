package costing

import (
	"context"
	"testing"

	"mutfak-backend/internal/models"

	"github.com/stretchr/testify/require"
)

// seedRecipe - reçeteyi servis üzerinden kurar ki satırlar gerçek akıştan geçsin
func seedRecipe(t *testing.T, svc *Service, store *MemoryStore) (models.FoodItem, models.Ingredient, models.Ingredient) {
	t.Helper()
	flour := store.PutIngredient(models.Ingredient{Name: "Un", Unit: "kg", UnitCost: dec("2"), StockQuantity: 10})
	cheese := store.PutIngredient(models.Ingredient{Name: "Peynir", Unit: "kg", UnitCost: dec("8"), StockQuantity: 1})
	pide := store.PutFoodItem(models.FoodItem{Name: "Pide", IsActive: true})

	// 4 porsiyonluk reçete: 2 kg un, 0.8 kg peynir
	_, err := svc.SaveRecipe(context.Background(), pide.ID, 4, []RecipeLineInput{
		{IngredientID: flour.ID, Quantity: 2},
		{IngredientID: cheese.ID, Quantity: 0.8},
	})
	require.NoError(t, err)
	return pide, flour, cheese
}

func TestDeductScalesByOrderedQuantity(t *testing.T) {
	svc, store, notifier := newTestService(t, DeductBestEffort)
	pide, flour, cheese := seedRecipe(t, svc, store)
	ctx := context.Background()

	// 3 porsiyon satıldı: un 2*3/4 = 1.5, peynir 0.8*3/4 = 0.6
	result, err := svc.Deduct(ctx, pide.ID, 3)
	require.NoError(t, err)

	require.False(t, result.NothingToDeduct)
	require.Equal(t, 0, result.FailedCount)
	require.Len(t, result.Lines, 2)
	require.Equal(t, 1.5, result.Lines[0].Needed)
	require.InDelta(t, 0.6, result.Lines[1].Needed, 1e-9)
	require.True(t, result.Lines[0].Deducted)
	require.True(t, result.Lines[1].Deducted)

	gotFlour, err := store.Ingredient(ctx, flour.ID)
	require.NoError(t, err)
	require.Equal(t, 8.5, gotFlour.StockQuantity)

	gotCheese, err := store.Ingredient(ctx, cheese.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.4, gotCheese.StockQuantity, 1e-9)

	// Tüm hareketler aynı correlation grubunda, consumption tipinde
	rows := store.Transactions()
	require.Len(t, rows, 2)
	require.Equal(t, rows[0].CorrelationID, rows[1].CorrelationID)
	for _, row := range rows {
		require.Equal(t, models.TransactionTypeConsumption, row.Type)
		require.Equal(t, "food_item", row.ReferenceType)
		require.Equal(t, pide.ID, row.ReferenceID)
	}

	require.NotEmpty(t, notifier.Successes)
}

func TestDeductWithoutRecipeIsNoOp(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	corba := store.PutFoodItem(models.FoodItem{Name: "Mercimek Çorbası", IsActive: true})
	ctx := context.Background()

	result, err := svc.Deduct(ctx, corba.ID, 2)
	require.NoError(t, err)

	require.True(t, result.NothingToDeduct)
	require.Empty(t, result.Lines)
	require.Empty(t, store.Transactions())
}

func TestDeductValidation(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	pide, _, _ := seedRecipe(t, svc, store)
	ctx := context.Background()

	var vErr *ValidationError

	_, err := svc.Deduct(ctx, pide.ID, 0)
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quantity", vErr.Field)

	_, err = svc.Deduct(ctx, 0, 1)
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "food_item_id", vErr.Field)
}

func TestDeductBestEffortContinuesPastInsufficientStock(t *testing.T) {
	svc, store, notifier := newTestService(t, DeductBestEffort)
	pide, flour, cheese := seedRecipe(t, svc, store)
	ctx := context.Background()

	// 10 porsiyon: un 5 kg (stok 10, yeter), peynir 2 kg (stok 1, yetmez)
	result, err := svc.Deduct(ctx, pide.ID, 10)
	require.NoError(t, err) // best_effort hata dönmez

	require.Equal(t, 1, result.FailedCount)
	require.True(t, result.Lines[0].Deducted)
	require.False(t, result.Lines[1].Deducted)
	require.NotEmpty(t, result.Lines[1].Reason)

	// Yeterli olan düşüldü, yetersiz olan olduğu gibi kaldı
	gotFlour, err := store.Ingredient(ctx, flour.ID)
	require.NoError(t, err)
	require.Equal(t, 5.0, gotFlour.StockQuantity)

	gotCheese, err := store.Ingredient(ctx, cheese.ID)
	require.NoError(t, err)
	require.Equal(t, 1.0, gotCheese.StockQuantity)

	rows := store.Transactions()
	require.Len(t, rows, 1)
	require.Equal(t, flour.ID, rows[0].IngredientID)

	require.NotEmpty(t, notifier.Errors)
}

func TestDeductAllOrNothingRollsBackOnInsufficientStock(t *testing.T) {
	svc, store, notifier := newTestService(t, DeductAllOrNothing)
	pide, flour, cheese := seedRecipe(t, svc, store)
	ctx := context.Background()

	_, err := svc.Deduct(ctx, pide.ID, 10)
	require.Error(t, err)

	var nsErr *NegativeStockError
	require.ErrorAs(t, err, &nsErr)
	require.Equal(t, cheese.ID, nsErr.IngredientID)

	// Başarılı satır da geri alındı
	gotFlour, err := store.Ingredient(ctx, flour.ID)
	require.NoError(t, err)
	require.Equal(t, 10.0, gotFlour.StockQuantity)

	gotCheese, err := store.Ingredient(ctx, cheese.ID)
	require.NoError(t, err)
	require.Equal(t, 1.0, gotCheese.StockQuantity)

	require.Empty(t, store.Transactions())
	require.NotEmpty(t, notifier.Errors)
}

func TestDeductAllOrNothingSucceedsWhenStockSuffices(t *testing.T) {
	svc, store, _ := newTestService(t, DeductAllOrNothing)
	pide, flour, cheese := seedRecipe(t, svc, store)
	ctx := context.Background()

	result, err := svc.Deduct(ctx, pide.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 0, result.FailedCount)

	gotFlour, err := store.Ingredient(ctx, flour.ID)
	require.NoError(t, err)
	require.Equal(t, 9.0, gotFlour.StockQuantity)

	gotCheese, err := store.Ingredient(ctx, cheese.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.6, gotCheese.StockQuantity, 1e-9)

	require.Len(t, store.Transactions(), 2)
}
