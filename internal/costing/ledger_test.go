package costing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mutfak-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestAdjustPurchaseIncreasesStock(t *testing.T) {
	svc, store, notifier := newTestService(t, DeductBestEffort)
	flour := store.PutIngredient(models.Ingredient{Name: "Un", Unit: "kg", UnitCost: dec("2"), StockQuantity: 10})
	ctx := context.Background()

	tx, err := svc.Adjust(ctx, AdjustInput{
		IngredientID: flour.ID,
		Delta:        5,
		Type:         models.TransactionTypePurchase,
		Notes:        "haftalık alım",
	})
	require.NoError(t, err)

	require.Equal(t, 10.0, tx.PreviousQuantity)
	require.Equal(t, 15.0, tx.NewQuantity)
	require.Equal(t, "kg", tx.Unit)
	require.NotEmpty(t, tx.CorrelationID)

	got, err := store.Ingredient(ctx, flour.ID)
	require.NoError(t, err)
	require.Equal(t, 15.0, got.StockQuantity)

	// Defterde tek hareket var
	rows := store.Transactions()
	require.Len(t, rows, 1)
	require.Equal(t, models.TransactionTypePurchase, rows[0].Type)
	require.Equal(t, 5.0, rows[0].Quantity)

	require.NotEmpty(t, notifier.Successes)
}

func TestAdjustRejectsNegativeResult(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	flour := store.PutIngredient(models.Ingredient{Name: "Un", Unit: "kg", UnitCost: dec("2"), StockQuantity: 10})
	ctx := context.Background()

	_, err := svc.Adjust(ctx, AdjustInput{
		IngredientID: flour.ID,
		Delta:        -14,
		Type:         models.TransactionTypeWaste,
	})

	var nsErr *NegativeStockError
	require.ErrorAs(t, err, &nsErr)
	require.Equal(t, flour.ID, nsErr.IngredientID)
	require.Equal(t, 10.0, nsErr.Current)
	require.Equal(t, -14.0, nsErr.Requested)

	// Miktar değişmedi, deftere hiçbir şey yazılmadı
	got, err := store.Ingredient(ctx, flour.ID)
	require.NoError(t, err)
	require.Equal(t, 10.0, got.StockQuantity)
	require.Empty(t, store.Transactions())
}

func TestAdjustValidation(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	flour := store.PutIngredient(models.Ingredient{Name: "Un", Unit: "kg", UnitCost: dec("2"), StockQuantity: 10})
	ctx := context.Background()

	var vErr *ValidationError

	_, err := svc.Adjust(ctx, AdjustInput{IngredientID: flour.ID, Delta: 0, Type: models.TransactionTypePurchase})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quantity", vErr.Field)

	_, err = svc.Adjust(ctx, AdjustInput{IngredientID: flour.ID, Delta: 1, Type: "transfer"})
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "type", vErr.Field)

	_, err = svc.Adjust(ctx, AdjustInput{IngredientID: 9999, Delta: 1, Type: models.TransactionTypePurchase})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdjustSucceedsWhenLedgerWriteFails(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	flour := store.PutIngredient(models.Ingredient{Name: "Un", Unit: "kg", UnitCost: dec("2"), StockQuantity: 10})
	ctx := context.Background()

	store.FailOn("AppendTransaction", errors.New("defter tablosu kilitli"))

	// Miktar yazımı otoritedir; defter hatası operasyonu düşürmez
	tx, err := svc.Adjust(ctx, AdjustInput{
		IngredientID: flour.ID,
		Delta:        3,
		Type:         models.TransactionTypePurchase,
	})
	require.NoError(t, err)
	require.Equal(t, 13.0, tx.NewQuantity)

	got, err := store.Ingredient(ctx, flour.ID)
	require.NoError(t, err)
	require.Equal(t, 13.0, got.StockQuantity)
	require.Empty(t, store.Transactions())
}

func TestAdjustConcurrentDeductions(t *testing.T) {
	svc, store, _ := newTestService(t, DeductBestEffort)
	flour := store.PutIngredient(models.Ingredient{Name: "Un", Unit: "kg", UnitCost: dec("2"), StockQuantity: 5})
	ctx := context.Background()

	// İki eşzamanlı düşüm: atomik güncelleme sayesinde kayıp yazım olmaz
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Adjust(ctx, AdjustInput{
				IngredientID: flour.ID,
				Delta:        -2,
				Type:         models.TransactionTypeConsumption,
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Ingredient(ctx, flour.ID)
	require.NoError(t, err)
	require.Equal(t, 1.0, got.StockQuantity)

	rows := store.Transactions()
	require.Len(t, rows, 2)
	// Önceki/yeni miktar zinciri kopuk olamaz
	total := rows[0].Quantity + rows[1].Quantity
	require.Equal(t, -4.0, total)
}
