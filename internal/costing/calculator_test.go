package costing

import (
	"testing"

	"mutfak-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeCostFlourAndSalt(t *testing.T) {
	catalog := map[uint]models.Ingredient{
		1: {ID: 1, Name: "Un", Unit: "kg", UnitCost: dec("2")},
		2: {ID: 2, Name: "Tuz", Unit: "kg", UnitCost: dec("1")},
	}
	lines := []models.RecipeIngredient{
		{IngredientID: 1, Quantity: 0.5},
		{IngredientID: 2, Quantity: 0.01},
	}

	res := ComputeCost(lines, catalog, 4)

	require.True(t, res.TotalCost.Equal(dec("1.01")), "toplam maliyet %s", res.TotalCost)
	require.True(t, res.CostPerServing.Equal(dec("0.2525")), "porsiyon maliyeti %s", res.CostPerServing)
	require.Len(t, res.Lines, 2)
	require.Empty(t, res.MissingIngredientIDs)
	require.True(t, res.Lines[0].LineCost.Equal(dec("1")))
	require.True(t, res.Lines[1].LineCost.Equal(dec("0.01")))
}

func TestComputeCostMissingIngredientContributesZero(t *testing.T) {
	catalog := map[uint]models.Ingredient{
		1: {ID: 1, Name: "Un", Unit: "kg", UnitCost: dec("2")},
	}
	lines := []models.RecipeIngredient{
		{IngredientID: 1, Quantity: 1},
		{IngredientID: 99, Quantity: 3}, // katalogda yok
	}

	res := ComputeCost(lines, catalog, 2)

	require.True(t, res.TotalCost.Equal(dec("2")))
	require.Len(t, res.Lines, 1)
	require.Equal(t, []uint{99}, res.MissingIngredientIDs)
}

func TestComputeCostZeroServesGuard(t *testing.T) {
	catalog := map[uint]models.Ingredient{
		1: {ID: 1, Name: "Un", Unit: "kg", UnitCost: dec("2")},
	}
	lines := []models.RecipeIngredient{{IngredientID: 1, Quantity: 2}}

	res := ComputeCost(lines, catalog, 0)

	// Bölme guard'ı: porsiyon maliyeti toplam maliyete eşit kalır
	require.True(t, res.CostPerServing.Equal(res.TotalCost))
}

func TestComputeCostDeterministic(t *testing.T) {
	catalog := map[uint]models.Ingredient{
		1: {ID: 1, Name: "Un", Unit: "kg", UnitCost: dec("2.35")},
	}
	lines := []models.RecipeIngredient{{IngredientID: 1, Quantity: 1.2}}

	first := ComputeCost(lines, catalog, 3)
	second := ComputeCost(lines, catalog, 3)

	require.True(t, first.TotalCost.Equal(second.TotalCost))
	require.True(t, first.CostPerServing.Equal(second.CostPerServing))
}

func TestSuggestedPrice(t *testing.T) {
	// total=6, marj=70 -> 6 / 0.3 = 20
	require.True(t, SuggestedPrice(dec("6"), dec("70")).Equal(dec("20")))

	// Toplam maliyet sıfırsa fiyat da sıfır (marjdan bağımsız)
	require.True(t, SuggestedPrice(dec("0"), dec("70")).Equal(dec("0")))
	require.True(t, SuggestedPrice(dec("0"), dec("0")).Equal(dec("0")))

	// Marj 0 -> fiyat maliyete eşit
	require.True(t, SuggestedPrice(dec("12.5"), dec("0")).Equal(dec("12.5")))
}
