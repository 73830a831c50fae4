package costing

import (
	"mutfak-backend/internal/models"

	"github.com/shopspring/decimal"
)

// CostResult: Reçete maliyet hesabının sonucu
type CostResult struct {
	// Lines: LineCost ve Unit alanları doldurulmuş satır kopyaları
	Lines          []models.RecipeIngredient
	TotalCost      decimal.Decimal
	CostPerServing decimal.Decimal
	// MissingIngredientIDs: Katalogda bulunamayan malzeme referansları.
	// Bu satırlar toplam maliyete sıfır katkı yapar; çağıran tarafın
	// kullanıcıyı uyarması beklenir (eski/silik malzeme referansı olabilir).
	MissingIngredientIDs []uint
}

// ComputeCost - Reçete satırlarından toplam ve porsiyon başı maliyeti hesaplar.
// Saf fonksiyon: girdileri değiştirmez, aynı girdiye her zaman aynı sonucu verir.
func ComputeCost(lines []models.RecipeIngredient, catalog map[uint]models.Ingredient, serves int) CostResult {
	res := CostResult{
		Lines:     make([]models.RecipeIngredient, 0, len(lines)),
		TotalCost: decimal.Zero,
	}

	for _, line := range lines {
		ing, ok := catalog[line.IngredientID]
		if !ok {
			// Katalogda olmayan malzeme: satır maliyete katılmaz, sadece raporlanır
			res.MissingIngredientIDs = append(res.MissingIngredientIDs, line.IngredientID)
			continue
		}

		costed := line
		if costed.Unit == "" {
			costed.Unit = ing.Unit
		}
		costed.LineCost = ing.UnitCost.Mul(decimal.NewFromFloat(line.Quantity)).Round(4)

		res.TotalCost = res.TotalCost.Add(costed.LineCost)
		res.Lines = append(res.Lines, costed)
	}

	if serves > 0 {
		res.CostPerServing = res.TotalCost.Div(decimal.NewFromInt(int64(serves))).Round(4)
	} else {
		// Porsiyon sayısı doğrulama katmanında zorunlu; burada yine de bölme guard'ı var
		res.CostPerServing = res.TotalCost
	}

	return res
}

// SuggestedPrice - Toplam maliyet ve kâr marjından önerilen satış fiyatı.
// Marj [0,100) aralığında yüzde; toplam maliyet sıfırsa fiyat da sıfırdır.
func SuggestedPrice(totalCost, margin decimal.Decimal) decimal.Decimal {
	if !totalCost.IsPositive() {
		return decimal.Zero
	}
	divisor := decimal.NewFromInt(1).Sub(margin.Div(decimal.NewFromInt(100)))
	if !divisor.IsPositive() {
		return decimal.Zero
	}
	return totalCost.Div(divisor).Round(4)
}
