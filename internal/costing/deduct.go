package costing

import (
	"context"
	"fmt"
	"log"

	"mutfak-backend/internal/models"

	"github.com/google/uuid"
)

// DeductionLineResult: Tek malzeme için düşüm sonucu
type DeductionLineResult struct {
	IngredientID uint    `json:"ingredient_id"`
	Needed       float64 `json:"needed"`
	Deducted     bool    `json:"deducted"`
	Reason       string  `json:"reason,omitempty"` // boşsa başarılı
}

// DeductionResult: Sipariş satırı düşümünün toplu sonucu
type DeductionResult struct {
	FoodItemID      uint                  `json:"food_item_id"`
	OrderedQuantity float64               `json:"ordered_quantity"`
	NothingToDeduct bool                  `json:"nothing_to_deduct"` // reçete yok
	Lines           []DeductionLineResult `json:"lines"`
	FailedCount     int                   `json:"failed_count"`
}

// Deduct - Satılan miktara göre reçete malzemelerini stoktan düşer.
// Reçetesi olmayan yemek için no-op'tur (hata değil).
// Satır hatalarına davranış politikaya bağlı:
//   - best_effort: hatalı satır loglanır, kalanlara devam edilir, sonuç kısmi
//     başarıyı raporlar (operasyon hata dönmez)
//   - all_or_nothing: tek satır bile düşülemezse tamamı geri alınır
func (s *Service) Deduct(ctx context.Context, foodItemID uint, orderedQty float64) (*DeductionResult, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if foodItemID == 0 {
		return nil, &ValidationError{Field: "food_item_id", Reason: "zorunlu"}
	}
	if orderedQty <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "0'dan büyük olmalı"}
	}

	recipe, err := s.store.RecipeByFoodItem(ctx, foodItemID)
	if err == ErrNotFound {
		// Reçete girilmemiş yemek: düşülecek bir şey yok
		return &DeductionResult{FoodItemID: foodItemID, OrderedQuantity: orderedQty, NothingToDeduct: true}, nil
	}
	if err != nil {
		s.notifier.Error("Reçete okunamadı: " + err.Error())
		return nil, persistErr("reçete okuma", err)
	}
	if recipe.Serves <= 0 {
		return nil, &ValidationError{Field: "serves", Reason: "reçete porsiyon sayısı geçersiz"}
	}

	lines, err := s.store.RecipeLines(ctx, recipe.ID)
	if err != nil {
		s.notifier.Error("Reçete satırları okunamadı: " + err.Error())
		return nil, persistErr("reçete satırları okuma", err)
	}

	result := &DeductionResult{
		FoodItemID:      foodItemID,
		OrderedQuantity: orderedQty,
		Lines:           make([]DeductionLineResult, 0, len(lines)),
	}
	correlationID := uuid.NewString() // aynı siparişin tüm hareketleri aynı grupta

	if s.policy == DeductAllOrNothing {
		err := s.store.Transaction(ctx, func(st Store) error {
			for _, line := range lines {
				needed := line.Quantity * orderedQty / float64(recipe.Serves)
				if _, err := s.adjustWithStore(ctx, st, consumptionInput(line.IngredientID, needed, foodItemID, correlationID), false); err != nil {
					return fmt.Errorf("malzeme %d düşülemedi: %w", line.IngredientID, err)
				}
				result.Lines = append(result.Lines, DeductionLineResult{
					IngredientID: line.IngredientID,
					Needed:       needed,
					Deducted:     true,
				})
			}
			return nil
		})
		if err != nil {
			s.notifier.Error("Sipariş düşümü geri alındı: " + err.Error())
			return nil, err
		}
		s.notifier.Success(fmt.Sprintf("Sipariş düşümü tamamlandı: %d malzeme", len(result.Lines)))
		return result, nil
	}

	// best_effort: hatalar toplanır, hiçbir satır diğerini engellemez
	for _, line := range lines {
		needed := line.Quantity * orderedQty / float64(recipe.Serves)
		lineResult := DeductionLineResult{IngredientID: line.IngredientID, Needed: needed}

		if _, err := s.adjustWithStore(ctx, s.store, consumptionInput(line.IngredientID, needed, foodItemID, correlationID), true); err != nil {
			log.Printf("[WARN] Sipariş düşümünde malzeme %d düşülemedi: %v", line.IngredientID, err)
			lineResult.Reason = err.Error()
			result.FailedCount++
		} else {
			lineResult.Deducted = true
		}
		result.Lines = append(result.Lines, lineResult)
	}

	if result.FailedCount > 0 {
		s.notifier.Error(fmt.Sprintf("Sipariş düşümünde %d/%d malzeme düşülemedi", result.FailedCount, len(lines)))
	} else {
		s.notifier.Success(fmt.Sprintf("Sipariş düşümü tamamlandı: %d malzeme", len(result.Lines)))
	}
	return result, nil
}

func consumptionInput(ingredientID uint, needed float64, foodItemID uint, correlationID string) AdjustInput {
	return AdjustInput{
		IngredientID:  ingredientID,
		Delta:         -needed,
		Type:          models.TransactionTypeConsumption,
		Notes:         "sipariş tüketimi",
		ReferenceType: "food_item",
		ReferenceID:   foodItemID,
		CorrelationID: correlationID,
	}
}
