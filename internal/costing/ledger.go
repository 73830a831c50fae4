package costing

import (
	"context"
	"fmt"
	"log"

	"mutfak-backend/internal/models"

	"github.com/google/uuid"
)

// AdjustInput: Tek bir stok hareketinin girdisi
type AdjustInput struct {
	IngredientID uint
	Delta        float64 // işaretli miktar (giriş pozitif, çıkış negatif)
	Type         models.TransactionType
	Notes        string
	// Opsiyonel referans (ör: tüketimde hangi yemek)
	ReferenceType string
	ReferenceID   uint
	// Aynı operasyondaki hareketleri gruplamak için; boşsa üretilir
	CorrelationID string
}

// Adjust - Stok miktarını atomik olarak değiştirir ve deftere hareket yazar.
// Sonuç eksiye inecekse NegativeStockError döner, hiçbir şey değişmez.
// Defter yazımı başarısız olsa bile miktar güncellemesi geçerli sayılır:
// katalog kayıt otoritedir, defter en-iyi-çaba ile tutulur.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (*models.InventoryTransaction, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.adjustWithStore(ctx, s.store, in, true)
	if err != nil {
		s.notifier.Error("Stok hareketi uygulanamadı: " + err.Error())
		return nil, err
	}

	s.notifier.Success(fmt.Sprintf("Stok güncellendi: malzeme %d, %.4f -> %.4f",
		in.IngredientID, tx.PreviousQuantity, tx.NewQuantity))
	return tx, nil
}

// adjustWithStore - asıl düşüm; Deduct'un all_or_nothing modu transaction'a
// bağlı store ile çağırır. logBestEffort=false ise defter hatası da ölümcüldür.
func (s *Service) adjustWithStore(ctx context.Context, st Store, in AdjustInput, logBestEffort bool) (*models.InventoryTransaction, error) {
	if in.IngredientID == 0 {
		return nil, &ValidationError{Field: "ingredient_id", Reason: "zorunlu"}
	}
	if in.Delta == 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "sıfır olamaz"}
	}
	switch in.Type {
	case models.TransactionTypePurchase, models.TransactionTypeAdjustment,
		models.TransactionTypeWaste, models.TransactionTypeConsumption:
	default:
		return nil, &ValidationError{Field: "type", Reason: "geçersiz hareket tipi"}
	}

	// Birim bilgisi için okunan kayıt; miktar buradan DEĞİL atomik
	// güncellemenin dönüşünden alınır
	ing, err := st.Ingredient(ctx, in.IngredientID)
	if err != nil {
		return nil, persistErr("malzeme okuma", err)
	}

	previous, current, err := st.AdjustStock(ctx, in.IngredientID, in.Delta)
	if err != nil {
		if _, ok := err.(*NegativeStockError); ok {
			return nil, err
		}
		return nil, persistErr("stok güncelleme", err)
	}

	correlationID := in.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	tx := &models.InventoryTransaction{
		CorrelationID:    correlationID,
		IngredientID:     in.IngredientID,
		Type:             in.Type,
		Quantity:         in.Delta,
		PreviousQuantity: previous,
		NewQuantity:      current,
		Unit:             ing.Unit,
		Notes:            in.Notes,
		ReferenceType:    in.ReferenceType,
		ReferenceID:      in.ReferenceID,
	}

	if err := st.AppendTransaction(ctx, tx); err != nil {
		if !logBestEffort {
			return nil, persistErr("stok defteri yazma", err)
		}
		// Bilinçli tercih: miktar yazımı başarılıysa operasyon başarılıdır,
		// kayıp defter satırı sadece loglanır
		log.Printf("[WARN] Stok defteri yazılamadı (malzeme %d, delta %.4f): %v",
			in.IngredientID, in.Delta, err)
	}

	return tx, nil
}
