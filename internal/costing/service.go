package costing

import (
	"context"
	"fmt"
	"time"

	"mutfak-backend/internal/models"
	"mutfak-backend/internal/notify"

	"github.com/shopspring/decimal"
)

// DeductionPolicy: Sipariş düşümünde satır hatalarına nasıl davranılacağı
type DeductionPolicy string

const (
	DeductBestEffort   DeductionPolicy = "best_effort"
	DeductAllOrNothing DeductionPolicy = "all_or_nothing"
)

// Varsayılan kâr marjı (yüzde). Yeni DishCost kayıtları bu marjla açılır.
var defaultProfitMargin = decimal.NewFromInt(70)

// Service: Reçete maliyetlendirme ve stok düşüm motoru.
// Tüm operasyonlar istek kapsamlıdır; hiçbir yerde otomatik retry yoktur.
type Service struct {
	store    Store
	notifier notify.Notifier
	timeout  time.Duration
	policy   DeductionPolicy
}

func NewService(store Store, notifier notify.Notifier, timeout time.Duration, policy DeductionPolicy) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if policy == "" {
		policy = DeductBestEffort
	}
	return &Service{
		store:    store,
		notifier: notifier,
		timeout:  timeout,
		policy:   policy,
	}
}

// opCtx - her operasyona sınırlı bir süre tanır
func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// RecipeLineInput: SaveRecipe çağrısının malzeme satırı girdisi
type RecipeLineInput struct {
	IngredientID uint
	Quantity     float64
	Unit         string
}

// SaveRecipeResult: Kayıt sonrası tutarlı hale getirilen kayıtlar
type SaveRecipeResult struct {
	Recipe   models.Recipe
	DishCost models.DishCost
	// Katalogda bulunamayan malzeme referansları (maliyete sıfır katkı yaptılar)
	MissingIngredientIDs []uint
}

// SaveRecipe - Reçeteyi komple değiştirir ve Recipe, DishCost, DishIngredient ve
// FoodItem kayıtlarını tek transaction sınırında tutarlı hale getirir.
// Aynı girdiyle tekrar çağrılırsa aynı son duruma ulaşır (retry altında idempotent).
func (s *Service) SaveRecipe(ctx context.Context, foodItemID uint, serves int, lines []RecipeLineInput) (*SaveRecipeResult, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if foodItemID == 0 {
		return nil, &ValidationError{Field: "food_item_id", Reason: "zorunlu"}
	}
	if serves <= 0 {
		// Sıfır porsiyonlu reçete doğrulama katmanında reddedilir
		return nil, &ValidationError{Field: "serves", Reason: "0'dan büyük olmalı"}
	}
	for _, line := range lines {
		if line.IngredientID == 0 {
			return nil, &ValidationError{Field: "ingredient_id", Reason: "zorunlu"}
		}
		if line.Quantity <= 0 {
			return nil, &ValidationError{Field: "quantity", Reason: "0'dan büyük olmalı"}
		}
	}

	var result SaveRecipeResult
	var foodItemName string

	err := s.store.Transaction(ctx, func(st Store) error {
		foodItem, err := st.FoodItem(ctx, foodItemID)
		if err != nil {
			return persistErr("food_item okuma", err)
		}
		foodItemName = foodItem.Name

		// Reçeteyi bul ya da oluştur (yemek başına tek reçete)
		recipe, err := st.RecipeByFoodItem(ctx, foodItemID)
		if err == ErrNotFound {
			recipe = &models.Recipe{FoodItemID: foodItemID}
		} else if err != nil {
			return persistErr("reçete okuma", err)
		}
		recipe.Serves = serves

		// Malzeme maliyetlerini tek seferde çöz
		ids := make([]uint, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.IngredientID)
		}
		catalog, err := st.IngredientsByIDs(ctx, ids)
		if err != nil {
			return persistErr("malzeme okuma", err)
		}

		rawLines := make([]models.RecipeIngredient, 0, len(lines))
		for _, line := range lines {
			rawLines = append(rawLines, models.RecipeIngredient{
				IngredientID: line.IngredientID,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
			})
		}

		cost := ComputeCost(rawLines, catalog, serves)
		result.MissingIngredientIDs = cost.MissingIngredientIDs

		recipe.TotalCost = cost.TotalCost
		recipe.CostPerServing = cost.CostPerServing
		if err := st.SaveRecipe(ctx, recipe); err != nil {
			return persistErr("reçete kaydetme", err)
		}

		// Satırları komple değiştir (tek tek yama yok)
		if err := st.ReplaceRecipeLines(ctx, recipe.ID, cost.Lines); err != nil {
			return persistErr("reçete satırları kaydetme", err)
		}

		// DishCost'u güncelle ya da varsayılanlarla oluştur
		dish, err := st.DishCostByFoodItem(ctx, foodItemID)
		if err == ErrNotFound {
			dish = &models.DishCost{
				FoodItemID:   foodItemID,
				ProfitMargin: defaultProfitMargin,
			}
		} else if err != nil {
			return persistErr("dish_cost okuma", err)
		}

		dish.TotalIngredientCost = cost.TotalCost
		dish.TotalCost = dish.TotalIngredientCost.Add(dish.TotalOverheadCost)
		dish.SuggestedPrice = SuggestedPrice(dish.TotalCost, dish.ProfitMargin)

		if err := st.SaveDishCost(ctx, dish); err != nil {
			return persistErr("dish_cost kaydetme", err)
		}

		// Raporlama kopyasını yenile
		mirror := make([]models.DishIngredient, 0, len(cost.Lines))
		for _, line := range cost.Lines {
			ing := catalog[line.IngredientID]
			mirror = append(mirror, models.DishIngredient{
				IngredientID: line.IngredientID,
				Name:         ing.Name,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
				UnitCost:     ing.UnitCost,
				TotalCost:    line.LineCost,
			})
		}
		if err := st.ReplaceDishIngredients(ctx, dish.ID, mirror); err != nil {
			return persistErr("dish_ingredient kaydetme", err)
		}

		// Maliyeti ve geçerli fiyatı menü kaydına yansıt
		if err := st.UpdateFoodItemPricing(ctx, foodItemID, dish.TotalCost, dish.EffectivePrice()); err != nil {
			return persistErr("food_item güncelleme", err)
		}

		result.Recipe = *recipe
		result.DishCost = *dish
		return nil
	})
	if err != nil {
		s.notifier.Error("Reçete kaydedilemedi: " + err.Error())
		return nil, err
	}

	// Bildirimler commit SONRASI gönderilir
	s.notifySaveRecipe(foodItemName, &result)
	return &result, nil
}

func (s *Service) notifySaveRecipe(foodItemName string, result *SaveRecipeResult) {
	if len(result.MissingIngredientIDs) > 0 {
		s.notifier.Error(fmt.Sprintf(
			"%s reçetesinde katalogda olmayan %d malzeme referansı var (maliyete katılmadı): %v",
			foodItemName, len(result.MissingIngredientIDs), result.MissingIngredientIDs))
	}
	s.notifier.Success(fmt.Sprintf("%s reçetesi kaydedildi (maliyet: %s, porsiyon başı: %s)",
		foodItemName, result.Recipe.TotalCost.String(), result.Recipe.CostPerServing.String()))
}

// PricingInput: SetPricing çağrısının girdisi
type PricingInput struct {
	OverheadCost   decimal.Decimal
	ProfitMargin   decimal.Decimal
	UseManualPrice bool
	ManualPrice    *decimal.Decimal
}

// SetPricing - Genel gider, kâr marjı ve manuel fiyat ayarlarını günceller;
// toplam maliyeti ve önerilen fiyatı yeniden hesaplar, FoodItem'a yansıtır.
func (s *Service) SetPricing(ctx context.Context, foodItemID uint, in PricingInput) (*models.DishCost, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if in.OverheadCost.IsNegative() {
		return nil, &ValidationError{Field: "overhead_cost", Reason: "negatif olamaz"}
	}
	hundred := decimal.NewFromInt(100)
	if in.ProfitMargin.IsNegative() || in.ProfitMargin.GreaterThanOrEqual(hundred) {
		return nil, &ValidationError{Field: "profit_margin", Reason: "[0,100) aralığında olmalı"}
	}
	if in.UseManualPrice {
		if in.ManualPrice == nil {
			return nil, &ValidationError{Field: "manual_price", Reason: "manuel fiyat seçiliyken zorunlu"}
		}
		if in.ManualPrice.IsNegative() {
			return nil, &ValidationError{Field: "manual_price", Reason: "negatif olamaz"}
		}
	}

	var saved *models.DishCost

	err := s.store.Transaction(ctx, func(st Store) error {
		if _, err := st.FoodItem(ctx, foodItemID); err != nil {
			return persistErr("food_item okuma", err)
		}

		// Reçete girilmeden fiyatlama yapılabilsin diye kayıt yoksa oluşturulur
		dish, err := st.DishCostByFoodItem(ctx, foodItemID)
		if err == ErrNotFound {
			dish = &models.DishCost{FoodItemID: foodItemID}
		} else if err != nil {
			return persistErr("dish_cost okuma", err)
		}

		dish.TotalOverheadCost = in.OverheadCost
		dish.ProfitMargin = in.ProfitMargin
		dish.UseManualPrice = in.UseManualPrice
		dish.ManualPrice = in.ManualPrice
		dish.TotalCost = dish.TotalIngredientCost.Add(dish.TotalOverheadCost)
		dish.SuggestedPrice = SuggestedPrice(dish.TotalCost, dish.ProfitMargin)

		if err := st.SaveDishCost(ctx, dish); err != nil {
			return persistErr("dish_cost kaydetme", err)
		}
		if err := st.UpdateFoodItemPricing(ctx, foodItemID, dish.TotalCost, dish.EffectivePrice()); err != nil {
			return persistErr("food_item güncelleme", err)
		}

		saved = dish
		return nil
	})
	if err != nil {
		s.notifier.Error("Fiyatlama güncellenemedi: " + err.Error())
		return nil, err
	}

	s.notifier.Success(fmt.Sprintf("Fiyatlama güncellendi (toplam maliyet: %s, geçerli fiyat: %s)",
		saved.TotalCost.String(), saved.EffectivePrice().String()))
	return saved, nil
}
