package costing

import (
	"context"
	"sync"

	"mutfak-backend/internal/models"

	"github.com/shopspring/decimal"
)

// MemoryStore: Store'un bellek-içi implementasyonu.
// Canlı veritabanı olmadan servis testleri için kullanılır.
type MemoryStore struct {
	mu sync.Mutex

	ingredients     map[uint]models.Ingredient
	foodItems       map[uint]models.FoodItem
	recipes         map[uint]models.Recipe
	recipeLines     map[uint][]models.RecipeIngredient // recipeID -> satırlar
	dishCosts       map[uint]models.DishCost
	dishIngredients map[uint][]models.DishIngredient // dishCostID -> satırlar
	transactions    []models.InventoryTransaction

	nextID   uint
	failures map[string]error // op adı -> bir sonraki çağrıda dönecek hata
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ingredients:     make(map[uint]models.Ingredient),
		foodItems:       make(map[uint]models.FoodItem),
		recipes:         make(map[uint]models.Recipe),
		recipeLines:     make(map[uint][]models.RecipeIngredient),
		dishCosts:       make(map[uint]models.DishCost),
		dishIngredients: make(map[uint][]models.DishIngredient),
		failures:        make(map[string]error),
		nextID:          1,
	}
}

// FailOn - verilen operasyonun bir sonraki çağrısında err döndürülür (test için)
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *MemoryStore) takeFailure(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

// Seed yardımcıları

func (s *MemoryStore) PutIngredient(ing models.Ingredient) models.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ing.ID == 0 {
		ing.ID = s.allocID()
	}
	s.ingredients[ing.ID] = ing
	return ing
}

func (s *MemoryStore) PutFoodItem(f models.FoodItem) models.FoodItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		f.ID = s.allocID()
	}
	s.foodItems[f.ID] = f
	return f
}

func (s *MemoryStore) Transactions() []models.InventoryTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InventoryTransaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Store implementasyonu

func (s *MemoryStore) Ingredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("Ingredient"); err != nil {
		return nil, err
	}
	ing, ok := s.ingredients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ing, nil
}

func (s *MemoryStore) IngredientsByIDs(ctx context.Context, ids []uint) (map[uint]models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("IngredientsByIDs"); err != nil {
		return nil, err
	}
	result := make(map[uint]models.Ingredient, len(ids))
	for _, id := range ids {
		if ing, ok := s.ingredients[id]; ok {
			result[id] = ing
		}
	}
	return result, nil
}

func (s *MemoryStore) AdjustStock(ctx context.Context, id uint, delta float64) (float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("AdjustStock"); err != nil {
		return 0, 0, err
	}
	ing, ok := s.ingredients[id]
	if !ok {
		return 0, 0, ErrNotFound
	}
	next := ing.StockQuantity + delta
	if next < 0 {
		return 0, 0, &NegativeStockError{IngredientID: id, Current: ing.StockQuantity, Requested: delta}
	}
	previous := ing.StockQuantity
	ing.StockQuantity = next
	s.ingredients[id] = ing
	return previous, next, nil
}

func (s *MemoryStore) RecipeByFoodItem(ctx context.Context, foodItemID uint) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("RecipeByFoodItem"); err != nil {
		return nil, err
	}
	for _, r := range s.recipes {
		if r.FoodItemID == foodItemID {
			found := r
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) RecipeLines(ctx context.Context, recipeID uint) ([]models.RecipeIngredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("RecipeLines"); err != nil {
		return nil, err
	}
	lines := s.recipeLines[recipeID]
	out := make([]models.RecipeIngredient, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *MemoryStore) SaveRecipe(ctx context.Context, r *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("SaveRecipe"); err != nil {
		return err
	}
	if r.ID == 0 {
		r.ID = s.allocID()
	}
	s.recipes[r.ID] = *r
	return nil
}

func (s *MemoryStore) ReplaceRecipeLines(ctx context.Context, recipeID uint, lines []models.RecipeIngredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("ReplaceRecipeLines"); err != nil {
		return err
	}
	stored := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		line.ID = s.allocID()
		line.RecipeID = recipeID
		stored = append(stored, line)
	}
	s.recipeLines[recipeID] = stored
	return nil
}

func (s *MemoryStore) DishCostByFoodItem(ctx context.Context, foodItemID uint) (*models.DishCost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("DishCostByFoodItem"); err != nil {
		return nil, err
	}
	for _, d := range s.dishCosts {
		if d.FoodItemID == foodItemID {
			found := d
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SaveDishCost(ctx context.Context, d *models.DishCost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("SaveDishCost"); err != nil {
		return err
	}
	if d.ID == 0 {
		d.ID = s.allocID()
	}
	s.dishCosts[d.ID] = *d
	return nil
}

func (s *MemoryStore) ReplaceDishIngredients(ctx context.Context, dishCostID uint, rows []models.DishIngredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("ReplaceDishIngredients"); err != nil {
		return err
	}
	stored := make([]models.DishIngredient, 0, len(rows))
	for _, row := range rows {
		row.ID = s.allocID()
		row.DishCostID = dishCostID
		stored = append(stored, row)
	}
	s.dishIngredients[dishCostID] = stored
	return nil
}

func (s *MemoryStore) FoodItem(ctx context.Context, id uint) (*models.FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("FoodItem"); err != nil {
		return nil, err
	}
	f, ok := s.foodItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemoryStore) UpdateFoodItemPricing(ctx context.Context, id uint, cost, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("UpdateFoodItemPricing"); err != nil {
		return err
	}
	f, ok := s.foodItems[id]
	if !ok {
		return ErrNotFound
	}
	f.Cost = cost
	f.Price = price
	s.foodItems[id] = f
	return nil
}

func (s *MemoryStore) AppendTransaction(ctx context.Context, t *models.InventoryTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("AppendTransaction"); err != nil {
		return err
	}
	t.ID = s.allocID()
	s.transactions = append(s.transactions, *t)
	return nil
}

// Transaction - fn hata dönerse tüm durum fn öncesine geri alınır.
// Gerçek izolasyon sağlamaz; tek süreçli testler için yeterli.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(Store) error) error {
	s.mu.Lock()
	if err := s.takeFailure("Transaction"); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.restoreLocked(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type memorySnapshot struct {
	ingredients     map[uint]models.Ingredient
	foodItems       map[uint]models.FoodItem
	recipes         map[uint]models.Recipe
	recipeLines     map[uint][]models.RecipeIngredient
	dishCosts       map[uint]models.DishCost
	dishIngredients map[uint][]models.DishIngredient
	transactions    []models.InventoryTransaction
	nextID          uint
}

func (s *MemoryStore) snapshotLocked() memorySnapshot {
	snap := memorySnapshot{
		ingredients:     make(map[uint]models.Ingredient, len(s.ingredients)),
		foodItems:       make(map[uint]models.FoodItem, len(s.foodItems)),
		recipes:         make(map[uint]models.Recipe, len(s.recipes)),
		recipeLines:     make(map[uint][]models.RecipeIngredient, len(s.recipeLines)),
		dishCosts:       make(map[uint]models.DishCost, len(s.dishCosts)),
		dishIngredients: make(map[uint][]models.DishIngredient, len(s.dishIngredients)),
		transactions:    make([]models.InventoryTransaction, len(s.transactions)),
		nextID:          s.nextID,
	}
	for k, v := range s.ingredients {
		snap.ingredients[k] = v
	}
	for k, v := range s.foodItems {
		snap.foodItems[k] = v
	}
	for k, v := range s.recipes {
		snap.recipes[k] = v
	}
	for k, v := range s.recipeLines {
		lines := make([]models.RecipeIngredient, len(v))
		copy(lines, v)
		snap.recipeLines[k] = lines
	}
	for k, v := range s.dishCosts {
		snap.dishCosts[k] = v
	}
	for k, v := range s.dishIngredients {
		rows := make([]models.DishIngredient, len(v))
		copy(rows, v)
		snap.dishIngredients[k] = rows
	}
	copy(snap.transactions, s.transactions)
	return snap
}

func (s *MemoryStore) restoreLocked(snap memorySnapshot) {
	s.ingredients = snap.ingredients
	s.foodItems = snap.foodItems
	s.recipes = snap.recipes
	s.recipeLines = snap.recipeLines
	s.dishCosts = snap.dishCosts
	s.dishIngredients = snap.dishIngredients
	s.transactions = snap.transactions
	s.nextID = snap.nextID
}
