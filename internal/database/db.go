package database

import (
	"log"

	"mutfak-backend/internal/config"
	"mutfak-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.FoodItem{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.DishCost{},
		&models.DishIngredient{},
		&models.InventoryTransaction{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Reçete satırı referans ettiği sürece malzeme silinmesin
	// (AutoMigrate constraint eklemezse manuel ekle)
	var constraintExists bool
	DB.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.table_constraints
			WHERE table_name = 'recipe_ingredients'
			AND constraint_name = 'fk_recipe_ingredients_ingredient'
		)
	`).Scan(&constraintExists)

	if !constraintExists {
		if fkErr := DB.Exec(`
			ALTER TABLE recipe_ingredients
			ADD CONSTRAINT fk_recipe_ingredients_ingredient
			FOREIGN KEY (ingredient_id) REFERENCES ingredients(id) ON DELETE RESTRICT
		`).Error; fkErr != nil {
			log.Printf("Foreign key constraint eklenirken hata: %v", fkErr)
		} else {
			log.Println("RecipeIngredient foreign key constraint başarıyla eklendi")
		}
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
