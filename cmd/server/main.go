package main

import (
	"log"
	"strings"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/config"
	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/menu"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/notify"
	"mutfak-backend/internal/orders"
	"mutfak-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	// Maliyet/stok motoru: depolama kapısı + bildirim kanalı
	store := costing.NewGormStore(database.DB)
	notifier := notify.NewLogNotifier()
	engine := costing.NewService(store, notifier, cfg.StorageTimeout, costing.DeductionPolicy(cfg.DeductionPolicy))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Malzeme yönetimi
	adminRoutes.Post("/ingredients", stock.CreateIngredientHandler())
	adminRoutes.Put("/ingredients/:id", stock.UpdateIngredientHandler())
	adminRoutes.Delete("/ingredients/:id", stock.DeleteIngredientHandler())

	// Yemek yönetimi
	adminRoutes.Post("/food-items", menu.CreateFoodItemHandler())
	adminRoutes.Put("/food-items/:id", menu.UpdateFoodItemHandler())

	// Ortak (auth gerektiren) route'lar

	// Malzeme kataloğu
	protected.Get("/ingredients", stock.ListIngredientsHandler())
	protected.Get("/ingredients/:id", stock.GetIngredientHandler())

	// Stok hareketleri
	protected.Post("/stock/adjustments", stock.CreateAdjustmentHandler(engine))
	protected.Get("/stock/transactions", stock.ListTransactionsHandler())
	protected.Get("/stock/low", stock.LowStockHandler())
	protected.Get("/stock/usage/monthly", stock.MonthlyUsageHandler())

	// Menü
	protected.Get("/food-items", menu.ListFoodItemsHandler())
	protected.Get("/food-items/:id", menu.GetFoodItemHandler())

	// Reçeteler
	protected.Put("/recipes/:foodItemID", menu.SaveRecipeHandler(engine))
	protected.Get("/recipes/:foodItemID", menu.GetRecipeHandler())

	// Yemek maliyetleri
	protected.Get("/dish-costs/:foodItemID", menu.GetDishCostHandler())
	protected.Put("/dish-costs/:foodItemID/pricing", menu.SetPricingHandler(engine))

	// Sipariş düşümü
	protected.Post("/orders/fulfill", orders.FulfillOrderHandler(engine))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
