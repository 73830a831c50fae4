package orders

import (
	"errors"
	"fmt"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type FulfillOrderRequest struct {
	FoodItemID uint    `json:"food_item_id"` // zorunlu
	Quantity   float64 `json:"quantity"`     // satılan porsiyon sayısı
}

// Yardımcı: Kullanıcı bilgilerini al
func getUserInfoForOrders(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

// Motor hatalarını HTTP durum kodlarına çevir
func fiberErrForCosting(err error) error {
	var vErr *costing.ValidationError
	var nsErr *costing.NegativeStockError

	switch {
	case errors.Is(err, costing.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	case errors.As(err, &nsErr):
		return fiber.NewError(fiber.StatusConflict, nsErr.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// POST /api/orders/fulfill
// Satılan yemeğin reçetesini porsiyon oranıyla ölçekleyip stoktan düşer.
// Reçetesi olmayan yemek için düşülecek bir şey yoktur (hata değil).
func FulfillOrderHandler(svc *costing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body FulfillOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		result, err := svc.Deduct(c.Context(), body.FoodItemID, body.Quantity)
		if err != nil {
			return fiberErrForCosting(err)
		}

		// Audit log
		userID, userName, uerr := getUserInfoForOrders(c)
		if uerr == nil {
			desc := fmt.Sprintf("Sipariş düşümü: yemek %d x %.2f, %d malzeme", body.FoodItemID, body.Quantity, len(result.Lines))
			if result.NothingToDeduct {
				desc = fmt.Sprintf("Sipariş düşümü: yemek %d reçetesiz, düşüm yok", body.FoodItemID)
			} else if result.FailedCount > 0 {
				desc = fmt.Sprintf("Sipariş düşümü (kısmi): yemek %d, %d/%d malzeme düşülemedi",
					body.FoodItemID, result.FailedCount, len(result.Lines))
			}
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order_fulfillment",
				EntityID:    body.FoodItemID,
				Action:      models.AuditActionCreate,
				Description: desc,
				Before:      nil,
				After:       result,
			})
		}

		status := fiber.StatusOK
		if result.FailedCount > 0 {
			// Kısmi başarı: işlenen satırlar geçerli, hatalılar raporlandı
			status = fiber.StatusMultiStatus
		}
		return c.Status(status).JSON(result)
	}
}
