package stock

import (
	"errors"
	"fmt"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAdjustmentRequest struct {
	IngredientID uint    `json:"ingredient_id"` // zorunlu
	Quantity     float64 `json:"quantity"`      // işaretli delta (giriş +, çıkış -)
	Type         string  `json:"type"`          // purchase | adjustment | waste
	Notes        string  `json:"notes"`
}

type TransactionResponse struct {
	ID               uint    `json:"id"`
	CorrelationID    string  `json:"correlation_id"`
	IngredientID     uint    `json:"ingredient_id"`
	Type             string  `json:"type"`
	Quantity         float64 `json:"quantity"`
	PreviousQuantity float64 `json:"previous_quantity"`
	NewQuantity      float64 `json:"new_quantity"`
	Unit             string  `json:"unit"`
	Notes            string  `json:"notes"`
	ReferenceType    string  `json:"reference_type,omitempty"`
	ReferenceID      uint    `json:"reference_id,omitempty"`
	CreatedAt        string  `json:"created_at"`
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

func transactionResponse(t models.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID,
		CorrelationID:    t.CorrelationID,
		IngredientID:     t.IngredientID,
		Type:             string(t.Type),
		Quantity:         t.Quantity,
		PreviousQuantity: t.PreviousQuantity,
		NewQuantity:      t.NewQuantity,
		Unit:             t.Unit,
		Notes:            t.Notes,
		ReferenceType:    t.ReferenceType,
		ReferenceID:      t.ReferenceID,
		CreatedAt:        t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/stock/adjustments
// Manuel stok hareketi: satın alma, sayım düzeltmesi veya zayiat.
// Sipariş tüketimi buradan girilmez (orders/fulfill kullanılır).
func CreateAdjustmentHandler(svc *costing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAdjustmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		txType := models.TransactionType(body.Type)
		if txType == models.TransactionTypeConsumption {
			return fiber.NewError(fiber.StatusBadRequest, "consumption hareketi sadece sipariş düşümüyle oluşur")
		}
		if txType == models.TransactionTypeWaste && body.Quantity > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "waste hareketi negatif miktarla girilmelidir")
		}

		tx, err := svc.Adjust(c.Context(), costing.AdjustInput{
			IngredientID: body.IngredientID,
			Delta:        body.Quantity,
			Type:         txType,
			Notes:        body.Notes,
		})
		if err != nil {
			return fiberErrForCosting(err)
		}

		// Audit log
		userID, userName, uerr := getUserInfoForStock(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "inventory_transaction",
				EntityID:    tx.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stok hareketi (%s): malzeme %d, %.4f %s", tx.Type, tx.IngredientID, tx.Quantity, tx.Unit),
				Before:      nil,
				After:       tx,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(transactionResponse(*tx))
	}
}
