package transactionController

import (
	"errors"
	"log"

	"zbank/database"
	"zbank/middleware"
	"zbank/models"
	"zbank/utils"
	transactionValidator "zbank/validators/transaction"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

var errInsufficientBalance = errors.New("insufficient balance")

// ListTransactions returns the caller's 50 most recent transactions
func ListTransactions(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var transactions []models.Transaction
	if err := database.Database.Db.
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(50).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched!", transactions)
}

// CreateTransaction is the payment engine: it validates card state and
// ownership, then appends the transaction and debits the card in one
// database transaction so the ledger can never disagree with the balance.
func CreateTransaction(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCreateTransaction").(*transactionValidator.CreateTransactionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var card models.Card
	if err := db.First(&card, reqData.CardID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Card not found", nil)
	}

	if card.UserID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Unauthorized", nil)
	}

	if card.Status != models.CardStatusActive {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Card is not active", nil)
	}

	debits := models.IsPaymentType(reqData.Type) && reqData.Amount > 0

	if debits && card.Balance < reqData.Amount {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient balance", nil)
	}

	transaction := models.Transaction{
		CardID:       card.ID,
		UserID:       userId,
		Amount:       reqData.Amount,
		Type:         reqData.Type,
		Status:       models.TransactionStatusCompleted,
		Description:  reqData.Description,
		MerchantName: reqData.MerchantName,
		Category:     reqData.Category,
		Reference:    uuid.NewString(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		if debits {
			// Guarded decrement: the balance check is re-run inside the
			// UPDATE so a concurrent debit cannot slip past a stale read.
			res := tx.Model(&models.Card{}).
				Where("id = ? AND balance >= ?", card.ID, reqData.Amount).
				Update("balance", gorm.Expr("balance - ?", reqData.Amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errInsufficientBalance
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errInsufficientBalance) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient balance", nil)
		}
		log.Printf("Error creating transaction: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create transaction!", nil)
	}

	if email, ok := middleware.SessionEmail(c); ok && debits {
		name, _ := c.Locals("name").(string)
		utils.SendTransactionEmail(email, name, string(reqData.Type), reqData.Amount, card.CardNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Transaction created.", transaction)
}

// GetSpendingSummary reports the caller's debit total since the start of today
func GetSpendingSummary(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var total float64
	err := database.Database.Db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND created_at >= ? AND type NOT IN ?",
			userId, now.BeginningOfDay(),
			[]models.TransactionType{models.TransactionTypeRefund, models.TransactionTypeTopUp, models.TransactionTypeTransfer}).
		Scan(&total).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch summary!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Spending summary fetched!", fiber.Map{
		"spentToday": total,
		"since":      now.BeginningOfDay(),
	})
}
