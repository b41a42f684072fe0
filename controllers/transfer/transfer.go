package transferController

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"zbank/database"
	"zbank/middleware"
	"zbank/models"
	"zbank/utils"
	transferValidator "zbank/validators/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errInsufficientBalance = errors.New("insufficient balance")

// Transfer type labels reported back to the caller
const (
	transferTypeCardToCard     = "card-to-card"
	transferTypeAccountBalance = "account-balance"
)

// CreateTransfer moves money from the caller's card to another user. The
// credit lands on the recipient's card when one can be resolved, otherwise on
// their account balance. Debit, credit and both ledger rows commit atomically.
func CreateTransfer(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	userEmail, _ := middleware.SessionEmail(c)
	userName, _ := c.Locals("name").(string)
	if userName == "" {
		userName = userEmail
	}

	reqData, ok := c.Locals("validatedTransfer").(*transferValidator.TransferRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Transfers are OTP-gated: consume the code before touching any money
	if !utils.VerifyOTPCode(db, userEmail, reqData.OTP, models.OTPPurposeTransfer) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP", nil)
	}

	var senderCard models.Card
	if err := db.First(&senderCard, reqData.CardID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Card not found", nil)
	}

	if senderCard.UserID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Unauthorized", nil)
	}

	if senderCard.Status != models.CardStatusActive {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Card is not active", nil)
	}

	if senderCard.Balance < reqData.Amount {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient balance", nil)
	}

	var recipient models.User
	if err := db.Where("email = ?", reqData.RecipientEmail).First(&recipient).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Recipient not found", nil)
	}

	if recipient.ID == userId {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot transfer to yourself", nil)
	}

	// Resolve the credit target: an explicitly chosen recipient card, the
	// recipient's single active card, or their account balance as fallback.
	var recipientCards []models.Card
	if err := db.Where("user_id = ? AND status = ?", recipient.ID, models.CardStatusActive).
		Find(&recipientCards).Error; err != nil {
		log.Printf("Error loading recipient cards: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process transfer", nil)
	}

	var targetCard *models.Card
	if reqData.RecipientCardID != 0 {
		for i := range recipientCards {
			if recipientCards[i].ID == reqData.RecipientCardID {
				targetCard = &recipientCards[i]
				break
			}
		}
		if targetCard == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid recipient card", nil)
		}
	} else if len(recipientCards) == 1 {
		targetCard = &recipientCards[0]
	}

	transferType := transferTypeAccountBalance
	if targetCard != nil {
		transferType = transferTypeCardToCard
	}

	recipientName := recipient.Name
	if recipientName == "" {
		recipientName = recipient.Email
	}

	reference := uuid.NewString()
	metadata, _ := json.Marshal(fiber.Map{
		"transferType": transferType,
		"sender":       userEmail,
		"recipient":    recipient.Email,
		"reference":    reference,
	})

	debitTransaction := models.Transaction{
		CardID:       senderCard.ID,
		UserID:       userId,
		Amount:       reqData.Amount,
		Type:         models.TransactionTypeTransfer,
		Status:       models.TransactionStatusCompleted,
		Description:  fmt.Sprintf("Transfer to %s: %s", recipient.Email, reqData.Description),
		MerchantName: recipientName,
		Category:     "Transfer",
		Reference:    reference,
		Metadata:     datatypes.JSON(metadata),
	}

	// When crediting the account balance the credit row keeps the sender's
	// card as its back-reference for history display.
	creditCardID := senderCard.ID
	if targetCard != nil {
		creditCardID = targetCard.ID
	}

	creditTransaction := models.Transaction{
		CardID:       creditCardID,
		UserID:       recipient.ID,
		Amount:       reqData.Amount,
		Type:         models.TransactionTypeTransfer,
		Status:       models.TransactionStatusCompleted,
		Description:  fmt.Sprintf("Transfer from %s: %s", userEmail, reqData.Description),
		MerchantName: userName,
		Category:     "Transfer",
		Reference:    reference,
		Metadata:     datatypes.JSON(metadata),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&debitTransaction).Error; err != nil {
			return err
		}
		if err := tx.Create(&creditTransaction).Error; err != nil {
			return err
		}

		// Guarded decrement re-checks the balance inside the UPDATE so two
		// concurrent transfers cannot both pass against a stale read.
		res := tx.Model(&models.Card{}).
			Where("id = ? AND balance >= ?", senderCard.ID, reqData.Amount).
			Update("balance", gorm.Expr("balance - ?", reqData.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInsufficientBalance
		}

		if targetCard != nil {
			return tx.Model(&models.Card{}).
				Where("id = ?", targetCard.ID).
				Update("balance", gorm.Expr("balance + ?", reqData.Amount)).Error
		}
		return tx.Model(&models.User{}).
			Where("id = ?", recipient.ID).
			Update("balance", gorm.Expr("balance + ?", reqData.Amount)).Error
	})
	if err != nil {
		if errors.Is(err, errInsufficientBalance) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient balance", nil)
		}
		log.Printf("Transfer error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process transfer", nil)
	}

	utils.SendTransactionEmail(userEmail, userName, string(models.TransactionTypeTransfer), reqData.Amount, senderCard.CardNumber)
	if targetCard != nil {
		utils.SendTransactionEmail(recipient.Email, recipientName, string(models.TransactionTypeTransfer), reqData.Amount, targetCard.CardNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Transfer completed successfully", fiber.Map{
		"transfer": fiber.Map{
			"id":                  debitTransaction.ID,
			"creditTransactionId": creditTransaction.ID,
			"transferType":        transferType,
			"amount":              reqData.Amount,
			"recipient":           recipient.Email,
			"description":         reqData.Description,
			"reference":           reference,
		},
	})
}

// GetRecipientCards looks up a user by email and lists their active cards so
// the sender can pick a card-to-card target.
func GetRecipientCards(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email parameter is required", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	var cards []models.Card
	if err := db.Where("user_id = ? AND status = ?", user.ID, models.CardStatusActive).
		Find(&cards).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recipient cards", nil)
	}

	type recipientCard struct {
		ID             uint            `json:"id"`
		CardNumber     string          `json:"cardNumber"`
		CardType       models.CardType `json:"cardType"`
		Scheme         string          `json:"scheme"`
		Balance        float64         `json:"balance"`
		CardholderName string          `json:"cardholderName"`
	}

	cardViews := make([]recipientCard, 0, len(cards))
	for _, card := range cards {
		cardViews = append(cardViews, recipientCard{
			ID:             card.ID,
			CardNumber:     utils.MaskCardNumber(card.CardNumber),
			CardType:       card.CardType,
			Scheme:         card.Scheme,
			Balance:        card.Balance,
			CardholderName: card.CardholderName,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recipient cards fetched!", fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"cards": cardViews,
	})
}
