package cardController

import (
	"log"
	"time"

	"zbank/database"
	"zbank/middleware"
	"zbank/models"
	"zbank/utils"
	cardValidator "zbank/validators/card"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// onboardingBalance is the fixed starting balance for every issued card
const onboardingBalance = 10000

// cardValidity is how far in the future new cards expire
const cardValidity = 3 * 365 * 24 * time.Hour

// ListCards returns the caller's cards with their recent transactions and
// the amount spent today
func ListCards(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var cards []models.Card
	if err := db.Where("user_id = ?", userId).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(5)
		}).
		Find(&cards).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch cards!", nil)
	}

	type cardView struct {
		models.Card
		SpentToday float64 `json:"spentToday"`
	}

	views := make([]cardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, cardView{Card: card, SpentToday: spentToday(db, card.ID)})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cards fetched!", views)
}

// spentToday sums today's payment-class debits for a card
func spentToday(db *gorm.DB, cardID uint) float64 {
	var total float64
	db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("card_id = ? AND created_at >= ? AND type IN ?", cardID, now.BeginningOfDay(), paymentTypeList()).
		Scan(&total)
	return total
}

func paymentTypeList() []models.TransactionType {
	all := []models.TransactionType{
		models.TransactionTypePayment, models.TransactionTypeBillPayment,
		models.TransactionTypeMobileRecharge, models.TransactionTypeQRPayment,
		models.TransactionTypeInternetBill, models.TransactionTypeElectricity,
		models.TransactionTypeGasBill, models.TransactionTypeWaterBill,
		models.TransactionTypeCableTV, models.TransactionTypeInsurance,
		models.TransactionTypeEducationFees, models.TransactionTypeHealthcare,
		models.TransactionTypeTransport,
	}
	return all
}

// CreateCard issues a new card for the caller
func CreateCard(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCreateCard").(*cardValidator.CreateCardRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	cardholderName := reqData.CardholderName
	if cardholderName == "" {
		if name, ok := c.Locals("name").(string); ok && name != "" {
			cardholderName = name
		} else {
			cardholderName = "Card Holder"
		}
	}

	card := models.Card{
		UserID:          userId,
		CardNumber:      utils.GenerateCardNumber(),
		CardType:        reqData.CardType,
		Status:          models.CardStatusActive,
		Balance:         onboardingBalance,
		Scheme:          reqData.Scheme,
		CVV:             utils.GenerateCVV(),
		ExpiryDate:      time.Now().Add(cardValidity),
		IsVirtual:       reqData.CardType == models.CardTypeVirtual,
		CardholderName:  cardholderName,
		PIN:             reqData.PIN,
		CreditLimit:     reqData.CreditLimit,
		DailyLimit:      reqData.DailyLimit,
		DeliveryAddress: reqData.DeliveryAddress,
		DeliveryCity:    reqData.DeliveryCity,
		DeliveryState:   reqData.DeliveryState,
		DeliveryZipCode: reqData.DeliveryZipCode,
		DeliveryCountry: reqData.DeliveryCountry,
	}

	if err := database.Database.Db.Create(&card).Error; err != nil {
		log.Printf("Error creating card: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create card!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Card created successfully.", card)
}

// UpdateCardStatus moves a card between ACTIVE, FROZEN and BLOCKED. Any
// transition is permitted, but only for the owner.
func UpdateCardStatus(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	cardId, err := c.ParamsInt("id")
	if err != nil || cardId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid card id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateStatus").(*cardValidator.UpdateStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var card models.Card
	if err := db.First(&card, cardId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Card not found", nil)
	}

	if card.UserID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Unauthorized", nil)
	}

	oldStatus := card.Status
	card.Status = reqData.Status
	if err := db.Save(&card).Error; err != nil {
		log.Printf("Error updating card status: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update card status!", nil)
	}

	if email, ok := middleware.SessionEmail(c); ok && oldStatus != card.Status {
		name, _ := c.Locals("name").(string)
		utils.SendCardStatusEmail(email, name, card.CardNumber, string(oldStatus), string(card.Status))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Card status updated.", card)
}

// DeleteCard removes a card and every transaction referencing it. The cascade
// is explicit at the application layer, inside one database transaction.
func DeleteCard(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	cardId, err := c.ParamsInt("id")
	if err != nil || cardId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid card id!", nil)
	}

	db := database.Database.Db

	var card models.Card
	if err := db.First(&card, cardId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Card not found", nil)
	}

	if card.UserID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Unauthorized", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ?", card.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&card).Error
	})
	if err != nil {
		log.Printf("Error deleting card: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete card!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Card deleted successfully", nil)
}
