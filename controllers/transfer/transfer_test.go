package transferController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zbank/config"
	"zbank/database"
	"zbank/models"
	"zbank/utils"
	transferValidator "zbank/validators/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubMailer struct{}

func (stubMailer) Send(to []string, subject, htmlBody string) error { return nil }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{Env: "development", SaltRound: 10, JWTKey: "test-secret"}
	utils.ActiveMailer = stubMailer{}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.Database = database.DbInstance{Db: db}
	return db
}

func fakeAuth(userID uint, email, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		c.Locals("email", email)
		c.Locals("name", name)
		return c.Next()
	}
}

func newTransferApp(userID uint, email, name string) *fiber.App {
	app := fiber.New()
	app.Post("/transfers", transferValidator.Transfer(), fakeAuth(userID, email, name), CreateTransfer)
	app.Get("/transfers/recipient-cards", fakeAuth(userID, email, name), GetRecipientCards)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func parseBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, Password: "not-a-real-hash"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCard(t *testing.T, db *gorm.DB, userID uint, balance float64, status models.CardStatus) *models.Card {
	t.Helper()

	card := models.Card{
		UserID:     userID,
		CardNumber: utils.GenerateCardNumber(),
		CardType:   models.CardTypeVirtual,
		Status:     status,
		Balance:    balance,
		Scheme:     "VISA",
		CVV:        "123",
		ExpiryDate: time.Now().Add(24 * time.Hour),
		DailyLimit: 1000,
	}
	require.NoError(t, db.Create(&card).Error)
	return &card
}

func seedOTP(t *testing.T, db *gorm.DB, email, code string, purpose models.OTPPurpose) {
	t.Helper()

	otp := models.OTP{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	require.NoError(t, db.Create(&otp).Error)
}

func transferBody(recipientEmail string, cardID uint, amount float64, otp string) map[string]interface{} {
	return map[string]interface{}{
		"recipientEmail": recipientEmail,
		"cardId":         cardID,
		"amount":         amount,
		"description":    "Lunch",
		"otp":            otp,
	}
}

func reloadCard(t *testing.T, db *gorm.DB, id uint) models.Card {
	t.Helper()
	var card models.Card
	require.NoError(t, db.First(&card, id).Error)
	return card
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&n).Error)
	return n
}

func TestTransferCardToCard(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusActive)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	recipientCard := createCard(t, db, recipient.ID, 10, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", transferBody(recipient.Email, senderCard.ID, 40, "111111"))

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := parseBody(t, resp)
	transfer := body["data"].(map[string]interface{})["transfer"].(map[string]interface{})
	assert.Equal(t, "card-to-card", transfer["transferType"])
	assert.Equal(t, recipient.Email, transfer["recipient"])

	assert.Equal(t, float64(60), reloadCard(t, db, senderCard.ID).Balance)
	assert.Equal(t, float64(50), reloadCard(t, db, recipientCard.ID).Balance)
	assert.Equal(t, int64(2), countTransactions(t, db))

	// Money is conserved: recipient's account balance stays untouched
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, recipient.ID).Error)
	assert.Equal(t, float64(0), reloaded.Balance)
}

func TestTransferInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 50, models.CardStatusActive)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	recipientCard := createCard(t, db, recipient.ID, 10, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", transferBody(recipient.Email, senderCard.ID, 100, "111111"))

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient balance", parseBody(t, resp)["message"])

	assert.Equal(t, float64(50), reloadCard(t, db, senderCard.ID).Balance)
	assert.Equal(t, float64(10), reloadCard(t, db, recipientCard.ID).Balance)
	assert.Equal(t, int64(0), countTransactions(t, db))
}

func TestTransferToSelf(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", transferBody(sender.Email, senderCard.ID, 10, "111111"))

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot transfer to yourself", parseBody(t, resp)["message"])

	assert.Equal(t, float64(100), reloadCard(t, db, senderCard.ID).Balance)
	assert.Equal(t, int64(0), countTransactions(t, db))
}

func TestTransferFallsBackToAccountBalance(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusActive)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	// Two active cards and no explicit choice: the credit must land on the
	// recipient's account balance, not on either card.
	cardA := createCard(t, db, recipient.ID, 10, models.CardStatusActive)
	cardB := createCard(t, db, recipient.ID, 20, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", transferBody(recipient.Email, senderCard.ID, 40, "111111"))

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := parseBody(t, resp)
	transfer := body["data"].(map[string]interface{})["transfer"].(map[string]interface{})
	assert.Equal(t, "account-balance", transfer["transferType"])

	assert.Equal(t, float64(60), reloadCard(t, db, senderCard.ID).Balance)
	assert.Equal(t, float64(10), reloadCard(t, db, cardA.ID).Balance)
	assert.Equal(t, float64(20), reloadCard(t, db, cardB.ID).Balance)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, recipient.ID).Error)
	assert.Equal(t, float64(40), reloaded.Balance)

	// The credit row keeps the sender's card as history back-reference
	var credit models.Transaction
	require.NoError(t, db.Where("user_id = ?", recipient.ID).First(&credit).Error)
	assert.Equal(t, senderCard.ID, credit.CardID)
}

func TestTransferToChosenRecipientCard(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusActive)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	cardA := createCard(t, db, recipient.ID, 10, models.CardStatusActive)
	cardB := createCard(t, db, recipient.ID, 20, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	body := transferBody(recipient.Email, senderCard.ID, 25, "111111")
	body["recipientCardId"] = cardB.ID

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", body)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	respBody := parseBody(t, resp)
	transfer := respBody["data"].(map[string]interface{})["transfer"].(map[string]interface{})
	assert.Equal(t, "card-to-card", transfer["transferType"])

	assert.Equal(t, float64(75), reloadCard(t, db, senderCard.ID).Balance)
	assert.Equal(t, float64(10), reloadCard(t, db, cardA.ID).Balance)
	assert.Equal(t, float64(45), reloadCard(t, db, cardB.ID).Balance)
}

func TestTransferRejectsForeignRecipientCard(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusActive)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	createCard(t, db, recipient.ID, 10, models.CardStatusActive)
	other := createUser(t, db, "Carol", "carol@example.com")
	otherCard := createCard(t, db, other.ID, 10, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	body := transferBody(recipient.Email, senderCard.ID, 25, "111111")
	body["recipientCardId"] = otherCard.ID

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", body)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid recipient card", parseBody(t, resp)["message"])
	assert.Equal(t, int64(0), countTransactions(t, db))
}

func TestTransferRejectsFrozenRecipientCardChoice(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusActive)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	frozenCard := createCard(t, db, recipient.ID, 10, models.CardStatusFrozen)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	body := transferBody(recipient.Email, senderCard.ID, 25, "111111")
	body["recipientCardId"] = frozenCard.ID

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", body)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid recipient card", parseBody(t, resp)["message"])
}

func TestTransferInvalidOTP(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusActive)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	createCard(t, db, recipient.ID, 10, models.CardStatusActive)

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", transferBody(recipient.Email, senderCard.ID, 40, "999999"))

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid or expired OTP", parseBody(t, resp)["message"])
	assert.Equal(t, float64(100), reloadCard(t, db, senderCard.ID).Balance)
	assert.Equal(t, int64(0), countTransactions(t, db))
}

func TestTransferInactiveSenderCard(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusFrozen)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	createCard(t, db, recipient.ID, 10, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", transferBody(recipient.Email, senderCard.ID, 40, "111111"))

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Card is not active", parseBody(t, resp)["message"])
}

func TestTransferSenderCardNotOwned(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	other := createUser(t, db, "Carol", "carol@example.com")
	otherCard := createCard(t, db, other.ID, 100, models.CardStatusActive)
	recipient := createUser(t, db, "Bob", "bob@example.com")
	createCard(t, db, recipient.ID, 10, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", transferBody(recipient.Email, otherCard.ID, 40, "111111"))

	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestTransferRecipientNotFound(t *testing.T) {
	db := setupTestDB(t)

	sender := createUser(t, db, "Alice", "alice@example.com")
	senderCard := createCard(t, db, sender.ID, 100, models.CardStatusActive)

	seedOTP(t, db, sender.Email, "111111", models.OTPPurposeTransfer)

	app := newTransferApp(sender.ID, sender.Email, sender.Name)
	resp := doRequest(t, app, "POST", "/transfers", transferBody("ghost@example.com", senderCard.ID, 40, "111111"))

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Recipient not found", parseBody(t, resp)["message"])
}

func TestGetRecipientCards(t *testing.T) {
	db := setupTestDB(t)

	caller := createUser(t, db, "Alice", "alice@example.com")
	recipient := createUser(t, db, "Bob", "bob@example.com")
	createCard(t, db, recipient.ID, 10, models.CardStatusActive)
	createCard(t, db, recipient.ID, 20, models.CardStatusFrozen)

	app := newTransferApp(caller.ID, caller.Email, caller.Name)
	resp := doRequest(t, app, "GET", "/transfers/recipient-cards?email=bob@example.com", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := parseBody(t, resp)["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "bob@example.com", user["email"])

	// Only active cards are offered as transfer targets
	cards := data["cards"].([]interface{})
	assert.Len(t, cards, 1)
}

func TestGetRecipientCardsMissingEmail(t *testing.T) {
	db := setupTestDB(t)
	caller := createUser(t, db, "Alice", "alice@example.com")

	app := newTransferApp(caller.ID, caller.Email, caller.Name)
	resp := doRequest(t, app, "GET", "/transfers/recipient-cards", nil)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetRecipientCardsUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	caller := createUser(t, db, "Alice", "alice@example.com")

	app := newTransferApp(caller.ID, caller.Email, caller.Name)
	resp := doRequest(t, app, "GET", "/transfers/recipient-cards?email=ghost@example.com", nil)

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
