package utils

import (
	"fmt"
	"testing"
	"time"

	"zbank/config"
	"zbank/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubMailer struct {
	sent []string
}

func (m *stubMailer) Send(to []string, subject, htmlBody string) error {
	m.sent = append(m.sent, to...)
	return nil
}

func setupOTPTest(t *testing.T) (*gorm.DB, *stubMailer) {
	t.Helper()

	config.AppConfig = &config.Config{Env: "development", SaltRound: 10}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OTP{}))

	mailer := &stubMailer{}
	ActiveMailer = mailer
	return db, mailer
}

func TestCreateAndSendOTP(t *testing.T) {
	db, mailer := setupOTPTest(t)

	code, err := CreateAndSendOTP(db, "alice@example.com", models.OTPPurposeTransfer)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent)

	var record models.OTP
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&record).Error)
	assert.Equal(t, code, record.Code)
	assert.Equal(t, models.OTPPurposeTransfer, record.Purpose)
	assert.False(t, record.IsUsed)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), record.ExpiresAt, 10*time.Second)
}

func TestVerifyOTPCodeSingleUse(t *testing.T) {
	db, _ := setupOTPTest(t)

	code, err := CreateAndSendOTP(db, "bob@example.com", models.OTPPurposeSignup)
	require.NoError(t, err)

	assert.True(t, VerifyOTPCode(db, "bob@example.com", code, models.OTPPurposeSignup))
	// Replaying the same code must fail once it has been consumed
	assert.False(t, VerifyOTPCode(db, "bob@example.com", code, models.OTPPurposeSignup))
}

func TestVerifyOTPCodeExpired(t *testing.T) {
	db, _ := setupOTPTest(t)

	expired := models.OTP{
		Email:     "carol@example.com",
		Code:      "123456",
		Purpose:   models.OTPPurposeTransfer,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&expired).Error)

	assert.False(t, VerifyOTPCode(db, "carol@example.com", "123456", models.OTPPurposeTransfer))
}

func TestVerifyOTPCodeWrongPurpose(t *testing.T) {
	db, _ := setupOTPTest(t)

	code, err := CreateAndSendOTP(db, "dave@example.com", models.OTPPurposeSignup)
	require.NoError(t, err)

	assert.False(t, VerifyOTPCode(db, "dave@example.com", code, models.OTPPurposeTransfer))
	// Still usable for its real purpose afterwards
	assert.True(t, VerifyOTPCode(db, "dave@example.com", code, models.OTPPurposeSignup))
}

func TestMultipleOutstandingOTPsCoexist(t *testing.T) {
	db, _ := setupOTPTest(t)

	first, err := CreateAndSendOTP(db, "erin@example.com", models.OTPPurposeTransfer)
	require.NoError(t, err)
	second, err := CreateAndSendOTP(db, "erin@example.com", models.OTPPurposeTransfer)
	require.NoError(t, err)

	// Generating a new code does not invalidate the previous one; each is
	// accepted exactly once.
	assert.True(t, VerifyOTPCode(db, "erin@example.com", first, models.OTPPurposeTransfer))
	if first != second {
		assert.True(t, VerifyOTPCode(db, "erin@example.com", second, models.OTPPurposeTransfer))
	}
	assert.False(t, VerifyOTPCode(db, "erin@example.com", first, models.OTPPurposeTransfer))
}
