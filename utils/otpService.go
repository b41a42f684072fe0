package utils

import (
	"log"
	"time"

	"zbank/models"

	"gorm.io/gorm"
)

// otpTTL is how long a generated code stays valid
const otpTTL = 5 * time.Minute

// CreateAndSendOTP generates a 6-digit code for (email, purpose), persists it
// with a 5-minute expiry and dispatches it by email. Previously issued codes
// are left untouched, so several live codes can coexist.
func CreateAndSendOTP(db *gorm.DB, email string, purpose models.OTPPurpose) (string, error) {
	code := GenerateOTP()

	otpRecord := models.OTP{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(otpTTL),
	}

	if err := db.Create(&otpRecord).Error; err != nil {
		log.Printf("Error saving OTP record: %v", err)
		return "", err
	}

	if err := SendOTPEmail(email, code, string(purpose)); err != nil {
		return "", err
	}

	return code, nil
}

// VerifyOTPCode checks the most recent matching unused, unexpired code for
// (email, purpose) and marks it used on success. A code is accepted at most
// once; replays fail here because the row no longer matches is_used = false.
func VerifyOTPCode(db *gorm.DB, email, code string, purpose models.OTPPurpose) bool {
	var otpRecord models.OTP

	err := db.Where(
		"email = ? AND code = ? AND purpose = ? AND is_used = ? AND expires_at > ?",
		email, code, purpose, false, time.Now(),
	).Order("created_at DESC").First(&otpRecord).Error
	if err != nil {
		return false
	}

	otpRecord.IsUsed = true
	if err := db.Save(&otpRecord).Error; err != nil {
		log.Printf("Error marking OTP as used: %v", err)
		return false
	}

	return true
}
