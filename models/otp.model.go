package models

import (
	"time"

	"gorm.io/gorm"
)

// OTPPurpose is the action an OTP gates
type OTPPurpose string

const (
	OTPPurposeSignup   OTPPurpose = "signup"
	OTPPurposeSignin   OTPPurpose = "signin"
	OTPPurposeTransfer OTPPurpose = "transfer"
)

// IsValidOTPPurpose reports whether p is a known purpose
func IsValidOTPPurpose(p OTPPurpose) bool {
	return p == OTPPurposeSignup || p == OTPPurposeSignin || p == OTPPurposeTransfer
}

// OTP is a short-lived one-time code keyed by (email, purpose). Codes are
// single-use via the IsUsed flag; old rows are not deleted when a new code
// is generated, so several live codes can coexist for the same key.
type OTP struct {
	gorm.Model
	Email     string     `gorm:"size:100;not null;index" json:"email"`
	Code      string     `gorm:"size:6;not null" json:"code"`
	Purpose   OTPPurpose `gorm:"type:varchar(20);not null;index" json:"purpose"`
	IsUsed    bool       `gorm:"default:false" json:"isUsed"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
}
