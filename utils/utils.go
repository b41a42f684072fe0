package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// GenerateCardNumber generates a 16-digit card number
func GenerateCardNumber() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	number := ""
	for i := 0; i < 16; i++ {
		number += fmt.Sprintf("%d", rng.Intn(10))
	}
	return number
}

// GenerateCVV generates a 3-digit CVV
func GenerateCVV() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cvv := ""
	for i := 0; i < 3; i++ {
		cvv += fmt.Sprintf("%d", rng.Intn(10))
	}
	return cvv
}

// MaskCardNumber returns the last four digits prefixed with asterisks
func MaskCardNumber(cardNumber string) string {
	if len(cardNumber) < 4 {
		return cardNumber
	}
	return "**** **** **** " + cardNumber[len(cardNumber)-4:]
}
