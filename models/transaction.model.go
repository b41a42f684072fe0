package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionType enumerates the supported money movement categories
type TransactionType string

const (
	TransactionTypePayment        TransactionType = "PAYMENT"
	TransactionTypeRefund         TransactionType = "REFUND"
	TransactionTypeTopUp          TransactionType = "TOP_UP"
	TransactionTypeTransfer       TransactionType = "TRANSFER"
	TransactionTypeBillPayment    TransactionType = "BILL_PAYMENT"
	TransactionTypeMobileRecharge TransactionType = "MOBILE_RECHARGE"
	TransactionTypeQRPayment      TransactionType = "QR_PAYMENT"
	TransactionTypeInternetBill   TransactionType = "INTERNET_BILL"
	TransactionTypeElectricity    TransactionType = "ELECTRICITY_BILL"
	TransactionTypeGasBill        TransactionType = "GAS_BILL"
	TransactionTypeWaterBill      TransactionType = "WATER_BILL"
	TransactionTypeCableTV        TransactionType = "CABLE_TV"
	TransactionTypeInsurance      TransactionType = "INSURANCE"
	TransactionTypeEducationFees  TransactionType = "EDUCATION_FEES"
	TransactionTypeHealthcare     TransactionType = "HEALTHCARE"
	TransactionTypeTransport      TransactionType = "TRANSPORT"
)

// TransactionStatus defines the status of a transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// paymentTypes are the categories that debit a card and require a balance check
var paymentTypes = map[TransactionType]bool{
	TransactionTypePayment:        true,
	TransactionTypeBillPayment:    true,
	TransactionTypeMobileRecharge: true,
	TransactionTypeQRPayment:      true,
	TransactionTypeInternetBill:   true,
	TransactionTypeElectricity:    true,
	TransactionTypeGasBill:        true,
	TransactionTypeWaterBill:      true,
	TransactionTypeCableTV:        true,
	TransactionTypeInsurance:      true,
	TransactionTypeEducationFees:  true,
	TransactionTypeHealthcare:     true,
	TransactionTypeTransport:      true,
}

// IsPaymentType reports whether the given type debits the card balance
func IsPaymentType(t TransactionType) bool {
	return paymentTypes[t]
}

// IsValidTransactionType reports whether t is one of the known categories
func IsValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeRefund, TransactionTypeTopUp, TransactionTypeTransfer:
		return true
	}
	return paymentTypes[t]
}

// Transaction is an append-only record of a money movement, linked to a card
// and a user. Rows are never mutated after creation.
type Transaction struct {
	gorm.Model
	CardID       uint              `gorm:"not null;index" json:"cardId"`
	UserID       uint              `gorm:"not null;index" json:"userId"`
	Amount       float64           `gorm:"not null" json:"amount"`
	Type         TransactionType   `gorm:"type:varchar(50);not null" json:"type"`
	Status       TransactionStatus `gorm:"type:varchar(20);default:'COMPLETED'" json:"status"`
	Description  string            `gorm:"type:text" json:"description"`
	MerchantName string            `gorm:"size:255" json:"merchantName"`
	Category     string            `gorm:"size:100" json:"category"`
	Reference    string            `gorm:"size:36;index" json:"reference"`
	Metadata     datatypes.JSON    `json:"metadata,omitempty"`
}
