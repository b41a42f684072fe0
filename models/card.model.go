package models

import (
	"time"

	"gorm.io/gorm"
)

// CardType defines whether a card is physical or virtual
type CardType string

const (
	CardTypePhysical CardType = "PHYSICAL"
	CardTypeVirtual  CardType = "VIRTUAL"
)

// CardStatus defines the lifecycle state of a card
type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusFrozen  CardStatus = "FROZEN"
	CardStatusBlocked CardStatus = "BLOCKED"
)

// Card is a spendable instrument with its own balance, owned by one user.
// Balance mutations happen only inside the payment and transfer flows,
// and only while the card is ACTIVE.
type Card struct {
	gorm.Model
	UserID         uint       `gorm:"not null;index" json:"userId"`
	CardNumber     string     `gorm:"size:16;not null" json:"cardNumber"`
	CardType       CardType   `gorm:"type:varchar(20);not null" json:"cardType"`
	Status         CardStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	Balance        float64    `gorm:"not null" json:"balance"`
	Scheme         string     `gorm:"size:50;not null" json:"scheme"`
	CVV            string     `gorm:"size:3;not null" json:"-"`
	ExpiryDate     time.Time  `gorm:"not null" json:"expiryDate"`
	IsVirtual      bool       `gorm:"default:false" json:"isVirtual"`
	CardholderName string     `gorm:"size:100" json:"cardholderName"`
	PIN            string     `gorm:"size:4" json:"-"`
	CreditLimit    float64    `gorm:"default:0" json:"creditLimit"`
	DailyLimit     float64    `gorm:"default:1000" json:"dailyLimit"`

	// Delivery details, set only for physical cards
	DeliveryAddress string `gorm:"size:255" json:"deliveryAddress,omitempty"`
	DeliveryCity    string `gorm:"size:100" json:"deliveryCity,omitempty"`
	DeliveryState   string `gorm:"size:100" json:"deliveryState,omitempty"`
	DeliveryZipCode string `gorm:"size:20" json:"deliveryZipCode,omitempty"`
	DeliveryCountry string `gorm:"size:100" json:"deliveryCountry,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:CardID" json:"transactions,omitempty"`
}
