package models

import (
	"time"

	"teesheet/src/types"
)

// Payment mirrors one Stripe payment intent. PaymentCode carries the intent
// id once the intent exists and Confirmed flips exactly once, on the
// payment_intent.succeeded webhook.
type Payment struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	EventID        uint       `json:"event_id,omitempty"`
	UserID         uint       `json:"user_id,omitempty"`
	RegistrationID uint       `json:"registration_id,omitempty"`
	PaymentCode    string     `gorm:"index" json:"payment_code,omitempty"`
	PaymentKey     *string    `json:"payment_key,omitempty"`
	PaymentAmount  float64    `json:"payment_amount"`
	TransactionFee float64    `json:"transaction_fee"`
	Confirmed      bool       `json:"confirmed"`
	ConfirmDate    *time.Time `json:"confirm_date,omitempty"`

	Event        Event        `gorm:"foreignKey:event_id" json:"-"`
	Registration Registration `gorm:"foreignKey:registration_id" json:"-"`

	types.Timestamps
}

type Refund struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	PaymentID    uint    `json:"payment_id,omitempty"`
	IssuerID     uint    `json:"issuer_id,omitempty"`
	RefundCode   string  `gorm:"uniqueIndex" json:"refund_code,omitempty"`
	RefundAmount float64 `json:"refund_amount"`
	Notes        string  `json:"notes,omitempty"`
	Confirmed    bool    `json:"confirmed"`

	Payment Payment `gorm:"foreignKey:payment_id" json:"-"`

	types.Timestamps
}
