package models

import (
	"time"

	"teesheet/src/types"
)

// Registration groups the slots one signup holds together with who made it
// and when the hold lapses. Expires is advisory until the sweep runs.
type Registration struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	EventID    uint       `json:"event_id,omitempty"`
	CourseID   *uint      `json:"course_id,omitempty"`
	UserID     uint       `json:"user_id,omitempty"`
	SignedUpBy string     `json:"signed_up_by,omitempty"`
	Expires    *time.Time `json:"expires,omitempty"`
	Notes      string     `json:"notes,omitempty"`

	Event  Event              `gorm:"foreignKey:event_id" json:"-"`
	Course *Course            `gorm:"foreignKey:course_id" json:"course,omitempty"`
	Slots  []RegistrationSlot `json:"slots,omitempty"`

	types.Timestamps
}

type RegistrationSlot struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	EventID        uint             `json:"event_id,omitempty"`
	HoleID         *uint            `json:"hole_id,omitempty"`
	RegistrationID *uint            `json:"registration_id,omitempty"`
	PlayerID       *uint            `json:"player_id,omitempty"`
	StartingOrder  int              `json:"starting_order"`
	SlotNumber     int              `json:"slot_number"`
	Status         types.SlotStatus `gorm:"default:'A'" json:"status"`

	Event        Event         `gorm:"foreignKey:event_id" json:"-"`
	Hole         *Hole         `gorm:"foreignKey:hole_id" json:"hole,omitempty"`
	Registration *Registration `gorm:"foreignKey:registration_id" json:"-"`
	Player       *Player       `gorm:"foreignKey:player_id" json:"player,omitempty"`

	types.Timestamps
}

type RegistrationFee struct {
	ID                 uint  `gorm:"primarykey" json:"id"`
	EventFeeID         uint  `json:"event_fee_id,omitempty"`
	RegistrationSlotID uint  `json:"registration_slot_id,omitempty"`
	PaymentID          *uint `json:"payment_id,omitempty"`
	IsPaid             bool  `json:"is_paid"`

	EventFee         EventFee         `gorm:"foreignKey:event_fee_id" json:"event_fee,omitempty"`
	RegistrationSlot RegistrationSlot `gorm:"foreignKey:registration_slot_id" json:"-"`

	types.Timestamps
}
