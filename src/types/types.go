package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

// SlotStatus is the single-letter status cycle carried on every tee-sheet
// slot. A slot holds exactly one of these at a time; Reserved is the only
// paid state and Unavailable is operator-blocked.
type SlotStatus string

const (
	SLOT_AVAILABLE   SlotStatus = "A"
	SLOT_PENDING     SlotStatus = "P"
	SLOT_PROCESSING  SlotStatus = "X"
	SLOT_RESERVED    SlotStatus = "R"
	SLOT_UNAVAILABLE SlotStatus = "U"
)

type RegistrationWindow string

const (
	WINDOW_NA           RegistrationWindow = "n/a"
	WINDOW_PAST         RegistrationWindow = "past"
	WINDOW_PRIORITY     RegistrationWindow = "priority"
	WINDOW_REGISTRATION RegistrationWindow = "registration"
	WINDOW_FUTURE       RegistrationWindow = "future"
)

type StartType string

const (
	START_TEE_TIMES StartType = "TT"
	START_SHOTGUN   StartType = "SG"
	START_NONE      StartType = "NA"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type SlotRequest struct {
	ID uint `json:"id" binding:"required"`
}

type HoleRequestParams struct {
	ID     uint `uri:"id" binding:"required"`
	HoleID uint `uri:"hole" binding:"required"`
}

type BuildSlotSheetRequestBody struct {
	CourseID uint `json:"course" binding:"required"`
}

type RemoveHoleGroupRequestBody struct {
	StartingOrder *int `json:"starting_order" binding:"required"`
}

type CreateRegistrationRequestBody struct {
	EventID  uint          `json:"event" binding:"required"`
	CourseID *uint         `json:"course,omitempty"`
	Slots    []SlotRequest `json:"slots"`
	Notes    string        `json:"notes,omitempty"`
}

type UpdatePlayerRequestBody struct {
	FirstName   string  `json:"first_name,omitempty"`
	LastName    string  `json:"last_name,omitempty"`
	GHIN        *string `json:"ghin,omitempty" binding:"omitempty,ghin"`
	Tee         string  `json:"tee,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type UpdateRegistrationRequestBody struct {
	Notes string `json:"notes"`
}

type CancelRegistrationRequestBody struct {
	PaymentID *uint  `json:"payment,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type PaymentFeeRequest struct {
	EventFeeID uint `json:"event_fee" binding:"required"`
	SlotID     uint `json:"slot" binding:"required"`
}

type CreatePaymentRequestBody struct {
	EventID        uint                `json:"event" binding:"required"`
	RegistrationID uint                `json:"registration" binding:"required"`
	Fees           []PaymentFeeRequest `json:"fees" binding:"required,min=1,dive"`
}

type CreateRefundRequestBody struct {
	PaymentID uint    `json:"payment" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Notes     string  `json:"notes,omitempty"`
}
