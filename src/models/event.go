package models

import (
	"time"

	"teesheet/src/types"
)

// Event is a tee-sheet occasion members can sign up for. CanChoose events
// expose a pre-built grid of slots tied to course holes; on-demand events
// mint slots as groups register.
type Event struct {
	ID                     uint            `gorm:"primarykey" json:"id"`
	Name                   string          `json:"name,omitempty"`
	EventType              string          `json:"event_type,omitempty"`
	RegistrationType       string          `json:"registration_type,omitempty"`
	StartType              types.StartType `json:"start_type,omitempty"`
	CanChoose              bool            `json:"can_choose"`
	GroupSize              *int            `json:"group_size,omitempty"`
	TotalGroups            *int            `json:"total_groups,omitempty"`
	MinimumSignupGroupSize int             `json:"minimum_signup_group_size,omitempty"`
	MaximumSignupGroupSize int             `json:"maximum_signup_group_size,omitempty"`
	RegistrationMaximum    *int            `json:"registration_maximum,omitempty"`
	SignupStart            *time.Time      `json:"signup_start,omitempty"`
	SignupEnd              *time.Time      `json:"signup_end,omitempty"`
	PrioritySignupStart    *time.Time      `json:"priority_signup_start,omitempty"`
	SignupWaves            *int            `json:"signup_waves,omitempty"`
	StarterTimeInterval    int             `json:"starter_time_interval,omitempty"`
	Season                 int             `json:"season,omitempty"`
	StartDate              *time.Time      `json:"start_date,omitempty"`

	Fees []EventFee `json:"fees,omitempty"`

	types.Timestamps
}

type EventFee struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	EventID      uint    `json:"event_id,omitempty"`
	Name         string  `json:"name,omitempty"`
	Amount       float64 `json:"amount"`
	IsRequired   bool    `json:"is_required"`
	DisplayOrder int     `json:"display_order,omitempty"`

	Event Event `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}
