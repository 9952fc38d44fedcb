package models

import "teesheet/src/types"

type Player struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	FirstName   string  `json:"first_name,omitempty"`
	LastName    string  `json:"last_name,omitempty"`
	Email       string  `gorm:"uniqueIndex" json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	GHIN        *string `gorm:"uniqueIndex" json:"ghin,omitempty"`
	Tee         string  `gorm:"default:'Club'" json:"tee,omitempty"`
	IsMember    bool    `json:"is_member,omitempty"`

	types.Timestamps
}

func (p *Player) PlayerName() string {
	return p.FirstName + " " + p.LastName
}
