package models

import "teesheet/src/types"

type Course struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `json:"name,omitempty"`

	Holes []Hole `json:"holes,omitempty"`

	types.Timestamps
}

type Hole struct {
	ID         uint `gorm:"primarykey" json:"id"`
	CourseID   uint `json:"course_id,omitempty"`
	HoleNumber int  `json:"hole_number,omitempty"`
	Par        int  `json:"par,omitempty"`

	Course Course `gorm:"foreignKey:course_id" json:"-"`

	types.Timestamps
}
