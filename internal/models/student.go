package models

import (
	"time"
)

// Student is an academic profile, optionally linked to a login user.
// Deleting a student deletes its enrollments (exclusive ownership).
type Student struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	UserID      *uint   `json:"user_id" gorm:"uniqueIndex"`
	StudentCode string  `json:"student_code" gorm:"uniqueIndex;not null;size:20"`
	Name        string  `json:"name" gorm:"not null;size:100"`
	Email       string  `json:"email" gorm:"uniqueIndex;not null;size:120"`

	User        *User        `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Enrollments []Enrollment `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}
