package models

import (
	"time"
)

// Teacher is an academic profile with a mandatory login user. Teachers relate
// to courses through explicit CourseTeacher join rows.
type Teacher struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	TeacherCode string `json:"teacher_code" gorm:"uniqueIndex;not null;size:20"`
	Name        string `json:"name" gorm:"not null;size:100"`
	Email       string `json:"email" gorm:"uniqueIndex;not null;size:120"`

	// Deleting a user with a teacher profile must fail at the FK, not
	// cascade the profile away.
	User           *User           `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	CourseTeachers []CourseTeacher `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Teacher) TableName() string {
	return "teachers"
}
