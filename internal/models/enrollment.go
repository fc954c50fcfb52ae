package models

import (
	"time"
)

// Enrollment joins exactly one student and one course. The (student, course)
// pair is unique; grade is nullable and constrained to [0,100] by the
// business validator. Student and course references are immutable after
// creation; only the grade is mutable.
type Enrollment struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	StudentID uint     `json:"student_id" gorm:"uniqueIndex:uq_student_course;not null"`
	CourseID  uint     `json:"course_id" gorm:"uniqueIndex:uq_student_course;not null"`
	Grade     *float64 `json:"grade"`

	Student *Student `json:"-"`
	Course  *Course  `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
