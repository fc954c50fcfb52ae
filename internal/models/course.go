package models

import (
	"time"
)

// Course owns its enrollments and its teacher assignments exclusively:
// deleting a course deletes both dependent sets.
type Course struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CourseName string `json:"course_name" gorm:"not null;size:100"`
	CourseCode string `json:"course_code" gorm:"uniqueIndex;not null;size:20"`

	CourseTeachers []CourseTeacher `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Enrollments    []Enrollment    `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseTeacher is the explicit many-to-many join between courses and
// teachers. Assignments are created and removed as distinct rows, never as a
// side effect of list assignment.
type CourseTeacher struct {
	CourseID  uint `json:"course_id" gorm:"primaryKey;autoIncrement:false"`
	TeacherID uint `json:"teacher_id" gorm:"primaryKey;autoIncrement:false"`

	Course  *Course  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Teacher *Teacher `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (CourseTeacher) TableName() string {
	return "course_teachers"
}
