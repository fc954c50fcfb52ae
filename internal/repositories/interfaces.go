package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ListFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// EnrollmentFilters narrows enrollment collection reads. CourseIDs is used
// for teacher row-level scoping (only courses they teach); StudentID for
// student self-scoping.
type EnrollmentFilters struct {
	StudentID *uint  `json:"student_id"`
	CourseIDs []uint `json:"course_ids"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// ===== ENTITY REPOSITORIES =====
//
// Every method accepts an optional tx handle; a nil tx runs against the base
// connection. Services pass the transaction they obtained via
// Repository.WithTransaction when an operation spans several writes.

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	List(ctx context.Context, tx *gorm.DB, filters ListFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error)
	List(ctx context.Context, tx *gorm.DB, filters ListFilters) ([]*models.Student, int64, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	// Delete removes the student and cascades its enrollments atomically.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type TeacherRepository interface {
	Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Teacher, error)
	List(ctx context.Context, tx *gorm.DB, filters ListFilters) ([]*models.Teacher, int64, error)
	Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	List(ctx context.Context, tx *gorm.DB, filters ListFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	// Delete removes the course and cascades its enrollments and teacher
	// assignments atomically.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Teacher assignment join rows: explicit create/replace, never an
	// implicit side effect of list assignment.
	AssignTeacher(ctx context.Context, tx *gorm.DB, courseID, teacherID uint) error
	ReplaceTeachers(ctx context.Context, tx *gorm.DB, courseID, teacherID uint) error
	GetTeachers(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Teacher, error)
	GetCoursesByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	List(ctx context.Context, tx *gorm.DB, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}
