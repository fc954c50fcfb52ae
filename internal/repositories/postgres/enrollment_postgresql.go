package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (r *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create relies on the composite unique index and FK constraints at commit:
// a duplicate (student, course) pair or a dangling reference comes back as a
// ConstraintError, never as a silently written row.
func (r *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := r.getDB(tx)
	return repositories.TranslateError(
		db.WithContext(ctx).Create(enrollment).Error,
		"student is already enrolled in this course, or student/course does not exist")
}

func (r *EnrollmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	db := r.getDB(tx)
	var enrollment models.Enrollment
	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		First(&enrollment, id).Error; err != nil {
		return nil, repositories.TranslateError(err, "")
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	db := r.getDB(tx)
	var enrollments []*models.Enrollment
	var total int64

	query := db.WithContext(ctx).Model(&models.Enrollment{})
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.CourseIDs != nil {
		query = query.Where("course_id IN ?", filters.CourseIDs)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filters.Limit, filters.Offset)
	if err := query.Preload("Student").Preload("Course").Order("id asc").Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}

func (r *EnrollmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := r.getDB(tx)
	return repositories.TranslateError(
		db.WithContext(ctx).Save(enrollment).Error,
		"student is already enrolled in this course")
}

func (r *EnrollmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Enrollment{}, id)
	if result.Error != nil {
		return repositories.TranslateError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
