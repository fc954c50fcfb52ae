package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/repositories"
)

type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (r *StudentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	return repositories.TranslateError(
		db.WithContext(ctx).Create(student).Error,
		"students.student_code, students.email or students.user_id already taken")
}

func (r *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).Preload("Enrollments").First(&student, id).Error; err != nil {
		return nil, repositories.TranslateError(err, "")
	}
	return &student, nil
}

func (r *StudentPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, repositories.TranslateError(err, "")
	}
	return &student, nil
}

func (r *StudentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.Student, int64, error) {
	db := r.getDB(tx)
	var students []*models.Student
	var total int64

	query := db.WithContext(ctx).Model(&models.Student{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filters.Limit, filters.Offset)
	if err := query.Order("id asc").Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	return repositories.TranslateError(
		db.WithContext(ctx).Save(student).Error,
		"students.student_code, students.email or students.user_id already taken")
}

// Delete removes the student and its enrollments in one transaction. The
// explicit enrollment delete keeps the cascade visible even on databases
// where the FK constraint was not migrated.
func (r *StudentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Student{}, id)
		if result.Error != nil {
			return repositories.TranslateError(result.Error, "")
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}
