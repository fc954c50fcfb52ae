package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/repositories"
)

type TeacherPostgreSQL struct {
	db *gorm.DB
}

func NewTeacherPostgreSQL(db *gorm.DB) repositories.TeacherRepository {
	return &TeacherPostgreSQL{db: db}
}

func (r *TeacherPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *TeacherPostgreSQL) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	db := r.getDB(tx)
	return repositories.TranslateError(
		db.WithContext(ctx).Create(teacher).Error,
		"teachers.teacher_code, teachers.email or teachers.user_id already taken")
}

func (r *TeacherPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	db := r.getDB(tx)
	var teacher models.Teacher
	if err := db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return nil, repositories.TranslateError(err, "")
	}
	return &teacher, nil
}

func (r *TeacherPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Teacher, error) {
	db := r.getDB(tx)
	var teacher models.Teacher
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, repositories.TranslateError(err, "")
	}
	return &teacher, nil
}

func (r *TeacherPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.Teacher, int64, error) {
	db := r.getDB(tx)
	var teachers []*models.Teacher
	var total int64

	query := db.WithContext(ctx).Model(&models.Teacher{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filters.Limit, filters.Offset)
	if err := query.Order("id asc").Find(&teachers).Error; err != nil {
		return nil, 0, err
	}

	return teachers, total, nil
}

func (r *TeacherPostgreSQL) Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	db := r.getDB(tx)
	return repositories.TranslateError(
		db.WithContext(ctx).Save(teacher).Error,
		"teachers.teacher_code, teachers.email or teachers.user_id already taken")
}

func (r *TeacherPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Teacher assignments are join rows owned jointly with the course;
		// removing the teacher removes its assignments but leaves courses
		// and enrollments untouched.
		if err := tx.Where("teacher_id = ?", id).Delete(&models.CourseTeacher{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Teacher{}, id)
		if result.Error != nil {
			return repositories.TranslateError(result.Error, "")
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}
