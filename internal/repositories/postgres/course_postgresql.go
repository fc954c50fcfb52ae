package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/cache"
	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db          *gorm.DB
	cacheHelper *cache.CacheHelper
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:          db,
		cacheHelper: cache.NewCacheHelper(redisClient, "course:"),
	}
}

func (r *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	return repositories.TranslateError(
		db.WithContext(ctx).Create(course).Error,
		"courses.course_code already taken")
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := r.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)

	var course models.Course
	err := r.cacheHelper.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheTTL, func() (interface{}, error) {
		var dbCourse models.Course
		if err := db.WithContext(ctx).First(&dbCourse, id).Error; err != nil {
			return nil, repositories.TranslateError(err, "")
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.Course, int64, error) {
	db := r.getDB(tx)
	var courses []*models.Course
	var total int64

	query := db.WithContext(ctx).Model(&models.Course{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filters.Limit, filters.Offset)
	if err := query.Order("id asc").Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := repositories.TranslateError(
		db.WithContext(ctx).Save(course).Error,
		"courses.course_code already taken"); err != nil {
		return err
	}
	return r.cacheHelper.Delete(ctx, fmt.Sprintf("id:%d", course.ID))
}

// Delete removes the course, its enrollments and its teacher assignments in
// one transaction.
func (r *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseTeacher{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Course{}, id)
		if result.Error != nil {
			return repositories.TranslateError(result.Error, "")
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.cacheHelper.Delete(ctx, fmt.Sprintf("id:%d", id))
}

func (r *CoursePostgreSQL) AssignTeacher(ctx context.Context, tx *gorm.DB, courseID, teacherID uint) error {
	db := r.getDB(tx)
	assignment := models.CourseTeacher{CourseID: courseID, TeacherID: teacherID}
	return repositories.TranslateError(
		db.WithContext(ctx).Create(&assignment).Error,
		"course_teachers assignment already exists or references a missing row")
}

// ReplaceTeachers swaps the course's entire teacher set for the single given
// teacher, atomically.
func (r *CoursePostgreSQL) ReplaceTeachers(ctx context.Context, tx *gorm.DB, courseID, teacherID uint) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&models.CourseTeacher{}).Error; err != nil {
			return err
		}
		assignment := models.CourseTeacher{CourseID: courseID, TeacherID: teacherID}
		return repositories.TranslateError(
			tx.Create(&assignment).Error,
			"course_teachers assignment references a missing row")
	})
}

func (r *CoursePostgreSQL) GetTeachers(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Teacher, error) {
	db := r.getDB(tx)
	var teachers []*models.Teacher
	err := db.WithContext(ctx).
		Joins("JOIN course_teachers ON course_teachers.teacher_id = teachers.id").
		Where("course_teachers.course_id = ?", courseID).
		Order("teachers.id asc").
		Find(&teachers).Error
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *CoursePostgreSQL) GetCoursesByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error) {
	db := r.getDB(tx)
	var courses []*models.Course
	err := db.WithContext(ctx).
		Joins("JOIN course_teachers ON course_teachers.course_id = courses.id").
		Where("course_teachers.teacher_id = ?", teacherID).
		Order("courses.id asc").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}
