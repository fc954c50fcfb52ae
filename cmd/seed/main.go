// Command seed wipes the database and loads a small development dataset:
// one admin, one teacher with two courses, and two enrolled students.
package main

import (
	"log"

	"github.com/campusops/records-service/internal/config"
	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/services"
	"github.com/campusops/records-service/pkg"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Database seeded successfully")
}

func seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Clear existing data; order respects foreign keys.
		for _, model := range []interface{}{
			&models.Enrollment{},
			&models.CourseTeacher{},
			&models.Course{},
			&models.Student{},
			&models.Teacher{},
			&models.User{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		users := map[string]*models.User{
			"admin":    {Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin},
			"teacher1": {Username: "teacher1", Email: "teacher1@example.com", Role: models.RoleTeacher},
			"student1": {Username: "student1", Email: "student1@example.com", Role: models.RoleStudent},
			"student2": {Username: "student2", Email: "student2@example.com", Role: models.RoleStudent},
		}
		for name, user := range users {
			hash, err := services.HashPassword(name + "pass")
			if err != nil {
				return err
			}
			user.PasswordHash = hash
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		}

		teacher := &models.Teacher{
			UserID:      users["teacher1"].ID,
			TeacherCode: "T001",
			Name:        "Teacher One",
			Email:       users["teacher1"].Email,
		}
		if err := tx.Create(teacher).Error; err != nil {
			return err
		}

		student1 := &models.Student{
			UserID:      &users["student1"].ID,
			StudentCode: "S001",
			Name:        "Student One",
			Email:       users["student1"].Email,
		}
		student2 := &models.Student{
			UserID:      &users["student2"].ID,
			StudentCode: "S002",
			Name:        "Student Two",
			Email:       users["student2"].Email,
		}
		if err := tx.Create(student1).Error; err != nil {
			return err
		}
		if err := tx.Create(student2).Error; err != nil {
			return err
		}

		course1 := &models.Course{CourseName: "Introduction to Python", CourseCode: "PY101"}
		course2 := &models.Course{CourseName: "Web Development Basics", CourseCode: "WD101"}
		for _, course := range []*models.Course{course1, course2} {
			if err := tx.Create(course).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.CourseTeacher{CourseID: course.ID, TeacherID: teacher.ID}).Error; err != nil {
				return err
			}
		}

		enrollments := []*models.Enrollment{
			{StudentID: student1.ID, CourseID: course1.ID},
			{StudentID: student1.ID, CourseID: course2.ID},
			{StudentID: student2.ID, CourseID: course1.ID},
		}
		for _, enrollment := range enrollments {
			if err := tx.Create(enrollment).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
