package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/services"
	"github.com/campusops/records-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	userHandler       *UserHandler
	studentHandler    *StudentHandler
	teacherHandler    *TeacherHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	authMiddleware    *JWTAuthMiddleware

	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtSecret string,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		studentHandler:    NewStudentHandler(serviceManager.Student(), logger),
		teacherHandler:    NewTeacherHandler(serviceManager.Teacher(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		authMiddleware:    NewJWTAuthMiddleware(jwtSecret),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes. The role middleware mirrors the coarse
// policy matrix so unauthorized traffic is rejected at the boundary; the
// services re-check and add row-level scoping.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Public authentication endpoints
	router.POST("/register", hm.authHandler.Register)
	router.POST("/login", hm.authHandler.Login)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// User routes - Admins only
		users := v1.Group("/users")
		users.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
		}

		// Student routes - reads for Admins and Teachers, writes for Admins
		students := v1.Group("/students")
		{
			students.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleTeacher), hm.studentHandler.ListStudents)
			students.GET("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleTeacher), hm.studentHandler.GetStudent)
			students.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.CreateStudent)
			students.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.DeleteStudent)
		}

		// Teacher routes - Admins only
		teachers := v1.Group("/teachers")
		teachers.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			teachers.GET("", hm.teacherHandler.ListTeachers)
			teachers.GET("/:id", hm.teacherHandler.GetTeacher)
			teachers.POST("", hm.teacherHandler.CreateTeacher)
			teachers.PUT("/:id", hm.teacherHandler.UpdateTeacher)
			teachers.DELETE("/:id", hm.teacherHandler.DeleteTeacher)
		}

		// Course routes - reads for everyone authenticated, writes for Admins
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.DeleteCourse)
		}

		// Enrollment routes - reads for everyone authenticated (row-scoped in
		// the service), create/grade for Admins and Teachers, delete for
		// Admins
		enrollments := v1.Group("/enrollments")
		{
			enrollments.GET("", hm.enrollmentHandler.ListEnrollments)
			enrollments.GET("/:id", hm.enrollmentHandler.GetEnrollment)
			enrollments.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleTeacher), hm.enrollmentHandler.CreateEnrollment)
			enrollments.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleTeacher), hm.enrollmentHandler.UpdateEnrollment)
			enrollments.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.enrollmentHandler.DeleteEnrollment)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "records-service",
		})
	})
}
