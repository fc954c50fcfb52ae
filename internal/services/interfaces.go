package services

import (
	"context"

	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/policy"
	"github.com/campusops/records-service/internal/repositories"
	"github.com/campusops/records-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request shapes live with the validator so the boundary layer and the
// services share one set of validation tags.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UserUpdateRequest = validator.UserUpdateRequest
type StudentCreateRequest = validator.StudentCreateRequest
type StudentUpdateRequest = validator.StudentUpdateRequest
type TeacherCreateRequest = validator.TeacherCreateRequest
type TeacherUpdateRequest = validator.TeacherUpdateRequest
type CourseCreateRequest = validator.CourseCreateRequest
type CourseUpdateRequest = validator.CourseUpdateRequest
type EnrollmentCreateRequest = validator.EnrollmentCreateRequest
type EnrollmentUpdateRequest = validator.EnrollmentUpdateRequest

type TokenResponse struct {
	AccessToken string               `json:"access_token"`
	User        *models.UserResponse `json:"user"`
}

type UserListResponse struct {
	Users []*models.UserResponse `json:"users"`
	Total int64                  `json:"total"`
}

type StudentListResponse struct {
	Students []*models.StudentResponse `json:"students"`
	Total    int64                     `json:"total"`
}

type TeacherListResponse struct {
	Teachers []*models.TeacherResponse `json:"teachers"`
	Total    int64                     `json:"total"`
}

type CourseListResponse struct {
	Courses []*models.CourseResponse `json:"courses"`
	Total   int64                    `json:"total"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.EnrollmentResponse `json:"enrollments"`
	Total       int64                        `json:"total"`
}

// ===== SERVICE INTERFACES =====
//
// Every operation takes the already-authenticated actor, runs the policy
// check before any store access, then business validation, then the store
// mutation inside one transaction, and finally returns a shaped projection.

type AuthService interface {
	// Register is self-service and unauthenticated; it is the only write
	// path not gated by the policy engine.
	Register(ctx context.Context, req *RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
}

type UserService interface {
	GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.UserResponse, error)
	List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*UserListResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uint, req *UserUpdateRequest) (*models.UserResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id uint) error
}

type StudentService interface {
	Create(ctx context.Context, actor policy.Actor, req *StudentCreateRequest) (*models.StudentResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.StudentResponse, error)
	List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*StudentListResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uint, req *StudentUpdateRequest) (*models.StudentResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id uint) error
}

type TeacherService interface {
	Create(ctx context.Context, actor policy.Actor, req *TeacherCreateRequest) (*models.TeacherResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.TeacherResponse, error)
	List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*TeacherListResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uint, req *TeacherUpdateRequest) (*models.TeacherResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id uint) error
}

type CourseService interface {
	Create(ctx context.Context, actor policy.Actor, req *CourseCreateRequest) (*models.CourseResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.CourseResponse, error)
	List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*CourseListResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uint, req *CourseUpdateRequest) (*models.CourseResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id uint) error
}

type EnrollmentService interface {
	Create(ctx context.Context, actor policy.Actor, req *EnrollmentCreateRequest) (*models.EnrollmentResponse, error)
	GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.EnrollmentResponse, error)
	// List is row-level scoped: admins see everything, teachers only
	// enrollments of courses they teach, students only their own.
	List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*EnrollmentListResponse, error)
	// SetGrade is the only enrollment mutation besides delete; the student
	// and course references are immutable.
	SetGrade(ctx context.Context, actor policy.Actor, id uint, req *EnrollmentUpdateRequest) (*models.EnrollmentResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id uint) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Student() StudentService
	Teacher() TeacherService
	Course() CourseService
	Enrollment() EnrollmentService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
