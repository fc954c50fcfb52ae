package validator

// Request DTOs. The boundary layer binds JSON onto these and runs shape
// validation; services re-run the business rules that span fields or
// entities. Update requests use pointer fields: every entity follows the same
// partial-update policy, and absent fields are left untouched.

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,user_role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=80"`
	Email    *string `json:"email" validate:"omitempty,email,max=120"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,user_role"`
}

type StudentCreateRequest struct {
	StudentCode string `json:"student_code" validate:"required,entity_code,max=20"`
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=120"`
	UserID      *uint  `json:"user_id"`
}

type StudentUpdateRequest struct {
	StudentCode *string `json:"student_code" validate:"omitempty,entity_code,max=20"`
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email,max=120"`
	UserID      *uint   `json:"user_id"`
}

type TeacherCreateRequest struct {
	UserID      uint   `json:"user_id" validate:"required"`
	TeacherCode string `json:"teacher_code" validate:"required,entity_code,max=20"`
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=120"`
}

type TeacherUpdateRequest struct {
	TeacherCode *string `json:"teacher_code" validate:"omitempty,entity_code,max=20"`
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email,max=120"`
}

type CourseCreateRequest struct {
	CourseName string `json:"course_name" validate:"required,entity_code,max=100"`
	CourseCode string `json:"course_code" validate:"required,entity_code,max=20"`
	TeacherID  *uint  `json:"teacher_id"`
}

type CourseUpdateRequest struct {
	CourseName *string `json:"course_name" validate:"omitempty,entity_code,max=100"`
	CourseCode *string `json:"course_code" validate:"omitempty,entity_code,max=20"`
	TeacherID  *uint   `json:"teacher_id"`
}

type EnrollmentCreateRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	CourseID  uint `json:"course_id" validate:"required"`
}

// EnrollmentUpdateRequest carries only the grade: student and course
// references are immutable after creation, so any other field in the inbound
// payload is dropped at binding time rather than merely rejected.
type EnrollmentUpdateRequest struct {
	Grade *float64 `json:"grade" validate:"omitempty,grade_range"`
}
