package models

// Response projections. Every outbound payload is built through one of these
// constructors so that credential material never leaves the service and
// bidirectional relations never expand cyclically: a nested student or course
// is always the brief form, which carries no collections of its own.

type UserResponse struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

type StudentBrief struct {
	ID          uint   `json:"id"`
	StudentCode string `json:"student_code"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

func NewStudentBrief(s *Student) *StudentBrief {
	if s == nil {
		return nil
	}
	return &StudentBrief{
		ID:          s.ID,
		StudentCode: s.StudentCode,
		Name:        s.Name,
		Email:       s.Email,
	}
}

type StudentResponse struct {
	StudentBrief
	UserID      *uint              `json:"user_id"`
	Enrollments []*EnrollmentBrief `json:"enrollments,omitempty"`
}

func NewStudentResponse(s *Student) *StudentResponse {
	resp := &StudentResponse{
		StudentBrief: *NewStudentBrief(s),
		UserID:       s.UserID,
	}
	for i := range s.Enrollments {
		resp.Enrollments = append(resp.Enrollments, NewEnrollmentBrief(&s.Enrollments[i]))
	}
	return resp
}

type TeacherResponse struct {
	ID          uint           `json:"id"`
	UserID      uint           `json:"user_id"`
	TeacherCode string         `json:"teacher_code"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Courses     []*CourseBrief `json:"courses,omitempty"`
}

func NewTeacherResponse(t *Teacher, courses []*Course) *TeacherResponse {
	resp := &TeacherResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		TeacherCode: t.TeacherCode,
		Name:        t.Name,
		Email:       t.Email,
	}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, NewCourseBrief(c))
	}
	return resp
}

type CourseBrief struct {
	ID         uint   `json:"id"`
	CourseName string `json:"course_name"`
	CourseCode string `json:"course_code"`
}

func NewCourseBrief(c *Course) *CourseBrief {
	if c == nil {
		return nil
	}
	return &CourseBrief{
		ID:         c.ID,
		CourseName: c.CourseName,
		CourseCode: c.CourseCode,
	}
}

type CourseResponse struct {
	CourseBrief
	Teachers []*TeacherBrief `json:"teachers,omitempty"`
}

type TeacherBrief struct {
	ID          uint   `json:"id"`
	TeacherCode string `json:"teacher_code"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

func NewTeacherBrief(t *Teacher) *TeacherBrief {
	if t == nil {
		return nil
	}
	return &TeacherBrief{
		ID:          t.ID,
		TeacherCode: t.TeacherCode,
		Name:        t.Name,
		Email:       t.Email,
	}
}

func NewCourseResponse(c *Course, teachers []*Teacher) *CourseResponse {
	resp := &CourseResponse{CourseBrief: *NewCourseBrief(c)}
	for _, t := range teachers {
		resp.Teachers = append(resp.Teachers, NewTeacherBrief(t))
	}
	return resp
}

type EnrollmentBrief struct {
	ID        uint     `json:"id"`
	StudentID uint     `json:"student_id"`
	CourseID  uint     `json:"course_id"`
	Grade     *float64 `json:"grade"`
}

func NewEnrollmentBrief(e *Enrollment) *EnrollmentBrief {
	return &EnrollmentBrief{
		ID:        e.ID,
		StudentID: e.StudentID,
		CourseID:  e.CourseID,
		Grade:     e.Grade,
	}
}

type EnrollmentResponse struct {
	EnrollmentBrief
	Student *StudentBrief `json:"student"`
	Course  *CourseBrief  `json:"course"`
}

func NewEnrollmentResponse(e *Enrollment) *EnrollmentResponse {
	return &EnrollmentResponse{
		EnrollmentBrief: *NewEnrollmentBrief(e),
		Student:         NewStudentBrief(e.Student),
		Course:          NewCourseBrief(e.Course),
	}
}
