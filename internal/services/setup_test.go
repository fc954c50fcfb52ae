package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/campusops/records-service/internal/events"
	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/policy"
	"github.com/campusops/records-service/internal/validator"
)

const testJWTSecret = "test-secret"

// testEnv wires every service against the in-memory repository and the mock
// event publisher.
type testEnv struct {
	repo      *memoryRepository
	publisher *events.MockEventPublisher

	auth       AuthService
	user       UserService
	student    StudentService
	teacher    TeacherService
	course     CourseService
	enrollment EnrollmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemoryRepository()
	publisher := events.NewMockEventPublisher(logger)

	deps := ServiceDependencies{
		Repo:      repo,
		Logger:    logger,
		Validator: validator.New(),
		Events:    publisher,
	}

	return &testEnv{
		repo:       repo,
		publisher:  publisher,
		auth:       NewAuthService(deps, testJWTSecret),
		user:       NewUserService(deps),
		student:    NewStudentService(deps),
		teacher:    NewTeacherService(deps),
		course:     NewCourseService(deps),
		enrollment: NewEnrollmentService(deps),
	}
}

// fixture ids produced by seedBase.
type baseFixture struct {
	adminActor   policy.Actor
	teacherActor policy.Actor
	student1     policy.Actor
	student2     policy.Actor

	teacherID   uint
	student1ID  uint
	student2ID  uint
	taughtID    uint
	untaughtID  uint
	enrollment1 uint // student1 in taught course
	enrollment2 uint // student2 in untaught course
}

// seedBase loads a dataset mirroring the development seed: an admin, one
// teacher with one taught course, one course without the teacher, and two
// linked students with one enrollment each.
func seedBase(t *testing.T, env *testEnv) baseFixture {
	t.Helper()
	ctx := context.Background()

	mustUser := func(username, role string) *models.UserResponse {
		resp, err := env.auth.Register(ctx, &RegisterRequest{
			Username: username,
			Email:    username + "@example.com",
			Password: username + "pass",
			Role:     role,
		})
		if err != nil {
			t.Fatalf("seed user %s: %v", username, err)
		}
		return resp
	}

	admin := mustUser("admin", "admin")
	teacherUser := mustUser("teacher1", "teacher")
	studentUser1 := mustUser("student1", "student")
	studentUser2 := mustUser("student2", "student")

	fx := baseFixture{
		adminActor:   policy.Actor{UserID: admin.ID, Role: models.RoleAdmin},
		teacherActor: policy.Actor{UserID: teacherUser.ID, Role: models.RoleTeacher},
		student1:     policy.Actor{UserID: studentUser1.ID, Role: models.RoleStudent},
		student2:     policy.Actor{UserID: studentUser2.ID, Role: models.RoleStudent},
	}

	teacher, err := env.teacher.Create(ctx, fx.adminActor, &TeacherCreateRequest{
		UserID:      teacherUser.ID,
		TeacherCode: "T001",
		Name:        "Teacher One",
		Email:       "t001@example.com",
	})
	if err != nil {
		t.Fatalf("seed teacher: %v", err)
	}
	fx.teacherID = teacher.ID

	s1, err := env.student.Create(ctx, fx.adminActor, &StudentCreateRequest{
		StudentCode: "S001",
		Name:        "Student One",
		Email:       "s001@example.com",
		UserID:      &studentUser1.ID,
	})
	if err != nil {
		t.Fatalf("seed student1: %v", err)
	}
	fx.student1ID = s1.ID

	s2, err := env.student.Create(ctx, fx.adminActor, &StudentCreateRequest{
		StudentCode: "S002",
		Name:        "Student Two",
		Email:       "s002@example.com",
		UserID:      &studentUser2.ID,
	})
	if err != nil {
		t.Fatalf("seed student2: %v", err)
	}
	fx.student2ID = s2.ID

	taught, err := env.course.Create(ctx, fx.adminActor, &CourseCreateRequest{
		CourseName: "Introduction to Python",
		CourseCode: "PY101",
		TeacherID:  &teacher.ID,
	})
	if err != nil {
		t.Fatalf("seed taught course: %v", err)
	}
	fx.taughtID = taught.ID

	untaught, err := env.course.Create(ctx, fx.adminActor, &CourseCreateRequest{
		CourseName: "Web Development Basics",
		CourseCode: "WD101",
	})
	if err != nil {
		t.Fatalf("seed untaught course: %v", err)
	}
	fx.untaughtID = untaught.ID

	e1, err := env.enrollment.Create(ctx, fx.adminActor, &EnrollmentCreateRequest{
		StudentID: fx.student1ID,
		CourseID:  fx.taughtID,
	})
	if err != nil {
		t.Fatalf("seed enrollment1: %v", err)
	}
	fx.enrollment1 = e1.ID

	e2, err := env.enrollment.Create(ctx, fx.adminActor, &EnrollmentCreateRequest{
		StudentID: fx.student2ID,
		CourseID:  fx.untaughtID,
	})
	if err != nil {
		t.Fatalf("seed enrollment2: %v", err)
	}
	fx.enrollment2 = e2.ID

	env.publisher.ClearEvents()
	return fx
}

func gradePtr(g float64) *float64 { return &g }
