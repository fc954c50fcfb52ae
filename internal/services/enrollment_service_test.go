package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campusops/records-service/internal/events"
	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/policy"
	"github.com/campusops/records-service/internal/repositories"
	"github.com/campusops/records-service/internal/validator"
)

func TestEnrollmentService_Create_DuplicatePairConflicts(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	_, err := env.enrollment.Create(ctx, fx.adminActor, &EnrollmentCreateRequest{
		StudentID: fx.student1ID,
		CourseID:  fx.taughtID,
	})
	if !IsConflictError(err) {
		t.Fatalf("expected conflict for duplicate pair, got %v", err)
	}

	// The same student in a different course is fine.
	if _, err := env.enrollment.Create(ctx, fx.adminActor, &EnrollmentCreateRequest{
		StudentID: fx.student1ID,
		CourseID:  fx.untaughtID,
	}); err != nil {
		t.Fatalf("expected second course enrollment to succeed, got %v", err)
	}
}

func TestEnrollmentService_Create_MissingReferences(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	_, err := env.enrollment.Create(ctx, fx.adminActor, &EnrollmentCreateRequest{
		StudentID: 9999,
		CourseID:  fx.taughtID,
	})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}

	_, err = env.enrollment.Create(ctx, fx.adminActor, &EnrollmentCreateRequest{
		StudentID: fx.student1ID,
		CourseID:  9999,
	})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestEnrollmentService_Create_TeacherScope(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	// Teacher enrolls into their own course.
	if _, err := env.enrollment.Create(ctx, fx.teacherActor, &EnrollmentCreateRequest{
		StudentID: fx.student2ID,
		CourseID:  fx.taughtID,
	}); err != nil {
		t.Fatalf("teacher should enroll into taught course, got %v", err)
	}

	// But not into a course they do not teach.
	_, err := env.enrollment.Create(ctx, fx.teacherActor, &EnrollmentCreateRequest{
		StudentID: fx.student1ID,
		CourseID:  fx.untaughtID,
	})
	if !IsPermissionError(err) {
		t.Errorf("expected permission error for untaught course, got %v", err)
	}

	// Students never create enrollments.
	_, err = env.enrollment.Create(ctx, fx.student1, &EnrollmentCreateRequest{
		StudentID: fx.student1ID,
		CourseID:  fx.untaughtID,
	})
	if !IsPermissionError(err) {
		t.Errorf("expected permission error for student, got %v", err)
	}
}

func TestEnrollmentService_List_Scoping(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	t.Run("admin sees everything", func(t *testing.T) {
		resp, err := env.enrollment.List(ctx, fx.adminActor, listAll())
		if err != nil {
			t.Fatalf("admin list failed: %v", err)
		}
		if len(resp.Enrollments) != 2 {
			t.Errorf("expected 2 enrollments, got %d", len(resp.Enrollments))
		}
	})

	t.Run("teacher sees only taught courses", func(t *testing.T) {
		resp, err := env.enrollment.List(ctx, fx.teacherActor, listAll())
		if err != nil {
			t.Fatalf("teacher list failed: %v", err)
		}
		if len(resp.Enrollments) != 1 {
			t.Fatalf("expected 1 enrollment, got %d", len(resp.Enrollments))
		}
		if resp.Enrollments[0].CourseID != fx.taughtID {
			t.Errorf("teacher saw enrollment of untaught course %d", resp.Enrollments[0].CourseID)
		}
	})

	t.Run("student sees only own rows", func(t *testing.T) {
		resp, err := env.enrollment.List(ctx, fx.student1, listAll())
		if err != nil {
			t.Fatalf("student list failed: %v", err)
		}
		if len(resp.Enrollments) != 1 {
			t.Fatalf("expected 1 enrollment, got %d", len(resp.Enrollments))
		}
		if resp.Enrollments[0].StudentID != fx.student1ID {
			t.Errorf("student saw another student's enrollment")
		}
	})

	t.Run("unrelated teacher sees zero entries", func(t *testing.T) {
		other, err := env.auth.Register(ctx, &RegisterRequest{
			Username: "teacher2",
			Email:    "teacher2@example.com",
			Password: "teacher2pass",
			Role:     "teacher",
		})
		if err != nil {
			t.Fatalf("register teacher2: %v", err)
		}
		if _, err := env.teacher.Create(ctx, fx.adminActor, &TeacherCreateRequest{
			UserID:      other.ID,
			TeacherCode: "T002",
			Name:        "Teacher Two",
			Email:       "t002@example.com",
		}); err != nil {
			t.Fatalf("seed teacher2: %v", err)
		}

		resp, err := env.enrollment.List(ctx, policy.Actor{UserID: other.ID, Role: models.RoleTeacher}, listAll())
		if err != nil {
			t.Fatalf("teacher2 list failed: %v", err)
		}
		if len(resp.Enrollments) != 0 {
			t.Errorf("expected empty page for teacher without taught courses, got %d rows", len(resp.Enrollments))
		}
	})

	t.Run("teacher without profile gets empty page", func(t *testing.T) {
		bare, err := env.auth.Register(ctx, &RegisterRequest{
			Username: "teacher3",
			Email:    "teacher3@example.com",
			Password: "teacher3pass",
			Role:     "teacher",
		})
		if err != nil {
			t.Fatalf("register teacher3: %v", err)
		}

		resp, err := env.enrollment.List(ctx, policy.Actor{UserID: bare.ID, Role: models.RoleTeacher}, listAll())
		if err != nil {
			t.Fatalf("teacher3 list failed: %v", err)
		}
		if len(resp.Enrollments) != 0 {
			t.Errorf("expected empty page for teacher without profile, got %d rows", len(resp.Enrollments))
		}
	})

	t.Run("student without profile gets empty page", func(t *testing.T) {
		orphan, err := env.auth.Register(ctx, &RegisterRequest{
			Username: "orphan",
			Email:    "orphan@example.com",
			Password: "orphanpass",
			Role:     "student",
		})
		if err != nil {
			t.Fatalf("register orphan: %v", err)
		}

		resp, err := env.enrollment.List(ctx, policy.Actor{UserID: orphan.ID, Role: models.RoleStudent}, listAll())
		if err != nil {
			t.Fatalf("orphan list failed: %v", err)
		}
		if len(resp.Enrollments) != 0 {
			t.Errorf("expected empty page, got %d rows", len(resp.Enrollments))
		}
	})
}

func TestEnrollmentService_GetByID_Scoping(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	if _, err := env.enrollment.GetByID(ctx, fx.student1, fx.enrollment1); err != nil {
		t.Errorf("student should read own enrollment, got %v", err)
	}

	_, err := env.enrollment.GetByID(ctx, fx.student1, fx.enrollment2)
	if !IsPermissionError(err) {
		t.Errorf("expected permission error reading another student's row, got %v", err)
	}

	_, err = env.enrollment.GetByID(ctx, fx.teacherActor, fx.enrollment2)
	if !IsPermissionError(err) {
		t.Errorf("expected permission error for untaught course, got %v", err)
	}

	_, err = env.enrollment.GetByID(ctx, fx.adminActor, 9999)
	if !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestEnrollmentService_SetGrade(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	t.Run("teacher grades own course", func(t *testing.T) {
		resp, err := env.enrollment.SetGrade(ctx, fx.teacherActor, fx.enrollment1, &EnrollmentUpdateRequest{Grade: gradePtr(91.5)})
		if err != nil {
			t.Fatalf("grading failed: %v", err)
		}
		if resp.Grade == nil || *resp.Grade != 91.5 {
			t.Errorf("expected grade 91.5, got %v", resp.Grade)
		}

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventEnrollmentGraded {
			t.Errorf("expected one graded event, got %+v", published)
		}
	})

	t.Run("teacher cannot grade untaught course", func(t *testing.T) {
		_, err := env.enrollment.SetGrade(ctx, fx.teacherActor, fx.enrollment2, &EnrollmentUpdateRequest{Grade: gradePtr(50)})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("grade out of range fails validation", func(t *testing.T) {
		_, err := env.enrollment.SetGrade(ctx, fx.adminActor, fx.enrollment1, &EnrollmentUpdateRequest{Grade: gradePtr(101)})
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("expected validation errors, got %v", err)
		}
	})

	t.Run("absent grade leaves row untouched", func(t *testing.T) {
		resp, err := env.enrollment.SetGrade(ctx, fx.adminActor, fx.enrollment1, &EnrollmentUpdateRequest{})
		if err != nil {
			t.Fatalf("no-op grading failed: %v", err)
		}
		if resp.Grade == nil || *resp.Grade != 91.5 {
			t.Errorf("expected grade to stay 91.5, got %v", resp.Grade)
		}
	})
}

func TestEnrollmentService_Delete(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	if err := env.enrollment.Delete(ctx, fx.teacherActor, fx.enrollment1); !IsPermissionError(err) {
		t.Errorf("teacher delete should be denied, got %v", err)
	}
	if err := env.enrollment.Delete(ctx, fx.student1, fx.enrollment1); !IsPermissionError(err) {
		t.Errorf("student delete should be denied, got %v", err)
	}

	if err := env.enrollment.Delete(ctx, fx.adminActor, fx.enrollment1); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := env.enrollment.GetByID(ctx, fx.adminActor, fx.enrollment1); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("expected row to be gone, got %v", err)
	}
}

func listAll() repositories.ListFilters {
	return repositories.ListFilters{Limit: 100}
}
