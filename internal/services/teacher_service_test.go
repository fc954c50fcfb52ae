package services

import (
	"context"
	"errors"
	"testing"
)

func TestTeacherService_Create(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	t.Run("requires an existing user", func(t *testing.T) {
		_, err := env.teacher.Create(ctx, fx.adminActor, &TeacherCreateRequest{
			UserID:      9999,
			TeacherCode: "T009",
			Name:        "Ghost",
			Email:       "ghost@example.com",
		})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("one profile per user", func(t *testing.T) {
		_, err := env.teacher.Create(ctx, fx.adminActor, &TeacherCreateRequest{
			UserID:      fx.teacherActor.UserID,
			TeacherCode: "T010",
			Name:        "Duplicate",
			Email:       "dup@example.com",
		})
		if !IsConflictError(err) {
			t.Errorf("expected conflict, got %v", err)
		}
	})

	t.Run("only admins create teachers", func(t *testing.T) {
		_, err := env.teacher.Create(ctx, fx.teacherActor, &TeacherCreateRequest{
			UserID:      fx.student1.UserID,
			TeacherCode: "T011",
			Name:        "Nope",
			Email:       "nope@example.com",
		})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestTeacherService_GetByID_IncludesTaughtCourses(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	resp, err := env.teacher.GetByID(ctx, fx.adminActor, fx.teacherID)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(resp.Courses) != 1 || resp.Courses[0].ID != fx.taughtID {
		t.Errorf("expected the taught course, got %+v", resp.Courses)
	}
}

func TestTeacherService_Delete_CoursesSurvive(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	if err := env.teacher.Delete(ctx, fx.adminActor, fx.teacherID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := env.teacher.GetByID(ctx, fx.adminActor, fx.teacherID); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("expected teacher to be gone, got %v", err)
	}

	// The course stays, just without a teacher.
	course, err := env.course.GetByID(ctx, fx.adminActor, fx.taughtID)
	if err != nil {
		t.Fatalf("course should survive teacher deletion: %v", err)
	}
	if len(course.Teachers) != 0 {
		t.Errorf("expected no remaining assignments, got %+v", course.Teachers)
	}
}
