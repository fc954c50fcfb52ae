package services

import (
	"context"
	"errors"
	"testing"
)

func TestStudentService_Create(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	t.Run("free-standing student without user link", func(t *testing.T) {
		resp, err := env.student.Create(ctx, fx.adminActor, &StudentCreateRequest{
			StudentCode: "S003",
			Name:        "Student Three",
			Email:       "s003@example.com",
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if resp.UserID != nil {
			t.Errorf("expected no user link, got %v", resp.UserID)
		}
	})

	t.Run("duplicate student code conflicts", func(t *testing.T) {
		_, err := env.student.Create(ctx, fx.adminActor, &StudentCreateRequest{
			StudentCode: "S001",
			Name:        "Impostor",
			Email:       "impostor@example.com",
		})
		if !IsConflictError(err) {
			t.Errorf("expected conflict, got %v", err)
		}
	})

	t.Run("dangling user id is not found", func(t *testing.T) {
		bad := uint(9999)
		_, err := env.student.Create(ctx, fx.adminActor, &StudentCreateRequest{
			StudentCode: "S004",
			Name:        "Student Four",
			Email:       "s004@example.com",
			UserID:      &bad,
		})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("teachers cannot create students", func(t *testing.T) {
		_, err := env.student.Create(ctx, fx.teacherActor, &StudentCreateRequest{
			StudentCode: "S005",
			Name:        "Student Five",
			Email:       "s005@example.com",
		})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestStudentService_Read(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	t.Run("teacher reads students", func(t *testing.T) {
		resp, err := env.student.GetByID(ctx, fx.teacherActor, fx.student1ID)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(resp.Enrollments) != 1 {
			t.Errorf("expected 1 enrollment brief, got %d", len(resp.Enrollments))
		}
	})

	t.Run("students cannot browse the roster", func(t *testing.T) {
		if _, err := env.student.GetByID(ctx, fx.student1, fx.student1ID); !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
		if _, err := env.student.List(ctx, fx.student1, listAll()); !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestStudentService_Update_PartialFields(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	name := "Renamed Student"
	resp, err := env.student.Update(ctx, fx.adminActor, fx.student1ID, &StudentUpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if resp.Name != name {
		t.Errorf("expected renamed student, got %s", resp.Name)
	}
	if resp.StudentCode != "S001" {
		t.Errorf("absent fields must stay untouched, code became %s", resp.StudentCode)
	}
	if resp.Email != "s001@example.com" {
		t.Errorf("absent fields must stay untouched, email became %s", resp.Email)
	}
}

func TestStudentService_Delete_CascadesEnrollments(t *testing.T) {
	env := newTestEnv(t)
	fx := seedBase(t, env)
	ctx := context.Background()

	if err := env.student.Delete(ctx, fx.adminActor, fx.student1ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := env.student.GetByID(ctx, fx.adminActor, fx.student1ID); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected student to be gone, got %v", err)
	}
	if _, err := env.enrollment.GetByID(ctx, fx.adminActor, fx.enrollment1); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("expected enrollment to be cascaded, got %v", err)
	}

	// The other student's rows survive.
	if _, err := env.enrollment.GetByID(ctx, fx.adminActor, fx.enrollment2); err != nil {
		t.Errorf("unrelated enrollment should survive, got %v", err)
	}
}
