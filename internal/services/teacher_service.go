package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/events"
	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/policy"
	"github.com/campusops/records-service/internal/repositories"
	"github.com/campusops/records-service/internal/validator"
)

type teacherService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
}

func NewTeacherService(deps ServiceDependencies) TeacherService {
	return &teacherService{
		repo:      deps.Repo,
		db:        deps.DB,
		logger:    deps.Logger,
		validator: deps.Validator,
		events:    deps.Events,
	}
}

// Create requires an existing user account; a teacher profile is never
// free-standing.
func (s *teacherService) Create(ctx context.Context, actor policy.Actor, req *TeacherCreateRequest) (*models.TeacherResponse, error) {
	s.logger.Info("Creating teacher", "actor_id", actor.UserID, "teacher_code", req.TeacherCode)

	if !policy.Can(actor.Role, policy.EntityTeacher, policy.VerbCreate) {
		return nil, NewPermissionError(actor.UserID, 0, "teacher", "create", "insufficient role permissions")
	}

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	teacher := &models.Teacher{
		UserID:      req.UserID,
		TeacherCode: req.TeacherCode,
		Name:        req.Name,
		Email:       req.Email,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if _, err := txRepo.User().GetByID(ctx, nil, req.UserID); err != nil {
			return translateStoreError(err, ErrUserNotFound)
		}
		if err := txRepo.Teacher().Create(ctx, nil, teacher); err != nil {
			return translateStoreError(err, ErrTeacherNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTeacherCreated, teacher.ID, actor.UserID)
	s.logger.Info("Teacher created", "teacher_id", teacher.ID)

	return models.NewTeacherResponse(teacher, nil), nil
}

func (s *teacherService) GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.TeacherResponse, error) {
	if !policy.Can(actor.Role, policy.EntityTeacher, policy.VerbRead) {
		return nil, NewPermissionError(actor.UserID, id, "teacher", "read", "insufficient role permissions")
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateStoreError(err, ErrTeacherNotFound)
	}

	courses, err := s.repo.Course().GetCoursesByTeacher(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load taught courses: %w", err)
	}

	return models.NewTeacherResponse(teacher, courses), nil
}

func (s *teacherService) List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*TeacherListResponse, error) {
	if !policy.Can(actor.Role, policy.EntityTeacher, policy.VerbList) {
		return nil, NewPermissionError(actor.UserID, 0, "teacher", "list", "insufficient role permissions")
	}

	teachers, total, err := s.repo.Teacher().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}

	resp := &TeacherListResponse{Teachers: make([]*models.TeacherResponse, 0, len(teachers)), Total: total}
	for _, t := range teachers {
		courses, err := s.repo.Course().GetCoursesByTeacher(ctx, nil, t.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load taught courses: %w", err)
		}
		resp.Teachers = append(resp.Teachers, models.NewTeacherResponse(t, courses))
	}
	return resp, nil
}

func (s *teacherService) Update(ctx context.Context, actor policy.Actor, id uint, req *TeacherUpdateRequest) (*models.TeacherResponse, error) {
	s.logger.Info("Updating teacher", "teacher_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityTeacher, policy.VerbUpdate) {
		return nil, NewPermissionError(actor.UserID, id, "teacher", "update", "insufficient role permissions")
	}

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	var teacher *models.Teacher
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		teacher, err = txRepo.Teacher().GetByID(ctx, nil, id)
		if err != nil {
			return translateStoreError(err, ErrTeacherNotFound)
		}

		if req.TeacherCode != nil {
			teacher.TeacherCode = *req.TeacherCode
		}
		if req.Name != nil {
			teacher.Name = *req.Name
		}
		if req.Email != nil {
			teacher.Email = *req.Email
		}

		if err := txRepo.Teacher().Update(ctx, nil, teacher); err != nil {
			return translateStoreError(err, ErrTeacherNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTeacherUpdated, id, actor.UserID)

	courses, err := s.repo.Course().GetCoursesByTeacher(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load taught courses: %w", err)
	}
	return models.NewTeacherResponse(teacher, courses), nil
}

// Delete removes the teacher and its course assignments. The courses
// themselves survive, possibly left without a teacher.
func (s *teacherService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	s.logger.Info("Deleting teacher", "teacher_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityTeacher, policy.VerbDelete) {
		return NewPermissionError(actor.UserID, id, "teacher", "delete", "insufficient role permissions")
	}

	if err := s.repo.Teacher().Delete(ctx, nil, id); err != nil {
		return translateStoreError(err, ErrTeacherNotFound)
	}

	s.publish(ctx, events.EventTeacherDeleted, id, actor.UserID)
	return nil
}

func (s *teacherService) publish(ctx context.Context, eventType events.EventType, entityID, actorID uint) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, &events.RecordEvent{
		Type:     eventType,
		EntityID: entityID,
		ActorID:  actorID,
	}); err != nil {
		s.logger.Warn("Failed to publish event", "type", eventType, "error", err)
	}
}
