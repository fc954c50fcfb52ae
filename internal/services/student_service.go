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

type studentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
}

func NewStudentService(deps ServiceDependencies) StudentService {
	return &studentService{
		repo:      deps.Repo,
		db:        deps.DB,
		logger:    deps.Logger,
		validator: deps.Validator,
		events:    deps.Events,
	}
}

func (s *studentService) Create(ctx context.Context, actor policy.Actor, req *StudentCreateRequest) (*models.StudentResponse, error) {
	s.logger.Info("Creating student", "actor_id", actor.UserID, "student_code", req.StudentCode)

	if !policy.Can(actor.Role, policy.EntityStudent, policy.VerbCreate) {
		return nil, NewPermissionError(actor.UserID, 0, "student", "create", "insufficient role permissions")
	}

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	student := &models.Student{
		StudentCode: req.StudentCode,
		Name:        req.Name,
		Email:       req.Email,
		UserID:      req.UserID,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if req.UserID != nil {
			if _, err := txRepo.User().GetByID(ctx, nil, *req.UserID); err != nil {
				return translateStoreError(err, ErrUserNotFound)
			}
		}
		if err := txRepo.Student().Create(ctx, nil, student); err != nil {
			return translateStoreError(err, ErrStudentNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventStudentCreated, student.ID, actor.UserID)
	s.logger.Info("Student created", "student_id", student.ID)

	return models.NewStudentResponse(student), nil
}

func (s *studentService) GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.StudentResponse, error) {
	if !policy.Can(actor.Role, policy.EntityStudent, policy.VerbRead) {
		return nil, NewPermissionError(actor.UserID, id, "student", "read", "insufficient role permissions")
	}

	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateStoreError(err, ErrStudentNotFound)
	}

	return models.NewStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*StudentListResponse, error) {
	if !policy.Can(actor.Role, policy.EntityStudent, policy.VerbList) {
		return nil, NewPermissionError(actor.UserID, 0, "student", "list", "insufficient role permissions")
	}

	students, total, err := s.repo.Student().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	resp := &StudentListResponse{Students: make([]*models.StudentResponse, 0, len(students)), Total: total}
	for _, st := range students {
		resp.Students = append(resp.Students, models.NewStudentResponse(st))
	}
	return resp, nil
}

func (s *studentService) Update(ctx context.Context, actor policy.Actor, id uint, req *StudentUpdateRequest) (*models.StudentResponse, error) {
	s.logger.Info("Updating student", "student_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityStudent, policy.VerbUpdate) {
		return nil, NewPermissionError(actor.UserID, id, "student", "update", "insufficient role permissions")
	}

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	var student *models.Student
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		student, err = txRepo.Student().GetByID(ctx, nil, id)
		if err != nil {
			return translateStoreError(err, ErrStudentNotFound)
		}

		if req.StudentCode != nil {
			student.StudentCode = *req.StudentCode
		}
		if req.Name != nil {
			student.Name = *req.Name
		}
		if req.Email != nil {
			student.Email = *req.Email
		}
		if req.UserID != nil {
			if _, err := txRepo.User().GetByID(ctx, nil, *req.UserID); err != nil {
				return translateStoreError(err, ErrUserNotFound)
			}
			student.UserID = req.UserID
		}

		if err := txRepo.Student().Update(ctx, nil, student); err != nil {
			return translateStoreError(err, ErrStudentNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventStudentUpdated, id, actor.UserID)
	return models.NewStudentResponse(student), nil
}

// Delete removes the student together with every enrollment that references
// it, in one transaction.
func (s *studentService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	s.logger.Info("Deleting student", "student_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityStudent, policy.VerbDelete) {
		return NewPermissionError(actor.UserID, id, "student", "delete", "insufficient role permissions")
	}

	if err := s.repo.Student().Delete(ctx, nil, id); err != nil {
		return translateStoreError(err, ErrStudentNotFound)
	}

	s.publish(ctx, events.EventStudentDeleted, id, actor.UserID)
	return nil
}

func (s *studentService) publish(ctx context.Context, eventType events.EventType, entityID, actorID uint) {
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
