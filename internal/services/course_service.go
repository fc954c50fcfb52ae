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

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
}

func NewCourseService(deps ServiceDependencies) CourseService {
	return &courseService{
		repo:      deps.Repo,
		db:        deps.DB,
		logger:    deps.Logger,
		validator: deps.Validator,
		events:    deps.Events,
	}
}

// Create stores the course and, when teacher_id is present, the teacher
// assignment in the same transaction. A dangling teacher_id fails the whole
// operation.
func (s *courseService) Create(ctx context.Context, actor policy.Actor, req *CourseCreateRequest) (*models.CourseResponse, error) {
	s.logger.Info("Creating course", "actor_id", actor.UserID, "course_code", req.CourseCode)

	if !policy.Can(actor.Role, policy.EntityCourse, policy.VerbCreate) {
		return nil, NewPermissionError(actor.UserID, 0, "course", "create", "insufficient role permissions")
	}

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	course := &models.Course{
		CourseName: req.CourseName,
		CourseCode: req.CourseCode,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if req.TeacherID != nil {
			if _, err := txRepo.Teacher().GetByID(ctx, nil, *req.TeacherID); err != nil {
				return translateStoreError(err, ErrTeacherNotFound)
			}
		}
		if err := txRepo.Course().Create(ctx, nil, course); err != nil {
			return translateStoreError(err, ErrCourseNotFound)
		}
		if req.TeacherID != nil {
			if err := txRepo.Course().AssignTeacher(ctx, nil, course.ID, *req.TeacherID); err != nil {
				return translateStoreError(err, ErrTeacherNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCourseCreated, course.ID, actor.UserID)
	s.logger.Info("Course created", "course_id", course.ID)

	return s.buildResponse(ctx, course)
}

func (s *courseService) GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.CourseResponse, error) {
	if !policy.Can(actor.Role, policy.EntityCourse, policy.VerbRead) {
		return nil, NewPermissionError(actor.UserID, id, "course", "read", "insufficient role permissions")
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateStoreError(err, ErrCourseNotFound)
	}

	return s.buildResponse(ctx, course)
}

func (s *courseService) List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*CourseListResponse, error) {
	if !policy.Can(actor.Role, policy.EntityCourse, policy.VerbList) {
		return nil, NewPermissionError(actor.UserID, 0, "course", "list", "insufficient role permissions")
	}

	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	resp := &CourseListResponse{Courses: make([]*models.CourseResponse, 0, len(courses)), Total: total}
	for _, c := range courses {
		courseResp, err := s.buildResponse(ctx, c)
		if err != nil {
			return nil, err
		}
		resp.Courses = append(resp.Courses, courseResp)
	}
	return resp, nil
}

// Update applies partial field changes; a present teacher_id replaces the
// assignment set with exactly that teacher, matching the create semantics.
func (s *courseService) Update(ctx context.Context, actor policy.Actor, id uint, req *CourseUpdateRequest) (*models.CourseResponse, error) {
	s.logger.Info("Updating course", "course_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityCourse, policy.VerbUpdate) {
		return nil, NewPermissionError(actor.UserID, id, "course", "update", "insufficient role permissions")
	}

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	var course *models.Course
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		course, err = txRepo.Course().GetByID(ctx, nil, id)
		if err != nil {
			return translateStoreError(err, ErrCourseNotFound)
		}

		if req.CourseName != nil {
			course.CourseName = *req.CourseName
		}
		if req.CourseCode != nil {
			course.CourseCode = *req.CourseCode
		}

		if err := txRepo.Course().Update(ctx, nil, course); err != nil {
			return translateStoreError(err, ErrCourseNotFound)
		}

		if req.TeacherID != nil {
			if _, err := txRepo.Teacher().GetByID(ctx, nil, *req.TeacherID); err != nil {
				return translateStoreError(err, ErrTeacherNotFound)
			}
			if err := txRepo.Course().ReplaceTeachers(ctx, nil, id, *req.TeacherID); err != nil {
				return translateStoreError(err, ErrTeacherNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCourseUpdated, id, actor.UserID)
	return s.buildResponse(ctx, course)
}

// Delete removes the course, its enrollments and its teacher assignments in
// one transaction.
func (s *courseService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	s.logger.Info("Deleting course", "course_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityCourse, policy.VerbDelete) {
		return NewPermissionError(actor.UserID, id, "course", "delete", "insufficient role permissions")
	}

	if err := s.repo.Course().Delete(ctx, nil, id); err != nil {
		return translateStoreError(err, ErrCourseNotFound)
	}

	s.publish(ctx, events.EventCourseDeleted, id, actor.UserID)
	return nil
}

func (s *courseService) buildResponse(ctx context.Context, course *models.Course) (*models.CourseResponse, error) {
	teachers, err := s.repo.Course().GetTeachers(ctx, nil, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course teachers: %w", err)
	}
	return models.NewCourseResponse(course, teachers), nil
}

func (s *courseService) publish(ctx context.Context, eventType events.EventType, entityID, actorID uint) {
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
