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

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
}

func NewEnrollmentService(deps ServiceDependencies) EnrollmentService {
	return &enrollmentService{
		repo:      deps.Repo,
		db:        deps.DB,
		logger:    deps.Logger,
		validator: deps.Validator,
		events:    deps.Events,
	}
}

// Create enrolls a student in a course. Teachers may only enroll students
// into courses they teach. Both references are checked inside the transaction
// so a dangling id reads as not-found rather than a bare constraint failure;
// the duplicate (student, course) pair is left to the unique index, which
// makes concurrent double-enrollment a conflict instead of a race.
func (s *enrollmentService) Create(ctx context.Context, actor policy.Actor, req *EnrollmentCreateRequest) (*models.EnrollmentResponse, error) {
	s.logger.Info("Creating enrollment", "actor_id", actor.UserID, "student_id", req.StudentID, "course_id", req.CourseID)

	if !policy.Can(actor.Role, policy.EntityEnrollment, policy.VerbCreate) {
		return nil, NewPermissionError(actor.UserID, 0, "enrollment", "create", "insufficient role permissions")
	}

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	taught, err := s.taughtCourseIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !policy.CanEnrollInCourse(actor, req.CourseID, taught) {
		return nil, NewPermissionError(actor.UserID, req.CourseID, "enrollment", "create", "course is not taught by this teacher")
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if _, err := txRepo.Student().GetByID(ctx, nil, req.StudentID); err != nil {
			return translateStoreError(err, ErrStudentNotFound)
		}
		if _, err := txRepo.Course().GetByID(ctx, nil, req.CourseID); err != nil {
			return translateStoreError(err, ErrCourseNotFound)
		}
		if err := txRepo.Enrollment().Create(ctx, nil, enrollment); err != nil {
			return translateStoreError(err, ErrEnrollmentNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventEnrollmentCreated, enrollment.ID, actor.UserID, nil)
	s.logger.Info("Enrollment created", "enrollment_id", enrollment.ID)

	return s.getResponse(ctx, enrollment.ID)
}

func (s *enrollmentService) GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.EnrollmentResponse, error) {
	if !policy.Can(actor.Role, policy.EntityEnrollment, policy.VerbRead) {
		return nil, NewPermissionError(actor.UserID, id, "enrollment", "read", "insufficient role permissions")
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateStoreError(err, ErrEnrollmentNotFound)
	}

	ownStudentID, err := s.ownStudentID(ctx, actor)
	if err != nil {
		return nil, err
	}
	taught, err := s.taughtCourseIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	if !policy.CanReadEnrollment(actor, enrollment, ownStudentID, taught) {
		return nil, NewPermissionError(actor.UserID, id, "enrollment", "read", "enrollment is outside the actor's scope")
	}

	return models.NewEnrollmentResponse(enrollment), nil
}

// List narrows the collection to the actor's scope before it ever reaches
// the store: admins see everything, teachers the enrollments of courses they
// teach, students their own rows. A student or teacher without a linked
// profile gets an empty page, not an error.
func (s *enrollmentService) List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*EnrollmentListResponse, error) {
	if !policy.Can(actor.Role, policy.EntityEnrollment, policy.VerbList) {
		return nil, NewPermissionError(actor.UserID, 0, "enrollment", "list", "insufficient role permissions")
	}

	enrollFilters := repositories.EnrollmentFilters{Limit: filters.Limit, Offset: filters.Offset}

	switch actor.Role {
	case models.RoleStudent:
		ownStudentID, err := s.ownStudentID(ctx, actor)
		if err != nil {
			return nil, err
		}
		if ownStudentID == 0 {
			return &EnrollmentListResponse{Enrollments: []*models.EnrollmentResponse{}}, nil
		}
		enrollFilters.StudentID = &ownStudentID
	case models.RoleTeacher:
		taught, err := s.taughtCourseIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		if len(taught) == 0 {
			return &EnrollmentListResponse{Enrollments: []*models.EnrollmentResponse{}}, nil
		}
		courseIDs := make([]uint, 0, len(taught))
		for id := range taught {
			courseIDs = append(courseIDs, id)
		}
		enrollFilters.CourseIDs = courseIDs
	}

	enrollments, total, err := s.repo.Enrollment().List(ctx, nil, enrollFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	resp := &EnrollmentListResponse{Enrollments: make([]*models.EnrollmentResponse, 0, len(enrollments)), Total: total}
	for _, e := range enrollments {
		resp.Enrollments = append(resp.Enrollments, models.NewEnrollmentResponse(e))
	}
	return resp, nil
}

// SetGrade writes the grade of one enrollment. The student and course
// references never change through this path; an absent grade leaves the row
// untouched.
func (s *enrollmentService) SetGrade(ctx context.Context, actor policy.Actor, id uint, req *EnrollmentUpdateRequest) (*models.EnrollmentResponse, error) {
	s.logger.Info("Grading enrollment", "enrollment_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityEnrollment, policy.VerbUpdate) {
		return nil, NewPermissionError(actor.UserID, id, "enrollment", "update", "insufficient role permissions")
	}

	if errs := s.validator.GetBusinessValidator().ValidateGrade(req.Grade); len(errs) > 0 {
		return nil, errs
	}

	taught, err := s.taughtCourseIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	var enrollment *models.Enrollment
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		enrollment, err = txRepo.Enrollment().GetByID(ctx, nil, id)
		if err != nil {
			return translateStoreError(err, ErrEnrollmentNotFound)
		}

		if !policy.CanGradeEnrollment(actor, enrollment, taught) {
			return NewPermissionError(actor.UserID, id, "enrollment", "update", "course is not taught by this teacher")
		}

		if req.Grade == nil {
			return nil
		}

		enrollment.Grade = req.Grade
		if err := txRepo.Enrollment().Update(ctx, nil, enrollment); err != nil {
			return translateStoreError(err, ErrEnrollmentNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Grade != nil {
		s.publish(ctx, events.EventEnrollmentGraded, id, actor.UserID, map[string]interface{}{"grade": *req.Grade})
	}

	return models.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	s.logger.Info("Deleting enrollment", "enrollment_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityEnrollment, policy.VerbDelete) {
		return NewPermissionError(actor.UserID, id, "enrollment", "delete", "insufficient role permissions")
	}

	if err := s.repo.Enrollment().Delete(ctx, nil, id); err != nil {
		return translateStoreError(err, ErrEnrollmentNotFound)
	}

	s.publish(ctx, events.EventEnrollmentDeleted, id, actor.UserID, nil)
	return nil
}

// ===== SCOPING HELPERS =====

// ownStudentID resolves the student profile linked to the acting user.
// Returns 0 when the actor is not a student or has no profile.
func (s *enrollmentService) ownStudentID(ctx context.Context, actor policy.Actor) (uint, error) {
	if actor.Role != models.RoleStudent {
		return 0, nil
	}
	student, err := s.repo.Student().GetByUserID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to resolve student profile: %w", err)
	}
	return student.ID, nil
}

// taughtCourseIDs resolves the set of course ids the acting teacher teaches.
// Returns nil for non-teachers and an empty set for a teacher without a
// profile or without courses.
func (s *enrollmentService) taughtCourseIDs(ctx context.Context, actor policy.Actor) (map[uint]bool, error) {
	if actor.Role != models.RoleTeacher {
		return nil, nil
	}

	teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return map[uint]bool{}, nil
		}
		return nil, fmt.Errorf("failed to resolve teacher profile: %w", err)
	}

	courses, err := s.repo.Course().GetCoursesByTeacher(ctx, nil, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load taught courses: %w", err)
	}

	taught := make(map[uint]bool, len(courses))
	for _, c := range courses {
		taught[c.ID] = true
	}
	return taught, nil
}

func (s *enrollmentService) getResponse(ctx context.Context, id uint) (*models.EnrollmentResponse, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateStoreError(err, ErrEnrollmentNotFound)
	}
	return models.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) publish(ctx context.Context, eventType events.EventType, entityID, actorID uint, detail interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, &events.RecordEvent{
		Type:     eventType,
		EntityID: entityID,
		ActorID:  actorID,
		Detail:   detail,
	}); err != nil {
		s.logger.Warn("Failed to publish event", "type", eventType, "error", err)
	}
}
