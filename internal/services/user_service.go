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

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
}

func NewUserService(deps ServiceDependencies) UserService {
	return &userService{
		repo:      deps.Repo,
		db:        deps.DB,
		logger:    deps.Logger,
		validator: deps.Validator,
		events:    deps.Events,
	}
}

func (s *userService) GetByID(ctx context.Context, actor policy.Actor, id uint) (*models.UserResponse, error) {
	if !policy.Can(actor.Role, policy.EntityUser, policy.VerbRead) {
		return nil, NewPermissionError(actor.UserID, id, "user", "read", "insufficient role permissions")
	}

	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateStoreError(err, ErrUserNotFound)
	}

	return models.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, actor policy.Actor, filters repositories.ListFilters) (*UserListResponse, error) {
	if !policy.Can(actor.Role, policy.EntityUser, policy.VerbList) {
		return nil, NewPermissionError(actor.UserID, 0, "user", "list", "insufficient role permissions")
	}

	users, total, err := s.repo.User().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	resp := &UserListResponse{Users: make([]*models.UserResponse, 0, len(users)), Total: total}
	for _, u := range users {
		resp.Users = append(resp.Users, models.NewUserResponse(u))
	}
	return resp, nil
}

func (s *userService) Update(ctx context.Context, actor policy.Actor, id uint, req *UserUpdateRequest) (*models.UserResponse, error) {
	s.logger.Info("Updating user", "user_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityUser, policy.VerbUpdate) {
		return nil, NewPermissionError(actor.UserID, id, "user", "update", "insufficient role permissions")
	}

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	var user *models.User
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		user, err = txRepo.User().GetByID(ctx, nil, id)
		if err != nil {
			return translateStoreError(err, ErrUserNotFound)
		}

		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Role != nil {
			user.Role = models.UserRole(*req.Role)
		}
		if req.Password != nil {
			hash, err := HashPassword(*req.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.PasswordHash = hash
		}

		if err := txRepo.User().Update(ctx, nil, user); err != nil {
			return translateStoreError(err, ErrUserNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserUpdated, id, actor.UserID)
	return models.NewUserResponse(user), nil
}

// Delete removes a user account. A student profile linked to the user keeps
// existing with its link cleared; a teacher profile blocks the delete at the
// FK, surfacing as a conflict.
func (s *userService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	s.logger.Info("Deleting user", "user_id", id, "actor_id", actor.UserID)

	if !policy.Can(actor.Role, policy.EntityUser, policy.VerbDelete) {
		return NewPermissionError(actor.UserID, id, "user", "delete", "insufficient role permissions")
	}

	if err := s.repo.User().Delete(ctx, nil, id); err != nil {
		return translateStoreError(err, ErrUserNotFound)
	}

	s.publish(ctx, events.EventUserDeleted, id, actor.UserID)
	return nil
}

func (s *userService) publish(ctx context.Context, eventType events.EventType, entityID, actorID uint) {
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
