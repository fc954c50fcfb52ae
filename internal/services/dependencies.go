package services

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/events"
	"github.com/campusops/records-service/internal/repositories"
	"github.com/campusops/records-service/internal/validator"
)

// ServiceDependencies bundles the shared collaborators every service is built
// from. Events may be nil; publishing then becomes a no-op.
type ServiceDependencies struct {
	Repo      repositories.Repository
	DB        *gorm.DB
	Logger    *slog.Logger
	Validator *validator.Validator
	Events    events.EventPublisher
}
