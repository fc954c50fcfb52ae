package repositories

import "context"

// Repository aggregates all entity repositories behind one handle so a
// service can run several mutations inside a single transaction via
// WithTransaction.
type Repository interface {
	User() UserRepository
	Student() StudentRepository
	Teacher() TeacherRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository

	// WithTransaction runs fn against a repository bound to one database
	// transaction. A non-nil error from fn rolls everything back; otherwise
	// the transaction commits. Constraint violations surface at commit as
	// ConstraintError.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
