package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campusops/records-service/internal/events"
	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/repositories"
	"github.com/campusops/records-service/internal/validator"
)

// Access tokens are short-lived; there is no refresh flow, clients
// re-authenticate.
const tokenTTL = 24 * time.Hour

// Claims carried by every issued token. The role is embedded so the boundary
// layer can build the actor without a user lookup per request.
type AccessClaims struct {
	UserID uint            `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    events.EventPublisher
	jwtSecret []byte
}

func NewAuthService(deps ServiceDependencies, jwtSecret string) AuthService {
	return &authService{
		repo:      deps.Repo,
		db:        deps.DB,
		logger:    deps.Logger,
		validator: deps.Validator,
		events:    deps.Events,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.UserResponse, error) {
	s.logger.Info("Registering user", "username", req.Username)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.UserRole(req.Role),
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		return nil, translateStoreError(err, ErrUserNotFound)
	}

	s.publish(ctx, events.EventUserCreated, user.ID, user.ID)
	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	return models.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		// A missing user and a bad password look identical to the caller.
		s.logger.Warn("Login failed", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("Login failed", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return &TokenResponse{
		AccessToken: token,
		User:        models.NewUserResponse(user),
	}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseAccessToken verifies an HS256 token and returns its claims.
func ParseAccessToken(tokenString string, secret []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) publish(ctx context.Context, eventType events.EventType, entityID, actorID uint) {
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
