// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/config"
	"conesa_estates_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for profile business logic.
type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*shared.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*shared.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error)
	GetUserByEmail(ctx context.Context, email string) (*shared.User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*shared.User, error)
	ResolveDisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*PreferencesResponse, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req PreferencesRequest) (*PreferencesResponse, error)
}

// ServiceImplementation implements Service, shared.Service and
// auth.CredentialService.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)
var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new profile service.
func NewService(
	repo Repository,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// Register creates a new profile with the default agent role.
func (s *ServiceImplementation) Register(ctx context.Context, email, password, displayName string) (*shared.User, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrConflict.WithDetails("A profile with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing profile by email: %w", err)
	}

	hashedPassword, err := common.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := &User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashedPassword,
		Role:         common.RoleAgent,
		Theme:        "light",
		Language:     "es",
	}
	if trimmed := strings.TrimSpace(displayName); trimmed != "" {
		dbUser.DisplayName = &trimmed
	}

	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create profile in repository", zap.Error(err), zap.String("email", email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Profile registered successfully", zap.String("userID", dbUser.ID.String()))
	return DBToShared(dbUser), nil
}

// VerifyCredentials checks an email/password pair and returns the profile.
// The caller owns the timeout on ctx.
func (s *ServiceImplementation) VerifyCredentials(ctx context.Context, email, password string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("Profile not found during login", zap.String("email", email))
			return nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding profile by email during login", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	if !common.CheckPasswordHash(password, dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	s.logger.Info("Profile logged in successfully", zap.String("userID", dbUser.ID.String()))
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("Profile not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding profile by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("Profile not found by email", zap.String("email", email))
		} else {
			s.logger.Error("Error finding profile by email", zap.Error(err), zap.String("email", email))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

// ListUsers returns every profile for the admin Agents tab.
func (s *ServiceImplementation) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// UpdateRole toggles a profile between admin and agent. An admin cannot
// change their own role, so the last admin cannot lock everyone out by
// accident.
func (s *ServiceImplementation) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*shared.User, error) {
	if !common.IsValidRole(role) {
		return nil, common.ErrBadRequest.WithDetails("Unknown role.")
	}
	if actorID == targetID {
		return nil, common.ErrForbidden.WithDetails("You cannot change your own role.")
	}

	dbUser, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	dbUser.Role = role
	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to update profile role", zap.Error(err), zap.String("userID", targetID.String()))
		return nil, err
	}

	s.logger.Info("Profile role updated",
		zap.String("userID", targetID.String()),
		zap.String("role", role),
		zap.String("actorID", actorID.String()),
	)
	return DBToShared(dbUser), nil
}

// ResolveDisplayNames batch-resolves owner IDs to display names for the
// admin dashboard's owner attribution column.
func (s *ServiceImplementation) ResolveDisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	users, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to batch-resolve profiles", zap.Error(err))
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].EffectiveDisplayName()
	}
	return names, nil
}

func (s *ServiceImplementation) GetPreferences(ctx context.Context, userID uuid.UUID) (*PreferencesResponse, error) {
	dbUser, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PreferencesResponse{Theme: dbUser.Theme, Language: dbUser.Language}, nil
}

func (s *ServiceImplementation) UpdatePreferences(ctx context.Context, userID uuid.UUID, req PreferencesRequest) (*PreferencesResponse, error) {
	dbUser, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dbUser.Theme = req.Theme
	dbUser.Language = req.Language
	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to update preferences", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}
	return &PreferencesResponse{Theme: dbUser.Theme, Language: dbUser.Language}, nil
}
