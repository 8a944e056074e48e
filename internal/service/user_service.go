package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/repository"
	apperrors "github.com/creditosas/prestamo-engine/pkg/errors"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err == nil && existing != nil {
		return nil, apperrors.WrapDuplicateUsername(req.Username)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapDatabaseError(err)
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return nil, apperrors.NewBusinessError(apperrors.ErrCodeValidation,
			"role must be admin or collector", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return user, nil
}

// Authenticate verifies a login attempt. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapInvalidCredentials()
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.WrapInvalidCredentials()
	}

	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapUserNotFound(id.String())
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != user.Username {
		other, err := s.users.GetByUsername(ctx, req.Username)
		if err == nil && other != nil {
			return nil, apperrors.WrapDuplicateUsername(req.Username)
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapDatabaseError(err)
		}
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return nil, apperrors.NewBusinessError(apperrors.ErrCodeValidation,
			"role must be admin or collector", nil)
	}

	user.Username = req.Username
	user.Role = role
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return user, nil
}

// Delete removes a user. The acting user cannot remove themself, and users
// with assigned loans stay until their loans are reassigned.
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return apperrors.WrapSelfDelete()
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.users.AssignedLoanCount(ctx, id)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	if count > 0 {
		return apperrors.WrapUserHasLoans(user.Username)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}
