package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/creditosas/prestamo-engine/internal/domain"
	apperrors "github.com/creditosas/prestamo-engine/pkg/errors"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByUsername", mock.Anything, "cobrador1").Return(nil, sql.ErrNoRows).Once()

	var stored *domain.User
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		stored = u
		return u.Username == "cobrador1" && u.Role == domain.RoleCollector
	})).Return(nil)

	svc := NewUserService(users)
	created, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		Username: "cobrador1",
		Password: "secreto123",
		Role:     "collector",
	})

	assert.NoError(t, err)
	assert.NotEqual(t, "secreto123", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secreto123")))

	users.On("GetByUsername", mock.Anything, "cobrador1").Return(stored, nil)

	authed, err := svc.Authenticate(context.Background(), "cobrador1", "secreto123")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, authed.ID)

	_, err = svc.Authenticate(context.Background(), "cobrador1", "incorrecta")
	var bizErr *apperrors.BusinessError
	assert.ErrorAs(t, err, &bizErr)
	assert.Equal(t, apperrors.ErrCodeInvalidCredentials, bizErr.Code)
}

func TestUserCreateRejectsDuplicates(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByUsername", mock.Anything, "admin").
		Return(&domain.User{Username: "admin"}, nil)

	svc := NewUserService(users)
	_, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		Username: "admin",
		Password: "secreto123",
		Role:     "admin",
	})

	var bizErr *apperrors.BusinessError
	assert.ErrorAs(t, err, &bizErr)
	assert.Equal(t, apperrors.ErrCodeDuplicateUsername, bizErr.Code)
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByUsername", mock.Anything, "nuevo").Return(nil, sql.ErrNoRows)

	svc := NewUserService(users)
	_, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		Username: "nuevo",
		Password: "secreto123",
		Role:     "supervisor",
	})

	var bizErr *apperrors.BusinessError
	assert.ErrorAs(t, err, &bizErr)
	assert.Equal(t, apperrors.ErrCodeValidation, bizErr.Code)
}

func TestUserDelete(t *testing.T) {
	actorID := uuid.New()

	t.Run("cannot delete self", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository))
		err := svc.Delete(context.Background(), actorID, actorID)

		var bizErr *apperrors.BusinessError
		assert.ErrorAs(t, err, &bizErr)
		assert.Equal(t, apperrors.ErrCodeSelfDelete, bizErr.Code)
	})

	t.Run("cannot delete user with assigned loans", func(t *testing.T) {
		targetID := uuid.New()
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, targetID).
			Return(&domain.User{ID: targetID, Username: "cobrador1"}, nil)
		users.On("AssignedLoanCount", mock.Anything, targetID).Return(3, nil)

		svc := NewUserService(users)
		err := svc.Delete(context.Background(), actorID, targetID)

		var bizErr *apperrors.BusinessError
		assert.ErrorAs(t, err, &bizErr)
		assert.Equal(t, apperrors.ErrCodeUserHasLoans, bizErr.Code)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes unassigned user", func(t *testing.T) {
		targetID := uuid.New()
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, targetID).
			Return(&domain.User{ID: targetID, Username: "cobrador2"}, nil)
		users.On("AssignedLoanCount", mock.Anything, targetID).Return(0, nil)
		users.On("Delete", mock.Anything, targetID).Return(nil)

		svc := NewUserService(users)
		err := svc.Delete(context.Background(), actorID, targetID)

		assert.NoError(t, err)
		users.AssertExpectations(t)
	})
}
