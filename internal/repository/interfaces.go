package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/creditosas/prestamo-engine/internal/domain"
)

// ClientRepository defines data operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	GetByCedula(ctx context.Context, cedula string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uuid.UUID) error

	// LoanCount guards deletion: a client owning loans cannot be removed.
	LoanCount(ctx context.Context, clientID uuid.UUID) (int, error)
}

// UserRepository defines data operations for admin/collector accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AssignedLoanCount guards deletion: a user with assigned loans stays.
	AssignedLoanCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// LoanRepository defines data operations for loans and their installments.
// Loans and installments travel together: creation and deletion are single
// transactions so a loan never exists half-scheduled.
type LoanRepository interface {
	// Create persists the loan and its full installment schedule atomically.
	Create(ctx context.Context, loan *domain.Loan, installments []*domain.Installment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	ListActive(ctx context.Context) ([]*domain.Loan, error)
	ListActiveByCollector(ctx context.Context, collectorID uuid.UUID) ([]*domain.Loan, error)
	FindActiveByClient(ctx context.Context, clientID uuid.UUID) (*domain.Loan, error)
	ReassignCollector(ctx context.Context, loanID, collectorID uuid.UUID) error

	// Delete removes the loan and all its installments in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	GetInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)
	GetInstallmentByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error)
	UpdateInstallmentStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error

	// ListRemindersDueOn returns pending installments due exactly on the
	// given date, joined with the owning client's name and phone.
	ListRemindersDueOn(ctx context.Context, date time.Time) ([]*domain.ReminderCandidate, error)
}

// SettingRepository defines data operations for key/value settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
