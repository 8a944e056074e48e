package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/repository"
	"github.com/creditosas/prestamo-engine/internal/schedule"
	apperrors "github.com/creditosas/prestamo-engine/pkg/errors"
)

type LoanService struct {
	loans   repository.LoanRepository
	clients repository.ClientRepository
	users   repository.UserRepository
}

func NewLoanService(
	loans repository.LoanRepository,
	clients repository.ClientRepository,
	users repository.UserRepository,
) *LoanService {
	return &LoanService{
		loans:   loans,
		clients: clients,
		users:   users,
	}
}

// Create registers a loan for the client identified by cedula, generating
// and persisting the full installment schedule in one transaction. When the
// client does not exist yet and the request carries their details, the
// client is created on the spot. The collector defaults to the acting user.
func (s *LoanService) Create(ctx context.Context, req *domain.CreateLoanRequest, actorID uuid.UUID) (*domain.LoanDetail, error) {
	client, err := s.clients.GetByCedula(ctx, req.Cedula)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if req.ClientName == "" {
			return nil, apperrors.WrapClientNotFound(req.Cedula)
		}
		client = &domain.Client{
			ID:        uuid.New(),
			Cedula:    req.Cedula,
			FullName:  req.ClientName,
			Address:   req.ClientAddress,
			Phone:     req.ClientPhone,
			CreatedAt: time.Now(),
		}
		if err := s.clients.Create(ctx, client); err != nil {
			return nil, apperrors.WrapDatabaseError(err)
		}
	case err != nil:
		return nil, apperrors.WrapDatabaseError(err)
	}

	collectorID := req.CollectorID
	if collectorID == uuid.Nil {
		collectorID = actorID
	}
	if _, err := s.users.GetByID(ctx, collectorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapUserNotFound(collectorID.String())
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	plan := schedule.Plan{
		Principal:       req.Principal,
		MonthlyRate:     req.MonthlyRate,
		Term:            req.Term,
		Frequency:       domain.Frequency(req.Frequency),
		StartDate:       startDate,
		CollectSaturday: req.CollectSaturday,
		CollectSunday:   req.CollectSunday,
		ManualAmount:    req.ManualAmount,
		RoundToThousand: req.RoundToThousand,
	}
	entries := schedule.Generate(plan)

	loan := &domain.Loan{
		ID:              uuid.New(),
		ClientID:        client.ID,
		CollectorID:     collectorID,
		Principal:       req.Principal,
		MonthlyRate:     req.MonthlyRate,
		Term:            req.Term,
		TotalPayable:    schedule.TotalPayable(req.Principal, req.MonthlyRate, req.Term),
		Frequency:       plan.Frequency,
		StartDate:       startDate,
		Status:          domain.LoanStatusActive,
		CollectSaturday: req.CollectSaturday,
		CollectSunday:   req.CollectSunday,
		CreatedAt:       time.Now(),
	}

	installments := make([]*domain.Installment, 0, len(entries))
	for _, e := range entries {
		installments = append(installments, &domain.Installment{
			ID:      uuid.New(),
			LoanID:  loan.ID,
			Number:  e.Number,
			Amount:  e.Amount,
			DueDate: e.DueDate,
			Status:  domain.InstallmentStatusPending,
		})
	}

	if err := s.loans.Create(ctx, loan, installments); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	log.WithFields(log.Fields{
		"loan_id":      loan.ID,
		"cedula":       client.Cedula,
		"installments": len(installments),
		"frequency":    loan.Frequency,
	}).Info("loan created")

	return s.detail(loan, client, installments), nil
}

// Simulate generates a schedule preview without touching storage.
func (s *LoanService) Simulate(req *domain.CreateLoanRequest) ([]schedule.Entry, string) {
	total := schedule.TotalPayable(req.Principal, req.MonthlyRate, req.Term)
	entries := schedule.Generate(schedule.Plan{
		Principal:       req.Principal,
		MonthlyRate:     req.MonthlyRate,
		Term:            req.Term,
		Frequency:       domain.Frequency(req.Frequency),
		StartDate:       time.Now().UTC().Truncate(24 * time.Hour),
		CollectSaturday: req.CollectSaturday,
		CollectSunday:   req.CollectSunday,
		ManualAmount:    req.ManualAmount,
		RoundToThousand: req.RoundToThousand,
	})
	return entries, total.StringFixed(2)
}

func (s *LoanService) Get(ctx context.Context, id uuid.UUID) (*domain.LoanDetail, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapLoanNotFound(id.String())
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	client, err := s.clients.GetByID(ctx, loan.ClientID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	installments, err := s.loans.GetInstallments(ctx, id)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return s.detail(loan, client, installments), nil
}

// StatusByCedula serves the public self-service query: a client enters
// their cedula and sees their active loan.
func (s *LoanService) StatusByCedula(ctx context.Context, cedula string) (*domain.LoanDetail, error) {
	client, err := s.clients.GetByCedula(ctx, cedula)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapLoanNotFound(cedula)
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	loan, err := s.loans.FindActiveByClient(ctx, client.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapLoanNotFound(cedula)
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	installments, err := s.loans.GetInstallments(ctx, loan.ID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return s.detail(loan, client, installments), nil
}

func (s *LoanService) Reassign(ctx context.Context, loanID, collectorID uuid.UUID) error {
	if _, err := s.loans.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapLoanNotFound(loanID.String())
		}
		return apperrors.WrapDatabaseError(err)
	}
	if _, err := s.users.GetByID(ctx, collectorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapUserNotFound(collectorID.String())
		}
		return apperrors.WrapDatabaseError(err)
	}

	if err := s.loans.ReassignCollector(ctx, loanID, collectorID); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

// Delete removes a loan together with every installment it owns.
func (s *LoanService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loans.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapLoanNotFound(id.String())
		}
		return apperrors.WrapDatabaseError(err)
	}

	if err := s.loans.Delete(ctx, id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	log.WithField("loan_id", id).Info("loan and installments deleted")
	return nil
}

// PayInstallment settles one installment. Payments after the due date are
// recorded as paid_late so collections can tell them apart.
func (s *LoanService) PayInstallment(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	inst, err := s.loans.GetInstallmentByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapInstallmentNotFound(id.String())
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if inst.IsSettled() {
		return nil, apperrors.WrapAlreadyPaid(id.String())
	}

	now := time.Now()
	status := domain.InstallmentStatusPaid
	if now.UTC().Truncate(24*time.Hour).After(inst.DueDate.UTC().Truncate(24 * time.Hour)) {
		status = domain.InstallmentStatusPaidLate
	}

	if err := s.loans.UpdateInstallmentStatus(ctx, id, status, &now); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	inst.Status = status
	inst.PaidAt = &now
	return inst, nil
}

// RevertInstallment undoes a recorded payment, returning the installment to
// pending with no payment timestamp.
func (s *LoanService) RevertInstallment(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	inst, err := s.loans.GetInstallmentByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapInstallmentNotFound(id.String())
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if err := s.loans.UpdateInstallmentStatus(ctx, id, domain.InstallmentStatusPending, nil); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	inst.Status = domain.InstallmentStatusPending
	inst.PaidAt = nil
	return inst, nil
}

func (s *LoanService) detail(loan *domain.Loan, client *domain.Client, installments []*domain.Installment) *domain.LoanDetail {
	today := time.Now().UTC()
	return &domain.LoanDetail{
		Loan:         loan,
		Client:       client,
		Installments: installments,
		Collected:    domain.CollectedAmount(installments).StringFixed(2),
		Progress:     loan.ProgressPercent(installments),
		VisualStatus: loan.VisualStatus(installments, today),
	}
}
