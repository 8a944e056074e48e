package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/creditosas/prestamo-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, client_id, collector_id, principal, monthly_rate, term,
	total_payable, frequency, start_date, status, collect_saturday, collect_sunday, created_at`

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan, installments []*domain.Installment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	loanQuery := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = tx.ExecContext(ctx, loanQuery,
		loan.ID,
		loan.ClientID,
		loan.CollectorID,
		loan.Principal,
		loan.MonthlyRate,
		loan.Term,
		loan.TotalPayable,
		loan.Frequency,
		loan.StartDate,
		loan.Status,
		loan.CollectSaturday,
		loan.CollectSunday,
		loan.CreatedAt,
	)
	if err != nil {
		return err
	}

	instQuery := `
		INSERT INTO installments (id, loan_id, number, amount, due_date, status, paid_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, inst := range installments {
		_, err = tx.ExecContext(ctx, instQuery,
			inst.ID,
			inst.LoanID,
			inst.Number,
			inst.Amount,
			inst.DueDate,
			inst.Status,
			inst.PaidAt,
			inst.Note,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = $1 ORDER BY created_at`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListActiveByCollector(ctx context.Context, collectorID uuid.UUID) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = $1 AND collector_id = $2 ORDER BY created_at`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive, collectorID); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) FindActiveByClient(ctx context.Context, clientID uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = $1 AND client_id = $2 LIMIT 1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, domain.LoanStatusActive, clientID); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ReassignCollector(ctx context.Context, loanID, collectorID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE loans SET collector_id = $2 WHERE id = $1`, loanID, collectorID)
	return err
}

// Delete cascades explicitly: installments first, then the loan, one tx.
func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM installments WHERE loan_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) GetInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, number, amount, due_date, status, paid_at, note
		FROM installments
		WHERE loan_id = $1
		ORDER BY due_date, number
	`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) GetInstallmentByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := `
		SELECT id, loan_id, number, amount, due_date, status, paid_at, note
		FROM installments
		WHERE id = $1
	`

	var inst domain.Installment
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}

	return &inst, nil
}

func (r *loanRepository) UpdateInstallmentStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE installments SET status = $2, paid_at = $3 WHERE id = $1`,
		id, status, paidAt)
	return err
}

func (r *loanRepository) ListRemindersDueOn(ctx context.Context, date time.Time) ([]*domain.ReminderCandidate, error) {
	query := `
		SELECT i.id AS installment_id, i.amount, i.due_date,
		       c.full_name AS client_name, c.phone
		FROM installments i
		JOIN loans l ON l.id = i.loan_id
		JOIN clients c ON c.id = l.client_id
		WHERE i.status = $1 AND i.due_date = $2
		ORDER BY i.due_date, i.number
	`

	var candidates []*domain.ReminderCandidate
	err := r.db.SelectContext(ctx, &candidates, query,
		domain.InstallmentStatusPending, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	return candidates, nil
}
