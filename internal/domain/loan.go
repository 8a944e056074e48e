package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is the collection cadence of a loan. The term is expressed in the
// frequency's natural unit (months for monthly, and so on).
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

const (
	LoanStatusActive = "active"
	LoanStatusClosed = "closed"
)

// Visual states shown on the dashboard per loan.
const (
	LoanVisualCurrent  = "current"
	LoanVisualOverdue  = "overdue"
	LoanVisualUpcoming = "upcoming"
)

// upcomingWindow is how close a pending due date must be for a non-daily
// loan to be flagged as upcoming.
const upcomingWindow = 3 * 24 * time.Hour

// Loan is a credit extended to a client, repaid through installments.
// TotalPayable is computed once at creation with simple interest and
// never recalculated.
type Loan struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ClientID        uuid.UUID       `json:"client_id" db:"client_id"`
	CollectorID     uuid.UUID       `json:"collector_id" db:"collector_id"`
	Principal       decimal.Decimal `json:"principal" db:"principal"`
	MonthlyRate     decimal.Decimal `json:"monthly_rate" db:"monthly_rate"`
	Term            int             `json:"term" db:"term"`
	TotalPayable    decimal.Decimal `json:"total_payable" db:"total_payable"`
	Frequency       Frequency       `json:"frequency" db:"frequency"`
	StartDate       time.Time       `json:"start_date" db:"start_date"`
	Status          string          `json:"status" db:"status"`
	CollectSaturday bool            `json:"collect_saturday" db:"collect_saturday"`
	CollectSunday   bool            `json:"collect_sunday" db:"collect_sunday"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// CollectedAmount sums the settled installments of a loan.
func CollectedAmount(installments []*Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range installments {
		if inst.IsSettled() {
			total = total.Add(inst.Amount)
		}
	}
	return total
}

// ProgressPercent returns collected/total payable as a whole percentage,
// 0 when the total payable is zero.
func (l *Loan) ProgressPercent(installments []*Installment) int {
	if l.TotalPayable.IsZero() {
		return 0
	}
	collected := CollectedAmount(installments)
	return int(collected.Div(l.TotalPayable).Mul(decimal.NewFromInt(100)).IntPart())
}

// VisualStatus derives the dashboard state of a loan from its installments.
// The earliest-due pending installment decides: overdue when it is strictly
// before today, upcoming when it falls within three days of today on a
// non-daily loan, current otherwise.
func (l *Loan) VisualStatus(installments []*Installment, today time.Time) string {
	sorted := make([]*Installment, len(installments))
	copy(sorted, installments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	var next *Installment
	for _, inst := range sorted {
		if inst.Status == InstallmentStatusPending {
			next = inst
			break
		}
	}
	if next == nil {
		return LoanVisualCurrent
	}

	today = today.Truncate(24 * time.Hour)
	due := next.DueDate.Truncate(24 * time.Hour)
	switch {
	case due.Before(today):
		return LoanVisualOverdue
	case l.Frequency != FrequencyDaily && !due.After(today.Add(upcomingWindow)):
		return LoanVisualUpcoming
	}
	return LoanVisualCurrent
}

// DTOs

type CreateLoanRequest struct {
	Cedula          string          `json:"cedula" validate:"required,max=20"`
	ClientName      string          `json:"nombre_completo,omitempty" validate:"max=120"`
	ClientPhone     string          `json:"telefono,omitempty" validate:"max=20"`
	ClientAddress   string          `json:"direccion,omitempty" validate:"max=200"`
	Principal       decimal.Decimal `json:"principal" validate:"required"`
	MonthlyRate     decimal.Decimal `json:"monthly_rate"`
	Term            int             `json:"term" validate:"required,gt=0"`
	Frequency       string          `json:"frequency" validate:"required,oneof=daily weekly biweekly monthly"`
	CollectorID     uuid.UUID       `json:"collector_id"`
	CollectSaturday bool            `json:"collect_saturday"`
	CollectSunday   bool            `json:"collect_sunday"`
	ManualAmount    decimal.Decimal `json:"manual_amount"`
	RoundToThousand bool            `json:"round_to_thousand"`
}

type LoanDetail struct {
	Loan         *Loan          `json:"loan"`
	Client       *Client        `json:"client"`
	Installments []*Installment `json:"installments"`
	Collected    string         `json:"collected"`
	Progress     int            `json:"progress"`
	VisualStatus string         `json:"visual_status"`
}

// LoanSummary is one dashboard row.
type LoanSummary struct {
	LoanID       uuid.UUID `json:"loan_id"`
	ClientName   string    `json:"client_name"`
	Frequency    Frequency `json:"frequency"`
	Principal    string    `json:"principal"`
	TotalPayable string    `json:"total_payable"`
	Collected    string    `json:"collected"`
	Progress     int       `json:"progress"`
	VisualStatus string    `json:"visual_status"`
}

// PortfolioSummary aggregates the active loan book.
type PortfolioSummary struct {
	TotalDisbursed string         `json:"total_disbursed"`
	TotalCollected string         `json:"total_collected"`
	PendingBalance string         `json:"pending_balance"`
	ActiveLoans    int            `json:"active_loans"`
	Loans          []*LoanSummary `json:"loans"`
}
