package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InstallmentStatusPending  = "pending"
	InstallmentStatusPaid     = "paid"
	InstallmentStatusPaidLate = "paid_late"
	// InstallmentStatusNotified marks an overdue installment whose reminder
	// was already sent, so the dispatcher does not message the client twice.
	InstallmentStatusNotified = "notified"
)

// Installment (cuota) is one scheduled partial payment of a loan.
type Installment struct {
	ID      uuid.UUID       `json:"id" db:"id"`
	LoanID  uuid.UUID       `json:"loan_id" db:"loan_id"`
	Number  int             `json:"number" db:"number"`
	Amount  decimal.Decimal `json:"amount" db:"amount"`
	DueDate time.Time       `json:"due_date" db:"due_date"`
	Status  string          `json:"status" db:"status"`
	PaidAt  *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	Note    string          `json:"note,omitempty" db:"note"`
}

// IsSettled reports whether the installment counts toward collected totals.
func (i *Installment) IsSettled() bool {
	return i.Status == InstallmentStatusPaid || i.Status == InstallmentStatusPaidLate
}

// IsOutstanding reports whether the installment is still owed. A notified
// installment remains outstanding; notification only suppresses re-sending.
func (i *Installment) IsOutstanding() bool {
	return i.Status == InstallmentStatusPending || i.Status == InstallmentStatusNotified
}

// ReminderCandidate is a joined row used by the reminder dispatcher:
// a pending installment plus the contact data of the owning client.
type ReminderCandidate struct {
	InstallmentID uuid.UUID       `db:"installment_id"`
	Amount        decimal.Decimal `db:"amount"`
	DueDate       time.Time       `db:"due_date"`
	ClientName    string          `db:"client_name"`
	Phone         string          `db:"phone"`
}
