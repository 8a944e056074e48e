// Package schedule generates installment plans for a loan: a deterministic,
// date-ordered sequence of due dates and amounts whose sum reconciles exactly
// with the loan's total payable.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/creditosas/prestamo-engine/internal/domain"
)

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Entry is one generated installment before persistence.
type Entry struct {
	Number  int
	DueDate time.Time
	Amount  decimal.Decimal
}

// Plan holds the inputs of a schedule generation run.
type Plan struct {
	Principal       decimal.Decimal
	MonthlyRate     decimal.Decimal // percent per month
	Term            int             // in the frequency's natural unit
	Frequency       domain.Frequency
	StartDate       time.Time
	CollectSaturday bool
	CollectSunday   bool
	// ManualAmount, when positive, fixes the per-installment amount; the
	// count becomes ceil(total/amount) and the last entry takes the rest.
	ManualAmount decimal.Decimal
	// RoundToThousand rounds the auto-computed amount up to the nearest
	// 1000 currency units, again balancing on the last entry.
	RoundToThousand bool
}

// TotalPayable computes the loan total with simple, non-compounding interest:
// P × (1 + (r/100) × t).
func TotalPayable(principal, monthlyRate decimal.Decimal, term int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(
		monthlyRate.Div(hundred).Mul(decimal.NewFromInt(int64(term))))
	return principal.Mul(factor)
}

// InstallmentCount returns the number of installments for a frequency and
// term. The multipliers are fixed business constants, not calendar-derived.
// An unknown frequency yields zero.
func InstallmentCount(f domain.Frequency, term int) int {
	switch f {
	case domain.FrequencyDaily:
		return term * 26
	case domain.FrequencyWeekly:
		return term * 4
	case domain.FrequencyBiweekly:
		return term * 2
	case domain.FrequencyMonthly:
		return term
	}
	return 0
}

// Generate produces the ordered installment sequence for a plan. Inputs are
// not validated; zero and negative terms or rates are the caller's problem.
func Generate(p Plan) []Entry {
	total := TotalPayable(p.Principal, p.MonthlyRate, p.Term)

	// Unknown frequencies produce an empty schedule; callers validate
	// before persisting.
	count := InstallmentCount(p.Frequency, p.Term)
	if count <= 0 {
		return nil
	}
	manual := p.ManualAmount.IsPositive()
	if manual {
		count = int(total.Div(p.ManualAmount).Ceil().IntPart())
		if count <= 0 {
			return nil
		}
	}

	amount := p.ManualAmount
	if !manual {
		amount = total.Div(decimal.NewFromInt(int64(count))).Round(2)
		if p.RoundToThousand {
			amount = amount.Div(thousand).Ceil().Mul(thousand)
		}
	}
	// The final installment absorbs the rounding remainder so the sum
	// matches the total exactly. It is allowed to go to zero or negative
	// in manual mode; that boundary is not enforced here.
	last := total.Sub(amount.Mul(decimal.NewFromInt(int64(count - 1))))

	entries := make([]Entry, 0, count)
	current := p.StartDate.AddDate(0, 0, 1)
	for n := 1; n <= count; n++ {
		if p.Frequency == domain.FrequencyDaily {
			current = nextCollectionDay(current, p.CollectSaturday, p.CollectSunday)
		}

		due := amount
		if n == count {
			due = last
		}
		entries = append(entries, Entry{Number: n, DueDate: current, Amount: due})

		switch p.Frequency {
		case domain.FrequencyDaily:
			current = current.AddDate(0, 0, 1)
		case domain.FrequencyWeekly:
			current = current.AddDate(0, 0, 7)
		case domain.FrequencyBiweekly:
			current = current.AddDate(0, 0, 15)
		case domain.FrequencyMonthly:
			// Fixed 30-day step, intentionally not calendar-month-aware.
			current = current.AddDate(0, 0, 30)
		}
	}
	return entries
}

// nextCollectionDay advances past excluded weekend days for daily loans.
func nextCollectionDay(d time.Time, saturday, sunday bool) time.Time {
	for {
		switch d.Weekday() {
		case time.Saturday:
			if saturday {
				return d
			}
		case time.Sunday:
			if sunday {
				return d
			}
		default:
			return d
		}
		d = d.AddDate(0, 0, 1)
	}
}
