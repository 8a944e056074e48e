package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditosas/prestamo-engine/internal/domain"
)

// Monday, so the first candidate due date (start+1) is a Tuesday.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func TestTotalPayable(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		term      int
		expected  decimal.Decimal
	}{
		{
			name:      "three months at ten percent",
			principal: decimal.NewFromInt(1000000),
			rate:      decimal.NewFromInt(10),
			term:      3,
			expected:  decimal.NewFromInt(1300000),
		},
		{
			name:      "zero rate returns principal",
			principal: decimal.NewFromInt(500000),
			rate:      decimal.Zero,
			term:      6,
			expected:  decimal.NewFromInt(500000),
		},
		{
			name:      "fractional rate",
			principal: decimal.NewFromInt(200000),
			rate:      decimal.NewFromFloat(2.5),
			term:      4,
			expected:  decimal.NewFromInt(220000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalPayable(tt.principal, tt.rate, tt.term)
			assert.True(t, got.Equal(tt.expected), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestInstallmentCount(t *testing.T) {
	tests := []struct {
		frequency domain.Frequency
		term      int
		expected  int
	}{
		{domain.FrequencyDaily, 2, 52},
		{domain.FrequencyWeekly, 3, 12},
		{domain.FrequencyBiweekly, 3, 6},
		{domain.FrequencyMonthly, 3, 3},
		{domain.Frequency("yearly"), 3, 0},
		{domain.Frequency(""), 3, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			assert.Equal(t, tt.expected, InstallmentCount(tt.frequency, tt.term))
		})
	}
}

func TestGenerateMonthlyReconcilesRounding(t *testing.T) {
	entries := Generate(Plan{
		Principal:   decimal.NewFromInt(1000000),
		MonthlyRate: decimal.NewFromInt(10),
		Term:        3,
		Frequency:   domain.FrequencyMonthly,
		StartDate:   monday,
	})

	require.Len(t, entries, 3)

	each := decimal.NewFromFloat(433333.33)
	assert.True(t, entries[0].Amount.Equal(each))
	assert.True(t, entries[1].Amount.Equal(each))
	// The last installment absorbs the cent lost to rounding.
	assert.True(t, entries[2].Amount.Equal(decimal.NewFromFloat(433333.34)),
		"got %v", entries[2].Amount)

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1300000)), "sum %v", sum)

	// Fixed 30-day steps, first due date one day after start.
	assert.Equal(t, monday.AddDate(0, 0, 1), entries[0].DueDate)
	assert.Equal(t, monday.AddDate(0, 0, 31), entries[1].DueDate)
	assert.Equal(t, monday.AddDate(0, 0, 61), entries[2].DueDate)
}

func TestGenerateSumMatchesTotalPayable(t *testing.T) {
	plans := []Plan{
		{Principal: decimal.NewFromInt(1000000), MonthlyRate: decimal.NewFromInt(10), Term: 3, Frequency: domain.FrequencyMonthly},
		{Principal: decimal.NewFromInt(777777), MonthlyRate: decimal.NewFromFloat(7.3), Term: 5, Frequency: domain.FrequencyWeekly},
		{Principal: decimal.NewFromInt(350000), MonthlyRate: decimal.NewFromInt(15), Term: 2, Frequency: domain.FrequencyDaily},
		{Principal: decimal.NewFromFloat(123456.78), MonthlyRate: decimal.NewFromFloat(8.25), Term: 4, Frequency: domain.FrequencyBiweekly},
		{Principal: decimal.NewFromInt(900000), MonthlyRate: decimal.NewFromInt(12), Term: 3, Frequency: domain.FrequencyMonthly, RoundToThousand: true},
		{Principal: decimal.NewFromInt(1300000), MonthlyRate: decimal.Zero, Term: 3, Frequency: domain.FrequencyMonthly, ManualAmount: decimal.NewFromInt(500000)},
	}

	for _, plan := range plans {
		plan.StartDate = monday
		entries := Generate(plan)
		require.NotEmpty(t, entries)

		total := TotalPayable(plan.Principal, plan.MonthlyRate, plan.Term)
		sum := decimal.Zero
		for _, e := range entries {
			sum = sum.Add(e.Amount)
		}
		assert.True(t, sum.Equal(total),
			"frequency %s: sum %v != total %v", plan.Frequency, sum, total)
	}
}

func TestGenerateDailySkipsExcludedWeekends(t *testing.T) {
	entries := Generate(Plan{
		Principal:   decimal.NewFromInt(520000),
		MonthlyRate: decimal.NewFromInt(10),
		Term:        1,
		Frequency:   domain.FrequencyDaily,
		StartDate:   monday,
	})

	require.Len(t, entries, 26)
	for _, e := range entries {
		assert.NotEqual(t, time.Saturday, e.DueDate.Weekday(), "due %v", e.DueDate)
		assert.NotEqual(t, time.Sunday, e.DueDate.Weekday(), "due %v", e.DueDate)
	}
}

func TestGenerateDailyHonorsSaturdayFlag(t *testing.T) {
	entries := Generate(Plan{
		Principal:       decimal.NewFromInt(260000),
		MonthlyRate:     decimal.NewFromInt(10),
		Term:            1,
		Frequency:       domain.FrequencyDaily,
		StartDate:       monday,
		CollectSaturday: true,
	})

	require.Len(t, entries, 26)
	saturdays := 0
	for _, e := range entries {
		assert.NotEqual(t, time.Sunday, e.DueDate.Weekday())
		if e.DueDate.Weekday() == time.Saturday {
			saturdays++
		}
	}
	assert.Greater(t, saturdays, 0, "saturday collection enabled but no saturday due dates")
}

func TestGenerateDueDatesStrictlyIncreasing(t *testing.T) {
	for _, freq := range []domain.Frequency{
		domain.FrequencyDaily, domain.FrequencyWeekly,
		domain.FrequencyBiweekly, domain.FrequencyMonthly,
	} {
		t.Run(string(freq), func(t *testing.T) {
			entries := Generate(Plan{
				Principal:   decimal.NewFromInt(600000),
				MonthlyRate: decimal.NewFromInt(5),
				Term:        2,
				Frequency:   freq,
				StartDate:   monday,
			})
			require.NotEmpty(t, entries)

			earliest := monday.AddDate(0, 0, 1)
			prev := entries[0].DueDate
			assert.False(t, prev.Before(earliest), "first due date before start+1")
			for _, e := range entries[1:] {
				assert.True(t, e.DueDate.After(prev),
					"due dates not strictly increasing: %v then %v", prev, e.DueDate)
				prev = e.DueDate
			}
		})
	}
}

func TestGenerateWeeklyAndBiweeklySteps(t *testing.T) {
	weekly := Generate(Plan{
		Principal: decimal.NewFromInt(400000), MonthlyRate: decimal.NewFromInt(10),
		Term: 1, Frequency: domain.FrequencyWeekly, StartDate: monday,
	})
	require.Len(t, weekly, 4)
	for i, e := range weekly {
		assert.Equal(t, monday.AddDate(0, 0, 1+7*i), e.DueDate)
	}

	biweekly := Generate(Plan{
		Principal: decimal.NewFromInt(400000), MonthlyRate: decimal.NewFromInt(10),
		Term: 1, Frequency: domain.FrequencyBiweekly, StartDate: monday,
	})
	require.Len(t, biweekly, 2)
	assert.Equal(t, monday.AddDate(0, 0, 1), biweekly[0].DueDate)
	assert.Equal(t, monday.AddDate(0, 0, 16), biweekly[1].DueDate)
}

func TestGenerateManualAmount(t *testing.T) {
	t.Run("count is ceil of total over amount", func(t *testing.T) {
		// T = 1,300,000, m = 500,000 -> 3 installments, last takes 300,000.
		entries := Generate(Plan{
			Principal:    decimal.NewFromInt(1000000),
			MonthlyRate:  decimal.NewFromInt(10),
			Term:         3,
			Frequency:    domain.FrequencyMonthly,
			StartDate:    monday,
			ManualAmount: decimal.NewFromInt(500000),
		})

		require.Len(t, entries, 3)
		assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(500000)))
		assert.True(t, entries[1].Amount.Equal(decimal.NewFromInt(500000)))
		assert.True(t, entries[2].Amount.Equal(decimal.NewFromInt(300000)))
	})

	t.Run("amount above total yields single installment", func(t *testing.T) {
		entries := Generate(Plan{
			Principal:    decimal.NewFromInt(100000),
			MonthlyRate:  decimal.Zero,
			Term:         1,
			Frequency:    domain.FrequencyMonthly,
			StartDate:    monday,
			ManualAmount: decimal.NewFromInt(999999),
		})

		require.Len(t, entries, 1)
		assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("exactly divisible total keeps last equal to the rest", func(t *testing.T) {
		entries := Generate(Plan{
			Principal:    decimal.NewFromInt(1000000),
			MonthlyRate:  decimal.NewFromInt(10),
			Term:         3,
			Frequency:    domain.FrequencyMonthly,
			StartDate:    monday,
			ManualAmount: decimal.NewFromInt(650000),
		})

		require.Len(t, entries, 2)
		assert.True(t, entries[1].Amount.Equal(decimal.NewFromInt(650000)))
	})

	t.Run("negative total produces no schedule", func(t *testing.T) {
		// A rate below -100/t drives the total negative; the generator
		// does not validate, it just has nothing to emit.
		entries := Generate(Plan{
			Principal:    decimal.NewFromInt(100000),
			MonthlyRate:  decimal.NewFromInt(-50),
			Term:         3,
			Frequency:    domain.FrequencyMonthly,
			StartDate:    monday,
			ManualAmount: decimal.NewFromInt(10000),
		})
		assert.Empty(t, entries)
	})
}

func TestGenerateRoundToThousand(t *testing.T) {
	entries := Generate(Plan{
		Principal:       decimal.NewFromInt(1000000),
		MonthlyRate:     decimal.NewFromInt(10),
		Term:            3,
		Frequency:       domain.FrequencyMonthly,
		StartDate:       monday,
		RoundToThousand: true,
	})

	require.Len(t, entries, 3)
	// 433,333.33 rounds up to 434,000; the final installment balances
	// back down so the sum still matches 1,300,000 exactly.
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(434000)))
	assert.True(t, entries[1].Amount.Equal(decimal.NewFromInt(434000)))
	assert.True(t, entries[2].Amount.Equal(decimal.NewFromInt(432000)), "got %v", entries[2].Amount)
}

func TestGenerateUnknownFrequencyIsSilentlyEmpty(t *testing.T) {
	entries := Generate(Plan{
		Principal:   decimal.NewFromInt(100000),
		MonthlyRate: decimal.NewFromInt(10),
		Term:        3,
		Frequency:   domain.Frequency("hourly"),
		StartDate:   monday,
	})
	assert.Empty(t, entries)
}
