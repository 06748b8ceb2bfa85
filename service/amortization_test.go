package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

func TestAmortizationSchedule_LevelPayment(t *testing.T) {
	// 10000 at 12% over 24 months: the standard level payment is 470.73.
	am := AmortizationSchedule(decimal.NewFromInt(10000), decimal.NewFromFloat(0.12), 24)

	assert.True(t, am.Payment.Equal(decimal.NewFromFloat(470.73)), "got %s", am.Payment)
	require.Len(t, am.Schedule, 24)

	first := am.Schedule[0]
	assert.Equal(t, 1, first.Month)
	assert.True(t, first.OpeningBalance.Equal(decimal.NewFromInt(10000)))
	// first month interest: 10000 * 1% = 100
	assert.True(t, first.Interest.Equal(decimal.NewFromInt(100)), "got %s", first.Interest)
	assert.True(t, first.Principal.Equal(decimal.NewFromFloat(370.73)), "got %s", first.Principal)
}

func TestAmortizationSchedule_BalanceEndsAtZero(t *testing.T) {
	am := AmortizationSchedule(decimal.NewFromFloat(33333.33), decimal.NewFromFloat(0.1633), 18)
	require.NotEmpty(t, am.Schedule)

	last := am.Schedule[len(am.Schedule)-1]
	assert.True(t, last.EndingBalance.IsZero(), "ending balance %s", last.EndingBalance)

	// Principal parts sum back to the full principal.
	total := decimal.Zero
	for _, row := range am.Schedule {
		total = total.Add(row.Principal)
	}
	assert.True(t, total.Equal(decimal.NewFromFloat(33333.33)), "got %s", total)
}

func TestAmortizationSchedule_ZeroRate(t *testing.T) {
	am := AmortizationSchedule(decimal.NewFromInt(1200), decimal.Zero, 12)

	assert.True(t, am.Payment.Equal(decimal.NewFromInt(100)), "got %s", am.Payment)
	for _, row := range am.Schedule {
		assert.True(t, row.Interest.IsZero())
	}
	assert.True(t, am.Schedule[11].EndingBalance.IsZero())
}

func TestAmortizationSchedule_Degenerate(t *testing.T) {
	assert.Empty(t, AmortizationSchedule(decimal.NewFromInt(1000), decimal.NewFromFloat(0.1), 0).Schedule)
	assert.Empty(t, AmortizationSchedule(decimal.Zero, decimal.NewFromFloat(0.1), 12).Schedule)
	assert.True(t, AmortizationSchedule(decimal.Zero, decimal.NewFromFloat(0.1), 12).Payment.IsZero())
}

func TestSumSchedules(t *testing.T) {
	a := AmortizationSchedule(decimal.NewFromInt(1200), decimal.Zero, 12)
	b := AmortizationSchedule(decimal.NewFromInt(2400), decimal.Zero, 12)

	agg := SumSchedules(map[string][]domain.ScheduleRow{
		"BTC": a.Schedule,
		"ETH": b.Schedule,
	})
	require.Len(t, agg, 12)

	assert.Equal(t, 1, agg[0].Month)
	assert.True(t, agg[0].OpeningBalance.Equal(decimal.NewFromInt(3600)), "got %s", agg[0].OpeningBalance)
	assert.True(t, agg[0].Payment.Equal(decimal.NewFromInt(300)), "got %s", agg[0].Payment)
	assert.True(t, agg[11].EndingBalance.IsZero())
}

func TestSumSchedules_Empty(t *testing.T) {
	assert.Empty(t, SumSchedules(nil))
	assert.Empty(t, SumSchedules(map[string][]domain.ScheduleRow{}))
}
