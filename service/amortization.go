package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

var one = decimal.NewFromInt(1)

// roundCents rounds to cents, half away from zero.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// Amortization is a level-payment schedule plus the level payment itself.
type Amortization struct {
	Payment  decimal.Decimal
	Schedule []domain.ScheduleRow
}

// AmortizationSchedule builds a standard level-payment schedule. The payment
// is rounded to cents once up front; the final row is adjusted so the
// balance lands exactly at zero. A zero rate degenerates to principal/n.
func AmortizationSchedule(principal, annualRate decimal.Decimal, months int) Amortization {
	if months <= 0 || !principal.IsPositive() {
		return Amortization{Payment: decimal.Zero, Schedule: []domain.ScheduleRow{}}
	}

	monthlyRate := annualRate.Div(monthsPerYear)

	var payment decimal.Decimal
	if monthlyRate.IsZero() {
		payment = principal.Div(decimal.NewFromInt(int64(months)))
	} else {
		// P * r * (1+r)^n / ((1+r)^n - 1)
		growth := one.Add(monthlyRate).Pow(decimal.NewFromInt(int64(months)))
		payment = principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(one))
	}
	payment = roundCents(payment)

	rows := make([]domain.ScheduleRow, 0, months)
	balance := principal
	for m := 1; m <= months; m++ {
		opening := balance
		interest := roundCents(opening.Mul(monthlyRate))
		principalPart := roundCents(payment.Sub(interest))
		payThis := payment

		// Final row fix so the balance hits exactly zero.
		if m == months {
			principalPart = roundCents(opening)
			payThis = roundCents(principalPart.Add(interest))
		}

		balance = roundCents(opening.Sub(principalPart))
		rows = append(rows, domain.ScheduleRow{
			Month:          m,
			OpeningBalance: roundCents(opening),
			Payment:        payThis,
			Interest:       interest,
			Principal:      principalPart,
			EndingBalance:  balance,
		})
	}

	return Amortization{Payment: payment, Schedule: rows}
}

// SumSchedules sums multiple equal-length schedules pointwise into a single
// portfolio schedule.
func SumSchedules(perAsset map[string][]domain.ScheduleRow) []domain.ScheduleRow {
	if len(perAsset) == 0 {
		return []domain.ScheduleRow{}
	}

	symbols := make([]string, 0, len(perAsset))
	for sym := range perAsset {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	ref := perAsset[symbols[0]]
	agg := make([]domain.ScheduleRow, 0, len(ref))
	for i := range ref {
		row := domain.ScheduleRow{
			Month:          ref[i].Month,
			OpeningBalance: decimal.Zero,
			Payment:        decimal.Zero,
			Interest:       decimal.Zero,
			Principal:      decimal.Zero,
			EndingBalance:  decimal.Zero,
		}
		for _, sym := range symbols {
			sch := perAsset[sym]
			if i >= len(sch) {
				continue
			}
			row.OpeningBalance = row.OpeningBalance.Add(sch[i].OpeningBalance)
			row.Payment = row.Payment.Add(sch[i].Payment)
			row.Interest = row.Interest.Add(sch[i].Interest)
			row.Principal = row.Principal.Add(sch[i].Principal)
			row.EndingBalance = row.EndingBalance.Add(sch[i].EndingBalance)
		}
		agg = append(agg, row)
	}
	return agg
}
