package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeBudgetUsage(t *testing.T) {
	tests := []struct {
		name          string
		limit         string
		spent         string
		inbound       string
		outbound      string
		wantNet       string
		wantEffective string
		wantRemaining string
		wantPercent   float64
	}{
		{
			name:  "plain spending against the limit",
			limit: "1000.00", spent: "250.00", inbound: "0", outbound: "0",
			wantNet: "0", wantEffective: "1000.00", wantRemaining: "750.00", wantPercent: 25.0,
		},
		{
			name:  "inbound transfer raises the effective limit",
			limit: "1000.00", spent: "500.00", inbound: "200.00", outbound: "0",
			wantNet: "200.00", wantEffective: "1200.00", wantRemaining: "700.00", wantPercent: 500.0 / 1200.0 * 100,
		},
		{
			name:  "outbound transfer lowers the effective limit",
			limit: "1000.00", spent: "100.00", inbound: "0", outbound: "300.00",
			wantNet: "-300.00", wantEffective: "700.00", wantRemaining: "600.00", wantPercent: 100.0 / 700.0 * 100,
		},
		{
			name:  "overspend exceeds one hundred percent",
			limit: "100.00", spent: "150.00", inbound: "0", outbound: "0",
			wantNet: "0", wantEffective: "100.00", wantRemaining: "-50.00", wantPercent: 150.0,
		},
		{
			name:  "zero effective limit reports zero percent",
			limit: "0", spent: "50.00", inbound: "0", outbound: "0",
			wantNet: "0", wantEffective: "0", wantRemaining: "-50.00", wantPercent: 0.0,
		},
		{
			name:  "transfers cancelling out to a zero limit",
			limit: "100.00", spent: "25.00", inbound: "0", outbound: "100.00",
			wantNet: "-100.00", wantEffective: "0", wantRemaining: "-25.00", wantPercent: 0.0,
		},
		{
			name:  "nothing spent",
			limit: "500.00", spent: "0", inbound: "0", outbound: "0",
			wantNet: "0", wantEffective: "500.00", wantRemaining: "500.00", wantPercent: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Budget{ID: 1, UserID: 7, CategoryID: 3, Limit: dec(tt.limit), Period: PeriodMonthly}
			usage := ComputeBudgetUsage(b, dec(tt.spent), dec(tt.inbound), dec(tt.outbound))

			assert.True(t, usage.NetTransfer.Equal(dec(tt.wantNet)), "net transfer: got %s", usage.NetTransfer)
			assert.True(t, usage.EffectiveLimit.Equal(dec(tt.wantEffective)), "effective limit: got %s", usage.EffectiveLimit)
			assert.True(t, usage.Remaining.Equal(dec(tt.wantRemaining)), "remaining: got %s", usage.Remaining)
			assert.InDelta(t, tt.wantPercent, usage.PercentUsed, 0.0001)
			assert.Equal(t, b.ID, usage.ID)
		})
	}
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name      string
		asOf      time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid month",
			asOf:      time.Date(2025, time.June, 17, 13, 45, 0, 0, time.UTC),
			wantStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "first of month",
			asOf:      time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "december rolls into next year",
			asOf:      time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthWindow(tt.asOf)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestValidBudgetPeriod(t *testing.T) {
	assert.True(t, ValidBudgetPeriod(PeriodMonthly))
	assert.True(t, ValidBudgetPeriod(PeriodYearly))
	assert.False(t, ValidBudgetPeriod("W"))
	assert.False(t, ValidBudgetPeriod(""))
}

func TestSavingsGoalDerive(t *testing.T) {
	g := SavingsGoal{TargetAmount: dec("1000.00"), CurrentAmount: dec("400.00")}
	g.Derive()
	assert.True(t, g.RemainingAmount.Equal(dec("600.00")))

	overfunded := SavingsGoal{TargetAmount: dec("100.00"), CurrentAmount: dec("150.00")}
	overfunded.Derive()
	assert.True(t, overfunded.RemainingAmount.IsZero())
}
