package bill_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/bill"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestNextDue(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		freq bill.Frequency
		want time.Time
	}{
		{name: "daily", due: date(2024, 2, 28), freq: bill.FrequencyDaily, want: date(2024, 2, 29)},
		{name: "weekly", due: date(2024, 2, 28), freq: bill.FrequencyWeekly, want: date(2024, 3, 6)},
		{name: "biweekly", due: date(2024, 1, 1), freq: bill.FrequencyBiweekly, want: date(2024, 1, 15)},
		{name: "monthly", due: date(2024, 1, 15), freq: bill.FrequencyMonthly, want: date(2024, 2, 15)},
		{name: "monthly clamps to month end", due: date(2024, 1, 31), freq: bill.FrequencyMonthly, want: date(2024, 2, 29)},
		{name: "quarterly", due: date(2024, 11, 30), freq: bill.FrequencyQuarterly, want: date(2025, 2, 28)},
		{name: "yearly leap day", due: date(2024, 2, 29), freq: bill.FrequencyYearly, want: date(2025, 2, 28)},
		{name: "monthly across year", due: date(2024, 12, 10), freq: bill.FrequencyMonthly, want: date(2025, 1, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bill.NextDue(tt.due, tt.freq)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDue_UnknownFrequency(t *testing.T) {
	_, err := bill.NextDue(date(2024, 1, 1), bill.Frequency("fortnightly"))
	assert.Error(t, err)
	assert.False(t, bill.Frequency("fortnightly").Valid())
}

func TestBill_Next(t *testing.T) {
	b := bill.New(bill.CreateParams{
		Name:      "Rent",
		Amount:    120000,
		DueDate:   date(2024, 3, 1),
		Recurring: true,
		Category:  "Housing",
	})
	b.Paid = true

	next, err := b.Next()
	require.NoError(t, err)

	assert.NotEqual(t, b.ID, next.ID)
	assert.Equal(t, date(2024, 4, 1), next.DueDate)
	assert.False(t, next.Paid)
	assert.Equal(t, b.Name, next.Name)
	assert.Equal(t, b.Amount, next.Amount)
	assert.Equal(t, bill.FrequencyMonthly, next.Frequency)
	assert.Equal(t, "Housing", next.Category)
}
