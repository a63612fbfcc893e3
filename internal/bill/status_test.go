package bill_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/money"
)

var asOf = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func daysFrom(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func TestDeriveStatus(t *testing.T) {
	type args struct {
		dueDate time.Time
		amount  money.Amount
		paid    bool
	}

	tests := []struct {
		name string
		args args
		want bill.Derivation
	}{
		{
			name: "late five days",
			args: args{dueDate: daysFrom(asOf, -5), amount: 10000},
			want: bill.Derivation{Status: bill.StatusLate, DaysPastDue: 5, PastDue: 10000},
		},
		{
			name: "late one day even if only hours apart",
			args: args{dueDate: time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC), amount: 500},
			want: bill.Derivation{Status: bill.StatusLate, DaysPastDue: 1, PastDue: 500},
		},
		{
			name: "due today earlier than as-of is not late",
			args: args{dueDate: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), amount: 500},
			want: bill.Derivation{Status: bill.StatusScheduled},
		},
		{
			name: "due today later than as-of is not late",
			args: args{dueDate: time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC), amount: 500},
			want: bill.Derivation{Status: bill.StatusScheduled},
		},
		{
			name: "within window",
			args: args{dueDate: daysFrom(asOf, 30), amount: 500},
			want: bill.Derivation{Status: bill.StatusScheduled},
		},
		{
			name: "beyond window",
			args: args{dueDate: daysFrom(asOf, 31), amount: 500},
			want: bill.Derivation{Status: bill.StatusUnpaid},
		},
		{
			name: "paid in the past",
			args: args{dueDate: daysFrom(asOf, -400), amount: 500, paid: true},
			want: bill.Derivation{Status: bill.StatusPaid},
		},
		{
			name: "paid in the future",
			args: args{dueDate: daysFrom(asOf, 400), amount: 500, paid: true},
			want: bill.Derivation{Status: bill.StatusPaid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bill.DeriveStatus(tt.args.dueDate, tt.args.amount, tt.args.paid, asOf, bill.DefaultWindow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveStatus_PaidAlwaysWins(t *testing.T) {
	for offset := -1000; offset <= 1000; offset += 37 {
		got := bill.DeriveStatus(daysFrom(asOf, offset), 12345, true, asOf, bill.DefaultWindow)
		assert.Equal(t, bill.StatusPaid, got.Status, "offset %d", offset)
		assert.Zero(t, got.DaysPastDue)
		assert.Zero(t, got.PastDue)
	}
}

func TestDeriveStatus_DueOnAsOfDayNeverLate(t *testing.T) {
	for _, window := range []int{0, 1, 30} {
		got := bill.DeriveStatus(asOf, 100, false, asOf, window)
		assert.Contains(t, []bill.Status{bill.StatusUnpaid, bill.StatusScheduled}, got.Status)
		assert.Zero(t, got.DaysPastDue)
	}
}

func TestDeriveStatus_InvariantsHold(t *testing.T) {
	for offset := -60; offset <= 60; offset++ {
		for _, paid := range []bool{true, false} {
			got := bill.DeriveStatus(daysFrom(asOf, offset), 100, paid, asOf, bill.DefaultWindow)

			assert.GreaterOrEqual(t, got.DaysPastDue, 0)

			switch got.Status {
			case bill.StatusLate:
				assert.Positive(t, got.DaysPastDue)
				assert.NotZero(t, got.PastDue)
			case bill.StatusPaid:
				assert.Zero(t, got.PastDue)
			}
		}
	}
}

func TestToMonthly(t *testing.T) {
	b := bill.Bill{
		ID:        uuid.New(),
		Name:      "Internet",
		Amount:    6500,
		DueDate:   daysFrom(asOf, -5),
		Frequency: bill.FrequencyMonthly,
		Category:  "Utilities",
	}

	got := bill.ToMonthly(b, asOf, bill.DefaultWindow)

	assert.Equal(t, bill.MonthlyBill{
		ID:            b.ID,
		Name:          "Internet",
		MonthlyAmount: 6500,
		PastDue:       6500,
		DueDate:       b.DueDate,
		Status:        bill.StatusLate,
		Category:      "Utilities",
		DaysPastDue:   5,
	}, got)
}

func TestMonthlyBills_OrderedByDueDate(t *testing.T) {
	bills := []bill.Bill{
		{ID: uuid.New(), Name: "Internet", Amount: 6500, DueDate: daysFrom(asOf, 15)},
		{ID: uuid.New(), Name: "Rent", Amount: 120000, DueDate: daysFrom(asOf, 5)},
		{ID: uuid.New(), Name: "Gym", Amount: 3000, DueDate: daysFrom(asOf, -2)},
	}

	got := bill.MonthlyBills(bills, asOf, bill.DefaultWindow)
	require.Len(t, got, 3)
	assert.Equal(t, "Gym", got[0].Name)
	assert.Equal(t, bill.StatusLate, got[0].Status)
	assert.Equal(t, "Rent", got[1].Name)
	assert.Equal(t, "Internet", got[2].Name)
}

func TestUpcoming(t *testing.T) {
	sameDay := daysFrom(asOf, 5)
	bills := []bill.Bill{
		{Name: "far", DueDate: daysFrom(asOf, 31)},
		{Name: "rent", DueDate: sameDay},
		{Name: "paid", DueDate: daysFrom(asOf, 2), Paid: true},
		{Name: "late", DueDate: daysFrom(asOf, -1)},
		{Name: "today", DueDate: time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)},
		{Name: "water", DueDate: sameDay},
		{Name: "edge", DueDate: daysFrom(asOf, 30)},
	}

	got := bill.Upcoming(bills, asOf, bill.DefaultWindow)

	names := make([]string, 0, len(got))
	for _, b := range got {
		names = append(names, b.Name)
	}

	assert.Equal(t, []string{"today", "rent", "water", "edge"}, names)
}

func TestUpcoming_ZeroWindow(t *testing.T) {
	bills := []bill.Bill{
		{Name: "today", DueDate: asOf},
		{Name: "tomorrow", DueDate: daysFrom(asOf, 1)},
	}

	got := bill.Upcoming(bills, asOf, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "today", got[0].Name)
}
