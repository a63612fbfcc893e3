package bill

import (
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/calendar"
)

// advancer moves a due date forward by one period of a frequency.
type advancer interface {
	Advance(due time.Time) time.Time
}

// dayAdvancer advances by a fixed number of days.
type dayAdvancer int

func (n dayAdvancer) Advance(due time.Time) time.Time {
	return due.AddDate(0, 0, int(n))
}

// monthAdvancer advances by whole months, clamping to the last day of the
// target month (Jan 31 + 1 month is Feb 28/29, not Mar 2/3).
type monthAdvancer int

func (n monthAdvancer) Advance(due time.Time) time.Time {
	first := time.Date(due.Year(), due.Month()+time.Month(n), 1,
		due.Hour(), due.Minute(), due.Second(), due.Nanosecond(), due.Location())

	day := min(due.Day(), calendar.DaysInMonth(first))

	return first.AddDate(0, 0, day-1)
}

var advancers = map[Frequency]advancer{
	FrequencyDaily:     dayAdvancer(1),
	FrequencyWeekly:    dayAdvancer(7),
	FrequencyBiweekly:  dayAdvancer(14),
	FrequencyMonthly:   monthAdvancer(1),
	FrequencyQuarterly: monthAdvancer(3),
	FrequencyYearly:    monthAdvancer(12),
}

// NextDue returns the due date one period after due.
func NextDue(due time.Time, freq Frequency) (time.Time, error) {
	a, ok := advancers[freq]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown frequency: %s", freq)
	}

	return a.Advance(due), nil
}

// Next returns the unpaid follow-up of a recurring bill, with a fresh ID.
func (b Bill) Next() (Bill, error) {
	due, err := NextDue(b.DueDate, b.Frequency)
	if err != nil {
		return Bill{}, err
	}

	next := New(CreateParams{
		Name:      b.Name,
		Amount:    b.Amount,
		DueDate:   due,
		Recurring: b.Recurring,
		Frequency: b.Frequency,
		Category:  b.Category,
	})

	return next, nil
}
