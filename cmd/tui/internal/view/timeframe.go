package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Range is an inclusive day range. The zero Range matches everything.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) All() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls on a day inside the range.
func (r Range) Contains(t time.Time) bool {
	if r.All() {
		return true
	}

	return !t.Before(r.Start) && !t.After(r.End)
}

func (r Range) String() string {
	if r.All() {
		return "all time"
	}

	return FormatDate(r.Start) + " to " + FormatDate(r.End)
}

// dayRange widens start and end to whole UTC days.
func dayRange(start, end time.Time) Range {
	return Range{
		Start: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		End:   time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC),
	}
}

// monday returns the Monday of the ISO week containing t.
func monday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

type preset struct {
	label string
	span  func(now time.Time) Range
}

var presets = []preset{
	{"This week", func(now time.Time) Range {
		return dayRange(monday(now), now)
	}},
	{"Last week", func(now time.Time) Range {
		start := monday(now).AddDate(0, 0, -7)
		return dayRange(start, start.AddDate(0, 0, 6))
	}},
	{"This month", func(now time.Time) Range {
		return dayRange(firstOfMonth(now), now)
	}},
	{"Last month", func(now time.Time) Range {
		start := firstOfMonth(now).AddDate(0, -1, 0)
		return dayRange(start, start.AddDate(0, 1, -1))
	}},
	{"Last 30 days", func(now time.Time) Range {
		return dayRange(now.AddDate(0, 0, -29), now)
	}},
	{"This year", func(now time.Time) Range {
		return dayRange(time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now)
	}},
	{"All time", func(time.Time) Range {
		return Range{}
	}},
}

// TimeframeSelectedMsg carries the range the user settled on.
type TimeframeSelectedMsg struct {
	Range Range
}

// customRange holds the custom form bindings behind a pointer so huh writes
// survive picker copies.
type customRange struct {
	start string
	end   string
}

// TimeframePicker lists the presets followed by a "Custom range" row that
// opens a two-field form.
type TimeframePicker struct {
	cursor int
	now    func() time.Time

	form *huh.Form
	in   *customRange
}

func NewTimeframePicker() TimeframePicker {
	return TimeframePicker{now: time.Now}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

// IsSelecting reports whether the preset list, rather than the custom form,
// has focus.
func (m TimeframePicker) IsSelecting() bool {
	return m.form == nil
}

// Reset puts the cursor back on the first preset and drops any custom form.
func (m *TimeframePicker) Reset() {
	m.cursor = 0
	m.form = nil
	m.in = nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.form != nil {
		return m.updateCustom(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, len(presets))
	case "enter":
		if m.cursor == len(presets) {
			return m, m.openCustom()
		}

		r := presets[m.cursor].span(m.now())

		return m, func() tea.Msg { return TimeframeSelectedMsg{Range: r} }
	}

	return m, nil
}

func (m *TimeframePicker) openCustom() tea.Cmd {
	in := &customRange{}
	m.in = in

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&in.start).
				Validate(func(s string) error {
					_, err := parseDay(s)
					return err
				}),
			huh.NewInput().
				Title("To").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&in.end).
				Validate(func(s string) error {
					end, err := parseDay(s)
					if err != nil {
						return err
					}

					if start, err := parseDay(in.start); err == nil && end.Before(start) {
						return errors.New("must not be before the start")
					}

					return nil
				}),
		),
	).WithWidth(36).WithShowHelp(false)

	return m.form.Init()
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.form = nil
		m.in = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	start, _ := parseDay(m.in.start)
	end, _ := parseDay(m.in.end)
	r := dayRange(start, end)

	return m, func() tea.Msg { return TimeframeSelectedMsg{Range: r} }
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD")
	}

	return t, nil
}

func (m TimeframePicker) View() string {
	if m.form != nil {
		return accentStyle.Render("Custom range") + "\n\n" + m.form.View() +
			"\n" + faintStyle.Render("Enter: confirm | Esc: presets")
	}

	var b strings.Builder

	b.WriteString(accentStyle.Render("Show transactions for") + "\n\n")

	for i := 0; i <= len(presets); i++ {
		label := "Custom range..."
		if i < len(presets) {
			label = presets[i].label
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		b.WriteString(cursor + label + "\n")
	}

	return b.String()
}
