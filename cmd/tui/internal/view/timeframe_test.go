package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presetByLabel(t *testing.T, label string) preset {
	t.Helper()

	for _, p := range presets {
		if p.label == label {
			return p
		}
	}

	t.Fatalf("no preset %q", label)

	return preset{}
}

func TestPresets(t *testing.T) {
	// Wednesday.
	now := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		label     string
		wantStart string
		wantEnd   string
	}{
		{label: "This week", wantStart: "2026-03-16", wantEnd: "2026-03-18"},
		{label: "Last week", wantStart: "2026-03-09", wantEnd: "2026-03-15"},
		{label: "This month", wantStart: "2026-03-01", wantEnd: "2026-03-18"},
		{label: "Last month", wantStart: "2026-02-01", wantEnd: "2026-02-28"},
		{label: "Last 30 days", wantStart: "2026-02-17", wantEnd: "2026-03-18"},
		{label: "This year", wantStart: "2026-01-01", wantEnd: "2026-03-18"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r := presetByLabel(t, tt.label).span(now)

			assert.Equal(t, tt.wantStart, FormatDate(r.Start))
			assert.Equal(t, tt.wantEnd, FormatDate(r.End))
			assert.False(t, r.All())
		})
	}
}

func TestPresets_WeekFromSunday(t *testing.T) {
	sunday := time.Date(2026, 3, 22, 10, 0, 0, 0, time.UTC)

	r := presetByLabel(t, "This week").span(sunday)

	assert.Equal(t, "2026-03-16", FormatDate(r.Start))
	assert.Equal(t, "2026-03-22", FormatDate(r.End))
}

func TestPresets_AllTime(t *testing.T) {
	r := presetByLabel(t, "All time").span(time.Now())

	assert.True(t, r.All())
	assert.True(t, r.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "all time", r.String())
}

func TestRange_Contains(t *testing.T) {
	r := dayRange(
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC),
	)

	assert.True(t, r.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC)))
}

func TestTimeframePicker_SelectsPreset(t *testing.T) {
	p := NewTimeframePicker()
	p.now = func() time.Time { return time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC) }

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "2026-03-01 to 2026-03-18", msg.Range.String())
}

func TestTimeframePicker_CustomAndBack(t *testing.T) {
	p := NewTimeframePicker()

	for range presets {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, p.IsSelecting())

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.IsSelecting())
	assert.Equal(t, len(presets), p.cursor)

	p.Reset()
	assert.Equal(t, 0, p.cursor)
}

func TestParseDay(t *testing.T) {
	d, err := parseDay(" 2026-02-28 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDay("28-02-2026")
	assert.Error(t, err)
}
