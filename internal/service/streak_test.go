package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return parsed
}

func lastDays(today time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, today.AddDate(0, 0, -i).Format(DateLayout))
	}
	return dates
}

func TestCurrentStreak(t *testing.T) {
	today := day(t, "2026-03-10")

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{name: "empty", dates: nil, want: 0},
		{name: "today only", dates: []string{"2026-03-10"}, want: 1},
		{name: "last five days", dates: lastDays(today, 5), want: 5},
		{name: "yesterday only still counts", dates: []string{"2026-03-09"}, want: 1},
		{name: "gap before yesterday", dates: []string{"2026-03-07", "2026-03-06"}, want: 0},
		{name: "run ending yesterday", dates: []string{"2026-03-09", "2026-03-08", "2026-03-07"}, want: 3},
		{name: "old runs ignored", dates: []string{"2026-03-10", "2026-03-01", "2026-02-28"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.dates, today))
		})
	}
}

func TestCurrentStreakDropsAfterRemovingToday(t *testing.T) {
	today := day(t, "2026-03-10")
	dates := lastDays(today, 3)
	assert.Equal(t, 3, CurrentStreak(dates, today))

	// Unmarking today leaves a run that ended yesterday.
	assert.Equal(t, 2, CurrentStreak(dates[1:], today))
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{name: "empty", dates: nil, want: 0},
		{name: "single day", dates: []string{"2026-01-05"}, want: 1},
		{name: "unbroken run", dates: []string{"2026-01-01", "2026-01-02", "2026-01-03"}, want: 3},
		{name: "longest of two runs", dates: []string{
			"2026-01-01", "2026-01-02",
			"2026-01-10", "2026-01-11", "2026-01-12", "2026-01-13",
		}, want: 4},
		{name: "order independent", dates: []string{"2026-01-03", "2026-01-01", "2026-01-02"}, want: 3},
		{name: "duplicates collapse", dates: []string{"2026-01-01", "2026-01-01", "2026-01-02"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestStreak(tt.dates))
		})
	}
}
