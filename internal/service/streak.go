package service

import "time"

// DateLayout is the calendar-day format used for habit completions.
const DateLayout = "2006-01-02"

// CurrentStreak counts consecutive marked days ending at today. When today is
// not marked yet the streak is still alive, so counting starts at yesterday.
func CurrentStreak(dates []string, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	marked := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		marked[d] = struct{}{}
	}

	day := today
	if _, ok := marked[day.Format(DateLayout)]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := marked[day.Format(DateLayout)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// LongestStreak returns the longest run of consecutive days anywhere in the
// set. Unparsable entries are skipped.
func LongestStreak(dates []string) int {
	marked := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		marked[d] = struct{}{}
	}

	longest := 0
	for d := range marked {
		day, err := time.Parse(DateLayout, d)
		if err != nil {
			continue
		}
		// Only start counting at the beginning of a run.
		if _, ok := marked[day.AddDate(0, 0, -1).Format(DateLayout)]; ok {
			continue
		}
		length := 0
		for {
			if _, ok := marked[day.Format(DateLayout)]; !ok {
				break
			}
			length++
			day = day.AddDate(0, 0, 1)
		}
		if length > longest {
			longest = length
		}
	}
	return longest
}
