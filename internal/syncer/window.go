package syncer

import "time"

// isoDate is the layout for calendar date keys.
const isoDate = "2006-01-02"

// Window returns the n most recent calendar dates including today as ISO
// date strings, most recent first.
func Window(now time.Time, days int) []string {
	if days < 1 {
		return nil
	}

	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, now.AddDate(0, 0, -i).Format(isoDate))
	}
	return dates
}
