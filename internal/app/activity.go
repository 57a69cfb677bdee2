package app

import "sort"

// ActivityPoint is one day of merged activity across projects.
type ActivityPoint struct {
	// Date is the display form (MM-DD).
	Date      string
	FullDate  string
	Commits   int
	Additions int
	Deletions int
}

// Totals sums activity of all projects.
type Totals struct {
	Commits   int
	Additions int
	Deletions int
}

// AggregateActivity merges daily stats of all given projects into one series
// sorted by date. Nil stats and stats without daily records are skipped.
//
// Display dates drop the year, so ordering of Date is only meaningful within a single year.
func AggregateActivity(stats []*ProjectStats) []ActivityPoint {
	byDate := make(map[string]*ActivityPoint)
	for _, s := range stats {
		if s == nil || s.DailyStats == nil {
			continue
		}
		for _, day := range s.DailyStats {
			p, ok := byDate[day.Date]
			if !ok {
				p = &ActivityPoint{
					Date:     displayDate(day.Date),
					FullDate: day.Date,
				}
				byDate[day.Date] = p
			}
			p.Commits += day.Commits
			p.Additions += day.Additions
			p.Deletions += day.Deletions
		}
	}

	result := make([]ActivityPoint, 0, len(byDate))
	for _, p := range byDate {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].FullDate < result[j].FullDate
	})

	return result
}

// SumTotals sums totals of all stats. Missing stats count as zero.
func SumTotals(stats map[int]*ProjectStats) Totals {
	var t Totals
	for _, s := range stats {
		if s == nil {
			continue
		}
		t.Commits += s.TotalCommits
		t.Additions += s.Additions
		t.Deletions += s.Deletions
	}
	return t
}

// displayDate converts YYYY-MM-DD into MM-DD. Other formats are returned unchanged.
func displayDate(date string) string {
	if len(date) > 5 && date[4] == '-' {
		return date[5:]
	}
	return date
}
