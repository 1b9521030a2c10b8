package calendar

// Info describes the week containing a day under both conventions the
// engine uses: ISO-8601 Thursday-anchored numbering for quota buckets,
// and Sunday-start boundaries for quota-reset timing. The two are kept
// separate on purpose and can disagree near year boundaries.
type Info struct {
	Week  int
	Year  int
	Start Day
	End   Day
}

// ISOWeek returns the ISO-8601 week number and week-year containing d.
// Weeks start on Monday; the week's Thursday decides which year it
// belongs to.
func ISOWeek(d Day) (week, year int) {
	year, week = d.t.ISOWeek()
	return week, year
}

// WeekBoundaries returns the Sunday-start week containing d: the Sunday
// on or before d, and the Saturday six days later.
func WeekBoundaries(d Day) (start, end Day) {
	start = d.AddDays(-int(d.Weekday()))
	end = start.AddDays(6)
	return start, end
}

// WeekInfo combines ISO numbering and Sunday-start boundaries for d.
func WeekInfo(d Day) Info {
	week, year := ISOWeek(d)
	start, end := WeekBoundaries(d)
	return Info{Week: week, Year: year, Start: start, End: end}
}
