package timesheet

import "time"

// ISODate is the wire format for calendar dates ("2006-01-02").
const ISODate = "2006-01-02"

// MonthConfig is the production-calendar configuration for a single month,
// as stored by the calendar repository: explicit holidays, weekend days
// reclassified as working, shortened pre-holiday workdays, and an optional
// explicit norm override.
type MonthConfig struct {
	Holidays        []string `json:"holidays,omitempty"`
	WorkingWeekends []string `json:"working_weekends,omitempty"`
	ShortDays       []string `json:"short_days,omitempty"`
	NormHours40     *float64 `json:"norm_hours_40,omitempty"`
	// WorkingHours is the legacy norm field, consulted only when
	// NormHours40 is absent.
	WorkingHours *float64 `json:"working_hours,omitempty"`
}

// CalendarTable maps year -> month (1-12) -> configuration.
type CalendarTable map[int]map[int]MonthConfig

// Month is a resolved calendar month: the working-day predicate plus the
// derived norm figures. Immutable once built.
type Month struct {
	Year     int
	MonthNum int

	holidays        map[string]struct{}
	workingWeekends map[string]struct{}
	shortDays       map[string]struct{}

	WorkingDays   int
	ShortDayCount int
	NormHours     float64
}

// Resolve builds the Month for (year, month) from a calendar table. A missing
// table entry degrades to pure weekday inference: no holidays, no working
// weekends, no short days, norm = workingDays * 8.
func Resolve(year, month int, table CalendarTable) Month {
	var cfg MonthConfig
	if byMonth, ok := table[year]; ok {
		cfg = byMonth[month]
	}

	m := Month{
		Year:            year,
		MonthNum:        month,
		holidays:        toSet(cfg.Holidays),
		workingWeekends: toSet(cfg.WorkingWeekends),
		shortDays:       toSet(cfg.ShortDays),
	}

	for _, date := range MonthDates(year, month) {
		if !m.IsWorkingDay(date) {
			continue
		}
		m.WorkingDays++
		if _, short := m.shortDays[date]; short {
			m.ShortDayCount++
		}
	}

	switch {
	case cfg.NormHours40 != nil:
		m.NormHours = *cfg.NormHours40
	case cfg.WorkingHours != nil:
		m.NormHours = *cfg.WorkingHours
	default:
		// Each short day trims one hour off the 8-hour standard.
		m.NormHours = float64(m.WorkingDays)*8 - float64(m.ShortDayCount)
	}
	return m
}

// IsWorkingDay reports whether the ISO date is a working day. A working
// weekend always wins, a holiday always loses, everything else falls back to
// the weekday: Mon-Fri working, Sat/Sun off. When a date is listed both as a
// holiday and a working weekend, the working-weekend reclassification takes
// precedence.
func (m Month) IsWorkingDay(date string) bool {
	if _, ok := m.workingWeekends[date]; ok {
		return true
	}
	if _, ok := m.holidays[date]; ok {
		return false
	}
	t, err := time.Parse(ISODate, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IsShortDay reports whether the ISO date is a shortened pre-holiday workday.
func (m Month) IsShortDay(date string) bool {
	_, ok := m.shortDays[date]
	return ok
}

// MonthDates returns the ordered ISO dates of the month.
func MonthDates(year, month int) []string {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	dates := make([]string, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(ISODate))
	}
	return dates
}

func toSet(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}
