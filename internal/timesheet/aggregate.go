package timesheet

// DefaultHandoverMinutes is the standard per-shift handover allowance.
const DefaultHandoverMinutes = 30

// reductionHoursPerDay is the norm reduction applied for an absence day,
// one unit per calendar day regardless of how many absence entries exist.
const reductionHoursPerDay = 8

// DayKey addresses the entries of one employee on one ISO date.
type DayKey struct {
	EmployeeID int64
	Date       string
}

// EmployeeMonthStats is the aggregate for one employee over one month.
// Derived on demand, never persisted.
type EmployeeMonthStats struct {
	EmployeeID         int64   `json:"employee_id"`
	TotalHours         float64 `json:"total_hours"`
	NormHours          float64 `json:"norm_hours"`
	NormReductionHours float64 `json:"norm_reduction_hours"`
	AdjustedNormHours  float64 `json:"adjusted_norm_hours"`
	OvertimeHours      float64 `json:"overtime_hours"`
	NightHours         float64 `json:"night_hours"`
	HolidayHours       float64 `json:"holiday_hours"`
	ShiftCount         int     `json:"shift_count"`
	HandoverHours      float64 `json:"handover_hours"`
	PayableHours       float64 `json:"payable_hours"`
}

// CalculateEmployeeMonthStats walks the month's dates and folds the
// employee's entries into monthly totals. The function is total and
// side-effect-free: missing days and malformed fields contribute zero.
//
// Per day:
//   - all entry hours sum into TotalHours;
//   - hours worked on a non-working day count as HolidayHours;
//   - an absence entry on a working day reduces the norm by a full 8 hours,
//     once per day;
//   - each positive-hours night entry adds to NightHours;
//   - each shift-like entry increments ShiftCount, except a night shift's
//     logged continuation, so one physical night shift counts once.
func CalculateEmployeeMonthStats(employeeID int64, monthDates []string, entriesByDay map[DayKey][]Entry, cal Month, handoverMinutes int) EmployeeMonthStats {
	stats := EmployeeMonthStats{EmployeeID: employeeID}

	// An employee with no entries in the month gets all-zero stats; the
	// calendar norm applies only once there is something on the timesheet.
	scheduled := false
	for _, date := range monthDates {
		if len(entriesByDay[DayKey{EmployeeID: employeeID, Date: date}]) > 0 {
			scheduled = true
			break
		}
	}
	if !scheduled {
		return stats
	}
	stats.NormHours = cal.NormHours

	for _, date := range monthDates {
		entries := entriesByDay[DayKey{EmployeeID: employeeID, Date: date}]
		if len(entries) == 0 {
			continue
		}

		working := cal.IsWorkingDay(date)

		var dayTotal float64
		reduced := false
		for _, e := range entries {
			hours := EntryHours(e)
			dayTotal += hours

			if IsNormReduction(e) && working && !reduced {
				stats.NormReductionHours += reductionHoursPerDay
				reduced = true
			}

			if hours <= 0 {
				continue
			}
			night := IsNight(e)
			if night {
				stats.NightHours += hours
			}
			if IsShiftLike(e) && (!night || IsNightShiftStart(e)) {
				stats.ShiftCount++
			}
		}

		stats.TotalHours += dayTotal
		if !working && dayTotal > 0 {
			stats.HolidayHours += dayTotal
		}
	}

	stats.HandoverHours = float64(stats.ShiftCount) * float64(handoverMinutes) / 60
	stats.AdjustedNormHours = stats.NormHours - stats.NormReductionHours
	if stats.AdjustedNormHours < 0 {
		stats.AdjustedNormHours = 0
	}
	// May be negative: the employee is under norm.
	stats.OvertimeHours = stats.TotalHours - stats.AdjustedNormHours
	stats.PayableHours = stats.TotalHours + stats.HandoverHours
	return stats
}
