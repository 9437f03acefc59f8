package timesheet

import (
	"strconv"
	"strings"
)

// Entry is one scheduled or override record for one employee on one date.
// PlannedHours is free text: usually a plain number, sometimes a compound
// "9/3" encoding two sub-shifts. Source and Note carry the upstream
// free-text classification vocabulary; all matching against it lives in this
// file and nowhere else.
type Entry struct {
	EmployeeID   int64
	Date         string
	PlannedHours string
	Source       string
	Note         string
}

// EntryKind is the closed classification the free-text vocabulary maps onto.
type EntryKind int

const (
	KindWork EntryKind = iota
	KindNight
	KindVacation
	KindSick
	KindMaternity
	KindDonor
	KindBusinessTrip
	KindOff
	KindCompDayOff
)

func (k EntryKind) String() string {
	switch k {
	case KindNight:
		return "night"
	case KindVacation:
		return "vacation"
	case KindSick:
		return "sick"
	case KindMaternity:
		return "maternity"
	case KindDonor:
		return "donor"
	case KindBusinessTrip:
		return "business_trip"
	case KindOff:
		return "off"
	case KindCompDayOff:
		return "comp_day_off"
	default:
		return "work"
	}
}

// Upstream vocabulary. Source tags are latin machine tags, notes are
// Russian free text. Matching is case-insensitive substring.
var (
	nightNoteMarkers         = []string{"ноч", "отсып"}
	normReductionSources     = []string{"vacation", "sick", "maternity"}
	normReductionNoteMarkers = []string{"отпуск", "больнич", "декрет"}
	// Markers that identify the logged second half of a night shift
	// ("post-night rest" / explicit part-2 annotations).
	nightContinuationMarkers = []string{"отсып", "2 часть", "часть 2"}
)

// EntryHours parses the planned-hours field. A compound value like "9/3"
// (two sub-shifts) is split on "/" and summed; non-numeric segments and an
// empty field contribute zero.
func EntryHours(e Entry) float64 {
	raw := strings.TrimSpace(e.PlannedHours)
	if raw == "" {
		return 0
	}
	var total float64
	for _, seg := range strings.Split(raw, "/") {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(seg, ",", ".")), 64)
		if err != nil {
			continue
		}
		total += v
	}
	return total
}

// IsNight reports whether the entry is night work: a "night" source tag, or
// a night / post-night-rest marker in the note.
func IsNight(e Entry) bool {
	if containsFold(e.Source, "night") {
		return true
	}
	return containsAnyFold(e.Note, nightNoteMarkers)
}

// IsNormReduction reports whether the entry reduces the monthly norm:
// vacation, sick leave or parental leave, per either the source tag or the
// note vocabulary.
func IsNormReduction(e Entry) bool {
	return containsAnyFold(e.Source, normReductionSources) ||
		containsAnyFold(e.Note, normReductionNoteMarkers)
}

// isOffLike reports whether the entry is an off-day record (plain day off or
// a compensatory day off) rather than work.
func isOffLike(e Entry) bool {
	return containsFold(e.Source, "off") || containsFold(e.Note, "отгул")
}

// IsShiftLike reports whether the entry counts as an actual worked shift for
// handover-overhead purposes: positive hours and not an off-day, vacation,
// sick or parental-leave record.
func IsShiftLike(e Entry) bool {
	if EntryHours(e) <= 0 {
		return false
	}
	return !isOffLike(e) && !IsNormReduction(e)
}

// IsNightShiftStart reports whether a night entry is the start of the shift
// as opposed to its logged continuation. A night shift often appears as two
// records (evening half and post-midnight half); only the start counts as a
// shift. An entry is a continuation when its note carries a post-night-rest
// or part-2 marker.
func IsNightShiftStart(e Entry) bool {
	return !containsAnyFold(e.Note, nightContinuationMarkers)
}

// Classify maps the free-text source/note vocabulary to an EntryKind once,
// at the ingestion boundary. Source tags win over note text; within each,
// the first matching category wins.
func Classify(e Entry) EntryKind {
	switch {
	case containsFold(e.Source, "night"):
		return KindNight
	case containsFold(e.Source, "vacation"):
		return KindVacation
	case containsFold(e.Source, "sick"):
		return KindSick
	case containsFold(e.Source, "maternity"):
		return KindMaternity
	case containsFold(e.Source, "donor"):
		return KindDonor
	case containsFold(e.Source, "trip"):
		return KindBusinessTrip
	case containsFold(e.Source, "comp"):
		return KindCompDayOff
	case containsFold(e.Source, "off"):
		return KindOff
	}
	switch {
	case containsAnyFold(e.Note, nightNoteMarkers):
		return KindNight
	case containsFold(e.Note, "отпуск"):
		return KindVacation
	case containsFold(e.Note, "больнич"):
		return KindSick
	case containsFold(e.Note, "декрет"):
		return KindMaternity
	case containsFold(e.Note, "отгул"):
		return KindCompDayOff
	}
	return KindWork
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func containsAnyFold(haystack string, needles []string) bool {
	lowered := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}
