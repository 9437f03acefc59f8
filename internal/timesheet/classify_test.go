package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryHours(t *testing.T) {
	tests := []struct {
		name    string
		planned string
		want    float64
	}{
		{"plain integer", "8", 8},
		{"fractional", "7.5", 7.5},
		{"comma decimal", "7,5", 7.5},
		{"compound two segments", "9/3", 12},
		{"compound with spaces", " 9 / 3 ", 12},
		{"empty", "", 0},
		{"non-numeric", "выходной", 0},
		{"partially numeric compound", "9/x", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EntryHours(Entry{PlannedHours: tt.planned}))
		})
	}
}

func TestIsNight(t *testing.T) {
	assert.True(t, IsNight(Entry{Source: "night"}))
	assert.True(t, IsNight(Entry{Source: "NIGHT_SHIFT"}))
	assert.True(t, IsNight(Entry{Source: "manual", Note: "ночная смена"}))
	assert.True(t, IsNight(Entry{Source: "manual", Note: "отсыпной"}))
	assert.False(t, IsNight(Entry{Source: "work", Note: "обычный день"}))
}

func TestIsNormReduction(t *testing.T) {
	assert.True(t, IsNormReduction(Entry{Source: "vacation"}))
	assert.True(t, IsNormReduction(Entry{Source: "sick"}))
	assert.True(t, IsNormReduction(Entry{Source: "maternity"}))
	assert.True(t, IsNormReduction(Entry{Source: "manual", Note: "Отпуск до конца месяца"}))
	assert.True(t, IsNormReduction(Entry{Note: "больничный"}))
	assert.True(t, IsNormReduction(Entry{Note: "декретный отпуск"}))
	assert.False(t, IsNormReduction(Entry{Source: "work", Note: "норма"}))
	assert.False(t, IsNormReduction(Entry{Source: "donor"}))
}

func TestIsShiftLike(t *testing.T) {
	assert.True(t, IsShiftLike(Entry{PlannedHours: "8", Source: "work"}))
	assert.True(t, IsShiftLike(Entry{PlannedHours: "9", Source: "night"}))
	assert.True(t, IsShiftLike(Entry{PlannedHours: "8", Source: "business_trip"}))

	assert.False(t, IsShiftLike(Entry{PlannedHours: "0", Source: "work"}))
	assert.False(t, IsShiftLike(Entry{PlannedHours: "", Source: "work"}))
	assert.False(t, IsShiftLike(Entry{PlannedHours: "8", Source: "off"}))
	assert.False(t, IsShiftLike(Entry{PlannedHours: "8", Source: "vacation"}))
	assert.False(t, IsShiftLike(Entry{PlannedHours: "8", Note: "больничный"}))
	assert.False(t, IsShiftLike(Entry{PlannedHours: "8", Note: "отгул"}))
}

func TestIsNightShiftStart(t *testing.T) {
	assert.True(t, IsNightShiftStart(Entry{Source: "night", Note: ""}))
	assert.True(t, IsNightShiftStart(Entry{Source: "night", Note: "заступил в ночь"}))
	assert.False(t, IsNightShiftStart(Entry{Source: "night", Note: "отсыпной"}))
	assert.False(t, IsNightShiftStart(Entry{Source: "night", Note: "ночная, 2 часть"}))
	assert.False(t, IsNightShiftStart(Entry{Source: "night", Note: "часть 2"}))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  EntryKind
	}{
		{"work default", Entry{Source: "manual"}, KindWork},
		{"night source", Entry{Source: "night"}, KindNight},
		{"vacation source", Entry{Source: "vacation"}, KindVacation},
		{"sick source", Entry{Source: "sick"}, KindSick},
		{"maternity source", Entry{Source: "maternity"}, KindMaternity},
		{"donor source", Entry{Source: "donor"}, KindDonor},
		{"business trip source", Entry{Source: "business_trip"}, KindBusinessTrip},
		{"off source", Entry{Source: "off"}, KindOff},
		{"comp day off source", Entry{Source: "comp_day_off"}, KindCompDayOff},
		{"night note", Entry{Source: "manual", Note: "в ночь"}, KindNight},
		{"vacation note", Entry{Source: "manual", Note: "отпуск"}, KindVacation},
		{"sick note", Entry{Note: "больничный лист"}, KindSick},
		{"comp day off note", Entry{Note: "отгул за дежурство"}, KindCompDayOff},
		{"source wins over note", Entry{Source: "vacation", Note: "ночная"}, KindVacation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.entry))
		})
	}
}

func TestEntryKindString(t *testing.T) {
	assert.Equal(t, "work", KindWork.String())
	assert.Equal(t, "night", KindNight.String())
	assert.Equal(t, "comp_day_off", KindCompDayOff.String())
}
