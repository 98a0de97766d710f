package domain

import (
	"fmt"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// DaySchedule represents the open window of a single weekday
type DaySchedule struct {
	IsOpen bool
	Open   types.TimeString
	Close  types.TimeString
}

// Validate checks that an open day has a well-formed, non-empty window
func (d DaySchedule) Validate() error {
	if !d.IsOpen {
		return nil
	}
	if err := d.Open.Validate(); err != nil {
		return fmt.Errorf("open time: %w", err)
	}
	if err := d.Close.Validate(); err != nil {
		return fmt.Errorf("close time: %w", err)
	}
	if !d.Open.IsBefore(d.Close) {
		return fmt.Errorf("close %s must be after open %s", d.Close, d.Open)
	}
	return nil
}

// WeeklySchedule is a fixed 7-element schedule indexed by time.Weekday
// (Sunday = 0). The fixed indexing deliberately rules out missing or
// misspelled day keys.
type WeeklySchedule [7]DaySchedule

// Day returns the schedule entry for the given weekday
func (w WeeklySchedule) Day(weekday time.Weekday) DaySchedule {
	return w[int(weekday)]
}

// SetDay replaces the schedule entry for the given weekday
func (w *WeeklySchedule) SetDay(weekday time.Weekday, day DaySchedule) {
	w[int(weekday)] = day
}

// TimeRange is a half-open [Start, End) time-of-day interval
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints are not an overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.IsBefore(other.End) && other.Start.IsBefore(r.End)
}
