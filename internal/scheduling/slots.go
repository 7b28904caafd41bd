package scheduling

import (
	"fmt"
	"sort"
)

// Slot is a display-ready availability item with a formatted hour label.
type Slot struct {
	Hour          int
	Available     bool
	HourFormatted string
}

// FormatHour renders an hour as a zero-padded "HH:00" label.
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// PartitionDay splits a day's availability into morning (hour < 12) and
// afternoon (hour >= 12) slots, each sorted ascending by hour. The input is
// never mutated; empty input yields two empty sequences.
func PartitionDay(items []AvailabilityItem) (morning, afternoon []Slot) {
	for _, it := range items {
		slot := Slot{
			Hour:          it.Hour,
			Available:     it.Available,
			HourFormatted: FormatHour(it.Hour),
		}
		if it.Hour < 12 {
			morning = append(morning, slot)
		} else {
			afternoon = append(afternoon, slot)
		}
	}

	sort.Slice(morning, func(i, j int) bool { return morning[i].Hour < morning[j].Hour })
	sort.Slice(afternoon, func(i, j int) bool { return afternoon[i].Hour < afternoon[j].Hour })

	return morning, afternoon
}
