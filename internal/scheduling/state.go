package scheduling

import "time"

type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseProvidersLoading Phase = "providers_loading"
	PhaseReady            Phase = "ready"
	PhaseSubmitting       Phase = "submitting"
	PhaseSubmitted        Phase = "submitted"
)

// HourUnset marks that no hour has been chosen yet.
const HourUnset = -1

// State is the scheduling session aggregate. It is owned by the controller
// and mutated only through its operations; callers only ever see copies.
type State struct {
	Phase Phase

	SelectedProviderID string
	SelectedDate       time.Time
	SelectedHour       int

	// Providers keeps the server response order. Fetched once per session.
	Providers []Provider

	// Availability always corresponds to the current (provider, date) pair.
	// It is replaced wholesale on every fetch, never merged.
	Availability []AvailabilityItem

	// Derived from Availability, recomputed on every replacement.
	Morning   []Slot
	Afternoon []Slot

	DatePickerOpen bool

	ProvidersErr    error
	AvailabilityErr error
	SubmitErr       error
}

func (s State) clone() State {
	out := s
	out.Providers = append([]Provider(nil), s.Providers...)
	out.Availability = append([]AvailabilityItem(nil), s.Availability...)
	out.Morning = append([]Slot(nil), s.Morning...)
	out.Afternoon = append([]Slot(nil), s.Afternoon...)
	return out
}
