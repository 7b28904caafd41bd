package scheduling

import (
	"context"
	"time"
)

// Provider is a bookable service professional as returned by the backend.
type Provider struct {
	ID        string
	Name      string
	AvatarURL string
}

// AvailabilityItem is one hour slot's bookable status for a provider and day.
type AvailabilityItem struct {
	Hour      int
	Available bool
}

// AppointmentCreated is the backend's acknowledgement of a booking.
type AppointmentCreated struct {
	ID   string
	Date time.Time
}

// AvailabilityClient is the remote scheduling API the session depends on.
// Month is 1-based, matching the backend query contract.
type AvailabilityClient interface {
	ListProviders(ctx context.Context) ([]Provider, error)
	DayAvailability(ctx context.Context, providerID string, year, month, day int) ([]AvailabilityItem, error)
	CreateAppointment(ctx context.Context, providerID string, date time.Time) (*AppointmentCreated, error)
}

// Navigator is the navigation exit consumed by the session.
// CompleteAppointment ends the session carrying the created timestamp,
// GoBack abandons it.
type Navigator interface {
	GoBack()
	CompleteAppointment(date time.Time)
}

// User is the authenticated identity shown alongside the session. Display-only,
// never mutated here.
type User struct {
	Name      string
	AvatarURL string
}
