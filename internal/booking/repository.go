package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProviderNotFound    = errors.New("provider not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	ListProviders(ctx context.Context) ([]Provider, error)
	GetProviderByID(ctx context.Context, id uuid.UUID) (*Provider, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)

	// For conflict checks and day availability
	GetAppointmentAt(ctx context.Context, providerID uuid.UUID, startsAt time.Time) (*Appointment, error)
	ListProviderAppointments(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]Appointment, error)

	CreateAppointment(ctx context.Context, providerID, userID uuid.UUID, startsAt time.Time) (*Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
