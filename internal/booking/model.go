package booking

import (
	"time"

	"github.com/google/uuid"
)

type Provider struct {
	ID        uuid.UUID
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Appointment is a confirmed booking of one provider hour. StartsAt is always
// truncated to the hour, in UTC.
type Appointment struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	UserID     uuid.UUID
	StartsAt   time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HourAvailability is one working hour's bookable status for a provider/day.
type HourAvailability struct {
	Hour      int
	Available bool
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
