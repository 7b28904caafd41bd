package api

import (
	"time"

	"github.com/google/uuid"
)

type ProviderResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
}

type AvailabilityResponse struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

type CreateAppointmentRequest struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
	// UserID is optional; the server falls back to its configured dev
	// identity when the request carries none.
	UserID string `json:"user_id,omitempty"`
}

type AppointmentResponse struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	UserID     uuid.UUID `json:"user_id"`
	Date       time.Time `json:"date"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
