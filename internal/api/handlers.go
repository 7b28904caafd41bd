package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thiagoromendes/gobarber-scheduling/internal/booking"
)

// BookingService is what the handlers need from the booking domain.
type BookingService interface {
	ListProviders(ctx context.Context) ([]booking.Provider, error)
	DayAvailability(ctx context.Context, providerID uuid.UUID, year, month, day int) ([]booking.HourAvailability, error)
	CreateAppointment(ctx context.Context, providerID, userID uuid.UUID, startsAt time.Time) (*booking.Appointment, error)
}

func listProvidersHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providers, err := svc.ListProviders(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]ProviderResponse, 0, len(providers))
		for _, p := range providers {
			resp = append(resp, ProviderResponse{
				ID:        p.ID,
				Name:      p.Name,
				AvatarURL: p.AvatarURL,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func dayAvailabilityHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "provider id must be a valid UUID")
			return
		}

		year, err := intQuery(r, "year")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_year", "year must be an integer")
			return
		}
		month, err := intQuery(r, "month")
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "invalid_month", "month must be an integer in 1..12")
			return
		}
		day, err := intQuery(r, "day")
		if err != nil || day < 1 || day > 31 {
			writeError(w, http.StatusBadRequest, "invalid_day", "day must be an integer in 1..31")
			return
		}

		availability, err := svc.DayAvailability(r.Context(), providerID, year, month, day)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		resp := make([]AvailabilityResponse, 0, len(availability))
		for _, a := range availability {
			resp = append(resp, AvailabilityResponse{Hour: a.Hour, Available: a.Available})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func createAppointmentHandler(svc BookingService, defaultUserID uuid.UUID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		providerID, err := uuid.Parse(req.ProviderID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "provider_id must be a valid UUID")
			return
		}

		userID := defaultUserID
		if req.UserID != "" {
			userID, err = uuid.Parse(req.UserID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
				return
			}
		}

		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be RFC 3339")
			return
		}

		appt, err := svc.CreateAppointment(r.Context(), providerID, userID, date)
		if err != nil {
			handleCreateError(w, err)
			return
		}

		resp := AppointmentResponse{
			ID:         appt.ID,
			ProviderID: appt.ProviderID,
			UserID:     appt.UserID,
			Date:       appt.StartsAt,
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

func handleAvailabilityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrProviderNotFound):
		writeError(w, http.StatusNotFound, "provider_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrProviderNotFound):
		writeError(w, http.StatusNotFound, "provider_not_found", err.Error())
	case errors.Is(err, booking.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, booking.ErrPastDate):
		writeError(w, http.StatusUnprocessableEntity, "past_date", err.Error())
	case errors.Is(err, booking.ErrOutsideWorkingHours):
		writeError(w, http.StatusUnprocessableEntity, "outside_working_hours", err.Error())
	case errors.Is(err, booking.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, booking.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func intQuery(r *http.Request, key string) (int, error) {
	return strconv.Atoi(r.URL.Query().Get(key))
}
