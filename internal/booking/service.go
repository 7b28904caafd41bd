package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/thiagoromendes/gobarber-scheduling/internal/config"
	redisclient "github.com/thiagoromendes/gobarber-scheduling/internal/redis"
)

const (
	EventAppointmentBooked = "APPOINTMENT_BOOKED"
)

var (
	ErrSlotTaken           = errors.New("provider already has an appointment at this time")
	ErrSlotBeingBooked     = errors.New("slot is currently being booked, please retry")
	ErrPastDate            = errors.New("appointment time is in the past")
	ErrOutsideWorkingHours = errors.New("appointment hour is outside the working day")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	cfg    config.Config
	now    func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, cfg config.Config) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		cfg:    cfg,
		now:    time.Now,
	}
}

// ListProviders returns the provider catalog in server order.
func (s *Service) ListProviders(ctx context.Context) ([]Provider, error) {
	providers, err := s.repo.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}

// DayAvailability returns one entry per working hour of the given day, in
// ascending hour order. Month is 1-based. An hour is available when it has no
// appointment and still starts in the future. All hours are UTC.
func (s *Service) DayAvailability(ctx context.Context, providerID uuid.UUID, year, month, day int) ([]HourAvailability, error) {
	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load provider: %w", err)
	}

	dayStart := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	appointments, err := s.repo.ListProviderAppointments(ctx, providerID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list day appointments: %w", err)
	}

	booked := make(map[int]bool, len(appointments))
	for _, appt := range appointments {
		booked[appt.StartsAt.UTC().Hour()] = true
	}

	now := s.now()
	availability := make([]HourAvailability, 0, s.cfg.WorkDayEnd-s.cfg.WorkDayStart+1)
	for hour := s.cfg.WorkDayStart; hour <= s.cfg.WorkDayEnd; hour++ {
		slotTime := dayStart.Add(time.Duration(hour) * time.Hour)
		availability = append(availability, HourAvailability{
			Hour:      hour,
			Available: !booked[hour] && slotTime.After(now),
		})
	}

	return availability, nil
}

// CreateAppointment books a provider hour for a user. It uses a distributed
// lock per (provider, timestamp) so that concurrent requests for the same
// slot cannot both insert an appointment.
func (s *Service) CreateAppointment(ctx context.Context, providerID, userID uuid.UUID, startsAt time.Time) (*Appointment, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load provider: %w", err)
	}

	startsAt = startsAt.UTC().Truncate(time.Hour)
	if !startsAt.After(s.now()) {
		return nil, ErrPastDate
	}
	if hour := startsAt.Hour(); hour < s.cfg.WorkDayStart || hour > s.cfg.WorkDayEnd {
		return nil, ErrOutsideWorkingHours
	}

	var created *Appointment

	err := s.locker.WithScheduleLock(ctx, providerID, startsAt, func(lockCtx context.Context) error {
		// Inside the critical section re-check for an appointment at this slot
		existing, err := s.repo.GetAppointmentAt(lockCtx, providerID, startsAt)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check existing appointment: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		appt, err := s.repo.CreateAppointment(lockCtx, providerID, userID, startsAt)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		payload := map[string]any{
			"provider_id": providerID.String(),
			"user_id":     userID.String(),
			"starts_at":   startsAt,
		}
		s.logEvent(lockCtx, appt.ID, EventAppointmentBooked, payload)

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	return created, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}
