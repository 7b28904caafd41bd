package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagoromendes/gobarber-scheduling/internal/booking"
)

type stubService struct {
	providers    []booking.Provider
	providersErr error

	availability    []booking.HourAvailability
	availabilityErr error

	appointment *booking.Appointment
	createErr   error

	gotProviderID uuid.UUID
	gotUserID     uuid.UUID
	gotStartsAt   time.Time
}

func (s *stubService) ListProviders(ctx context.Context) ([]booking.Provider, error) {
	return s.providers, s.providersErr
}

func (s *stubService) DayAvailability(ctx context.Context, providerID uuid.UUID, year, month, day int) ([]booking.HourAvailability, error) {
	s.gotProviderID = providerID
	return s.availability, s.availabilityErr
}

func (s *stubService) CreateAppointment(ctx context.Context, providerID, userID uuid.UUID, startsAt time.Time) (*booking.Appointment, error) {
	s.gotProviderID = providerID
	s.gotUserID = userID
	s.gotStartsAt = startsAt
	return s.appointment, s.createErr
}

func newTestRouter(svc BookingService, defaultUserID uuid.UUID) http.Handler {
	return NewRouter(RouterConfig{
		Service:       svc,
		Env:           "test",
		Version:       "test",
		DefaultUserID: defaultUserID,
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestListProvidersEndpoint(t *testing.T) {
	svc := &stubService{
		providers: []booking.Provider{
			{ID: uuid.New(), Name: "Ana", AvatarURL: "https://cdn.example/ana.png"},
			{ID: uuid.New(), Name: "Bruno"},
		},
	}
	router := newTestRouter(svc, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/providers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp []ProviderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Ana", resp[0].Name)
	assert.Equal(t, svc.providers[0].ID, resp[0].ID)
}

func TestDayAvailabilityEndpoint(t *testing.T) {
	providerID := uuid.New()
	svc := &stubService{
		availability: []booking.HourAvailability{
			{Hour: 8, Available: true},
			{Hour: 9, Available: false},
		},
	}
	router := newTestRouter(svc, uuid.New())

	url := fmt.Sprintf("/providers/%s/day-availability?year=2024&month=5&day=10", providerID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, providerID, svc.gotProviderID)

	var resp []AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, 8, resp[0].Hour)
	assert.True(t, resp[0].Available)
	assert.False(t, resp[1].Available)
}

func TestDayAvailabilityValidation(t *testing.T) {
	providerID := uuid.New()
	router := newTestRouter(&stubService{}, uuid.New())

	tests := []struct {
		name     string
		url      string
		wantCode string
	}{
		{"bad uuid", "/providers/not-a-uuid/day-availability?year=2024&month=5&day=10", "invalid_provider_id"},
		{"missing year", fmt.Sprintf("/providers/%s/day-availability?month=5&day=10", providerID), "invalid_year"},
		{"month out of range", fmt.Sprintf("/providers/%s/day-availability?year=2024&month=13&day=10", providerID), "invalid_month"},
		{"day out of range", fmt.Sprintf("/providers/%s/day-availability?year=2024&month=5&day=0", providerID), "invalid_day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
		})
	}
}

func TestDayAvailabilityUnknownProvider(t *testing.T) {
	svc := &stubService{availabilityErr: booking.ErrProviderNotFound}
	router := newTestRouter(svc, uuid.New())

	url := fmt.Sprintf("/providers/%s/day-availability?year=2024&month=5&day=10", uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "provider_not_found", decodeError(t, rec).Error)
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	providerID := uuid.New()
	defaultUserID := uuid.New()
	when := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	svc := &stubService{
		appointment: &booking.Appointment{
			ID:         uuid.New(),
			ProviderID: providerID,
			UserID:     defaultUserID,
			StartsAt:   when,
		},
	}
	router := newTestRouter(svc, defaultUserID)

	body := fmt.Sprintf(`{"provider_id":%q,"date":%q}`, providerID, when.Format(time.RFC3339))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, providerID, svc.gotProviderID)
	assert.Equal(t, defaultUserID, svc.gotUserID, "user defaults when the request carries no user_id")
	assert.True(t, svc.gotStartsAt.Equal(when))

	var resp AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, svc.appointment.ID, resp.ID)
	assert.True(t, resp.Date.Equal(when))
}

func TestCreateAppointmentExplicitUser(t *testing.T) {
	providerID := uuid.New()
	userID := uuid.New()
	when := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	svc := &stubService{
		appointment: &booking.Appointment{ID: uuid.New(), ProviderID: providerID, UserID: userID, StartsAt: when},
	}
	router := newTestRouter(svc, uuid.New())

	body := fmt.Sprintf(`{"provider_id":%q,"user_id":%q,"date":%q}`, providerID, userID, when.Format(time.RFC3339))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, svc.gotUserID)
}

func TestCreateAppointmentBadRequests(t *testing.T) {
	providerID := uuid.New()
	router := newTestRouter(&stubService{}, uuid.New())

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"not json", "{", "invalid_request_body"},
		{"bad provider", `{"provider_id":"nope","date":"2024-05-10T09:00:00Z"}`, "invalid_provider_id"},
		{"bad user", fmt.Sprintf(`{"provider_id":%q,"user_id":"nope","date":"2024-05-10T09:00:00Z"}`, providerID), "invalid_user_id"},
		{"bad date", fmt.Sprintf(`{"provider_id":%q,"date":"2024-05-10"}`, providerID), "invalid_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(tt.body)))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
		})
	}
}

func TestCreateAppointmentDomainErrors(t *testing.T) {
	providerID := uuid.New()
	when := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Hour)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"slot taken", booking.ErrSlotTaken, http.StatusConflict, "slot_taken"},
		{"slot being booked", booking.ErrSlotBeingBooked, http.StatusConflict, "slot_being_booked"},
		{"past date", booking.ErrPastDate, http.StatusUnprocessableEntity, "past_date"},
		{"outside working hours", booking.ErrOutsideWorkingHours, http.StatusUnprocessableEntity, "outside_working_hours"},
		{"unknown provider", booking.ErrProviderNotFound, http.StatusNotFound, "provider_not_found"},
		{"unknown user", booking.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubService{createErr: tt.err}, uuid.New())

			body := fmt.Sprintf(`{"provider_id":%q,"date":%q}`, providerID, when.Format(time.RFC3339))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
		})
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	router := newTestRouter(&stubService{}, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/providers", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
