package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thiagoromendes/gobarber-scheduling/internal/scheduling"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the backend error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d code=%s: %s", e.Status, e.Code, e.Message)
}

// Client talks to the scheduling backend over HTTP. It implements
// scheduling.AvailabilityClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type providerPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type availabilityPayload struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

type createAppointmentRequest struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
}

type appointmentPayload struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	Date       time.Time `json:"date"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ListProviders fetches the provider catalog, preserving server order.
func (c *Client) ListProviders(ctx context.Context) ([]scheduling.Provider, error) {
	var out []providerPayload
	if err := c.do(ctx, http.MethodGet, "/providers", nil, &out); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	providers := make([]scheduling.Provider, 0, len(out))
	for _, p := range out {
		providers = append(providers, scheduling.Provider{
			ID:        p.ID,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
		})
	}
	return providers, nil
}

// DayAvailability fetches per-hour availability for one provider and day.
// Month is 1-based.
func (c *Client) DayAvailability(ctx context.Context, providerID string, year, month, day int) ([]scheduling.AvailabilityItem, error) {
	path := fmt.Sprintf("/providers/%s/day-availability?year=%d&month=%d&day=%d",
		url.PathEscape(providerID), year, month, day)

	var out []availabilityPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("day availability: %w", err)
	}

	items := make([]scheduling.AvailabilityItem, 0, len(out))
	for _, a := range out {
		items = append(items, scheduling.AvailabilityItem{Hour: a.Hour, Available: a.Available})
	}
	return items, nil
}

// CreateAppointment books the given timestamp with the provider.
func (c *Client) CreateAppointment(ctx context.Context, providerID string, date time.Time) (*scheduling.AppointmentCreated, error) {
	req := createAppointmentRequest{
		ProviderID: providerID,
		Date:       date.Format(time.RFC3339),
	}

	var out appointmentPayload
	if err := c.do(ctx, http.MethodPost, "/appointments", req, &out); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	return &scheduling.AppointmentCreated{ID: out.ID, Date: out.Date}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorPayload
		if err := json.Unmarshal(respBody, &apiErr); err != nil || apiErr.Error == "" {
			msg := string(respBody)
			if len(msg) > 300 {
				msg = msg[:300]
			}
			return &APIError{Status: resp.StatusCode, Code: "unexpected_response", Message: msg}
		}
		return &APIError{Status: resp.StatusCode, Code: apiErr.Error, Message: apiErr.Details}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
