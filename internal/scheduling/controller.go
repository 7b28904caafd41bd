package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultSubmitTimeout = 15 * time.Second

var (
	ErrSessionClosed      = errors.New("scheduling session is closed")
	ErrNoProviderSelected = errors.New("no provider selected")
	ErrNoHourSelected     = errors.New("no hour selected")
	ErrHourUnavailable    = errors.New("hour is not available for booking")
	ErrSubmitInFlight     = errors.New("submission already in progress")
)

// Options configures a scheduling session.
type Options struct {
	// AutoCloseDatePicker closes the picker when a date change commits. On
	// touch platforms the picker is modal and closes itself; on desktop it
	// stays open. Expressed as a flag so the policy is testable anywhere.
	AutoCloseDatePicker bool

	// SubmitTimeout bounds a single submission attempt. A hung booking call
	// would otherwise leave the session in PhaseSubmitting forever.
	SubmitTimeout time.Duration

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time

	// OnChange, when set, receives a snapshot after every state change. It is
	// called outside the controller lock, so it may call back in.
	OnChange func(State)
}

// Controller owns the scheduling session state and serializes every mutation
// through its operations. Fetches run on their own goroutines; each carries
// the (provider, date) pair it was issued for, and its result is applied only
// while that pair still matches the current selection (last-request-wins).
type Controller struct {
	client AvailabilityClient
	nav    Navigator
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	st     State
	active bool
}

func NewController(client AvailabilityClient, nav Navigator, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = defaultSubmitTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		client: client,
		nav:    nav,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		st: State{
			Phase:        PhaseIdle,
			SelectedHour: HourUnset,
		},
		active: true,
	}
}

// Start begins the session for the provider the user arrived with. It kicks
// off the one-time provider list fetch and the first availability fetch for
// (providerID, today).
func (c *Controller) Start(providerID string) {
	c.mu.Lock()
	if !c.active || c.st.Phase != PhaseIdle {
		c.mu.Unlock()
		return
	}

	c.st.Phase = PhaseProvidersLoading
	c.st.SelectedProviderID = providerID
	if c.st.SelectedDate.IsZero() {
		c.st.SelectedDate = c.opts.Now()
	}

	go c.fetchProviders()
	c.refreshAvailabilityLocked()

	st := c.st.clone()
	c.mu.Unlock()
	c.notify(st)
}

// SelectProvider switches the session to another provider. The chosen hour is
// discarded and a fresh availability fetch supersedes any in-flight one.
func (c *Controller) SelectProvider(providerID string) {
	c.mu.Lock()
	if !c.active || providerID == "" {
		c.mu.Unlock()
		return
	}

	c.st.SelectedProviderID = providerID
	c.st.SelectedHour = HourUnset
	c.refreshAvailabilityLocked()

	st := c.st.clone()
	c.mu.Unlock()
	c.notify(st)
}

// SelectDate moves the session to another calendar day. A zero date is a
// no-op: platform pickers report "no change" that way. The time-of-day
// component is kept for display; only year/month/day drive the fetch.
func (c *Controller) SelectDate(date time.Time) {
	if date.IsZero() {
		return
	}

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}

	c.st.SelectedDate = date
	c.st.SelectedHour = HourUnset
	if c.opts.AutoCloseDatePicker {
		c.st.DatePickerOpen = false
	}
	c.refreshAvailabilityLocked()

	st := c.st.clone()
	c.mu.Unlock()
	c.notify(st)
}

func (c *Controller) ToggleDatePicker() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}

	c.st.DatePickerOpen = !c.st.DatePickerOpen

	st := c.st.clone()
	c.mu.Unlock()
	c.notify(st)
}

// SelectHour picks an hour from the current availability. Picking an hour
// that is absent or not available is rejected with ErrHourUnavailable and
// leaves the selection unchanged.
func (c *Controller) SelectHour(hour int) error {
	c.mu.Lock()

	if !c.active {
		c.mu.Unlock()
		return ErrSessionClosed
	}

	found := false
	for _, it := range c.st.Availability {
		if it.Hour == hour {
			found = it.Available
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return ErrHourUnavailable
	}

	c.st.SelectedHour = hour

	st := c.st.clone()
	c.mu.Unlock()
	c.notify(st)
	return nil
}

// Submit books the selected (provider, date, hour) slot. One attempt per
// call, no automatic retry: on failure the session returns to PhaseReady with
// all selections intact so the user can retry or pick another slot.
func (c *Controller) Submit() error {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	if c.st.Phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if c.st.SelectedProviderID == "" {
		c.mu.Unlock()
		return ErrNoProviderSelected
	}
	if c.st.SelectedHour == HourUnset {
		c.mu.Unlock()
		return ErrNoHourSelected
	}

	providerID := c.st.SelectedProviderID
	d := c.st.SelectedDate
	when := time.Date(d.Year(), d.Month(), d.Day(), c.st.SelectedHour, 0, 0, 0, d.Location())

	c.st.Phase = PhaseSubmitting
	st := c.st.clone()
	c.mu.Unlock()
	c.notify(st)

	ctx, cancel := context.WithTimeout(c.ctx, c.opts.SubmitTimeout)
	defer cancel()

	created, err := c.client.CreateAppointment(ctx, providerID, when)

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return ErrSessionClosed
	}

	if err != nil {
		c.st.Phase = PhaseReady
		c.st.SubmitErr = err
		st = c.st.clone()
		c.mu.Unlock()
		c.notify(st)
		return fmt.Errorf("create appointment: %w", err)
	}

	c.st.Phase = PhaseSubmitted
	c.st.SubmitErr = nil
	st = c.st.clone()
	c.mu.Unlock()
	c.notify(st)

	c.nav.CompleteAppointment(created.Date)
	return nil
}

// Cancel abandons the session and hands control back to the navigator.
func (c *Controller) Cancel() {
	c.Close()
	c.nav.GoBack()
}

// Close tears the session down. Pending fetch callbacks become no-ops and the
// underlying requests are cancelled through the session context.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.mu.Unlock()

	c.cancel()
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.clone()
}

// refreshAvailabilityLocked issues an availability fetch for the current
// selection. Callers must hold c.mu.
func (c *Controller) refreshAvailabilityLocked() {
	go c.fetchAvailability(c.st.SelectedProviderID, c.st.SelectedDate)
}

func (c *Controller) fetchAvailability(providerID string, date time.Time) {
	items, err := c.client.DayAvailability(c.ctx, providerID, date.Year(), int(date.Month()), date.Day())

	c.mu.Lock()
	if !c.active || providerID != c.st.SelectedProviderID || !sameDay(date, c.st.SelectedDate) {
		// Superseded by a newer selection, or the session is gone. Dropping
		// the result here is the whole cancellation policy.
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.st.Availability = nil
		c.st.AvailabilityErr = err
	} else {
		c.st.Availability = items
		c.st.AvailabilityErr = nil
	}
	c.st.Morning, c.st.Afternoon = PartitionDay(c.st.Availability)

	st := c.st.clone()
	c.mu.Unlock()
	c.notify(st)
}

func (c *Controller) fetchProviders() {
	providers, err := c.client.ListProviders(c.ctx)

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}

	if err != nil {
		// Non-fatal: the list stays empty and the session moves on.
		c.st.ProvidersErr = err
	} else {
		c.st.Providers = providers
		c.st.ProvidersErr = nil
	}
	if c.st.Phase == PhaseProvidersLoading {
		c.st.Phase = PhaseReady
	}

	st := c.st.clone()
	c.mu.Unlock()
	c.notify(st)
}

func (c *Controller) notify(st State) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(st)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
