// Package mission drives mission creation per location and follows missions
// once the server has accepted them.
package mission

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/client/routes"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

var (
	ErrInvalidForm    = errors.New("invalid mission form")
	ErrNotComposing   = errors.New("no mission is being composed")
	ErrSubmitInFlight = errors.New("mission submission already in flight")
	ErrMissionActive  = errors.New("location already has a mission")
	ErrNoMission      = errors.New("location has no mission")
)

// State is where a card is in its workflow.
type State int

const (
	StateIdle State = iota
	StateComposing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Offer is the control an idle card shows.
type Offer int

const (
	OfferStart Offer = iota
	OfferCheck
)

func (o Offer) String() string {
	if o == OfferCheck {
		return "Check mission"
	}
	return "Start mission"
}

// Duration is one selectable mission length.
type Duration struct {
	Seconds int64
	Label   string
}

// Durations are the activity durations a mission can be started with.
var Durations = []Duration{
	{Seconds: 3600, Label: "1 hour"},
	{Seconds: 7200, Label: "2 hours"},
	{Seconds: 10800, Label: "3 hours"},
	{Seconds: 14400, Label: "4 hours"},
	{Seconds: 60, Label: "DEMO"},
}

// Form is what the composing card offers. With no ships the form cannot be
// submitted.
type Form struct {
	Ships     []models.Ship
	Durations []Duration
}

// Blocked reports whether the form has no ship to send.
func (f Form) Blocked() bool { return len(f.Ships) == 0 }

func (f Form) hasShip(id models.ID) bool {
	return slices.ContainsFunc(f.Ships, func(s models.Ship) bool { return s.ID == id })
}

func (f Form) hasDuration(seconds int64) bool {
	return slices.ContainsFunc(f.Durations, func(d Duration) bool { return d.Seconds == seconds })
}

// API creates missions on the server.
type API interface {
	CreateMission(ctx context.Context, m models.NewMission) (models.ID, error)
}

// Ships is the hangar as seen by a card.
type Ships interface {
	IdleShips() []models.Ship
	EchoMissionStarted(shipID, missionID models.ID)
}

// LocationEcho records a started mission on the location list.
type LocationEcho interface {
	EchoMissionStarted(locationID, missionID models.ID)
}

// Deps are the collaborators shared by every card of a board.
type Deps struct {
	API       API
	Hangar    Ships
	Locations LocationEcho
	Navigator routes.Navigator
	Messages  messages.Dispatcher
	Logger    logging.Logger
}

// Card is the mission workflow of one location:
// Idle -> Composing -> Submitting -> Idle, with Cancel back to Idle and a
// failed submission back to Composing.
type Card struct {
	deps     Deps
	logger   logging.Logger
	inFlight *semaphore.Weighted

	mu       sync.Mutex
	location models.Location
	state    State
	form     *Form
}

// NewCard returns an idle card for loc.
func NewCard(loc models.Location, deps Deps) *Card {
	return &Card{
		deps:     deps,
		logger:   deps.Logger.With("module", "mission", "location_id", loc.ID),
		inFlight: semaphore.NewWeighted(1),
		location: loc,
	}
}

// Location returns the location the card was last synced with.
func (c *Card) Location() models.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location
}

// State returns the current workflow state.
func (c *Card) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Form returns the form being composed.
func (c *Card) Form() (Form, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return Form{}, false
	}
	return *c.form, true
}

// Offer returns the control to show: Check when the location has a live
// mission, Start otherwise.
func (c *Card) Offer() Offer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.location.HasMission() {
		return OfferCheck
	}
	return OfferStart
}

// Sync replaces the location with a fresher copy. Only idle cards take it;
// a composing form keeps the location it was opened for.
func (c *Card) Sync(loc models.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle && loc.ID == c.location.ID {
		c.location = loc
	}
}

// Check navigates to the location's live mission. Nothing is sent.
func (c *Card) Check() error {
	c.mu.Lock()
	id := c.location.MissionID
	c.mu.Unlock()

	if id.IsZero() {
		return ErrNoMission
	}
	c.deps.Navigator.Navigate(routes.Mission(id))
	return nil
}

// Start opens the mission form with the hangar's idle ships.
func (c *Card) Start() (Form, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == StateSubmitting:
		return Form{}, ErrSubmitInFlight
	case c.location.HasMission():
		return Form{}, ErrMissionActive
	case c.state == StateComposing:
		return *c.form, nil
	}

	f := Form{
		Ships:     c.deps.Hangar.IdleShips(),
		Durations: slices.Clone(Durations),
	}
	c.form = &f
	c.state = StateComposing
	return f, nil
}

// Cancel discards the form.
func (c *Card) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateComposing {
		return ErrNotComposing
	}
	c.state = StateIdle
	c.form = nil
	return nil
}

// Submit sends the composed mission. On success the card is idle again,
// bound to the new mission, and the navigator is sent to the mission's
// detail route. On failure the error goes to the message log and the form
// stays open.
func (c *Card) Submit(ctx context.Context, shipID models.ID, seconds int64) (models.ID, error) {
	if !c.inFlight.TryAcquire(1) {
		return "", ErrSubmitInFlight
	}
	defer c.inFlight.Release(1)

	c.mu.Lock()
	if c.state != StateComposing {
		c.mu.Unlock()
		return "", ErrNotComposing
	}
	form := *c.form
	switch {
	case form.Blocked():
		c.mu.Unlock()
		return "", fmt.Errorf("%w: no available ships", ErrInvalidForm)
	case !form.hasShip(shipID):
		c.mu.Unlock()
		return "", fmt.Errorf("%w: ship %s is not available", ErrInvalidForm, shipID)
	case !form.hasDuration(seconds):
		c.mu.Unlock()
		return "", fmt.Errorf("%w: duration %ds is not offered", ErrInvalidForm, seconds)
	}
	c.state = StateSubmitting
	req := models.NewMission{ShipID: shipID, ActivityDuration: seconds, LocationID: c.location.ID}
	c.mu.Unlock()

	id, err := c.deps.API.CreateMission(ctx, req)
	if err != nil {
		c.logger.Error(ctx, "mission submission failed", "ship_id", shipID, "duration", seconds, "error", err)
		c.mu.Lock()
		c.state = StateComposing
		c.mu.Unlock()
		c.deps.Messages.Dispatch(messages.ErrorAction{Text: "Mission could not be started: " + err.Error()})
		return "", err
	}

	c.mu.Lock()
	c.state = StateIdle
	c.form = nil
	c.location.MissionID = id
	c.mu.Unlock()

	c.logger.Info(ctx, "mission started", "mission_id", id, "ship_id", shipID, "duration", seconds)
	c.deps.Hangar.EchoMissionStarted(shipID, id)
	c.deps.Locations.EchoMissionStarted(req.LocationID, id)
	c.deps.Messages.Dispatch(messages.InfoAction{Text: "Mission started."})
	c.deps.Navigator.Navigate(routes.Mission(id))
	return id, nil
}
