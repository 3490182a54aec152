package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/mission"
	"github.com/dmitrijs2005/minuend/internal/client/models"
)

func (a *App) card(locationID models.ID) (*mission.Card, error) {
	_, board, err := a.current()
	if err != nil {
		return nil, err
	}
	c, ok := board.Card(locationID)
	if !ok {
		return nil, fmt.Errorf("unknown location #%s, try 'locations'", locationID)
	}
	return c, nil
}

// StartMission opens the mission form of a location and lists what can be
// submitted.
func (a *App) StartMission(_ context.Context, locationID models.ID) error {
	c, err := a.card(locationID)
	if err != nil {
		return err
	}
	form, err := c.Start()
	if err != nil {
		return err
	}

	loc := c.Location()
	fmt.Fprintf(a.out, "New mission to %s (#%s)\n", loc.Name, loc.ID)
	if form.Blocked() {
		fmt.Fprintln(a.out, "  No ships available. 'cancel", loc.ID+"' to close the form.")
		return nil
	}
	fmt.Fprintln(a.out, "  Ships:")
	for _, s := range form.Ships {
		fmt.Fprintf(a.out, "    #%s %s (%s)\n", s.ID, s.Name, s.Type)
	}
	fmt.Fprintln(a.out, "  Durations:")
	for _, d := range form.Durations {
		fmt.Fprintf(a.out, "    %d  %s\n", d.Seconds, d.Label)
	}
	fmt.Fprintf(a.out, "  submit %s <ship> <seconds>\n", loc.ID)
	return nil
}

// SubmitMission sends the composed mission. Server failures are reported
// through the message log and leave the form open.
func (a *App) SubmitMission(ctx context.Context, locationID, shipID models.ID, seconds int64) error {
	c, err := a.card(locationID)
	if err != nil {
		return err
	}
	_, err = c.Submit(ctx, shipID, seconds)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mission.ErrInvalidForm),
		errors.Is(err, mission.ErrNotComposing),
		errors.Is(err, mission.ErrSubmitInFlight):
		return err
	default:
		return nil
	}
}

func (a *App) CancelMission(_ context.Context, locationID models.ID) error {
	c, err := a.card(locationID)
	if err != nil {
		return err
	}
	return c.Cancel()
}

func (a *App) CheckMission(_ context.Context, locationID models.ID) error {
	c, err := a.card(locationID)
	if err != nil {
		return err
	}
	return c.Check()
}

// ShowMission prints the server's view of a mission.
func (a *App) ShowMission(ctx context.Context, id models.ID) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	m, err := a.watcher.Get(ctx, id)
	if err != nil {
		return err
	}
	renderMission(a.out, m, time.Now())
	return nil
}

// WatchMission polls the mission and prints every change until it is over
// or ctx ends.
func (a *App) WatchMission(ctx context.Context, id models.ID) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	m, err := a.watcher.Watch(ctx, id, func(m models.Mission) {
		renderMission(a.out, m, time.Now())
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mission #%s is %s.\n", m.ID, m.Status)
	return nil
}

// ActiveMissions lists the missions still running. Location names come from
// the mounted station when it has them.
func (a *App) ActiveMissions(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	ms, err := a.watcher.Active(ctx)
	if err != nil {
		return err
	}

	names := map[models.ID]string{}
	if v, _, err := a.current(); err == nil {
		if locs, ok := v.Locations.Snapshot(); ok {
			for _, l := range locs {
				names[l.ID] = l.Name
			}
		}
	}
	renderActiveMissions(a.out, ms, names, time.Now())
	return nil
}

func (a *App) AbortMission(ctx context.Context, id models.ID) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	_ = a.watcher.Abort(ctx, id)
	return nil
}

// Message reprints the current message log entry.
func (a *App) Message(context.Context) error {
	a.freshMessage.Store(false)
	return messages.Render(a.out, a.log.Current())
}
