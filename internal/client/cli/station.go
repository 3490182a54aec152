package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/minuend/internal/client/mission"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/client/routes"
	"github.com/dmitrijs2005/minuend/internal/client/station"
)

// Station refreshes and prints the whole station view.
func (a *App) Station(ctx context.Context) error {
	v, board, err := a.current()
	if err != nil {
		return err
	}
	a.history.Navigate(routes.Station)

	if err := v.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "station refresh incomplete", "error", err)
	}
	if locs, ok := v.Locations.Snapshot(); ok {
		board.Sync(locs)
	}

	fmt.Fprintf(a.out, "Station #%s\n", v.StationID)
	a.printStorage(v)
	a.printHangar(v)
	a.printLocations(v, board)
	return nil
}

func (a *App) Storage(ctx context.Context) error {
	v, _, err := a.current()
	if err != nil {
		return err
	}
	if err := v.Storage.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "storage refresh failed", "error", err)
	}
	a.printStorage(v)
	return nil
}

func (a *App) Hangar(ctx context.Context) error {
	v, _, err := a.current()
	if err != nil {
		return err
	}
	if err := v.Hangar.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "hangar refresh failed", "error", err)
	}
	a.printHangar(v)
	return nil
}

func (a *App) Locations(ctx context.Context) error {
	v, board, err := a.current()
	if err != nil {
		return err
	}
	if err := v.Locations.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "locations refresh failed", "error", err)
	}
	if locs, ok := v.Locations.Snapshot(); ok {
		board.Sync(locs)
	}
	a.printLocations(v, board)
	return nil
}

// Cost shows the price of a ship, a storage upgrade or a hangar upgrade in
// the message log.
func (a *App) Cost(ctx context.Context, what string) error {
	v, _, err := a.current()
	if err != nil {
		return err
	}
	switch strings.ToLower(what) {
	case "storage":
		_ = v.Storage.Dispatch(ctx, station.ShowStorageUpgradeCost{})
	case "hangar":
		_ = v.Hangar.Dispatch(ctx, station.ShowHangarUpgradeCost{})
	case "ship", "miner":
		_ = v.Hangar.Dispatch(ctx, station.ShowShipCost{Type: models.ShipTypeMiner})
	case "scout":
		_ = v.Hangar.Dispatch(ctx, station.ShowShipCost{Type: models.ShipTypeScout})
	default:
		return fmt.Errorf("unknown cost %q, want storage, hangar, miner or scout", what)
	}
	return nil
}

func (a *App) Upgrade(ctx context.Context, what string) error {
	v, _, err := a.current()
	if err != nil {
		return err
	}
	switch strings.ToLower(what) {
	case "storage":
		_ = v.Storage.Dispatch(ctx, station.UpgradeStorage{})
	case "hangar":
		_ = v.Hangar.Dispatch(ctx, station.UpgradeHangar{})
	default:
		return fmt.Errorf("unknown upgrade %q, want storage or hangar", what)
	}
	return nil
}

var (
	shipTypes  = []string{string(models.ShipTypeMiner), string(models.ShipTypeScout)}
	shipColors = []string{
		string(models.ColorEmerald), string(models.ColorDiamond), string(models.ColorRuby),
		string(models.ColorTopaz), string(models.ColorSapphire),
	}
)

// AddShip asks for the new ship's name, type and color and orders it.
func (a *App) AddShip(ctx context.Context) error {
	v, _, err := a.current()
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Ship name", a.out)
	if err != nil {
		return err
	}
	shipType, err := GetChoice(a.reader, "Ship type", shipTypes, shipTypes[0], a.out)
	if err != nil {
		return err
	}
	color, err := GetChoice(a.reader, "Ship color", shipColors, shipColors[0], a.out)
	if err != nil {
		return err
	}

	_ = v.Hangar.Dispatch(ctx, station.AddShip{Name: name, Color: models.Color(color), Type: models.ShipType(shipType)})
	return nil
}

func (a *App) printStorage(v *station.View) {
	s, ok := v.Storage.Snapshot()
	if !ok {
		fmt.Fprintln(a.out, "Storage: loading...")
		return
	}
	renderStorage(a.out, s)
}

func (a *App) printHangar(v *station.View) {
	h, ok := v.Hangar.Snapshot()
	if !ok {
		fmt.Fprintln(a.out, "Hangar: loading...")
		return
	}
	renderHangar(a.out, h)
}

func (a *App) printLocations(v *station.View, board *mission.Board) {
	locs, ok := v.Locations.Snapshot()
	if !ok {
		fmt.Fprintln(a.out, "Locations: loading...")
		return
	}
	fmt.Fprintln(a.out, "Locations:")
	renderLocations(a.out, locs, func(l models.Location) string {
		card, ok := board.Card(l.ID)
		if !ok {
			return mission.OfferStart.String()
		}
		if st := card.State(); st != mission.StateIdle {
			return st.String()
		}
		return card.Offer().String()
	})
}
