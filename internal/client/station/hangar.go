package station

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

// HangarAction is one of ShowShipCost, AddShip, ShowHangarUpgradeCost or
// UpgradeHangar.
type HangarAction interface {
	hangarAction()
}

// ShowShipCost reports what a ship of Type costs.
type ShowShipCost struct {
	Type models.ShipType
}

// AddShip buys a new ship.
type AddShip struct {
	Name  string
	Color models.Color
	Type  models.ShipType
}

type ShowHangarUpgradeCost struct{}

type UpgradeHangar struct{}

func (ShowShipCost) hangarAction()          {}
func (AddShip) hangarAction()               {}
func (ShowHangarUpgradeCost) hangarAction() {}
func (UpgradeHangar) hangarAction()         {}

// Hangar holds the last hangar snapshot of a station and runs hangar
// actions against the server.
type Hangar struct {
	api       API
	stationID models.ID
	storage   *Storage
	msgs      messages.Dispatcher
	logger    logging.Logger
	life      lifetime

	// serialises read-modify-write echoes against refresh commits
	mu   sync.Mutex
	snap atomic.Pointer[models.Hangar]
}

func newHangar(api API, stationID models.ID, storage *Storage, msgs messages.Dispatcher, logger logging.Logger, life lifetime) *Hangar {
	return &Hangar{
		api:       api,
		stationID: stationID,
		storage:   storage,
		msgs:      msgs,
		logger:    logger.With("context", "hangar"),
		life:      life,
	}
}

// Snapshot returns the last committed hangar; false until the first
// successful refresh.
func (h *Hangar) Snapshot() (models.Hangar, bool) {
	p := h.snap.Load()
	if p == nil {
		return models.Hangar{}, false
	}
	return *p, true
}

// IdleShips returns the ships that can start a mission; nil while the
// hangar is unavailable.
func (h *Hangar) IdleShips() []models.Ship {
	snap, ok := h.Snapshot()
	if !ok {
		return nil
	}
	return snap.Idle()
}

// Refresh fetches the hangar and commits it unless the view closed.
func (h *Hangar) Refresh(ctx context.Context) error {
	ctx, cancel := h.life.bind(ctx)
	defer cancel()

	hg, err := h.api.Hangar(ctx, h.stationID)
	if h.life.closed() {
		return errClosed
	}
	if err != nil {
		h.logger.Warn(ctx, "hangar refresh failed", "station_id", h.stationID, "error", err)
		return fmt.Errorf("refresh hangar: %w", err)
	}

	h.mu.Lock()
	h.snap.Store(&hg)
	h.mu.Unlock()
	return nil
}

// EchoMissionStarted marks shipID as busy with missionID after the server
// confirmed the mission. Unknown ships are ignored.
func (h *Hangar) EchoMissionStarted(shipID, missionID models.ID) {
	if h.life.closed() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	cur := h.snap.Load()
	if cur == nil {
		return
	}
	next := *cur
	next.Ships = append([]models.Ship(nil), cur.Ships...)
	for i := range next.Ships {
		if next.Ships[i].ID == shipID {
			next.Ships[i].Status = models.ShipOnMission
			next.Ships[i].MissionID = missionID
			h.snap.Store(&next)
			return
		}
	}
}

// Dispatch performs a. Mutations refresh both the hangar and the storage
// they were paid from.
func (h *Hangar) Dispatch(ctx context.Context, a HangarAction) error {
	ctx, cancel := h.life.bind(ctx)
	defer cancel()

	switch a := a.(type) {
	case ShowShipCost:
		cost, err := h.api.ShipCost(ctx, a.Type)
		if err != nil {
			return h.fail(ctx, "Ship cost unavailable", err)
		}
		title := fmt.Sprintf("Resources needed to add %s ship", strings.ToLower(string(a.Type)))
		h.msgs.Dispatch(messages.CostAction{Title: title, Data: cost})
		return nil
	case AddShip:
		if strings.TrimSpace(a.Name) == "" {
			return h.fail(ctx, "Cannot add ship", fmt.Errorf("ship name is empty"))
		}
		ship := models.NewShip{Name: a.Name, Color: a.Color, Type: a.Type}
		if err := h.api.AddShip(ctx, h.stationID, ship); err != nil {
			return h.fail(ctx, "Cannot add ship", err)
		}
		return h.afterMutation(ctx, fmt.Sprintf("Ship %s joined the hangar.", a.Name))
	case ShowHangarUpgradeCost:
		cost, err := h.api.HangarUpgradeCost(ctx, h.stationID)
		if err != nil {
			return h.fail(ctx, "Hangar upgrade unavailable", err)
		}
		h.msgs.Dispatch(messages.CostAction{Title: "Resources needed to upgrade hangar", Data: cost})
		return nil
	case UpgradeHangar:
		if err := h.api.UpgradeHangar(ctx, h.stationID); err != nil {
			return h.fail(ctx, "Hangar upgrade failed", err)
		}
		return h.afterMutation(ctx, "Hangar upgraded.")
	default:
		return fmt.Errorf("unknown hangar action %T", a)
	}
}

func (h *Hangar) afterMutation(ctx context.Context, done string) error {
	if err := h.Refresh(ctx); err != nil {
		return err
	}
	if h.storage != nil {
		if err := h.storage.Refresh(ctx); err != nil {
			return err
		}
	}
	h.msgs.Dispatch(messages.InfoAction{Text: done})
	return nil
}

func (h *Hangar) fail(ctx context.Context, text string, err error) error {
	h.logger.Warn(ctx, text, "station_id", h.stationID, "error", err)
	if !h.life.closed() {
		h.msgs.Dispatch(messages.ErrorAction{Text: text + ": " + err.Error()})
	}
	return err
}
