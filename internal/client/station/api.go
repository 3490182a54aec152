package station

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

// ErrStationUnavailable is returned by Open for a session that is not ready.
var ErrStationUnavailable = errors.New("station unavailable")

// errClosed is returned by fetches that finish after the view closed.
var errClosed = errors.New("station view closed")

// API is the part of the game API the station contexts use.
type API interface {
	Storage(ctx context.Context, stationID models.ID) (models.Storage, error)
	StorageUpgradeCost(ctx context.Context, stationID models.ID) (models.Amounts, error)
	UpgradeStorage(ctx context.Context, stationID models.ID) error

	Hangar(ctx context.Context, stationID models.ID) (models.Hangar, error)
	HangarUpgradeCost(ctx context.Context, stationID models.ID) (models.Amounts, error)
	UpgradeHangar(ctx context.Context, stationID models.ID) error
	AddShip(ctx context.Context, stationID models.ID, ship models.NewShip) error
	ShipCost(ctx context.Context, shipType models.ShipType) (models.Amounts, error)

	Locations(ctx context.Context, userID models.ID) ([]models.Location, error)
}

// lifetime binds calls to the owning view.
type lifetime struct {
	ctx context.Context
}

// bind returns a context cancelled when either ctx or the view ends.
func (l lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (l lifetime) closed() bool { return l.ctx.Err() != nil }
