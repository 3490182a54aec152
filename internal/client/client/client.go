package client

import (
	"context"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

// Client is the game API as used by the station client.
type Client interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	Logout(ctx context.Context) error

	StationForUser(ctx context.Context, userID models.ID) (models.ID, error)

	Storage(ctx context.Context, stationID models.ID) (models.Storage, error)
	StorageUpgradeCost(ctx context.Context, stationID models.ID) (models.Amounts, error)
	UpgradeStorage(ctx context.Context, stationID models.ID) error

	Hangar(ctx context.Context, stationID models.ID) (models.Hangar, error)
	HangarUpgradeCost(ctx context.Context, stationID models.ID) (models.Amounts, error)
	UpgradeHangar(ctx context.Context, stationID models.ID) error
	AddShip(ctx context.Context, stationID models.ID, ship models.NewShip) error
	ShipCost(ctx context.Context, shipType models.ShipType) (models.Amounts, error)

	Locations(ctx context.Context, userID models.ID) ([]models.Location, error)

	CreateMission(ctx context.Context, m models.NewMission) (models.ID, error)
	Mission(ctx context.Context, id models.ID) (models.Mission, error)
	ActiveMissions(ctx context.Context) ([]models.Mission, error)
	AbortMission(ctx context.Context, id models.ID) error
}
