package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

const (
	pathAuthenticate = "/api/v1/auth/authenticate"
	pathRegister     = "/api/v1/auth/register"
	pathLogout       = "/api/v1/auth/logout"
	pathMission      = "/api/v1/mission"
	pathActive       = "/api/v1/mission/active"
	pathLocation     = "/api/v1/location"
	pathShipCost     = "/api/v1/ship/cost"
)

func basePath(stationID models.ID, rest string) string {
	return "/api/v1/base/" + url.PathEscape(stationID.String()) + rest
}

func missionPath(id models.ID, rest string) string {
	return pathMission + "/" + url.PathEscape(id.String()) + rest
}

// Authenticate exchanges a username and password for a credential.
func (c *HTTPClient) Authenticate(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	data, err := c.do(ctx, http.MethodPost, pathAuthenticate, nil, body)
	if err != nil {
		return "", err
	}
	return tokenField(data, pathAuthenticate)
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (string, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	data, err := c.do(ctx, http.MethodPost, pathRegister, nil, body)
	if err != nil {
		return "", err
	}
	return tokenField(data, pathRegister)
}

// Logout asks the server to drop the session. The body is ignored.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, pathLogout, nil, nil)
	return err
}

// StationForUser returns the id of the station owned by userID.
func (c *HTTPClient) StationForUser(ctx context.Context, userID models.ID) (models.ID, error) {
	path := "/api/v1/base/user/" + url.PathEscape(userID.String())
	data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	return idField(data, path)
}

func (c *HTTPClient) Storage(ctx context.Context, stationID models.ID) (models.Storage, error) {
	path := basePath(stationID, "/storage")
	data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return models.Storage{}, err
	}
	return decode[models.Storage](data, path)
}

func (c *HTTPClient) StorageUpgradeCost(ctx context.Context, stationID models.ID) (models.Amounts, error) {
	return c.amounts(ctx, basePath(stationID, "/storage/upgrade"), nil)
}

func (c *HTTPClient) UpgradeStorage(ctx context.Context, stationID models.ID) error {
	_, err := c.do(ctx, http.MethodPost, basePath(stationID, "/upgrade/storage"), nil, nil)
	return err
}

func (c *HTTPClient) Hangar(ctx context.Context, stationID models.ID) (models.Hangar, error) {
	path := basePath(stationID, "/hangar")
	data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return models.Hangar{}, err
	}
	return decode[models.Hangar](data, path)
}

func (c *HTTPClient) HangarUpgradeCost(ctx context.Context, stationID models.ID) (models.Amounts, error) {
	return c.amounts(ctx, basePath(stationID, "/hangar/upgrade"), nil)
}

func (c *HTTPClient) UpgradeHangar(ctx context.Context, stationID models.ID) error {
	_, err := c.do(ctx, http.MethodPost, basePath(stationID, "/upgrade/hangar"), nil, nil)
	return err
}

func (c *HTTPClient) AddShip(ctx context.Context, stationID models.ID, ship models.NewShip) error {
	_, err := c.do(ctx, http.MethodPost, basePath(stationID, "/hangar/add"), nil, ship)
	return err
}

func (c *HTTPClient) ShipCost(ctx context.Context, shipType models.ShipType) (models.Amounts, error) {
	return c.amounts(ctx, pathShipCost, url.Values{"type": {string(shipType)}})
}

// Locations lists the locations discovered by userID.
func (c *HTTPClient) Locations(ctx context.Context, userID models.ID) ([]models.Location, error) {
	data, err := c.do(ctx, http.MethodGet, pathLocation, url.Values{"user": {userID.String()}}, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]models.Location](data, pathLocation)
}

// CreateMission sends exactly one creation request and returns the id the
// server assigned.
func (c *HTTPClient) CreateMission(ctx context.Context, m models.NewMission) (models.ID, error) {
	data, err := c.do(ctx, http.MethodPost, pathMission, nil, m)
	if err != nil {
		return "", err
	}
	return idField(data, pathMission)
}

func (c *HTTPClient) Mission(ctx context.Context, id models.ID) (models.Mission, error) {
	path := missionPath(id, "")
	data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return models.Mission{}, err
	}
	return decode[models.Mission](data, path)
}

// ActiveMissions lists the player's missions that have not ended yet.
func (c *HTTPClient) ActiveMissions(ctx context.Context) ([]models.Mission, error) {
	data, err := c.do(ctx, http.MethodGet, pathActive, nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]models.Mission](data, pathActive)
}

func (c *HTTPClient) AbortMission(ctx context.Context, id models.ID) error {
	_, err := c.do(ctx, http.MethodPut, missionPath(id, "/abort"), nil, nil)
	return err
}

func (c *HTTPClient) amounts(ctx context.Context, path string, query url.Values) (models.Amounts, error) {
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return decode[models.Amounts](data, path)
}
