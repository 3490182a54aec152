package station

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/minuend/internal/client/client"
	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/client/session"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

type fakeAPI struct {
	mu sync.Mutex

	storage    models.Storage
	storageErr error
	hangar     models.Hangar
	hangarErr  error
	locations  []models.Location
	locErr     error
	cost       models.Amounts
	costErr    error
	mutateErr  error

	// storageGate, when set, blocks Storage until closed or ctx ends
	storageGate chan struct{}

	LastStationID models.ID
	LastUserID    models.ID
	LastShipType  models.ShipType
	LastNewShip   models.NewShip
	Calls         []string
}

func (f *fakeAPI) record(call string, stationID models.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
	if stationID != "" {
		f.LastStationID = stationID
	}
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Storage(ctx context.Context, id models.ID) (models.Storage, error) {
	f.record("storage", id)
	if f.storageGate != nil {
		select {
		case <-f.storageGate:
		case <-ctx.Done():
			return models.Storage{}, ctx.Err()
		}
	}
	return f.storage, f.storageErr
}

func (f *fakeAPI) StorageUpgradeCost(_ context.Context, id models.ID) (models.Amounts, error) {
	f.record("storage-cost", id)
	return f.cost, f.costErr
}

func (f *fakeAPI) UpgradeStorage(_ context.Context, id models.ID) error {
	f.record("storage-upgrade", id)
	return f.mutateErr
}

func (f *fakeAPI) Hangar(_ context.Context, id models.ID) (models.Hangar, error) {
	f.record("hangar", id)
	return f.hangar, f.hangarErr
}

func (f *fakeAPI) HangarUpgradeCost(_ context.Context, id models.ID) (models.Amounts, error) {
	f.record("hangar-cost", id)
	return f.cost, f.costErr
}

func (f *fakeAPI) UpgradeHangar(_ context.Context, id models.ID) error {
	f.record("hangar-upgrade", id)
	return f.mutateErr
}

func (f *fakeAPI) AddShip(_ context.Context, id models.ID, ship models.NewShip) error {
	f.record("add-ship", id)
	f.mu.Lock()
	f.LastNewShip = ship
	f.mu.Unlock()
	return f.mutateErr
}

func (f *fakeAPI) ShipCost(_ context.Context, t models.ShipType) (models.Amounts, error) {
	f.record("ship-cost", "")
	f.mu.Lock()
	f.LastShipType = t
	f.mu.Unlock()
	return f.cost, f.costErr
}

func (f *fakeAPI) Locations(_ context.Context, userID models.ID) ([]models.Location, error) {
	f.record("locations", "")
	f.mu.Lock()
	f.LastUserID = userID
	f.mu.Unlock()
	return f.locations, f.locErr
}

func readySnapshot() session.Snapshot {
	return session.Snapshot{
		User:      &models.Identity{Subject: "commander", UserID: "42"},
		StationID: "7",
		Phase:     session.PhaseReady,
	}
}

func openView(t *testing.T, api *fakeAPI) (*View, *messages.Log) {
	t.Helper()
	log := messages.NewLog()
	v, err := Open(context.Background(), Deps{API: api, Messages: log, Logger: logging.NewNopLogger()}, readySnapshot())
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return v, log
}

func sampleAPI() *fakeAPI {
	return &fakeAPI{
		storage: models.Storage{Level: 1, Capacity: 100, Resources: models.Amounts{models.ResourceMetal: 30}},
		hangar: models.Hangar{Level: 1, Capacity: 3, Ships: []models.Ship{
			{ID: "1", Name: "Rocinante", Status: models.ShipIdle},
			{ID: "2", Name: "Tachi", Status: models.ShipOnMission, MissionID: "9"},
		}},
		locations: []models.Location{
			{ID: "11", Name: "Ceres", ResourceType: models.ResourceMetal, MissionID: "0"},
			{ID: "12", Name: "Vesta", ResourceType: models.ResourceCrystal, MissionID: "9"},
		},
		cost: models.Amounts{models.ResourceMetal: 50, models.ResourceSilicone: 5},
	}
}

func TestOpen_RequiresReadySession(t *testing.T) {
	deps := Deps{API: &fakeAPI{}, Messages: messages.NewLog(), Logger: logging.NewNopLogger()}

	for _, snap := range []session.Snapshot{
		{Phase: session.PhaseAnonymous},
		{User: &models.Identity{UserID: "42"}, Phase: session.PhaseResolving},
		{User: &models.Identity{UserID: "42"}, Phase: session.PhaseFailed},
	} {
		_, err := Open(context.Background(), deps, snap)
		require.ErrorIs(t, err, ErrStationUnavailable)
	}
}

func TestSnapshots_UnavailableUntilFirstCommit(t *testing.T) {
	v, _ := openView(t, sampleAPI())

	_, ok := v.Storage.Snapshot()
	assert.False(t, ok)
	_, ok = v.Hangar.Snapshot()
	assert.False(t, ok)
	_, ok = v.Locations.Snapshot()
	assert.False(t, ok)
	assert.Nil(t, v.Hangar.IdleShips())
}

func TestRefresh_CommitsAllContexts(t *testing.T) {
	api := sampleAPI()
	v, _ := openView(t, api)

	require.NoError(t, v.Refresh(context.Background()))

	st, ok := v.Storage.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 100, st.Capacity)

	idle := v.Hangar.IdleShips()
	require.Len(t, idle, 1)
	assert.Equal(t, models.ID("1"), idle[0].ID)

	locs, ok := v.Locations.Snapshot()
	require.True(t, ok)
	assert.Len(t, locs, 2)

	assert.Equal(t, models.ID("7"), api.LastStationID)
	assert.Equal(t, models.ID("42"), api.LastUserID)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	api := sampleAPI()
	v, _ := openView(t, api)
	require.NoError(t, v.Storage.Refresh(context.Background()))

	api.storageErr = client.ErrUnavailable
	err := v.Storage.Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)

	st, ok := v.Storage.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 100, st.Capacity)
}

func TestRefresh_ReturnsFirstError(t *testing.T) {
	api := sampleAPI()
	api.locErr = client.ErrNotFound
	v, _ := openView(t, api)

	require.ErrorIs(t, v.Refresh(context.Background()), client.ErrNotFound)
}

func TestClose_CancelsFetchAndDropsCommit(t *testing.T) {
	api := sampleAPI()
	api.storageGate = make(chan struct{})
	v, _ := openView(t, api)

	done := make(chan error, 1)
	go func() { done <- v.Storage.Refresh(context.Background()) }()

	require.Eventually(t, func() bool { return api.count("storage") > 0 }, time.Second, time.Millisecond)
	v.Close()

	err := <-done
	require.Error(t, err)
	assert.True(t, v.Closed())
	_, ok := v.Storage.Snapshot()
	assert.False(t, ok)
}

func TestStorageDispatch_UpgradeCost(t *testing.T) {
	api := sampleAPI()
	v, log := openView(t, api)

	require.NoError(t, v.Storage.Dispatch(context.Background(), ShowStorageUpgradeCost{}))

	msg, ok := log.Current().(messages.CostMessage)
	require.True(t, ok)
	assert.Equal(t, "Resources needed to upgrade storage", msg.Title)
	require.Len(t, msg.Rows, 2)
	assert.Equal(t, "metal.png", msg.Rows[0].Icon)
}

func TestStorageDispatch_UpgradeRefreshes(t *testing.T) {
	api := sampleAPI()
	v, log := openView(t, api)

	require.NoError(t, v.Storage.Dispatch(context.Background(), UpgradeStorage{}))

	assert.Equal(t, 1, api.count("storage-upgrade"))
	_, ok := v.Storage.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, messages.InfoMessage{Text: "Storage upgraded."}, log.Current())
}

func TestStorageDispatch_FailureGoesToLog(t *testing.T) {
	api := sampleAPI()
	api.mutateErr = &client.StatusError{Code: 400, Body: "not enough resources"}
	v, log := openView(t, api)

	err := v.Storage.Dispatch(context.Background(), UpgradeStorage{})
	require.ErrorIs(t, err, client.ErrRequestFailed)
	assert.Equal(t, messages.KindError, log.Current().Kind())
	assert.Zero(t, api.count("storage"))
}

func TestHangarDispatch_ShipCost(t *testing.T) {
	api := sampleAPI()
	v, log := openView(t, api)

	require.NoError(t, v.Hangar.Dispatch(context.Background(), ShowShipCost{Type: models.ShipTypeMiner}))

	assert.Equal(t, models.ShipTypeMiner, api.LastShipType)
	msg, ok := log.Current().(messages.CostMessage)
	require.True(t, ok)
	assert.Equal(t, "Resources needed to add miner ship", msg.Title)
}

func TestHangarDispatch_AddShipRefreshesHangarAndStorage(t *testing.T) {
	api := sampleAPI()
	v, log := openView(t, api)

	err := v.Hangar.Dispatch(context.Background(), AddShip{Name: "Nauvoo", Color: models.ColorRuby, Type: models.ShipTypeMiner})
	require.NoError(t, err)

	assert.Equal(t, models.NewShip{Name: "Nauvoo", Color: models.ColorRuby, Type: models.ShipTypeMiner}, api.LastNewShip)
	assert.Equal(t, 1, api.count("hangar"))
	assert.Equal(t, 1, api.count("storage"))
	assert.Equal(t, messages.KindInfo, log.Current().Kind())
}

func TestHangarDispatch_AddShipNeedsName(t *testing.T) {
	api := sampleAPI()
	v, log := openView(t, api)

	require.Error(t, v.Hangar.Dispatch(context.Background(), AddShip{Name: "  "}))
	assert.Zero(t, api.count("add-ship"))
	assert.Equal(t, messages.KindError, log.Current().Kind())
}

func TestHangarDispatch_UpgradeAndCost(t *testing.T) {
	api := sampleAPI()
	v, log := openView(t, api)
	ctx := context.Background()

	require.NoError(t, v.Hangar.Dispatch(ctx, ShowHangarUpgradeCost{}))
	assert.Equal(t, "Resources needed to upgrade hangar", log.Current().(messages.CostMessage).Title)

	require.NoError(t, v.Hangar.Dispatch(ctx, UpgradeHangar{}))
	assert.Equal(t, messages.InfoMessage{Text: "Hangar upgraded."}, log.Current())

	api.costErr = errors.New("max level")
	require.Error(t, v.Hangar.Dispatch(ctx, ShowHangarUpgradeCost{}))
	assert.Equal(t, messages.KindError, log.Current().Kind())
}

func TestEchoMissionStarted(t *testing.T) {
	api := sampleAPI()
	v, _ := openView(t, api)

	// no snapshot yet: ignored
	v.Hangar.EchoMissionStarted("1", "m1")
	v.Locations.EchoMissionStarted("11", "m1")

	require.NoError(t, v.Refresh(context.Background()))
	before, _ := v.Hangar.Snapshot()

	v.Hangar.EchoMissionStarted("1", "m1")
	v.Locations.EchoMissionStarted("11", "m1")

	assert.Empty(t, v.Hangar.IdleShips())
	loc, ok := v.Locations.Get("11")
	require.True(t, ok)
	assert.Equal(t, models.ID("m1"), loc.MissionID)

	// earlier snapshots are not mutated
	assert.Equal(t, models.ShipIdle, before.Ships[0].Status)
	assert.Equal(t, models.ShipIdle, api.hangar.Ships[0].Status)
}
