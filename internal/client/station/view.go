package station

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/client/session"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

// Deps are the collaborators a view hands to its contexts.
type Deps struct {
	API      API
	Messages messages.Dispatcher
	Logger   logging.Logger
}

// View is one mounted station view and the contexts scoped to it.
type View struct {
	StationID models.ID
	UserID    models.ID

	Storage   *Storage
	Hangar    *Hangar
	Locations *Locations

	ctx    context.Context
	cancel context.CancelFunc
}

// Open mounts a view for the session. It fails with ErrStationUnavailable
// unless the session has a resolved station.
func Open(ctx context.Context, deps Deps, snap session.Snapshot) (*View, error) {
	if snap.Phase != session.PhaseReady || snap.User == nil || snap.StationID.IsZero() {
		return nil, fmt.Errorf("%w: session is %s", ErrStationUnavailable, snap.Phase)
	}

	logger := deps.Logger.With("module", "station", "station_id", snap.StationID)
	vctx, cancel := context.WithCancel(ctx)
	life := lifetime{ctx: vctx}

	storage := newStorage(deps.API, snap.StationID, deps.Messages, logger, life)
	return &View{
		StationID: snap.StationID,
		UserID:    snap.User.UserID,
		Storage:   storage,
		Hangar:    newHangar(deps.API, snap.StationID, storage, deps.Messages, logger, life),
		Locations: newLocations(deps.API, snap.User.UserID, logger, life),
		ctx:       vctx,
		cancel:    cancel,
	}, nil
}

// Context is cancelled when the view closes.
func (v *View) Context() context.Context { return v.ctx }

// Refresh fetches storage, hangar and locations concurrently and returns the
// first error.
func (v *View) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return v.Storage.Refresh(ctx) })
	g.Go(func() error { return v.Hangar.Refresh(ctx) })
	g.Go(func() error { return v.Locations.Refresh(ctx) })
	return g.Wait()
}

// Close unmounts the view. Later commits are dropped.
func (v *View) Close() {
	v.cancel()
}

func (v *View) Closed() bool { return v.ctx.Err() != nil }
