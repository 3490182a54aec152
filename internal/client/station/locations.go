package station

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

// Locations holds the locations known to the user of a view.
type Locations struct {
	api    API
	userID models.ID
	logger logging.Logger
	life   lifetime

	mu   sync.Mutex
	snap atomic.Pointer[[]models.Location]
}

func newLocations(api API, userID models.ID, logger logging.Logger, life lifetime) *Locations {
	return &Locations{
		api:    api,
		userID: userID,
		logger: logger.With("context", "locations"),
		life:   life,
	}
}

// Snapshot returns a copy of the last committed location list.
func (l *Locations) Snapshot() ([]models.Location, bool) {
	p := l.snap.Load()
	if p == nil {
		return nil, false
	}
	return append([]models.Location(nil), (*p)...), true
}

// Get finds a location by id in the last committed list.
func (l *Locations) Get(id models.ID) (models.Location, bool) {
	p := l.snap.Load()
	if p == nil {
		return models.Location{}, false
	}
	for _, loc := range *p {
		if loc.ID == id {
			return loc, true
		}
	}
	return models.Location{}, false
}

// Refresh fetches the location list and commits it unless the view closed.
func (l *Locations) Refresh(ctx context.Context) error {
	ctx, cancel := l.life.bind(ctx)
	defer cancel()

	locs, err := l.api.Locations(ctx, l.userID)
	if l.life.closed() {
		return errClosed
	}
	if err != nil {
		l.logger.Warn(ctx, "locations refresh failed", "user_id", l.userID, "error", err)
		return fmt.Errorf("refresh locations: %w", err)
	}
	if locs == nil {
		locs = []models.Location{}
	}

	l.mu.Lock()
	l.snap.Store(&locs)
	l.mu.Unlock()
	return nil
}

// EchoMissionStarted binds missionID to the location after the server
// confirmed the mission.
func (l *Locations) EchoMissionStarted(locationID, missionID models.ID) {
	if l.life.closed() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.snap.Load()
	if cur == nil {
		return
	}
	next := append([]models.Location(nil), (*cur)...)
	for i := range next {
		if next[i].ID == locationID {
			next[i].MissionID = missionID
			l.snap.Store(&next)
			return
		}
	}
}
