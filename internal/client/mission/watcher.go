package mission

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/minuend/internal/client/client"
	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

// TrackerAPI is the part of the game API the Watcher reads missions with.
type TrackerAPI interface {
	Mission(ctx context.Context, id models.ID) (models.Mission, error)
	ActiveMissions(ctx context.Context) ([]models.Mission, error)
	AbortMission(ctx context.Context, id models.ID) error
}

// Watcher reads missions the server owns. It never changes them except
// through Abort.
type Watcher struct {
	api      TrackerAPI
	interval time.Duration
	msgs     messages.Dispatcher
	logger   logging.Logger
}

// NewWatcher returns a Watcher polling every interval.
func NewWatcher(api TrackerAPI, interval time.Duration, msgs messages.Dispatcher, logger logging.Logger) *Watcher {
	return &Watcher{
		api:      api,
		interval: interval,
		msgs:     msgs,
		logger:   logger.With("module", "mission-watcher"),
	}
}

// Get fetches one mission.
func (w *Watcher) Get(ctx context.Context, id models.ID) (models.Mission, error) {
	return w.api.Mission(ctx, id)
}

// Watch polls the mission until it is over or archived, or ctx ends, and
// calls onChange for the first snapshot and for every change after it.
// Unavailable errors are retried on the next tick.
func (w *Watcher) Watch(ctx context.Context, id models.ID, onChange func(models.Mission)) (models.Mission, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last *models.Mission
	for {
		m, err := w.api.Mission(ctx, id)
		switch {
		case err == nil:
			if last == nil || changed(*last, m) {
				onChange(m)
			}
			last = &m
			if m.Status.Final() {
				return m, nil
			}
		case errors.Is(err, client.ErrUnavailable) && ctx.Err() == nil:
			w.logger.Warn(ctx, "mission poll failed, will retry", "mission_id", id, "error", err)
		default:
			if last != nil && ctx.Err() != nil {
				return *last, ctx.Err()
			}
			return models.Mission{}, fmt.Errorf("watch mission %s: %w", id, err)
		}

		select {
		case <-ctx.Done():
			if last != nil {
				return *last, ctx.Err()
			}
			return models.Mission{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Active returns the missions still running, oldest first. Missions the
// server reports in a final status are left out.
func (w *Watcher) Active(ctx context.Context) ([]models.Mission, error) {
	all, err := w.api.ActiveMissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active missions: %w", err)
	}
	active := make([]models.Mission, 0, len(all))
	for _, m := range all {
		if !m.Status.Final() {
			active = append(active, m)
		}
	}
	slices.SortStableFunc(active, func(a, b models.Mission) int {
		return a.StartedAt.Compare(b.StartedAt.Time)
	})
	return active, nil
}

func changed(a, b models.Mission) bool {
	return a.Status != b.Status || len(a.Events) != len(b.Events)
}

// Abort asks the server to recall the mission and reports the result to the
// message log.
func (w *Watcher) Abort(ctx context.Context, id models.ID) error {
	if err := w.api.AbortMission(ctx, id); err != nil {
		w.logger.Error(ctx, "abort failed", "mission_id", id, "error", err)
		w.msgs.Dispatch(messages.ErrorAction{Text: fmt.Sprintf("Mission %s could not be aborted: %v", id, err)})
		return err
	}
	w.msgs.Dispatch(messages.InfoAction{Text: fmt.Sprintf("Mission %s aborted, ship returning.", id)})
	return nil
}
