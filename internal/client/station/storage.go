package station

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

// StorageAction is ShowStorageUpgradeCost or UpgradeStorage.
type StorageAction interface {
	storageAction()
}

type ShowStorageUpgradeCost struct{}

type UpgradeStorage struct{}

func (ShowStorageUpgradeCost) storageAction() {}
func (UpgradeStorage) storageAction()         {}

// Storage holds the last storage snapshot of a station.
type Storage struct {
	api       API
	stationID models.ID
	msgs      messages.Dispatcher
	logger    logging.Logger
	life      lifetime

	snap atomic.Pointer[models.Storage]
}

func newStorage(api API, stationID models.ID, msgs messages.Dispatcher, logger logging.Logger, life lifetime) *Storage {
	return &Storage{
		api:       api,
		stationID: stationID,
		msgs:      msgs,
		logger:    logger.With("context", "storage"),
		life:      life,
	}
}

// Snapshot returns the last committed storage. The map is shared; treat it
// as read-only.
func (s *Storage) Snapshot() (models.Storage, bool) {
	p := s.snap.Load()
	if p == nil {
		return models.Storage{}, false
	}
	return *p, true
}

// Refresh fetches the storage and commits it unless the view closed.
func (s *Storage) Refresh(ctx context.Context) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	st, err := s.api.Storage(ctx, s.stationID)
	if s.life.closed() {
		return errClosed
	}
	if err != nil {
		s.logger.Warn(ctx, "storage refresh failed", "station_id", s.stationID, "error", err)
		return fmt.Errorf("refresh storage: %w", err)
	}
	s.snap.Store(&st)
	return nil
}

// Dispatch performs a, reporting the outcome to the message log.
func (s *Storage) Dispatch(ctx context.Context, a StorageAction) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	switch a.(type) {
	case ShowStorageUpgradeCost:
		cost, err := s.api.StorageUpgradeCost(ctx, s.stationID)
		if err != nil {
			return s.fail(ctx, "Storage upgrade unavailable", err)
		}
		s.msgs.Dispatch(messages.CostAction{Title: "Resources needed to upgrade storage", Data: cost})
		return nil
	case UpgradeStorage:
		if err := s.api.UpgradeStorage(ctx, s.stationID); err != nil {
			return s.fail(ctx, "Storage upgrade failed", err)
		}
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		s.msgs.Dispatch(messages.InfoAction{Text: "Storage upgraded."})
		return nil
	default:
		return fmt.Errorf("unknown storage action %T", a)
	}
}

func (s *Storage) fail(ctx context.Context, text string, err error) error {
	s.logger.Warn(ctx, text, "station_id", s.stationID, "error", err)
	if !s.life.closed() {
		s.msgs.Dispatch(messages.ErrorAction{Text: text + ": " + err.Error()})
	}
	return err
}
