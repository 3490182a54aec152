// Package session owns the identity decoded from the saved credential and
// the station id resolved for it.
//
// Nothing else reads the credential: the transport asks Store.Token, views
// read Store.Snapshot. Station data must be treated as unavailable until the
// snapshot reaches PhaseReady.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/minuend/internal/client/client"
	"github.com/dmitrijs2005/minuend/internal/client/credential"
	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/client/routes"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

// Phase is where the session is in the identity and station lookup.
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseResolving
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseResolving:
		return "resolving"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Snapshot is a copy of the session state. StationID is empty unless User
// is set, and non-empty exactly when Phase is PhaseReady.
type Snapshot struct {
	User      *models.Identity
	StationID models.ID
	Phase     Phase
}

// Credentials is the persisted credential.
type Credentials interface {
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// StationResolver finds the station owned by a user.
type StationResolver interface {
	StationForUser(ctx context.Context, userID models.ID) (models.ID, error)
}

// ServerLogout tells the server the credential is no longer used.
type ServerLogout interface {
	Logout(ctx context.Context) error
}

// Options tune lookup retries and the background logout call. Zero values
// get defaults.
type Options struct {
	LookupAttempts int
	LookupBackoff  time.Duration
	LogoutTimeout  time.Duration
	Now            func() time.Time
}

func (o *Options) withDefaults() {
	if o.LookupAttempts < 1 {
		o.LookupAttempts = 1
	}
	if o.LookupBackoff <= 0 {
		o.LookupBackoff = 500 * time.Millisecond
	}
	if o.LogoutTimeout <= 0 {
		o.LogoutTimeout = 5 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Store is the single owner of the session state. Listeners registered with
// OnChange observe transitions in the order they happened.
type Store struct {
	creds    Credentials
	resolver StationResolver
	logout   ServerLogout
	nav      routes.Navigator
	msgs     messages.Dispatcher
	logger   logging.Logger
	opts     Options

	mu        sync.Mutex
	raw       string
	user      *models.Identity
	stationID models.ID
	phase     Phase
	gen       uint64
	seq       uint64
	cancel    context.CancelFunc
	listeners []func(Snapshot)

	notifyMu  sync.Mutex
	delivered uint64

	wg sync.WaitGroup
}

// NewStore returns an anonymous store. Call Init to restore the saved
// credential.
func NewStore(
	creds Credentials,
	resolver StationResolver,
	logout ServerLogout,
	nav routes.Navigator,
	msgs messages.Dispatcher,
	logger logging.Logger,
	opts Options,
) *Store {
	opts.withDefaults()
	return &Store{
		creds:    creds,
		resolver: resolver,
		logout:   logout,
		nav:      nav,
		msgs:     msgs,
		logger:   logger.With("module", "session"),
		opts:     opts,
	}
}

// Init decodes the saved credential, if any, and starts the station lookup
// for the decoded user. Credential problems leave the session anonymous.
func (s *Store) Init(ctx context.Context) error {
	return s.Reload(ctx)
}

// Reload re-reads the saved credential. The station is looked up again only
// when the user changed.
func (s *Store) Reload(ctx context.Context) error {
	raw, err := s.creds.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	s.apply(ctx, raw)
	return nil
}

func (s *Store) apply(ctx context.Context, raw string) {
	var user *models.Identity
	if raw != "" {
		id, err := credential.Decode(raw, s.opts.Now())
		if err != nil {
			s.logger.Warn(ctx, "ignoring saved credential", "error", err)
			raw = ""
		} else {
			user = &id
		}
	}

	s.mu.Lock()
	if sameUser(s.user, user) {
		s.raw = raw
		s.user = user
		s.mu.Unlock()
		return
	}

	s.resetLocked()
	s.raw = raw
	s.user = user
	if user == nil {
		snap, seq := s.transitionLocked()
		s.mu.Unlock()
		s.notify(snap, seq)
		return
	}

	s.phase = PhaseResolving
	gen := s.gen
	rctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	snap, seq := s.transitionLocked()
	s.wg.Add(1)
	s.mu.Unlock()

	s.notify(snap, seq)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.resolve(rctx, gen, user.UserID)
	}()
}

func sameUser(a, b *models.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UserID == b.UserID && a.Subject == b.Subject
}

// resetLocked cancels the running lookup and forgets user and station.
func (s *Store) resetLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.raw = ""
	s.user = nil
	s.stationID = ""
	s.phase = PhaseAnonymous
}

func (s *Store) resolve(ctx context.Context, gen uint64, userID models.ID) {
	attempt := 0

	b := retry.WithMaxRetries(uint64(s.opts.LookupAttempts-1), retry.NewExponential(s.opts.LookupBackoff))
	stationID, err := retry.DoValue(ctx, b, func(ctx context.Context) (models.ID, error) {
		attempt++
		id, err := s.resolver.StationForUser(ctx, userID)
		if err != nil {
			s.logger.Debug(ctx, "station lookup failed", "user_id", userID, "attempt", attempt, "error", err)
			if errors.Is(err, client.ErrUnavailable) && ctx.Err() == nil {
				return "", retry.RetryableError(err)
			}
			return "", err
		}
		if id.IsZero() {
			return "", fmt.Errorf("station lookup: %w", client.ErrMalformedResponse)
		}
		return id, nil
	})

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug(ctx, "dropping stale station lookup", "user_id", userID)
		return
	}
	s.cancel = nil
	if err != nil {
		s.phase = PhaseFailed
	} else {
		s.stationID = stationID
		s.phase = PhaseReady
	}
	snap, seq := s.transitionLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "station lookup gave up", "user_id", userID, "attempts", attempt, "error", err)
		s.msgs.Dispatch(messages.ErrorAction{Text: "Could not reach your station: " + err.Error()})
	} else {
		s.logger.Info(ctx, "station resolved", "user_id", userID, "station_id", stationID)
	}
	s.notify(snap, seq)
}

// Logout resets the session locally, clears the saved credential and
// navigates home before returning. The server is told in the background;
// its answer only gets logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	raw := s.raw
	s.resetLocked()
	snap, seq := s.transitionLocked()
	s.mu.Unlock()

	if err := s.creds.Clear(ctx); err != nil {
		s.logger.Error(ctx, "clearing saved credential", "error", err)
	}
	s.notify(snap, seq)
	s.nav.Navigate(routes.Home)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.LogoutTimeout)
		defer cancel()
		if raw != "" {
			lctx = client.WithCredential(lctx, raw)
		}
		if err := s.logout.Logout(lctx); err != nil {
			s.logger.Warn(lctx, "server logout failed", "error", err)
			return
		}
		s.logger.Debug(lctx, "server logout done")
	}()
}

// Token is the credential to send to the server, "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{StationID: s.stationID, Phase: s.phase}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// OnChange registers fn to be called after every state transition.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// transitionLocked numbers the state just reached.
func (s *Store) transitionLocked() (Snapshot, uint64) {
	s.seq++
	return s.snapshotLocked(), s.seq
}

// notify delivers snap unless a later transition was already delivered.
// Listeners must not call back into Logout, Reload or Init.
func (s *Store) notify(snap Snapshot, seq uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.delivered {
		return
	}
	s.delivered = seq

	s.mu.Lock()
	listeners := append([]func(Snapshot){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// Wait blocks until background lookups and logout calls have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close cancels the running lookup and waits for background work.
func (s *Store) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.mu.Unlock()
	s.Wait()
}
