package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/minuend/internal/client/client"
	"github.com/dmitrijs2005/minuend/internal/client/config"
	"github.com/dmitrijs2005/minuend/internal/client/credential"
	"github.com/dmitrijs2005/minuend/internal/client/messages"
	"github.com/dmitrijs2005/minuend/internal/client/mission"
	"github.com/dmitrijs2005/minuend/internal/client/routes"
	"github.com/dmitrijs2005/minuend/internal/client/services"
	"github.com/dmitrijs2005/minuend/internal/client/session"
	"github.com/dmitrijs2005/minuend/internal/client/station"
	"github.com/dmitrijs2005/minuend/internal/client/store"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

var (
	errNotLoggedIn = errors.New("not logged in")
	errNoStation   = errors.New("station is not available")
)

// App is the composition root of the client. The station view exists only
// while the session is ready.
type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	api         client.Client
	creds       *credential.Store
	session     *session.Store
	history     *routes.History
	log         *messages.Log
	authService services.AuthService
	watcher     *mission.Watcher
	reader      *bufio.Reader
	out         io.Writer

	mu    sync.Mutex
	view  *station.View
	board *mission.Board
	wg    sync.WaitGroup

	pendingRoute atomic.Pointer[string]
	freshMessage atomic.Bool
}

// NewApp opens the local database, builds the API client and restores the
// session from the saved credential. Station lookup continues in the
// background.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	db, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerURL, client.Options{
		Timeout:           c.RequestTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:  c,
		logger:  logger.With("module", "cli"),
		db:      db,
		api:     api,
		creds:   credential.NewStore(db),
		history: routes.NewHistory(),
		log:     messages.NewLog(),
		reader:  bufio.NewReader(in),
		out:     &lockedWriter{w: out},
	}

	a.session = session.NewStore(a.creds, api, api, a.history, a.log, logger, session.Options{
		LookupAttempts: c.StationLookupAttempts,
		LookupBackoff:  c.StationLookupBackoff,
		LogoutTimeout:  c.LogoutTimeout,
	})
	api.UseTokenSource(a.session.Token)

	a.authService = services.NewAuthService(api, a.creds, a.session)
	a.watcher = mission.NewWatcher(api, c.MissionPollInterval, a.log, logger)

	a.session.OnChange(a.onSession)
	a.history.OnNavigate(func(path string) { a.pendingRoute.Store(&path) })
	a.log.Subscribe(func(messages.Message) { a.freshMessage.Store(true) })

	if err := a.session.Init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Minuend station client (type 'help' for commands)")
	a.home(ctx)
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// Close stops session work, unmounts the station and closes the database.
// The session goes first so no lookup can mount a view after the unmount.
func (a *App) Close() {
	a.session.Close()

	a.mu.Lock()
	a.unmountLocked()
	a.mu.Unlock()

	a.wg.Wait()
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().User != nil
}

func (a *App) status() string {
	snap := a.session.Snapshot()
	if snap.User == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", snap.User.Subject, snap.Phase)
}

// onSession mounts the station view when the session becomes ready and
// unmounts it on any other transition.
func (a *App) onSession(snap session.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if snap.Phase != session.PhaseReady {
		a.unmountLocked()
		return
	}
	if a.view != nil && a.view.StationID == snap.StationID && a.view.UserID == snap.User.UserID {
		return
	}
	a.unmountLocked()

	v, err := station.Open(context.Background(), station.Deps{API: a.api, Messages: a.log, Logger: a.logger}, snap)
	if err != nil {
		a.logger.Warn(context.Background(), "station view not mounted", "error", err)
		return
	}
	board := mission.NewBoard(mission.Deps{
		API:       a.api,
		Hangar:    v.Hangar,
		Locations: v.Locations,
		Navigator: a.history,
		Messages:  a.log,
		Logger:    a.logger,
	})
	a.view, a.board = v, board

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.load(v, board)
	}()
}

func (a *App) load(v *station.View, board *mission.Board) {
	ctx := v.Context()
	if err := v.Refresh(ctx); err != nil {
		if v.Closed() {
			return
		}
		a.logger.Warn(ctx, "initial station load failed", "station_id", v.StationID, "error", err)
		a.log.Dispatch(messages.ErrorAction{Text: "Station data could not be loaded: " + err.Error()})
	}
	if locs, ok := v.Locations.Snapshot(); ok {
		board.Sync(locs)
	}
	a.logger.Debug(ctx, "station mounted", "station_id", v.StationID)
}

func (a *App) unmountLocked() {
	if a.view == nil {
		return
	}
	a.view.Close()
	a.view, a.board = nil, nil
}

// current returns the mounted view, or an error describing why there is
// none.
func (a *App) current() (*station.View, *mission.Board, error) {
	a.mu.Lock()
	v, b := a.view, a.board
	a.mu.Unlock()
	if v != nil {
		return v, b, nil
	}

	switch snap := a.session.Snapshot(); snap.Phase {
	case session.PhaseAnonymous:
		return nil, nil, errNotLoggedIn
	case session.PhaseResolving:
		return nil, nil, fmt.Errorf("%w: still looking up your station", errNoStation)
	case session.PhaseFailed:
		return nil, nil, fmt.Errorf("%w: lookup failed, log in again to retry", errNoStation)
	default:
		return nil, nil, errNoStation
	}
}

// afterCommand prints a message that changed while the command ran and
// follows navigation to a mission.
func (a *App) afterCommand(ctx context.Context) {
	if a.freshMessage.Swap(false) {
		_ = messages.Render(a.out, a.log.Current())
	}

	p := a.pendingRoute.Swap(nil)
	if p == nil {
		return
	}
	if *p == routes.Home {
		a.home(ctx)
		return
	}
	if id, ok := routes.ParseMission(*p); ok {
		if err := a.ShowMission(ctx, id); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
		}
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
