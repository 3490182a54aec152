package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/minuend/internal/client/routes"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, an email and a password and creates the
// account. The server answers with a credential, so a successful
// registration also logs the user in.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	id, err := a.authService.Register(ctx, userName, email, password)
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "registered", "user", id.Subject)
	fmt.Fprintf(a.out, "Welcome aboard, %s!\n", id.Subject)
	return nil
}

// Login prompts for credentials, stores the credential the server issues
// and reloads the session. The station lookup continues in the background.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	id, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "user", userName, "error", err)
		return err
	}

	a.logger.Info(ctx, "login successful", "user", id.Subject)
	a.history.Navigate(routes.Station)
	fmt.Fprintf(a.out, "Logged in as %s.\n", id.Subject)
	return nil
}

// Logout forgets the session locally right away; the server is told in the
// background.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	a.session.Logout(ctx)
	return nil
}

// Whoami prints the identity carried by the saved credential.
func (a *App) Whoami(ctx context.Context) error {
	snap := a.session.Snapshot()
	if snap.User == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	u := snap.User
	fmt.Fprintf(a.out, "User:    %s (id %s)\n", u.Subject, u.UserID)
	if !u.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Expires: %s\n", u.ExpiresAt.Local().Format(time.DateTime))
	}
	if savedAt, err := a.creds.SavedAt(ctx); err == nil && !savedAt.IsZero() {
		fmt.Fprintf(a.out, "Saved:   %s\n", savedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(a.out, "Station: %s\n", stationLine(snap.StationID.String(), snap.Phase.String()))
	return nil
}

// Stored lists the records kept in the local database. Values are never
// printed.
func (a *App) Stored(ctx context.Context) error {
	recs, err := a.creds.Entries(ctx)
	if err != nil {
		return fmt.Errorf("listing local data: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "Local data: none")
		return nil
	}
	fmt.Fprintln(a.out, "Local data:")
	for _, r := range recs {
		fmt.Fprintf(a.out, "  %-14s updated %s\n", r.Key, humanize.Time(r.UpdatedAt))
	}
	return nil
}

// Purge logs out if needed and removes everything stored locally.
func (a *App) Purge(ctx context.Context) error {
	if a.isLoggedIn() {
		a.session.Logout(ctx)
	}
	if err := a.creds.Purge(ctx); err != nil {
		return fmt.Errorf("purging local data: %w", err)
	}
	a.logger.Info(ctx, "local data purged")
	return nil
}

func stationLine(id, phase string) string {
	if id == "" {
		return phase
	}
	return fmt.Sprintf("#%s (%s)", id, phase)
}

// home prints the greeting shown on the home route.
func (a *App) home(context.Context) {
	snap := a.session.Snapshot()
	if snap.User == nil {
		fmt.Fprintln(a.out, "Welcome, stranger!")
		return
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", snap.User.Subject)
}
