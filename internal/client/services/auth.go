// Package services contains application services for the station client.
// This file defines the authentication service: login and registration
// against the game server, persisting the issued credential locally and
// reloading the session from it.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/minuend/internal/client/credential"
	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/common"
)

// ErrMissingField is returned when a required prompt was left empty.
var ErrMissingField = errors.New("missing required field")

// Authenticator is the part of the game API the service talks to.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (string, error)
}

// CredentialSaver persists the credential the server issued.
type CredentialSaver interface {
	Save(ctx context.Context, raw string) error
}

// SessionReloader re-reads the persisted credential into the live session.
type SessionReloader interface {
	Reload(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate, persist the credential, reload the session.
//   - Register: create the account, then behave like Login with the
//     credential the server returned.
//
// The password buffer is wiped before returning.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (models.Identity, error)
	Register(ctx context.Context, username, email string, password []byte) (models.Identity, error)
}

type authService struct {
	client  Authenticator
	creds   CredentialSaver
	session SessionReloader
	now     func() time.Time
}

// NewAuthService wires the auth flow to the server, the local store and
// the live session.
func NewAuthService(client Authenticator, creds CredentialSaver, session SessionReloader) AuthService {
	return &authService{client: client, creds: creds, session: session, now: time.Now}
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (models.Identity, error) {
	defer common.WipeByteArray(password)

	if err := required("username", username, password); err != nil {
		return models.Identity{}, err
	}

	raw, err := a.client.Authenticate(ctx, username, string(password))
	if err != nil {
		return models.Identity{}, fmt.Errorf("login error: %w", err)
	}
	return a.adopt(ctx, raw)
}

func (a *authService) Register(ctx context.Context, username, email string, password []byte) (models.Identity, error) {
	defer common.WipeByteArray(password)

	if err := required("username", username, password); err != nil {
		return models.Identity{}, err
	}
	if strings.TrimSpace(email) == "" {
		return models.Identity{}, fmt.Errorf("%w: email", ErrMissingField)
	}

	raw, err := a.client.Register(ctx, username, email, string(password))
	if err != nil {
		return models.Identity{}, fmt.Errorf("register error: %w", err)
	}
	return a.adopt(ctx, raw)
}

// adopt validates the credential before it replaces the stored one, so a
// malformed answer never logs the current user out.
func (a *authService) adopt(ctx context.Context, raw string) (models.Identity, error) {
	id, err := credential.Decode(raw, a.now())
	if err != nil {
		return models.Identity{}, fmt.Errorf("server issued unusable credential: %w", err)
	}
	if err := a.creds.Save(ctx, raw); err != nil {
		return models.Identity{}, fmt.Errorf("credential saving error: %w", err)
	}
	if err := a.session.Reload(ctx); err != nil {
		return models.Identity{}, fmt.Errorf("session reload error: %w", err)
	}
	return id, nil
}

func required(name, value string, password []byte) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	return nil
}
