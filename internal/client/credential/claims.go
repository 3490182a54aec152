// Package credential decodes the signed session credential and persists it
// in the local database.
//
// The client never verifies the signature: it has no key and the server
// re-checks the credential on every call. Decoding only extracts the
// identity and rejects malformed or expired tokens.
package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/common"
)

// Claims are the claims the game server puts into the credential.
type Claims struct {
	jwt.RegisteredClaims
	UserID models.ID `json:"userId"`
}

var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// Decode parses raw without verifying the signature and returns the
// identity it carries. It fails with common.ErrInvalidToken for malformed
// tokens or tokens without a subject or user id, and with
// common.ErrTokenExpired once now is past the expiry.
func Decode(raw string, now time.Time) (models.Identity, error) {
	if raw == "" {
		return models.Identity{}, fmt.Errorf("empty credential: %w", common.ErrInvalidToken)
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return models.Identity{}, errors.Join(common.ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.UserID.IsZero() {
		return models.Identity{}, fmt.Errorf("missing sub or userId: %w", common.ErrInvalidToken)
	}

	id := models.Identity{Subject: claims.Subject, UserID: claims.UserID}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
		if !now.Before(id.ExpiresAt) {
			return models.Identity{}, common.ErrTokenExpired
		}
	}
	return id, nil
}
