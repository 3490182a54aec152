// Package common contains shared constants and sentinel errors used across
// the Minuend client components.
package common

const (
	// AuthorizationHeaderName carries the credential on outbound API calls.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// CredentialKey is the metadata key the signed credential is persisted under.
	CredentialKey = "jwt"

	// CredentialSavedAtKey records when the credential was last written.
	CredentialSavedAtKey = "jwt_saved_at"
)
