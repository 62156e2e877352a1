// Package common contains shared constants and sentinel errors used across
// the attendance client components.
package common

// CredentialKey is the fixed key under which the bearer credential is kept
// in the client-local key/value store.
const CredentialKey = "access_token"

// AuthorizationHeaderName carries the bearer credential on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the credential in the Authorization header.
const BearerScheme = "Bearer "

// RequestIDHeaderName correlates client log lines with backend logs.
const RequestIDHeaderName = "X-Request-ID"

// LoginPath is the location of the login surface.
const LoginPath = "/login"
