// Package gateway is the single HTTP chokepoint between the client and the
// attendance backend.
//
// Every request goes through Gateway.Do, which attaches the session's bearer
// credential, tags the request with an X-Request-ID and turns non-2xx
// responses into *APIError values. A 401 on a request that carried a
// credential ends the session (once, however many requests fail together)
// unless the user is already on the login screen; the error is still
// returned to the caller.
//
// The gateway does not retry, cache or de-duplicate.
package gateway
