// Package common contains constants and sentinel errors shared by the
// dashboard client, the proxy server and the mock backend.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// outbound API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the opaque token in the Authorization header.
const BearerPrefix = "Bearer "

// Roles known to the backend. Only RoleAdmin has special meaning on the client.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Keys under which session data is persisted in local storage.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"

	// StorageKeyMonitorToken is read by the standalone monitor only.
	StorageKeyMonitorToken = "jwt_token"

	// StorageKeyRevision is bumped on every write so other processes can
	// notice that the session changed.
	StorageKeyRevision = "revision"
)
