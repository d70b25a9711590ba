// Package common contains shared constants, sentinel errors and small helpers
// used across campuslink components.
package common

const (
	// AuthorizationHeaderName carries the session secret on gateway requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the session secret in the Authorization header.
	BearerPrefix = "Bearer "

	// MetadataKeyPrefix marks gateway-internal document fields ($id, $createdAt, ...).
	MetadataKeyPrefix = "$"

	// UserAuthenticatedFlag is the name of the durable sign-in hint.
	UserAuthenticatedFlag = "userAuthenticated"
)
