// Package common contains shared constants and sentinel errors used across
// the contact book server.
package common

// AuthorizationHeaderName is the HTTP header carrying the raw access token.
const AuthorizationHeaderName = "Authorization"
