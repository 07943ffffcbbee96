package auth

import "errors"

// ErrNoCredential is returned when a token is requested but no session or
// service credential is configured.
var ErrNoCredential = errors.New("no credential configured")
