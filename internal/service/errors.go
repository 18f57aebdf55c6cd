package service

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("invalid credentials")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrMisconfigured   = errors.New("auth config invalid")
)

// RevocationStatus reports the outcome of a best-effort refresh-token
// revocation. Logout and password changes must succeed even when the
// presented token cannot be revoked, so the outcome is returned as a value
// and logged instead of propagated as an error.
type RevocationStatus int

const (
	RevocationSkipped RevocationStatus = iota
	RevocationSucceeded
	RevocationFailed
)

func (s RevocationStatus) String() string {
	switch s {
	case RevocationSucceeded:
		return "succeeded"
	case RevocationFailed:
		return "failed"
	default:
		return "skipped"
	}
}
