package services

import "errors"

var (
	ErrDuplicateNick      = errors.New("nick already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateCircuit   = errors.New("circuit already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("not allowed to modify this resource")
	ErrEmptyUpdate        = errors.New("no fields to update")
	ErrUnknownField       = errors.New("unknown field")
	ErrNoLapData          = errors.New("session has no lap data")
	ErrDriversNotFound    = errors.New("none of the requested drivers took part in the session")
)
