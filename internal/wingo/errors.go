package wingo

import "errors"

var (
	ErrUnauthenticated    = errors.New("unauthenticated: sign in required")
	ErrUnauthorized       = errors.New("unauthorized: permission denied")
	ErrRoundNotOpen       = errors.New("round not open")
	ErrRoundNotFound      = errors.New("round not found")
	ErrAlreadyResolved    = errors.New("round already resolved")
	ErrRoundStillOpen     = errors.New("round is still open for betting")
	ErrInconsistentColor  = errors.New("colour result does not match winning number")
	ErrInvalidAmount      = errors.New("amount must be at least 1")
	ErrInvalidNumber      = errors.New("winning number must be between 0 and 9")
	ErrInvalidBetType     = errors.New("invalid bet type")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidProfileName = errors.New("name must be between 2 and 30 characters")
)
