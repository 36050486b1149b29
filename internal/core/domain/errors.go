package domain

import "errors"

var (
	ErrUnknownLayer   = errors.New("unknown layer")
	ErrUnknownPreset  = errors.New("unknown style preset")
	ErrInvalidStyle   = errors.New("invalid style config")
	ErrMarkerNotFound = errors.New("marker not found")
	ErrSessionExpired = errors.New("session not found or expired")
	ErrNotFound       = errors.New("not found")
)
