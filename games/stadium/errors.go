/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package stadium

import "errors"

var (
	ErrInvalidName    = errors.New("name must not be empty")
	ErrNameTaken      = errors.New("name already taken")
	ErrGameFull       = errors.New("game is full")
	ErrAlreadyJoined  = errors.New("connection has already joined")
	ErrMissingStadium = errors.New("no stadium configured for round")
)

// ErrorKind maps a join error onto the kind reported to the client.
// It returns "" for errors the client is not told about.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNameTaken):
		return "name-taken"
	case errors.Is(err, ErrGameFull):
		return "game-full"
	case errors.Is(err, ErrAlreadyJoined):
		return "already-joined"
	default:
		return ""
	}
}
