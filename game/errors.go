/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

type Kind int

const (
	// IllegalAction covers wrong phase, wrong actor and bad targets. The
	// room is left untouched and the caller may retry.
	IllegalAction Kind = iota
	// NotFound means the room code does not resolve to a live room.
	NotFound
)

// Error is returned by every rejected room command. Msg is shown to players
// as-is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func illegal(msg string) *Error {
	return &Error{Kind: IllegalAction, Msg: msg}
}

var (
	ErrRoomNotFound = &Error{Kind: NotFound, Msg: "Room not found."}

	ErrGameStarted     = illegal("Game already started. Create a new room.")
	ErrRoomFull        = illegal("Room is full.")
	ErrNotMember       = illegal("You are not in this room.")
	ErrSettingsNotHost = illegal("Only host can change settings.")
	ErrStartNotHost    = illegal("Only host can start.")
	ErrRestartNotHost  = illegal("Only host can restart.")
	ErrPlayerCount     = illegal("Game needs 2-4 players.")
	ErrSetupInactive   = illegal("Round setup is not active.")
	ErrNotSelector     = illegal("It is not your turn to choose.")
	ErrInvalidLetter   = illegal("Choose a valid letter A-Z.")
	ErrInvalidOpponent = illegal("Choose a valid opponent.")
	ErrNoAnswerTurn    = illegal("No active answer turn.")
	ErrNotOpponent     = illegal("Only the active opponent can submit.")
	ErrNoResult        = illegal("No result screen active.")
)
