package domain

import "errors"

// Transition failures. Callers distinguish them with errors.Is.
var (
	ErrWrongPhase         = errors.New("wrong phase")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrIllegalPlay        = errors.New("illegal play")
	ErrTooManySelected    = errors.New("too many cards selected")
	ErrTrickNotComplete   = errors.New("trick not complete")
	ErrPlayersNotReady    = errors.New("players not ready")
	ErrInvalidPlayerCount = errors.New("invalid player count")

	ErrInvalidPlayerName = errors.New("invalid player name")
	ErrInvalidDeck       = errors.New("invalid deck")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrTrickFull         = errors.New("trick already full")
)
