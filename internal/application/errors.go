package application

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotEnoughStones         = errors.New("not enough spirit stones")
	ErrOpponentNotEnoughStones = errors.New("opponent has not enough spirit stones")
	ErrSquadIncomplete         = errors.New("squad must hold exactly 5 fish")
	ErrOpponentSquadIncomplete = errors.New("opponent squad is incomplete")
	ErrDuplicateFish           = errors.New("squad fish must be distinct")
	ErrSelfDuel                = errors.New("cannot duel yourself")
	ErrStakeTooHigh            = errors.New("stake exceeds arena limit")
	ErrBadStake                = errors.New("stake must not be negative")
	ErrUnknownPlayer           = errors.New("player not registered")
	ErrUnknownSchool           = errors.New("unknown cultivation school")
	ErrBadName                 = errors.New("bad player name")
	ErrNotAdmin                = errors.New("admin only")
)

// CooldownError is returned when an action is repeated too soon.
type CooldownError struct {
	Left time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown: %s left", e.Left.Round(time.Second))
}
