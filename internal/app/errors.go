package app

import "errors"

// ErrIllegalTransition marks an action that is not legal in the current phase
// of the question lifecycle. The dispatcher drops such actions silently; this
// sentinel exists so the state store can report the rejection to its caller.
var ErrIllegalTransition = errors.New("illegal transition for current phase")
