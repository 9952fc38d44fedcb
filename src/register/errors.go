package register

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSlots       = errors.New("missing slots: one or more requested slots no longer exist")
	ErrSlotConflict       = errors.New("slot conflict: one or more requested slots are no longer available")
	ErrAlreadyRegistered  = errors.New("player already has a reserved or processing slot for this event")
	ErrEventFull          = errors.New("the event is full")
	ErrRegistrationClosed = errors.New("the registration window is not open")
	ErrCourseRequired     = errors.New("a course is required when choosing slots")
	ErrNotChoosable       = errors.New("the event does not carry a slot sheet")
)

// WaveNotOpenError reports a slot whose priority wave has not been reached.
type WaveNotOpenError struct {
	Wave int
}

func (e *WaveNotOpenError) Error() string {
	return fmt.Sprintf("slot is in signup wave %d, which is not open yet", e.Wave)
}
