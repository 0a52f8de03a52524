package appointment

import "errors"

var (
	ErrNotFound = errors.New("appointment: not found")
	// ErrSlotTaken is returned by storage when a non-cancelled appointment
	// already holds the normalized slot.
	ErrSlotTaken = errors.New("appointment: slot already taken")
)
