// Package repository defines the persistence adapter for the roster and the
// slot stores it writes through.  Sentinel errors let higher layers tell a
// missing slot apart from a storage failure.
package repository

import "errors"

// ErrSlotNotFound is returned by a SlotStore when nothing has been stored
// under the requested key.  RosterRepo turns it into the default sample.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotRead wraps a storage failure while reading a slot.  Unlike a missing
// or corrupt slot it must not be answered by seeding the sample data.
var ErrSlotRead = errors.New("slot read failed")
