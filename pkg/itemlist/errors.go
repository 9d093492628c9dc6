package itemlist

import "errors"

var (
	// ErrIndexOutOfBounds is returned by index-addressed operations when the
	// index is negative or >= the list's length.
	ErrIndexOutOfBounds = errors.New("itemlist: index out of bounds")
	// ErrReservedPosition is returned when a mutator (Set/Delete) is asked to touch order.MinPosition or order.MaxPosition: those two
	// slots bound the list and never carry content.
	ErrReservedPosition = errors.New("itemlist: MIN/MAX positions cannot be mutated")
	// ErrConcurrentModification is a best-effort signal raised by Entries
	// iterators when the list is mutated mid-traversal.
	ErrConcurrentModification = errors.New("itemlist: concurrent modification detected")
	// ErrNotPresent names a position that has never been set or has since
	// been deleted. No List method returns it: Get reports absence through
	// its bool result.
	ErrNotPresent = errors.New("itemlist: position not present")
)
