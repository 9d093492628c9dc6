package api

import (
	"errors"
	"net/http"

	"github.com/ssargent/listpositions/pkg/itemlist"
	"github.com/ssargent/listpositions/pkg/order"
)

// statusForError maps a core error kind to its HTTP status, per the
// propagation policy: not-found kinds are 404, caller-input kinds are
// 400, conflicting-state kinds needing a retry are 409, anything else
// (including programming-error assertions) is 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, order.ErrUnknownBunch),
		errors.Is(err, order.ErrUnknownParent),
		errors.Is(err, itemlist.ErrIndexOutOfBounds),
		errors.Is(err, itemlist.ErrNotPresent):
		return http.StatusNotFound

	case errors.Is(err, order.ErrConflict),
		errors.Is(err, order.ErrCycle),
		errors.Is(err, order.ErrInvalidRoot),
		errors.Is(err, order.ErrInvalidID),
		errors.Is(err, order.ErrInversion),
		errors.Is(err, order.ErrInvalidPosition),
		errors.Is(err, itemlist.ErrReservedPosition):
		return http.StatusBadRequest

	case errors.Is(err, order.ErrIDCollision),
		errors.Is(err, order.ErrConcurrentModification),
		errors.Is(err, itemlist.ErrConcurrentModification):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
