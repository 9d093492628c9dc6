// Package itemlist implements the ItemList component: a per-replica,
// run-length-compressed presence map over the positions minted by a
// pkg/order.Order, augmented with per-bunch subtree totals so index <->
// position translation costs O(depth) rather than a full scan.
package itemlist

import (
	"github.com/ssargent/listpositions/pkg/order"
)

// List holds values of type T at a subset of the positions minted by a
// shared order.Order. Outline is List[struct{}]: the counting-only twin
// used when callers need "is this slot occupied" without content.
type List[T any] struct {
	ord          *order.Order
	runs         map[string]*bunchRuns[T]
	subtreeTotal map[string]int
	version      uint64
}

// Outline tracks presence only, with no associated content.
type Outline = List[struct{}]

// New creates an empty List backed by ord. Multiple Lists (including an
// Outline) may share the same Order.
func New[T any](ord *order.Order) *List[T] {
	return &List[T]{
		ord:          ord,
		runs:         make(map[string]*bunchRuns[T]),
		subtreeTotal: make(map[string]int),
	}
}

func (l *List[T]) runsFor(bunchID string) *bunchRuns[T] {
	r, ok := l.runs[bunchID]
	if !ok {
		r = &bunchRuns[T]{}
		l.runs[bunchID] = r
	}
	return r
}

func (l *List[T]) addSubtree(bunchID string, delta int) {
	if delta == 0 {
		return
	}
	id := bunchID
	for {
		l.subtreeTotal[id] += delta
		if id == order.RootID {
			return
		}
		node, ok := l.ord.GetNode(id)
		if !ok {
			return
		}
		id = node.ParentID
	}
}

func isReserved(pos order.Position) bool {
	return pos == order.MinPosition || pos == order.MaxPosition
}

// Len returns the total number of present positions in the list.
func (l *List[T]) Len() int {
	return l.subtreeTotal[order.RootID]
}

// Has reports whether pos currently holds a value.
func (l *List[T]) Has(pos order.Position) (bool, error) {
	if isReserved(pos) {
		return false, nil
	}
	if err := l.ord.Validate(pos); err != nil {
		return false, err
	}
	return l.runsFor(pos.BunchID).has(pos.InnerIndex), nil
}

// Get returns the value at pos, if present.
func (l *List[T]) Get(pos order.Position) (T, bool, error) {
	var zero T
	if isReserved(pos) {
		return zero, false, nil
	}
	if err := l.ord.Validate(pos); err != nil {
		return zero, false, err
	}
	v, ok := l.runsFor(pos.BunchID).get(pos.InnerIndex)
	return v, ok, nil
}

// Set stores value at pos, which must already be a position minted by
// this List's Order (e.g. via InsertAt or order.CreatePosition directly).
func (l *List[T]) Set(pos order.Position, value T) error {
	if isReserved(pos) {
		return ErrReservedPosition
	}
	if err := l.ord.Validate(pos); err != nil {
		return err
	}
	r := l.runsFor(pos.BunchID)
	wasPresent := r.has(pos.InnerIndex)
	r.set(pos.InnerIndex, value)
	if !wasPresent {
		l.addSubtree(pos.BunchID, 1)
	}
	l.version++
	return nil
}

// Delete removes the value at pos, if any. Deleting an absent or
// never-set position is a no-op, matching idempotent CRDT delete
// semantics.
func (l *List[T]) Delete(pos order.Position) error {
	if isReserved(pos) {
		return ErrReservedPosition
	}
	if err := l.ord.Validate(pos); err != nil {
		return err
	}
	r, ok := l.runs[pos.BunchID]
	if !ok {
		return nil
	}
	if r.delete(pos.InnerIndex) {
		l.addSubtree(pos.BunchID, -1)
		l.version++
	}
	return nil
}

// Clear empties the list's content without touching the underlying
// Order's tree structure: positions remain valid to reference, just
// unoccupied.
func (l *List[T]) Clear() {
	l.runs = make(map[string]*bunchRuns[T])
	l.subtreeTotal = make(map[string]int)
	l.version++
}
