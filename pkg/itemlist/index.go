package itemlist

import "github.com/ssargent/listpositions/pkg/order"

// Dir disambiguates IndexOfPosition's result when pos has been deleted:
// the accumulated rank alone can't tell the caller whether it's meant to
// land before or after the gap pos used to occupy.
type Dir int

const (
	// DirNone reports an absent pos as not found (-1).
	DirNone Dir = iota
	// DirLeft reports an absent pos as the index just before its gap.
	DirLeft
	// DirRight reports an absent pos as the index the gap itself occupies.
	DirRight
)

// IndexOfPosition returns the number of present positions strictly before
// pos. If pos is present this is its 0-based index; otherwise the result
// depends on dir (see Dir). MinPosition maps to 0 and MaxPosition maps to
// Len(), matching their role as the list's open bounds, regardless of dir.
func (l *List[T]) IndexOfPosition(pos order.Position, dir Dir) (int, error) {
	if pos == order.MinPosition {
		return 0, nil
	}
	if pos == order.MaxPosition {
		return l.Len(), nil
	}
	if err := l.ord.Validate(pos); err != nil {
		return 0, err
	}

	rank := l.runsFor(pos.BunchID).presentBefore(pos.InnerIndex)
	ownNode, _ := l.ord.GetNode(pos.BunchID)
	for _, child := range ownNode.ChildIDs {
		childNode, _ := l.ord.GetNode(child)
		if childNode.Offset <= 2*pos.InnerIndex {
			rank += l.subtreeTotal[child]
		}
	}

	cur := pos.BunchID
	for cur != order.RootID {
		node, ok := l.ord.GetNode(cur)
		if !ok {
			break
		}
		threshold := (node.Offset + 1) >> 1
		rank += l.runsFor(node.ParentID).presentBefore(threshold)

		parent, _ := l.ord.GetNode(node.ParentID)
		for _, sib := range parent.ChildIDs {
			if sib == cur {
				break
			}
			rank += l.subtreeTotal[sib]
		}
		cur = node.ParentID
	}

	present, err := l.Has(pos)
	if err != nil {
		return 0, err
	}
	if present {
		return rank, nil
	}
	switch dir {
	case DirLeft:
		return rank - 1, nil
	case DirRight:
		return rank, nil
	default:
		return -1, nil
	}
}

// PositionAt returns the position holding the index-th present value.
func (l *List[T]) PositionAt(index int) (order.Position, error) {
	if index < 0 || index >= l.Len() {
		return order.Position{}, ErrIndexOutOfBounds
	}
	bunchID := order.RootID
	k := index
outer:
	for {
		node, _ := l.ord.GetNode(bunchID)
		children := node.ChildIDs
		runs := l.runsFor(bunchID)
		ownTotal := uint32(runs.total())
		ci := 0

		for t := uint32(0); ; t++ {
			for ci < len(children) {
				childNode, _ := l.ord.GetNode(children[ci])
				if childNode.Offset != 2*t {
					break
				}
				sub := l.subtreeTotal[children[ci]]
				if k < sub {
					bunchID = children[ci]
					continue outer
				}
				k -= sub
				ci++
			}
			if t < ownTotal {
				if _, ok := runs.get(t); ok {
					if k == 0 {
						return order.Position{BunchID: bunchID, InnerIndex: t}, nil
					}
					k--
				}
			}
			for ci < len(children) {
				childNode, _ := l.ord.GetNode(children[ci])
				if childNode.Offset != 2*t+1 {
					break
				}
				sub := l.subtreeTotal[children[ci]]
				if k < sub {
					bunchID = children[ci]
					continue outer
				}
				k -= sub
				ci++
			}
			if t >= ownTotal && ci >= len(children) {
				return order.Position{}, ErrIndexOutOfBounds
			}
		}
	}
}

// Side distinguishes which side of its anchor position a Cursor sticks to
// once that position is deleted.
type Side int

const (
	// Left means the cursor tracks the gap just before its anchor.
	Left Side = iota
	// Right means the cursor tracks the gap just after its anchor.
	Right
)

// Cursor is a position reference that survives deletion of its anchor: it
// degrades to "the index where the anchor used to be" rather than
// erroring.
type Cursor struct {
	Position order.Position
	Side     Side
}

// CursorAt captures a cursor for the gap immediately before the index-th
// element (or, at index == Len(), the end-of-list gap).
func (l *List[T]) CursorAt(index int) (Cursor, error) {
	if index == l.Len() {
		return Cursor{Position: order.MaxPosition, Side: Left}, nil
	}
	pos, err := l.PositionAt(index)
	if err != nil {
		return Cursor{}, err
	}
	return Cursor{Position: pos, Side: Left}, nil
}

// IndexOfCursor resolves a cursor back to a current index, accounting for
// content inserted or removed since the cursor was captured.
func (l *List[T]) IndexOfCursor(c Cursor) (int, error) {
	idx, err := l.IndexOfPosition(c.Position, DirRight)
	if err != nil {
		return 0, err
	}
	if c.Side == Left {
		return idx, nil
	}
	present, err := l.Has(c.Position)
	if err != nil {
		return 0, err
	}
	if present {
		return idx + 1, nil
	}
	return idx, nil
}

// InsertAt allocates len(values) consecutive new positions at index and
// sets their content, returning the allocated positions in order plus
// the BunchMeta of any freshly minted bunch (nil if an existing bunch's
// counter was extended). The caller is responsible for broadcasting a
// non-nil meta to peers.
func (l *List[T]) InsertAt(index int, values []T) ([]order.Position, *order.BunchMeta, error) {
	if len(values) == 0 {
		return nil, nil, nil
	}
	if index < 0 || index > l.Len() {
		return nil, nil, ErrIndexOutOfBounds
	}

	prev := order.MinPosition
	if index > 0 {
		p, err := l.PositionAt(index - 1)
		if err != nil {
			return nil, nil, err
		}
		prev = p
	}
	next := order.MaxPosition
	if index < l.Len() {
		p, err := l.PositionAt(index)
		if err != nil {
			return nil, nil, err
		}
		next = p
	}

	first, meta, err := l.ord.CreatePosition(prev, next, len(values))
	if err != nil {
		return nil, nil, err
	}

	positions := make([]order.Position, len(values))
	for i, v := range values {
		p := order.Position{BunchID: first.BunchID, InnerIndex: first.InnerIndex + uint32(i)}
		positions[i] = p
		if err := l.Set(p, v); err != nil {
			return positions[:i], meta, err
		}
	}
	return positions, meta, nil
}
