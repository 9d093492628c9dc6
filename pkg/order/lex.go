package order

import (
	"fmt"

	"github.com/ssargent/listpositions/pkg/lexpos"
)

// Lex renders a position as a byte-lex-ordered string agreeing with
// Compare: Lex(a) < Lex(b) iff Compare(a, b) < 0.
func (o *Order) Lex(pos Position) (string, error) {
	if pos == MinPosition {
		return lexpos.MinLexPosition, nil
	}
	if pos == MaxPosition {
		return lexpos.MaxLexPosition, nil
	}
	node, err := o.getNodeFor(pos)
	if err != nil {
		return "", err
	}
	path := o.pathTo(node)
	prefix, err := o.codec.CombineNodePrefix(path)
	if err != nil {
		return "", err
	}
	return o.codec.CombinePos(prefix, pos.InnerIndex), nil
}

// pathTo returns the root-child..node path as NodeStep entries, root
// excluded.
func (o *Order) pathTo(node *bunchNode) []lexpos.NodeStep {
	var steps []lexpos.NodeStep
	for cur := node; cur.parent != nil; cur = cur.parent {
		steps = append(steps, lexpos.NodeStep{BunchID: cur.id, Offset: cur.offset})
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// Unlex parses a lex string back into a position, installing (via
// Receive) any bunch named along its path that this Order hasn't seen
// yet. This lets a replica accept a lex-encoded position from a peer
// before it has separately received that peer's bunch metas.
func (o *Order) Unlex(s string) (Position, error) {
	if s == lexpos.MinLexPosition {
		return MinPosition, nil
	}
	if s == lexpos.MaxLexPosition {
		return MaxPosition, nil
	}
	prefix, innerIndex, err := o.codec.SplitPos(s)
	if err != nil {
		return Position{}, err
	}
	path, err := o.codec.SplitNodePrefix(prefix)
	if err != nil {
		return Position{}, err
	}
	if len(path) == 0 {
		return Position{}, fmt.Errorf("%w: %q has an empty node path", ErrInvalidPosition, s)
	}

	var toReceive []BunchMeta
	parentID := RootID
	for i, step := range path {
		offset := step.Offset
		if i == 0 {
			// The first segment never encodes an offset (see CreatePosition);
			// root's children always use the conventional placeholder.
			offset = 1
		}
		if _, ok := o.bunches[step.BunchID]; !ok {
			toReceive = append(toReceive, BunchMeta{BunchID: step.BunchID, ParentID: parentID, Offset: offset})
		}
		parentID = step.BunchID
	}
	if len(toReceive) > 0 {
		if err := o.Receive(toReceive); err != nil {
			return Position{}, err
		}
	}

	leafID := path[len(path)-1].BunchID
	return Position{BunchID: leafID, InnerIndex: innerIndex}, nil
}
