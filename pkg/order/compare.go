package order

// Compare returns -1, 0, or 1 according to the tree total order on a and
// b, matching the byte-lex order of Lex(a) vs Lex(b).
func (o *Order) Compare(a, b Position) (int, error) {
	aNode, err := o.getNodeFor(a)
	if err != nil {
		return 0, err
	}
	bNode, err := o.getNodeFor(b)
	if err != nil {
		return 0, err
	}
	if aNode == bNode {
		return sign(int64(a.InnerIndex) - int64(b.InnerIndex)), nil
	}

	swapped := false
	if aNode.depth < bNode.depth {
		aNode, bNode = bNode, aNode
		a, b = b, a
		swapped = true
	}

	aAnc := aNode
	for aAnc.depth > bNode.depth {
		if aAnc.parent == bNode {
			// aAnc's subtree hangs off bNode's inner index offset>>1: an odd
			// offset 2k+1 sits right of index k, an even offset 2k left of
			// index k. Either way, with threshold = ceil(offset/2), positions
			// at or past threshold on bNode sort after the whole subtree and
			// positions before threshold sort before it.
			threshold := (aAnc.offset + 1) >> 1
			result := 1
			if b.InnerIndex >= threshold {
				result = -1
			}
			if swapped {
				result = -result
			}
			return result, nil
		}
		aAnc = aAnc.parent
	}

	bAnc := bNode
	for aAnc.parent != bAnc.parent {
		aAnc = aAnc.parent
		bAnc = bAnc.parent
	}
	result := sign(boolToInt(siblingLess(bAnc, aAnc)) - boolToInt(siblingLess(aAnc, bAnc)))
	if swapped {
		result = -result
	}
	return result, nil
}

// isDescendant reports whether position a lies within the subtree rooted
// at b's bunch, at or after b's inner index: the definition create_position
// uses to decide whether prev's bunch is an ancestor of next.
func (o *Order) isDescendant(a, b Position) (bool, error) {
	aAnc, err := o.getNodeFor(a)
	if err != nil {
		return false, err
	}
	bNode, err := o.getNodeFor(b)
	if err != nil {
		return false, err
	}
	if aAnc.depth < bNode.depth {
		return false, nil
	}
	curInner := a.InnerIndex
	for aAnc.depth > bNode.depth {
		curInner = aAnc.offset >> 1
		aAnc = aAnc.parent
	}
	return aAnc == bNode && curInner >= b.InnerIndex, nil
}

func sign(v int64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
