package lexpos

import (
	"fmt"
	"strings"
)

// NodeStep is one step on the path from the root's child down to a bunch.
// Offset is meaningless (and ignored) for the first step in a path, since
// the root's child is encoded as a bare bunch id.
type NodeStep struct {
	BunchID string
	Offset  uint32
}

// CombineNodePrefix renders an ordered root-to-leaf path of bunches as a
// node prefix string.
func (c *Codec) CombineNodePrefix(path []NodeStep) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("%w: empty node path", ErrMalformed)
	}
	var b strings.Builder
	for i, step := range path {
		if err := ValidateID(step.BunchID); err != nil {
			return "", err
		}
		if i == 0 {
			b.WriteString(step.BunchID)
			continue
		}
		b.WriteByte(Separator)
		b.WriteString(c.EncodeOffset(step.Offset))
		b.WriteByte(FieldSep)
		b.WriteString(step.BunchID)
	}
	return b.String(), nil
}

// SplitNodePrefix is the inverse of CombineNodePrefix.
func (c *Codec) SplitNodePrefix(prefix string) ([]NodeStep, error) {
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty node prefix", ErrMalformed)
	}
	segments := strings.Split(prefix, string(Separator))
	path := make([]NodeStep, 0, len(segments))
	for i, seg := range segments {
		if i == 0 {
			path = append(path, NodeStep{BunchID: seg})
			continue
		}
		dot := strings.IndexByte(seg, FieldSep)
		if dot < 0 {
			return nil, fmt.Errorf("%w: node-prefix segment %q missing %q", ErrMalformed, seg, string(FieldSep))
		}
		offset, rest, err := c.DecodeOffset(seg[:dot])
		if err != nil {
			return nil, err
		}
		if rest != "" {
			return nil, fmt.Errorf("%w: trailing data %q after offset in segment %q", ErrMalformed, rest, seg)
		}
		path = append(path, NodeStep{BunchID: seg[dot+1:], Offset: offset})
	}
	return path, nil
}

// CombinePos appends an encoded inner-index to a node prefix, producing a
// full lex position.
func (c *Codec) CombinePos(prefix string, innerIndex uint32) string {
	return prefix + string(Separator) + c.EncodeValueIndex(innerIndex)
}

// SplitPos is the inverse of CombinePos: it splits a lex position into its
// node prefix and inner index.
func (c *Codec) SplitPos(s string) (prefix string, innerIndex uint32, err error) {
	idx := strings.LastIndexByte(s, Separator)
	if idx < 0 {
		return "", 0, fmt.Errorf("%w: %q has no inner-index segment", ErrMalformed, s)
	}
	prefix = s[:idx]
	tail := s[idx+1:]
	value, rest, err := c.DecodeValueIndex(tail)
	if err != nil {
		return "", 0, err
	}
	if rest != "" {
		return "", 0, fmt.Errorf("%w: trailing data %q after inner index", ErrMalformed, rest)
	}
	return prefix, value, nil
}

// BunchIDFor returns the bunch id named by the final segment of a node
// prefix.
func BunchIDFor(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty node prefix", ErrMalformed)
	}
	idx := strings.LastIndexByte(prefix, Separator)
	seg := prefix
	if idx >= 0 {
		seg = prefix[idx+1:]
	}
	if dot := strings.IndexByte(seg, FieldSep); dot >= 0 {
		return seg[dot+1:], nil
	}
	return seg, nil
}
