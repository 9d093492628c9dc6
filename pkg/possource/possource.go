// Package possource implements PositionSource: a standalone generator of
// byte-lexicographically ordered strings. Unlike pkg/order, a Source
// keeps no tree and no bunch metadata — it mints waypoint strings
// directly, carrying only its own id and one value-index counter per
// waypoint it has ever allocated. Two Sources with distinct ids can mint
// concurrently with no coordination and no metadata exchange: the id is
// baked into every string a Source produces, so independently minted
// strings never collide and always compare consistently.
package possource

import (
	"fmt"
	"strings"

	"github.com/ssargent/listpositions/pkg/lexpos"
)

// FIRST sorts below every string CreateBetween ever produces.
const FIRST = lexpos.MinLexPosition

// LAST sorts above every string CreateBetween ever produces.
const LAST = lexpos.MaxLexPosition

const (
	leftTag  = "l"
	rightTag = "r"
)

// Source mints positions between two existing lex strings, in its own
// namespace of waypoints identified by (id, counter) pairs.
type Source struct {
	id               string
	lastValueIndices []uint32
}

// New creates a Source that tags every waypoint it mints with id. Two
// Sources sharing an id can mint conflicting strings; callers are
// responsible for giving each replica's Source a globally unique id, the
// same responsibility pkg/order places on new_node_id.
func New(id string) *Source {
	return &Source{id: id}
}

// CreateBetween returns count consecutive new strings strictly between lo
// and hi (use FIRST/LAST for the open ends). Each string after the first
// is produced by feeding the previous result back in as lo, so a run
// reuses a single freshly minted waypoint rather than allocating one per
// string.
func (s *Source) CreateBetween(lo, hi string, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("possource: count must be >= 1, got %d", count)
	}
	out := make([]string, count)
	cur := lo
	for i := 0; i < count; i++ {
		next, err := s.createBetween(cur, hi)
		if err != nil {
			return nil, err
		}
		out[i] = next
		cur = next
	}
	return out, nil
}

// createBetween mints the next string strictly between left and right:
// reuse right's waypoint on its left side, mint bare, reuse this
// Source's own last waypoint by advancing its value index, or fall back
// to minting a fresh child waypoint of left.
func (s *Source) createBetween(left, right string) (string, error) {
	if right != LAST && (left == FIRST || strings.HasPrefix(right, left)) {
		if right == "" {
			return "", fmt.Errorf("possource: right must be non-empty to reuse its waypoint")
		}
		return right[:len(right)-1] + leftTag + "," + s.newWaypoint(), nil
	}
	if left == FIRST {
		return s.newWaypoint(), nil
	}
	if next, ok, err := s.reuseWaypoint(left); err != nil {
		return "", err
	} else if ok {
		return next, nil
	}
	return left + "," + s.newWaypoint(), nil
}

// newWaypoint allocates a fresh counter, seeds its value-index cursor at
// 0, and returns the bare "{id},{counter},0r" waypoint string (without a
// leading separator; callers prepend one when appending to a prefix).
func (s *Source) newWaypoint() string {
	counter := uint32(len(s.lastValueIndices))
	s.lastValueIndices = append(s.lastValueIndices, 0)
	return fmt.Sprintf("%s,%s,0%s", s.id, lexpos.DefaultCodec.EncodeOffset(counter), rightTag)
}

// reuseWaypoint parses left's trailing "{id},{counter},{valueIndex}{tag}"
// triple and, if its sender is this Source and its value index matches
// what this Source last minted for that counter, advances the counter
// and returns left with that triple's tail replaced by the successor
// value index.
func (s *Source) reuseWaypoint(left string) (string, bool, error) {
	lastComma := strings.LastIndexByte(left, ',')
	if lastComma < 0 {
		return "", false, nil
	}
	viTag := left[lastComma+1:]
	rest := left[:lastComma]

	counterComma := strings.LastIndexByte(rest, ',')
	var sender, counterStr string
	if counterComma < 0 {
		sender, counterStr = "", rest
	} else {
		counterStr = rest[counterComma+1:]
		idPrefix := rest[:counterComma]
		if idComma := strings.LastIndexByte(idPrefix, ','); idComma < 0 {
			sender = idPrefix
		} else {
			sender = idPrefix[idComma+1:]
		}
	}
	if sender != s.id {
		return "", false, nil
	}

	counter, counterRest, err := lexpos.DefaultCodec.DecodeOffset(counterStr)
	if err != nil || counterRest != "" || int(counter) >= len(s.lastValueIndices) {
		return "", false, nil
	}
	valueIndex, tag, err := lexpos.DefaultCodec.DecodeOffset(viTag)
	if err != nil || (tag != leftTag && tag != rightTag) {
		return "", false, nil
	}
	if valueIndex != s.lastValueIndices[counter] {
		return "", false, nil
	}

	next := valueIndex + 1
	s.lastValueIndices[counter] = next
	return left[:lastComma+1] + lexpos.DefaultCodec.EncodeOffset(next) + rightTag, true, nil
}

// Compare is a pure byte-lexicographic string comparator: positions
// produced by CreateBetween always compare correctly with plain string
// comparison, so this is exposed purely for callers who want a named
// comparator instead of writing a < b themselves.
func Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
