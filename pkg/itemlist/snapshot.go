package itemlist

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/ssargent/listpositions/pkg/order"
)

// Run is one run in a bunch's serialized presence line: Present marks a
// run of present Values (for Outline, only their count matters), absent
// runs carry Gap instead. Runs alternate present/absent within a bunch,
// present first, and a trailing absent run is never stored.
type Run[T any] struct {
	Present bool
	Values  []T
	Gap     uint32
}

// Snapshot is the wire form of a List's or Outline's content: each
// present bunch's alternating run array, keyed by bunch id. json.Marshal
// on a Go map already emits keys in sorted order, so two replicas with
// identical content produce byte-identical snapshots with no explicit
// sort at the call site.
type Snapshot[T any] map[string][]Run[T]

// countOnly reports whether T carries no information beyond its
// presence, so present runs serialize as a bare count (the Outline case)
// rather than a value array.
func countOnly[T any]() bool {
	return reflect.TypeOf((*T)(nil)).Elem().Size() == 0
}

// MarshalJSON renders each bunch's runs as the alternating array §6
// specifies: present runs as a value array (or, for Outline, a count),
// absent runs as a bare count.
func (s Snapshot[T]) MarshalJSON() ([]byte, error) {
	raw := make(map[string][]json.RawMessage, len(s))
	for id, runs := range s {
		items := make([]json.RawMessage, len(runs))
		for i, r := range runs {
			var (
				b   []byte
				err error
			)
			switch {
			case r.Present && countOnly[T]():
				b, err = json.Marshal(len(r.Values))
			case r.Present:
				b, err = json.Marshal(r.Values)
			default:
				b, err = json.Marshal(r.Gap)
			}
			if err != nil {
				return nil, err
			}
			items[i] = b
		}
		raw[id] = items
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes the alternating array back into Runs, present run
// first, using its position's parity to tell present from absent the
// same way the JSON shape can't when T is count-only.
func (s *Snapshot[T]) UnmarshalJSON(data []byte) error {
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("itemlist: malformed snapshot: %w", err)
	}
	out := make(Snapshot[T], len(raw))
	for id, items := range raw {
		runs := make([]Run[T], len(items))
		for i, item := range items {
			if i%2 == 0 {
				var vals []T
				if countOnly[T]() {
					var n int
					if err := json.Unmarshal(item, &n); err != nil {
						return fmt.Errorf("itemlist: malformed present run for %q: %w", id, err)
					}
					vals = make([]T, n)
				} else if err := json.Unmarshal(item, &vals); err != nil {
					return fmt.Errorf("itemlist: malformed present run for %q: %w", id, err)
				}
				runs[i] = Run[T]{Present: true, Values: vals}
				continue
			}
			var gap uint32
			if err := json.Unmarshal(item, &gap); err != nil {
				return fmt.Errorf("itemlist: malformed deleted run for %q: %w", id, err)
			}
			runs[i] = Run[T]{Gap: gap}
		}
		out[id] = runs
	}
	*s = out
	return nil
}

// Save serializes every present value as an alternating present/deleted
// run array per bunch, keyed by bunch id. Empty bunches are omitted.
func (l *List[T]) Save() Snapshot[T] {
	out := make(Snapshot[T], len(l.runs))
	for id, r := range l.runs {
		if r.presentTotal() == 0 {
			continue
		}
		var runs []Run[T]
		for _, seg := range r.segments {
			if seg.present {
				runs = append(runs, Run[T]{Present: true, Values: append([]T(nil), seg.values...)})
			} else {
				runs = append(runs, Run[T]{Gap: uint32(seg.absent)})
			}
		}
		if len(runs) > 0 && !runs[0].Present {
			runs = append([]Run[T]{{Present: true, Values: []T{}}}, runs...)
		}
		if n := len(runs); n > 0 && !runs[n-1].Present {
			runs = runs[:n-1]
		}
		out[id] = runs
	}
	return out
}

// Load replaces this List's entire content with snap. Every referenced
// bunch must already be installed in the backing Order (load the Order
// first). Like Order.Load, this fully replaces state rather than
// merging.
func (l *List[T]) Load(snap Snapshot[T]) error {
	l.runs = make(map[string]*bunchRuns[T])
	l.subtreeTotal = make(map[string]int)

	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, ok := l.ord.GetNode(id); !ok {
			return order.ErrUnknownBunch
		}
		idx := uint32(0)
		for _, run := range snap[id] {
			if !run.Present {
				idx += run.Gap
				continue
			}
			for _, v := range run.Values {
				if err := l.Set(order.Position{BunchID: id, InnerIndex: idx}, v); err != nil {
					return err
				}
				idx++
			}
		}
	}
	l.version++
	return nil
}
