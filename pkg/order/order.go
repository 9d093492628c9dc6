package order

import (
	"fmt"
	"sort"

	"github.com/ssargent/listpositions/pkg/lexpos"
)

// Order is the BunchTree: the replicated tree of bunches underlying every
// position in a list. It is safe to share a *Order across goroutines only
// if the caller serializes access (see pkg/api, which wraps one Order in a
// single sync.RWMutex rather than latching node-by-node the way the
// teacher's B+Tree does, since bunches are append-only and never split).
type Order struct {
	replicaID   string
	codec       *lexpos.Codec
	bunches     map[string]*bunchNode
	root        *bunchNode
	newNodeID   NewNodeIDFunc
	onCreateNode func(Bunch)
}

// Option configures a new Order.
type Option func(*Order)

// WithNewNodeID overrides the default ksuid-based id generator.
func WithNewNodeID(fn NewNodeIDFunc) Option {
	return func(o *Order) { o.newNodeID = fn }
}

// WithOnCreateNode registers a callback invoked synchronously whenever
// CreatePosition mints a brand-new bunch (not on reuse or counter
// continuation). Useful for streaming newly-minted BunchMeta to peers.
func WithOnCreateNode(fn func(Bunch)) Option {
	return func(o *Order) { o.onCreateNode = fn }
}

// WithCodec overrides the LexCodec used for Lex/Unlex. Defaults to
// lexpos.DefaultCodec.
func WithCodec(c *lexpos.Codec) Option {
	return func(o *Order) { o.codec = c }
}

// New creates an empty Order scoped to replicaID (used only for the
// default id generator; pass WithNewNodeID to supply your own).
func New(replicaID string, opts ...Option) *Order {
	root := &bunchNode{id: RootID, depth: 0}
	o := &Order{
		replicaID: replicaID,
		codec:     lexpos.DefaultCodec,
		bunches:   map[string]*bunchNode{RootID: root},
		root:      root,
	}
	o.newNodeID = defaultNewNodeID(replicaID)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate reports whether pos references an installed bunch and, for
// root, a legal inner index (0 or 1). It's exposed for callers like
// pkg/itemlist that need to check a position without comparing it to
// anything.
func (o *Order) Validate(pos Position) error {
	_, err := o.getNodeFor(pos)
	return err
}

// GetNode returns a snapshot of the named bunch, or false if it is not
// installed. RootID is a valid argument.
func (o *Order) GetNode(bunchID string) (Bunch, bool) {
	n, ok := o.bunches[bunchID]
	if !ok {
		return Bunch{}, false
	}
	return n.snapshot(), true
}

// getNodeFor resolves and validates the bunch a position references.
func (o *Order) getNodeFor(pos Position) (*bunchNode, error) {
	n, ok := o.bunches[pos.BunchID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBunch, pos.BunchID)
	}
	if pos.BunchID == RootID {
		if pos.InnerIndex != 0 && pos.InnerIndex != 1 {
			return nil, fmt.Errorf("%w: root inner index must be 0 or 1, got %d", ErrInvalidPosition, pos.InnerIndex)
		}
	}
	return n, nil
}

// Nodes returns a snapshot of every installed bunch except root, ordered
// by bunch id for deterministic iteration.
func (o *Order) Nodes() []Bunch {
	ids := o.sortedNonRootIDs()
	out := make([]Bunch, len(ids))
	for i, id := range ids {
		out[i] = o.bunches[id].snapshot()
	}
	return out
}

// NodeMetas returns the BunchMeta for every installed bunch except root,
// ordered by bunch id. This is the wire form Save/Load round-trip.
func (o *Order) NodeMetas() []BunchMeta {
	ids := o.sortedNonRootIDs()
	out := make([]BunchMeta, len(ids))
	for i, id := range ids {
		n := o.bunches[id]
		out[i] = BunchMeta{BunchID: n.id, ParentID: n.parentID, Offset: n.offset}
	}
	return out
}

func (o *Order) sortedNonRootIDs() []string {
	ids := make([]string, 0, len(o.bunches)-1)
	for id := range o.bunches {
		if id != RootID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Save serializes the full tree (every non-root bunch) to its wire form.
// Per the chosen load semantics, Load always fully replaces the receiving
// Order's state rather than merging: it's meant for bootstrapping a fresh
// replica from a snapshot, not for incremental sync (Receive is for that).
func (o *Order) Save() []BunchMeta {
	return o.NodeMetas()
}

// Load replaces this Order's entire bunch set with metas, which must be
// internally consistent (no cycles, every parent present in metas or
// equal to RootID). It does not merge with existing state.
func (o *Order) Load(metas []BunchMeta) error {
	fresh := New(o.replicaID, WithNewNodeID(o.newNodeID), WithCodec(o.codec))
	fresh.onCreateNode = o.onCreateNode
	if err := fresh.Receive(metas); err != nil {
		return err
	}
	*o = *fresh
	return nil
}

// Receive installs a batch of bunch metas atomically: either every meta in
// the batch is installed (or found to already match installed state) and
// Receive returns nil, or none of them are and Receive returns the first
// violation found.
func (o *Order) Receive(metas []BunchMeta) error {
	if len(metas) == 0 {
		return nil
	}

	byID := make(map[string]BunchMeta, len(metas))
	toInstall := make([]string, 0, len(metas))

	for _, m := range metas {
		if m.BunchID == RootID {
			return fmt.Errorf("%w: meta names bunch id %q", ErrInvalidRoot, RootID)
		}
		if err := lexpos.ValidateID(m.BunchID); err != nil {
			return fmt.Errorf("%w: bunch id %q: %v", ErrInvalidID, m.BunchID, err)
		}
		if existing, ok := o.bunches[m.BunchID]; ok {
			if existing.parentID != m.ParentID || existing.offset != m.Offset {
				return fmt.Errorf("%w: bunch %q already installed as (parent=%q, offset=%d), got (parent=%q, offset=%d)",
					ErrConflict, m.BunchID, existing.parentID, existing.offset, m.ParentID, m.Offset)
			}
			continue
		}
		if prior, ok := byID[m.BunchID]; ok {
			if prior.ParentID != m.ParentID || prior.Offset != m.Offset {
				return fmt.Errorf("%w: bunch %q appears twice in batch with different parent/offset", ErrConflict, m.BunchID)
			}
			continue
		}
		byID[m.BunchID] = m
		toInstall = append(toInstall, m.BunchID)
	}

	installed := make(map[string]bool, len(toInstall))
	var sorted []BunchMeta
	pending := toInstall
	for len(pending) > 0 {
		var next []string
		progressed := false
		for _, id := range pending {
			m := byID[id]
			if _, ok := o.bunches[m.ParentID]; ok || installed[m.ParentID] {
				sorted = append(sorted, m)
				installed[id] = true
				progressed = true
				continue
			}
			next = append(next, id)
		}
		if !progressed {
			pending = next
			break
		}
		pending = next
	}

	if len(pending) > 0 {
		hasUnknown := false
		for _, id := range pending {
			if _, inBatch := byID[byID[id].ParentID]; !inBatch {
				hasUnknown = true
				break
			}
		}
		if hasUnknown {
			return fmt.Errorf("%w: parent not installed and not present in batch", ErrUnknownParent)
		}
		return fmt.Errorf("%w: %d bunch(es) form a parent cycle", ErrCycle, len(pending))
	}

	for _, m := range sorted {
		parent := o.bunches[m.ParentID]
		node := &bunchNode{
			id:       m.BunchID,
			parentID: m.ParentID,
			parent:   parent,
			offset:   m.Offset,
			depth:    parent.depth + 1,
		}
		insertSibling(parent, node)
		o.bunches[m.BunchID] = node
	}
	return nil
}
