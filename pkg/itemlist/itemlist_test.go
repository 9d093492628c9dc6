package itemlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/ssargent/listpositions/pkg/order"
)

func seqIDs(prefix string) order.NewNodeIDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func TestInsertAtAppendsInOrder(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[string](ord)

	positions, _, err := l.InsertAt(0, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	if len(positions) != 3 {
		t.Fatalf("got %d positions, want 3", len(positions))
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}

	entries, err := l.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.Value
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Entries()[%d] = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestInsertAtMiddle(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[string](ord)

	if _, _, err := l.InsertAt(0, []string{"a", "c"}); err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	if _, _, err := l.InsertAt(1, []string{"b"}); err != nil {
		t.Fatalf("InsertAt middle: %v", err)
	}

	entries, err := l.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Value)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestIndexOfPositionAndPositionAtAreInverses(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[int](ord)

	values := []int{10, 20, 30, 40, 50}
	positions, _, err := l.InsertAt(0, values)
	if err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	for i := 0; i < 2; i++ {
		// re-split by inserting again in the middle to exercise mixed bunches
		if _, _, err := l.InsertAt(2, []int{999}); err != nil {
			t.Fatalf("InsertAt: %v", err)
		}
	}
	_ = positions

	n := l.Len()
	for idx := 0; idx < n; idx++ {
		pos, err := l.PositionAt(idx)
		if err != nil {
			t.Fatalf("PositionAt(%d): %v", idx, err)
		}
		back, err := l.IndexOfPosition(pos, DirNone)
		if err != nil {
			t.Fatalf("IndexOfPosition: %v", err)
		}
		if back != idx {
			t.Fatalf("round trip mismatch: PositionAt(%d)=%+v, IndexOfPosition back = %d", idx, pos, back)
		}
	}
}

func TestDeleteThenReinsertReusesCounter(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[string](ord)

	positions, meta1, err := l.InsertAt(0, []string{"x"})
	if err != nil || meta1 == nil {
		t.Fatalf("InsertAt: %v meta=%v", err, meta1)
	}
	if err := l.Delete(positions[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("Len() after delete = %d, want 0", l.Len())
	}

	positions2, meta2, err := l.InsertAt(0, []string{"y"})
	if err != nil {
		t.Fatalf("InsertAt after delete: %v", err)
	}
	if meta2 != nil {
		t.Fatalf("expected reuse of existing bunch, got new meta %+v", *meta2)
	}
	if positions2[0].BunchID != positions[0].BunchID {
		t.Fatalf("expected bunch reuse, got %q vs %q", positions2[0].BunchID, positions[0].BunchID)
	}
}

func TestSetRejectsReservedPositions(t *testing.T) {
	ord := order.New("r1")
	l := New[string](ord)
	if err := l.Set(order.MinPosition, "x"); !errors.Is(err, ErrReservedPosition) {
		t.Fatalf("Set(MinPosition) error = %v, want ErrReservedPosition", err)
	}
	if err := l.Set(order.MaxPosition, "x"); !errors.Is(err, ErrReservedPosition) {
		t.Fatalf("Set(MaxPosition) error = %v, want ErrReservedPosition", err)
	}
}

func TestIndexOutOfBounds(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[string](ord)
	if _, err := l.PositionAt(0); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("PositionAt on empty list error = %v, want ErrIndexOutOfBounds", err)
	}
	if _, _, err := l.InsertAt(0, []string{"a"}); err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	if _, err := l.PositionAt(5); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("PositionAt(5) error = %v, want ErrIndexOutOfBounds", err)
	}
}

func TestCursorSurvivesDeletion(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[string](ord)
	positions, _, err := l.InsertAt(0, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("InsertAt: %v", err)
	}

	cur, err := l.CursorAt(2) // before "c"
	if err != nil {
		t.Fatalf("CursorAt: %v", err)
	}
	if idx, err := l.IndexOfCursor(cur); err != nil || idx != 2 {
		t.Fatalf("IndexOfCursor before deletion = (%d, %v), want (2, nil)", idx, err)
	}

	if err := l.Delete(positions[0]); err != nil { // delete "a"
		t.Fatalf("Delete: %v", err)
	}
	if idx, err := l.IndexOfCursor(cur); err != nil || idx != 1 {
		t.Fatalf("IndexOfCursor after deleting predecessor = (%d, %v), want (1, nil)", idx, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[string](ord)
	if _, _, err := l.InsertAt(0, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("InsertAt: %v", err)
	}

	snap := l.Save()
	clone := New[string](ord)
	if err := clone.Load(snap); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if clone.Len() != l.Len() {
		t.Fatalf("clone.Len() = %d, want %d", clone.Len(), l.Len())
	}
	entries, _ := l.Entries()
	cloneEntries, _ := clone.Entries()
	for i := range entries {
		if entries[i] != cloneEntries[i] {
			t.Fatalf("entry %d mismatch: %+v vs %+v", i, entries[i], cloneEntries[i])
		}
	}
}

func TestSnapshotWireFormatAlternatesRuns(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[string](ord)
	positions, _, err := l.InsertAt(0, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	if err := l.Delete(positions[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	data, err := json.Marshal(l.Save())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into raw form: %v", err)
	}
	runs, ok := raw[positions[0].BunchID]
	if !ok {
		t.Fatalf("bunch %q missing from snapshot %s", positions[0].BunchID, data)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3 (present, deleted, present): %s", len(runs), data)
	}
	var present []string
	if err := json.Unmarshal(runs[0], &present); err != nil {
		t.Fatalf("run[0] not a value array: %v (%s)", err, runs[0])
	}
	if len(present) != 1 || present[0] != "a" {
		t.Fatalf("run[0] = %v, want [\"a\"]", present)
	}
	var gap int
	if err := json.Unmarshal(runs[1], &gap); err != nil {
		t.Fatalf("run[1] not a bare count: %v (%s)", err, runs[1])
	}
	if gap != 1 {
		t.Fatalf("run[1] = %d, want 1", gap)
	}

	var decoded Snapshot[string]
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	clone := New[string](ord)
	if err := clone.Load(decoded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if clone.Len() != l.Len() {
		t.Fatalf("clone.Len() = %d, want %d", clone.Len(), l.Len())
	}
}

func TestOutlineSnapshotSerializesCountsOnly(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	o := New[struct{}](ord)
	positions, _, err := o.InsertAt(0, []struct{}{{}, {}, {}})
	if err != nil {
		t.Fatalf("InsertAt: %v", err)
	}

	data, err := json.Marshal(o.Save())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into raw form: %v", err)
	}
	runs := raw[positions[0].BunchID]
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1 (no deletions): %s", len(runs), data)
	}
	var count int
	if err := json.Unmarshal(runs[0], &count); err != nil {
		t.Fatalf("present run is not a bare count: %v (%s)", err, runs[0])
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestClear(t *testing.T) {
	ord := order.New("r1", order.WithNewNodeID(seqIDs("r1-b")))
	l := New[string](ord)
	if _, _, err := l.InsertAt(0, []string{"a", "b"}); err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", l.Len())
	}
}
