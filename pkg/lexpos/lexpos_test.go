package lexpos

import (
	"strings"
	"testing"
)

func TestEncodeOffsetRoundTrip(t *testing.T) {
	c := DefaultCodec
	for _, n := range []uint32{0, 1, 2, 17, 35, 36, 37, 1000, 1 << 20, 1 << 31} {
		s := c.EncodeOffset(n)
		got, rest, err := c.DecodeOffset(s)
		if err != nil {
			t.Fatalf("DecodeOffset(%q) failed: %v", s, err)
		}
		if rest != "" {
			t.Fatalf("DecodeOffset(%q) left remainder %q", s, rest)
		}
		if got != n {
			t.Fatalf("round-trip mismatch: encoded %d as %q, decoded as %d", n, s, got)
		}
	}
}

func TestEncodeOffsetMonotonic(t *testing.T) {
	c := DefaultCodec
	prev := c.EncodeOffset(0)
	for n := uint32(1); n < 5000; n++ {
		cur := c.EncodeOffset(n)
		if !(prev < cur) {
			t.Fatalf("encoding not monotonic at n=%d: prev=%q cur=%q", n, prev, cur)
		}
		prev = cur
	}
}

func TestEncodeOffsetPrefixFree(t *testing.T) {
	c := DefaultCodec
	codes := make([]string, 2000)
	for n := range codes {
		codes[n] = c.EncodeOffset(uint32(n))
	}
	for i, a := range codes {
		for j, b := range codes {
			if i == j {
				continue
			}
			if strings.HasPrefix(b, a) {
				t.Fatalf("encode(%d)=%q is a prefix of encode(%d)=%q", i, a, j, b)
			}
		}
	}
}

func TestEncodeOffsetSmallBase(t *testing.T) {
	c, err := NewCodec(4)
	if err != nil {
		t.Fatalf("NewCodec(4): %v", err)
	}
	// half = 2: length-1 codewords cover n=0,1 (digits '0','1').
	if got := c.EncodeOffset(0); got != "0" {
		t.Fatalf("EncodeOffset(0) = %q, want \"0\"", got)
	}
	if got := c.EncodeOffset(1); got != "1" {
		t.Fatalf("EncodeOffset(1) = %q, want \"1\"", got)
	}
	// length-2 codewords start at n=2: continuation digit from {'2','3'},
	// terminator digit from {'0','1'}.
	got := c.EncodeOffset(2)
	if len(got) != 2 || got[0] < '2' || got[1] > '1' {
		t.Fatalf("EncodeOffset(2) = %q, want a 2-digit code with continuation>='2'", got)
	}
}

func TestNewCodecInvalidBase(t *testing.T) {
	for _, b := range []int{3, 5, 37, 38, 0, -2} {
		if _, err := NewCodec(b); err == nil {
			t.Fatalf("NewCodec(%d) expected error, got nil", b)
		}
	}
}

func TestValueIndexIsOdd(t *testing.T) {
	c := DefaultCodec
	for i := uint32(0); i < 100; i++ {
		s := c.EncodeValueIndex(i)
		raw, rest, err := c.DecodeOffset(s)
		if err != nil || rest != "" {
			t.Fatalf("decode value index %d failed: %v rest=%q", i, err, rest)
		}
		if raw%2 != 1 {
			t.Fatalf("value index %d encoded to even raw offset %d", i, raw)
		}
		got, rest2, err := c.DecodeValueIndex(s)
		if err != nil || rest2 != "" || got != i {
			t.Fatalf("DecodeValueIndex(%q) = (%d, %q, %v), want (%d, \"\", nil)", s, got, rest2, err, i)
		}
	}
}

func TestCombineSplitPos(t *testing.T) {
	c := DefaultCodec
	s := c.CombinePos("root_child,1.childA", 7)
	prefix, idx, err := c.SplitPos(s)
	if err != nil {
		t.Fatalf("SplitPos(%q): %v", s, err)
	}
	if prefix != "root_child,1.childA" || idx != 7 {
		t.Fatalf("SplitPos(%q) = (%q, %d), want (%q, 7)", s, prefix, idx, "root_child,1.childA")
	}
}

func TestCombineSplitNodePrefix(t *testing.T) {
	c := DefaultCodec
	path := []NodeStep{
		{BunchID: "alice1"},
		{BunchID: "alice2", Offset: 3},
		{BunchID: "bob1", Offset: 8},
	}
	prefix, err := c.CombineNodePrefix(path)
	if err != nil {
		t.Fatalf("CombineNodePrefix: %v", err)
	}
	got, err := c.SplitNodePrefix(prefix)
	if err != nil {
		t.Fatalf("SplitNodePrefix(%q): %v", prefix, err)
	}
	if len(got) != len(path) {
		t.Fatalf("SplitNodePrefix returned %d steps, want %d", len(got), len(path))
	}
	for i := range path {
		if got[i].BunchID != path[i].BunchID {
			t.Fatalf("step %d BunchID = %q, want %q", i, got[i].BunchID, path[i].BunchID)
		}
		if i > 0 && got[i].Offset != path[i].Offset {
			t.Fatalf("step %d Offset = %d, want %d", i, got[i].Offset, path[i].Offset)
		}
	}
}

func TestBunchIDFor(t *testing.T) {
	c := DefaultCodec
	prefix, _ := c.CombineNodePrefix([]NodeStep{{BunchID: "root_child"}, {BunchID: "leafBunch", Offset: 5}})
	id, err := BunchIDFor(prefix)
	if err != nil {
		t.Fatalf("BunchIDFor: %v", err)
	}
	if id != "leafBunch" {
		t.Fatalf("BunchIDFor(%q) = %q, want leafBunch", prefix, id)
	}

	id, err = BunchIDFor("root_child")
	if err != nil || id != "root_child" {
		t.Fatalf("BunchIDFor(root_child) = (%q, %v), want (root_child, nil)", id, err)
	}
}

func TestValidateID(t *testing.T) {
	valid := []string{"a", "Alice_1", "ksuid-like-123"}
	for _, id := range valid {
		if err := ValidateID(id); err != nil {
			t.Fatalf("ValidateID(%q) = %v, want nil", id, err)
		}
	}
	invalid := []string{"", "a,b", "a.b", "~x", string([]byte{0x7f})}
	for _, id := range invalid {
		if err := ValidateID(id); err == nil {
			t.Fatalf("ValidateID(%q) = nil, want error", id)
		}
	}
}

func TestSeparatorOrdering(t *testing.T) {
	if !(Separator < FieldSep && FieldSep < '0' && '9' < 'A' && 'Z' < '~') {
		t.Fatal("separator/digit/sentinel ordering invariant violated")
	}
}
