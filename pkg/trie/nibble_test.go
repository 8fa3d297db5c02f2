package trie

import (
	"testing"
)

func Test_NibblesFromBytes(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want Nibbles
	}{
		{name: "empty", in: nil, want: Nibbles{}},
		{name: "one byte", in: []byte{0xAB}, want: Nibbles{0xA, 0xB}},
		{name: "two bytes", in: []byte{0xAB, 0xCD}, want: Nibbles{0xA, 0xB, 0xC, 0xD}},
		{name: "zero byte", in: []byte{0x00}, want: Nibbles{0x0, 0x0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NibblesFromBytes(tt.in); !got.Equal(tt.want) {
				t.Errorf("NibblesFromBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_PrefixMatchedLen(t *testing.T) {
	tests := []struct {
		name string
		a, b Nibbles
		want int
	}{
		{name: "disjoint", a: Nibbles{1, 2}, b: Nibbles{3, 4}, want: 0},
		{name: "partial", a: Nibbles{1, 2, 3}, b: Nibbles{1, 2, 4}, want: 2},
		{name: "full shorter", a: Nibbles{1, 2}, b: Nibbles{1, 2, 3}, want: 2},
		{name: "identical", a: Nibbles{1, 2, 3}, b: Nibbles{1, 2, 3}, want: 3},
		{name: "empty", a: Nibbles{}, b: Nibbles{1}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.PrefixMatchedLen(tt.b); got != tt.want {
				t.Errorf("PrefixMatchedLen() = %d, want %d", got, tt.want)
			}
			if got := tt.b.PrefixMatchedLen(tt.a); got != tt.want {
				t.Errorf("PrefixMatchedLen() reversed = %d, want %d", got, tt.want)
			}
		})
	}
}

func Test_NibbleOps(t *testing.T) {
	ns := NibblesFromBytes([]byte{0x12, 0x34})
	if ns.IsEmpty() || ns.Len() != 4 {
		t.Fatalf("unexpected shape: len=%d", ns.Len())
	}
	if ns.Head() != 0x1 {
		t.Errorf("Head() = %x", ns.Head())
	}
	if !ns.Tail().Equal(Nibbles{0x2, 0x3, 0x4}) {
		t.Errorf("Tail() = %v", ns.Tail())
	}
	if !ns.DropFirst(2).Equal(Nibbles{0x3, 0x4}) {
		t.Errorf("DropFirst(2) = %v", ns.DropFirst(2))
	}
	if !ns.StartsWith(Nibbles{0x1, 0x2}) {
		t.Error("StartsWith short prefix = false")
	}
	if ns.StartsWith(Nibbles{0x1, 0x3}) {
		t.Error("StartsWith diverging prefix = true")
	}
	if !ns.StartsWith(Nibbles{}) {
		t.Error("StartsWith empty = false")
	}
	joined := Nibbles{0x1}.Concat(Nibbles{0x2, 0x3})
	if !joined.Equal(Nibbles{0x1, 0x2, 0x3}) {
		t.Errorf("Concat() = %v", joined)
	}
}
