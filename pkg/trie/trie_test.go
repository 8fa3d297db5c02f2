package trie

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// Root of the empty trie, Keccak256(RLP("")).
const emptyRootHex = "0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"

func Test_EmptyTrieHash(t *testing.T) {
	tr := New()
	if got := tr.Hash(); got != common.HexToHash(emptyRootHex) {
		t.Errorf("empty trie hash = %s, want %s", got.Hex(), emptyRootHex)
	}
}

func Test_SingleLeaf(t *testing.T) {
	tr := New()
	tr.Put([]byte{0x01}, []byte{0x02})

	if got := tr.Get([]byte{0x01}); !bytes.Equal(got, []byte{0x02}) {
		t.Errorf("Get(0x01) = %x, want 02", got)
	}
	if got := tr.Get([]byte{0x03}); len(got) != 0 {
		t.Errorf("Get(0x03) = %x, want empty", got)
	}

	leaf, ok := tr.RootNode().(*LeafNode)
	if !ok {
		t.Fatalf("root is %T, want *LeafNode", tr.RootNode())
	}
	if !leaf.Path.Equal(Nibbles{0x0, 0x1}) || !bytes.Equal(leaf.Value, []byte{0x02}) {
		t.Errorf("root leaf = (%v, %x)", leaf.Path, leaf.Value)
	}
}

func Test_BranchFormation(t *testing.T) {
	tr := New()
	tr.Put([]byte{0x10}, []byte("a"))
	tr.Put([]byte{0x11}, []byte("b"))

	if got := tr.Get([]byte{0x10}); string(got) != "a" {
		t.Errorf("Get(0x10) = %q", got)
	}
	if got := tr.Get([]byte{0x11}); string(got) != "b" {
		t.Errorf("Get(0x11) = %q", got)
	}
	if got := tr.Get([]byte{0x12}); len(got) != 0 {
		t.Errorf("Get(0x12) = %x, want empty", got)
	}

	ext, ok := tr.RootNode().(*ExtensionNode)
	if !ok {
		t.Fatalf("root is %T, want *ExtensionNode", tr.RootNode())
	}
	if !ext.Path.Equal(Nibbles{0x1}) {
		t.Fatalf("extension path = %v, want [1]", ext.Path)
	}
	branch, ok := ext.Child.(*BranchNode)
	if !ok {
		t.Fatalf("extension child is %T, want *BranchNode", ext.Child)
	}
	left, ok := branch.Children[0].(*LeafNode)
	if !ok || !left.Path.IsEmpty() || string(left.Value) != "a" {
		t.Errorf("children[0] = %#v", branch.Children[0])
	}
	right, ok := branch.Children[1].(*LeafNode)
	if !ok || !right.Path.IsEmpty() || string(right.Value) != "b" {
		t.Errorf("children[1] = %#v", branch.Children[1])
	}
}

func Test_ReplaceValue(t *testing.T) {
	tr := New()
	tr.Put([]byte("dog"), []byte("puppy"))
	tr.Put([]byte("dog"), []byte("hound"))
	if got := tr.Get([]byte("dog")); string(got) != "hound" {
		t.Errorf("Get(dog) = %q, want hound", got)
	}
}

// Known roots from the canonical Ethereum trie test vectors.
func Test_KnownRoots(t *testing.T) {
	tests := []struct {
		name string
		kvs  [][2]string
		want string
	}{
		{
			name: "single long value",
			kvs:  [][2]string{{"A", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}},
			want: "0xd23786fb4a010da3ce639d66d5e904a11dbc02746d1ce25029e53290cabf28ab",
		},
		{
			name: "doe dog dogglesworth",
			kvs: [][2]string{
				{"doe", "reindeer"},
				{"dog", "puppy"},
				{"dogglesworth", "cat"},
			},
			want: "0x8aad789dff2f538bca5d8ea56e8abe10f4c7ba3a5dea95fea4cd6e7c3a1168d3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			for _, kv := range tt.kvs {
				tr.Put([]byte(kv[0]), []byte(kv[1]))
			}
			if got := tr.Hash(); got != common.HexToHash(tt.want) {
				t.Errorf("root = %s, want %s", got.Hex(), tt.want)
			}
		})
	}
}

func Test_InsertOrderIndependence(t *testing.T) {
	kvs := [][2][]byte{
		{[]byte("doe"), []byte("reindeer")},
		{[]byte("dog"), []byte("puppy")},
		{[]byte("dogglesworth"), []byte("cat")},
		{[]byte{0x01}, []byte("one")},
		{[]byte{0x01, 0x02}, []byte("onetwo")},
	}
	perms := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{1, 4, 0, 3, 2},
	}

	var wantRoot common.Hash
	var wantEncoded []byte
	for i, perm := range perms {
		tr := New()
		for _, idx := range perm {
			tr.Put(kvs[idx][0], kvs[idx][1])
		}
		if i == 0 {
			wantRoot = tr.Hash()
			wantEncoded = tr.RootNode().Encoded()
			continue
		}
		if got := tr.Hash(); got != wantRoot {
			t.Errorf("perm %v root = %s, want %s", perm, got.Hex(), wantRoot.Hex())
		}
		if got := tr.RootNode().Encoded(); !bytes.Equal(got, wantEncoded) {
			t.Errorf("perm %v root encoding differs", perm)
		}
	}
}

func Test_GetRoundTrip(t *testing.T) {
	tr := New()
	entries := make(map[string]string)
	for i := 0; i < 128; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := fmt.Sprintf("value-%d", i*i)
		entries[key] = value
		tr.Put([]byte(key), []byte(value))
	}
	for key, value := range entries {
		if got := tr.Get([]byte(key)); string(got) != value {
			t.Errorf("Get(%s) = %q, want %q", key, got, value)
		}
	}
	for _, absent := range []string{"key-128", "missing", ""} {
		if got := tr.Get([]byte(absent)); len(got) != 0 {
			t.Errorf("Get(%s) = %q, want empty", absent, got)
		}
	}
}

// Put must not disturb readers of a previously taken root.
func Test_StructuralSharing(t *testing.T) {
	tr := New()
	tr.Put([]byte("doe"), []byte("reindeer"))
	tr.Put([]byte("dog"), []byte("puppy"))
	before := tr.Hash()
	beforeRoot := tr.RootNode()

	tr.Put([]byte("dogglesworth"), []byte("cat"))

	if got := beforeRoot.Hash(); got != before {
		t.Errorf("old root hash changed after Put: %s != %s", got.Hex(), before.Hex())
	}
	if lookup(beforeRoot, NibblesFromBytes([]byte("dogglesworth"))) != nil {
		t.Error("old root sees key inserted later")
	}
}

func Test_DecodeNodeRoundTrip(t *testing.T) {
	tr := New()
	tr.Put([]byte("doe"), []byte("reindeer"))
	tr.Put([]byte("dog"), []byte("puppy"))
	tr.Put([]byte("dogglesworth"), []byte("cat"))

	encoded := tr.RootNode().Encoded()
	decoded, err := DecodeNode(encoded)
	if err != nil {
		t.Fatalf("DecodeNode() error = %v", err)
	}
	if !bytes.Equal(decoded.Encoded(), encoded) {
		t.Errorf("re-encoded node differs from original")
	}
	if decoded.Hash() != tr.Hash() {
		t.Errorf("decoded hash = %s, want %s", decoded.Hash().Hex(), tr.Hash().Hex())
	}
}
