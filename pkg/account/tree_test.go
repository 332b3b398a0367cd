package account

import (
	"testing"
)

func accountWithBalance(balance uint64) Account {
	var a Account
	a.Balance.SetUint64(balance)
	return a
}

func TestEmptyTreeRootIsDeterministic(t *testing.T) {
	t1 := New(8)
	t2 := New(8)
	if t1.RootHash() != t2.RootHash() {
		t.Fatalf("two empty trees of the same depth must share a root")
	}
}

func TestInsertChangesRoot(t *testing.T) {
	tr := New(8)
	before := tr.RootHash()
	tr.Insert(3, accountWithBalance(100))
	after := tr.RootHash()
	if before == after {
		t.Fatalf("inserting a non-empty leaf must change the root")
	}
}

func TestIdempotentInsert(t *testing.T) {
	tr := New(8)
	tr.Insert(5, accountWithBalance(42))
	root1 := tr.RootHash()
	tr.Insert(5, accountWithBalance(42))
	root2 := tr.RootHash()
	if root1 != root2 {
		t.Fatalf("re-inserting the same leaf must not change the root")
	}
}

func TestMerklePathVerifies(t *testing.T) {
	tr := New(10)
	tr.Insert(1, accountWithBalance(1000))
	tr.Insert(2, accountWithBalance(0))
	tr.Insert(700, accountWithBalance(55))

	for _, id := range []ID{1, 2, 700, 999} {
		leaf, _ := tr.Get(id)
		path := tr.MerklePath(id)
		if !VerifyMerklePath(path, leaf, id, tr.RootHash()) {
			t.Fatalf("merkle path for account %d did not verify against the root", id)
		}
	}
}

func TestUnsetPositionIsZeroLeaf(t *testing.T) {
	tr := New(6)
	leaf, ok := tr.Get(999)
	if ok {
		t.Fatalf("expected unset account to report not-ok")
	}
	if !leaf.IsEmpty() {
		t.Fatalf("expected unset account to be the zero leaf")
	}
	if !VerifyMerklePath(tr.MerklePath(999), leaf, 999, tr.RootHash()) {
		t.Fatalf("zero leaf at unset position must still verify")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tr := New(8)
	tr.Insert(1, accountWithBalance(10))
	clone := tr.Clone()
	clone.Insert(1, accountWithBalance(20))

	orig, _ := tr.Get(1)
	cloned := clone.mustGet(t, 1)
	if orig.Balance.Cmp(&cloned.Balance) == 0 {
		t.Fatalf("mutating the clone must not affect the original")
	}
	if tr.RootHash() == clone.RootHash() {
		t.Fatalf("clone mutation must not change the original's root")
	}
}

func (t *Tree) mustGet(tb *testing.T, id ID) Account {
	tb.Helper()
	leaf, ok := t.Get(id)
	if !ok {
		tb.Fatalf("expected account %d to be present", id)
	}
	return leaf
}

func TestReplayInsertsReproducesRoot(t *testing.T) {
	inserts := []struct {
		id ID
		a  Account
	}{
		{1, accountWithBalance(1000)},
		{2, accountWithBalance(500)},
		{3, accountWithBalance(1)},
	}

	t1 := New(12)
	for _, ins := range inserts {
		t1.Insert(ins.id, ins.a)
	}

	t2 := New(12)
	for _, ins := range inserts {
		t2.Insert(ins.id, ins.a)
	}

	if t1.RootHash() != t2.RootHash() {
		t.Fatalf("replaying the same insert sequence on a fresh tree must reproduce the root")
	}
}
