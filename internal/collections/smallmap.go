// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collections

// indexThreshold is the record count at or below which SmallMap stays in
// its compact, index-free regime. Above it an open-addressed index is
// built over the record vector.
const indexThreshold = 12

const emptySlot = -1

type record[K Hashable[K], V any] struct {
	hash uint32
	key  K
	val  V
}

// SmallMap is an insertion-ordered key-to-value map. Below indexThreshold
// entries it is a flat vector scanned linearly on lookup (cache-friendly,
// no pointer chasing). Past the threshold an open-addressed index over
// 64-bit-promoted hashes is layered on top so lookups stay near O(1)
// without disturbing iteration order, which always mirrors insertion
// order regardless of regime.
type SmallMap[K Hashable[K], V any] struct {
	records []record[K, V]
	index   []int32 // positions into records, or emptySlot; nil while compact
}

// New returns an empty SmallMap.
func New[K Hashable[K], V any]() *SmallMap[K, V] {
	return &SmallMap[K, V]{}
}

// Len returns the number of entries.
func (m *SmallMap[K, V]) Len() int { return len(m.records) }

// IsEmpty reports whether the map has no entries.
func (m *SmallMap[K, V]) IsEmpty() bool { return len(m.records) == 0 }

// Capacity returns the number of records the backing vector can hold
// without reallocating.
func (m *SmallMap[K, V]) Capacity() int { return cap(m.records) }

// indexed reports whether the map is currently in the indexed regime.
func (m *SmallMap[K, V]) indexed() bool { return m.index != nil }

// InsertHashed inserts or overwrites key with val, returning the previous
// value if key was already present. On overwrite, the entry's position and
// relative insertion order are left unchanged — only the value is replaced.
func (m *SmallMap[K, V]) InsertHashed(hk HashedKey[K], val V) (V, bool) {
	if pos, ok := m.findPos(hk.hash, hk.key); ok {
		prev := m.records[pos].val
		m.records[pos].val = val
		return prev, true
	}
	pos := len(m.records)
	m.records = append(m.records, record[K, V]{hash: hk.hash, key: hk.key, val: val})
	if m.indexed() {
		m.indexInsert(hk.hash, pos)
	} else if len(m.records) > indexThreshold {
		m.buildIndex()
	}
	var zero V
	return zero, false
}

// Insert is InsertHashed with the hash computed for the caller.
func (m *SmallMap[K, V]) Insert(key K, val V) (V, bool) {
	return m.InsertHashed(NewHashedKey(key), val)
}

// GetHashed returns the value stored for key, if any.
func (m *SmallMap[K, V]) GetHashed(hash uint32, key K) (V, bool) {
	if pos, ok := m.findPos(hash, key); ok {
		return m.records[pos].val, true
	}
	var zero V
	return zero, false
}

// Get is GetHashed with the hash computed for the caller.
func (m *SmallMap[K, V]) Get(key K) (V, bool) {
	return m.GetHashed(key.Hash(), key)
}

// GetIndexOfHashed returns the insertion-order position of key, if present.
func (m *SmallMap[K, V]) GetIndexOfHashed(hash uint32, key K) (int, bool) {
	return m.findPos(hash, key)
}

// At returns the (key, value) pair at insertion-order position i.
func (m *SmallMap[K, V]) At(i int) (K, V) {
	r := m.records[i]
	return r.key, r.val
}

// RemoveHashed deletes key if present, returning its value. In the indexed
// regime this is O(n): every index entry referencing a record after the
// removed position must be shifted down by one so positions stay correct.
// This is the documented latency cliff of SmallMap — acceptable because
// script-level removals are rare.
func (m *SmallMap[K, V]) RemoveHashed(hash uint32, key K) (V, bool) {
	pos, ok := m.findPos(hash, key)
	if !ok {
		var zero V
		return zero, false
	}
	val := m.records[pos].val
	m.records = append(m.records[:pos], m.records[pos+1:]...)
	if m.indexed() {
		m.reindexAfterRemove(pos)
	}
	return val, true
}

// Remove is RemoveHashed with the hash computed for the caller.
func (m *SmallMap[K, V]) Remove(key K) (V, bool) {
	return m.RemoveHashed(key.Hash(), key)
}

// Clear empties the map but, in the indexed regime, retains the index's
// backing allocation so a refill doesn't immediately re-pay the build cost.
func (m *SmallMap[K, V]) Clear() {
	m.records = m.records[:0]
	for i := range m.index {
		m.index[i] = emptySlot
	}
}

// MaybeShrinkIndex drops the index once the map has shrunk back to the
// compact regime's threshold. It is not automatic on Remove: callers that
// expect to refill past the threshold again should skip calling it.
func (m *SmallMap[K, V]) MaybeShrinkIndex() {
	if m.indexed() && len(m.records) <= indexThreshold {
		m.index = nil
	}
}

// Iter calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (m *SmallMap[K, V]) Iter(fn func(K, V) bool) {
	for _, r := range m.records {
		if !fn(r.key, r.val) {
			return
		}
	}
}

// IterHashed is Iter but also yields each entry's precomputed hash.
func (m *SmallMap[K, V]) IterHashed(fn func(uint32, K, V) bool) {
	for _, r := range m.records {
		if !fn(r.hash, r.key, r.val) {
			return
		}
	}
}

// EntryState distinguishes a vacant slot from an occupied one.
type EntryState int

const (
	Vacant EntryState = iota
	Occupied
)

// Entry looks up key without inserting, returning whether it is present and
// (if so) its current value. Unlike a plain error return, Vacant/Occupied
// is not a failure — it is the expected shape of a lookup-or-insert call.
func (m *SmallMap[K, V]) Entry(hk HashedKey[K]) (EntryState, V) {
	if pos, ok := m.findPos(hk.hash, hk.key); ok {
		return Occupied, m.records[pos].val
	}
	var zero V
	return Vacant, zero
}

// findPos scans the compact vector or probes the index, whichever regime
// the map is in, comparing the 32-bit hash before the key itself so a
// mismatch never pays for a key comparison.
func (m *SmallMap[K, V]) findPos(hash uint32, key K) (int, bool) {
	if !m.indexed() {
		for i, r := range m.records {
			if r.hash == hash && r.key.Equal(key) {
				return i, true
			}
		}
		return 0, false
	}
	mask := uint64(len(m.index) - 1)
	probe := Promote(hash) & mask
	for {
		slot := m.index[probe]
		if slot == emptySlot {
			return 0, false
		}
		r := &m.records[slot]
		if r.hash == hash && r.key.Equal(key) {
			return int(slot), true
		}
		probe = (probe + 1) & mask
	}
}

// buildIndex constructs the open-addressed index from scratch over the
// current record vector. Called on the transition from compact to
// indexed, and again by reindexAfterRemove after every removal from an
// indexed map.
func (m *SmallMap[K, V]) buildIndex() {
	size := 16
	for size < len(m.records)*2 {
		size *= 2
	}
	m.index = make([]int32, size)
	for i := range m.index {
		m.index[i] = emptySlot
	}
	for pos, r := range m.records {
		m.indexInsert(r.hash, pos)
	}
}

// indexInsert installs a position into the index via linear probing. The
// caller must already have appended the record at pos.
func (m *SmallMap[K, V]) indexInsert(hash uint32, pos int) {
	if len(m.records) > len(m.index)/2 {
		m.growIndex()
	}
	mask := uint64(len(m.index) - 1)
	probe := Promote(hash) & mask
	for m.index[probe] != emptySlot {
		probe = (probe + 1) & mask
	}
	m.index[probe] = int32(pos)
}

func (m *SmallMap[K, V]) growIndex() {
	old := m.index
	size := len(old) * 2
	m.index = make([]int32, size)
	for i := range m.index {
		m.index[i] = emptySlot
	}
	mask := uint64(size - 1)
	for _, slot := range old {
		if slot == emptySlot {
			continue
		}
		probe := Promote(m.records[slot].hash) & mask
		for m.index[probe] != emptySlot {
			probe = (probe + 1) & mask
		}
		m.index[probe] = slot
	}
}

// reindexAfterRemove rebuilds the index after the record vector shifted
// everything past removedPos down by one. removedPos itself no longer
// identifies anything; every surviving record's position shifted too, and
// removal can strand entries behind what is now a hole in a
// formerly-contiguous probe chain — patching individual index slots in
// place can't fix that, so this rebuilds from scratch over the (already
// shifted, already correct) record positions instead.
func (m *SmallMap[K, V]) reindexAfterRemove(removedPos int) {
	m.buildIndex()
}

// Equal reports whether a and b contain the same set of (key, value) pairs,
// independent of insertion order or internal regime.
func Equal[K Hashable[K], V Equaler[V]](a, b *SmallMap[K, V]) bool {
	if a.Len() != b.Len() {
		return false
	}
	eq := true
	a.IterHashed(func(h uint32, k K, v V) bool {
		bv, ok := b.GetHashed(h, k)
		if !ok || !v.Equal(bv) {
			eq = false
			return false
		}
		return true
	})
	return eq
}

// Hash computes the map's hash as the wrapping sum of its entries' hashes,
// so that two maps equal under Equal hash equally regardless of insertion
// order.
func Hash[K Hashable[K], V Hashable[V]](m *SmallMap[K, V]) uint32 {
	var sum uint32
	m.IterHashed(func(h uint32, _ K, v V) bool {
		sum += mix(h, v.Hash())
		return true
	})
	return sum
}
