// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collections provides the hashing primitives and the small
// ordered map that back both name resolution and the script-visible
// dict type.
package collections

import (
	"encoding/binary"
	"math/bits"
)

// fxSeed is the multiplicative constant of the canonical hasher, an
// FxHash-style rotate-xor-multiply mix. The exact constant is load-bearing:
// hash values must be reproducible run to run so that tests can assert on
// them directly rather than on relative ordering.
const fxSeed uint32 = 0x9e3779b9

// mix folds word into the running hash the way FxHash folds each machine
// word: rotate the accumulator, xor in the new word, multiply by the seed.
func mix(hash, word uint32) uint32 {
	return (bits.RotateLeft32(hash, 5) ^ word) * fxSeed
}

// HashBytes computes the canonical 32-bit hash of b.
func HashBytes(b []byte) uint32 {
	var h uint32
	for len(b) >= 4 {
		h = mix(h, binary.LittleEndian.Uint32(b))
		b = b[4:]
	}
	if len(b) > 0 {
		var tail [4]byte
		copy(tail[:], b)
		h = mix(h, binary.LittleEndian.Uint32(tail[:]))
	}
	return h
}

// HashString computes the canonical hash of s.
func HashString(s string) uint32 {
	return HashBytes([]byte(s))
}

// HashUint32 computes the canonical hash of a single 32-bit word, used for
// the in-word integer encoding in package heap.
func HashUint32(w uint32) uint32 {
	return mix(0, w)
}

// Promote widens a 32-bit hash into a 64-bit value suitable as the probe key
// for an open-addressed table (see SmallMap's indexed regime). 32 bits alone
// distribute poorly once spread across a 64-bit table, so the widened value
// is re-mixed rather than zero-extended.
func Promote(h uint32) uint64 {
	x := uint64(h)
	x ^= x >> 16
	x *= 0x85ebca6bc2b2ae35
	x ^= x >> 13
	x *= 0xc2b2ae3d27d4eb4f
	x ^= x >> 16
	return x
}

// Hashable is implemented by types usable as SmallMap keys. Equal must agree
// with Hash (equal keys hash equally) and is used for the actual key
// comparison — SmallMap never falls back to Go's built-in "==", since
// script-level equality is structural (e.g. two separately allocated
// strings with the same contents), not identity.
type Hashable[K any] interface {
	Hash() uint32
	Equal(K) bool
}

// Equaler is implemented by SmallMap values that support the map-level
// Equal operation (structural equality of two maps).
type Equaler[V any] interface {
	Equal(V) bool
}

// HashedKey pairs a key with its precomputed canonical hash. Building one is
// the only place the hash is computed; everywhere else compares HashedKeys
// by their stored hash field first.
type HashedKey[K Hashable[K]] struct {
	hash uint32
	key  K
}

// NewHashedKey computes k's canonical hash and pairs it with k.
func NewHashedKey[K Hashable[K]](k K) HashedKey[K] {
	return HashedKey[K]{hash: k.Hash(), key: k}
}

// Hash returns the precomputed hash.
func (h HashedKey[K]) Hash() uint32 { return h.hash }

// Key returns the wrapped key.
func (h HashedKey[K]) Key() K { return h.key }

// BorrowedKey is the zero-copy counterpart of HashedKey, used for lookups
// that don't need to take ownership of the key (e.g. probing a SmallMap with
// a key that lives on the caller's stack).
type BorrowedKey[K Hashable[K]] struct {
	hash uint32
	key  *K
}

// NewBorrowedKey computes k's canonical hash without copying k into the
// returned value (k is referenced, not cloned).
func NewBorrowedKey[K Hashable[K]](k *K) BorrowedKey[K] {
	return BorrowedKey[K]{hash: (*k).Hash(), key: k}
}

// Hash returns the precomputed hash.
func (b BorrowedKey[K]) Hash() uint32 { return b.hash }

// Key returns the borrowed key.
func (b BorrowedKey[K]) Key() K { return *b.key }

// StringKey is a ready-made Hashable wrapper for plain strings, used
// wherever a SmallMap is keyed by name (parameter names, module slot
// names, import symbols).
type StringKey string

// Hash returns the canonical hash of the string.
func (s StringKey) Hash() uint32 { return HashString(string(s)) }

// Equal reports whether s and o have identical contents.
func (s StringKey) Equal(o StringKey) bool { return s == o }
