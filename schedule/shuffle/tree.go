// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shuffle

import (
	"math/bits"

	"github.com/pkg/errors"
)

// ErrWeightOverflow is returned when the sum of weights exceeds uint64.
var ErrWeightOverflow = errors.New("total weight overflows uint64")

// Tree is a Fenwick tree over weights supporting prefix search and removal.
type Tree struct {
	nodes   []uint64 // 1-based, nodes[i] covers (i - lowbit(i), i]
	weights []uint64
	total   uint64
	step    int // highest power of two <= len(weights)
}

// NewTree builds the tree in O(n).
func NewTree(weights []uint64) (*Tree, error) {
	n := len(weights)
	t := &Tree{
		nodes:   make([]uint64, n+1),
		weights: append([]uint64(nil), weights...),
	}
	for i, w := range weights {
		var carry uint64
		t.total, carry = bits.Add64(t.total, w, 0)
		if carry != 0 {
			return nil, ErrWeightOverflow
		}
		t.nodes[i+1] += w
	}
	// every node is a partial sum bounded by the total, nothing overflows here
	for i := 1; i <= n; i++ {
		if parent := i + i&-i; parent <= n {
			t.nodes[parent] += t.nodes[i]
		}
	}
	if n > 0 {
		t.step = 1 << (bits.Len(uint(n)) - 1)
	}
	return t, nil
}

// Total returns the sum of the remaining weights.
func (t *Tree) Total() uint64 { return t.total }

// Search returns the smallest index whose inclusive prefix sum exceeds r.
// The returned index always has non-zero weight.
// panic if r >= Total()
func (t *Tree) Search(r uint64) int {
	if r >= t.total {
		panic("r must < total")
	}
	pos := 0
	for step := t.step; step > 0; step >>= 1 {
		if next := pos + step; next < len(t.nodes) && t.nodes[next] <= r {
			pos = next
			r -= t.nodes[next]
		}
	}
	return pos
}

// Remove zeroes the weight at i.
func (t *Tree) Remove(i int) {
	w := t.weights[i]
	if w == 0 {
		return
	}
	t.weights[i] = 0
	t.total -= w
	for j := i + 1; j < len(t.nodes); j += j & -j {
		t.nodes[j] -= w
	}
}
