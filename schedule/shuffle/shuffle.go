// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package shuffle provides the deterministic random permutations used by the leader schedule.
package shuffle

// Shuffle samples all indices of weights without replacement, each draw picking
// among the remaining indices proportionally to their weight.
// Zero-weight indices can never be drawn, they are appended afterwards in input order.
// The result is a permutation of [0, len(weights)).
func Shuffle(weights []uint64, rng *Rand) ([]int, error) {
	tree, err := NewTree(weights)
	if err != nil {
		return nil, err
	}

	perm := make([]int, 0, len(weights))
	for tree.Total() > 0 {
		i := tree.Search(rng.Uint64n(tree.Total()))
		perm = append(perm, i)
		tree.Remove(i)
	}
	for i, w := range weights {
		if w == 0 {
			perm = append(perm, i)
		}
	}
	return perm, nil
}
