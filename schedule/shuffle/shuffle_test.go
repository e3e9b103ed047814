// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shuffle

import (
	"slices"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPermutation(t *testing.T, perm []int, n int) {
	t.Helper()

	require.Len(t, perm, n)
	sorted := slices.Clone(perm)
	slices.Sort(sorted)
	for i, v := range sorted {
		require.Equal(t, i, v)
	}
}

func TestShuffle(t *testing.T) {
	tests := []struct {
		name    string
		weights []uint64
		seed    uint64
		want    []int
	}{
		{"weighted", []uint64{500, 300, 200}, 7, []int{1, 0, 2}},
		{"zero weights last", []uint64{0, 5, 0, 1, 3}, 3, []int{1, 4, 3, 0, 2}},
		{"equal weights", []uint64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, 9, []int{9, 4, 0, 8, 1, 6, 3, 5, 7, 2}},
		{"single", []uint64{12}, 0, []int{0}},
		{"all zero", []uint64{0, 0, 0}, 0, []int{0, 1, 2}},
		{"empty", nil, 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm, err := Shuffle(tt.weights, NewRand(seedOf(tt.seed)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, perm)
		})
	}
}

func TestShuffleBijection(t *testing.T) {
	f := fuzz.NewWithSeed(3).NilChance(0).NumElements(1, 300)

	for i := range 50 {
		var weights []uint64
		f.Fuzz(&weights)
		for j := range weights {
			// keep the total in range and leave some zero weights
			weights[j] %= 1 << 40
			if weights[j]%5 == 0 {
				weights[j] = 0
			}
		}

		perm, err := Shuffle(weights, NewRand(seedOf(uint64(i))))
		require.NoError(t, err)
		assertPermutation(t, perm, len(weights))

		// every positive weight is drawn before any zero weight
		drawn := true
		for _, idx := range perm {
			if weights[idx] == 0 {
				drawn = false
			} else {
				require.True(t, drawn, "positive weight drawn after a zero weight")
			}
		}
	}
}

func TestShuffleDominant(t *testing.T) {
	weights := []uint64{1, 1, 99_000, 1, 1}
	first := 0
	for i := range uint64(200) {
		perm, err := Shuffle(weights, NewRand(seedOf(i)))
		require.NoError(t, err)
		assertPermutation(t, perm, len(weights))
		if perm[0] == 2 {
			first++
		}
	}
	assert.GreaterOrEqual(t, first, 195)
}

func TestShuffleProportional(t *testing.T) {
	const rounds = 4000
	first := 0
	for i := range uint64(rounds) {
		perm, err := Shuffle([]uint64{300, 100}, NewRand(seedOf(i)))
		require.NoError(t, err)
		if perm[0] == 0 {
			first++
		}
	}
	assert.InDelta(t, 0.75, float64(first)/rounds, 0.03)
}

func TestShuffleOverflow(t *testing.T) {
	_, err := Shuffle([]uint64{1 << 63, 1 << 63}, NewRand(seedOf(0)))
	assert.ErrorIs(t, err, ErrWeightOverflow)
}

func TestShuffleEqualWeights(t *testing.T) {
	const rounds = 2000
	weights := []uint64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7}
	sum := make([]int, len(weights))

	for i := range uint64(rounds) {
		perm, err := Shuffle(weights, NewRand(seedOf(i)))
		require.NoError(t, err)
		assertPermutation(t, perm, len(weights))
		for j := range sum {
			sum[j] += perm[j]
		}
	}
	// uniform: every position averages 4.5
	for _, s := range sum {
		assert.InDelta(t, 4.5, float64(s)/rounds, 0.4)
	}
}
