// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakewatch/leadersched/schedule"
	"github.com/stakewatch/leadersched/solana"
	"github.com/stakewatch/leadersched/stake"
	"github.com/stakewatch/leadersched/test/datagen"
)

var (
	validatorA = solana.Pubkey{0x0a}
	validatorB = solana.Pubkey{0x0b}
	validatorC = solana.Pubkey{0x0c}
	validatorD = solana.Pubkey{0x0d}
)

func smallConfig() schedule.Config {
	return schedule.Config{SlotsInEpoch: 8, ConsecutiveSlots: 2}
}

func assertLines(t *testing.T, want []string, got []string) {
	t.Helper()

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        want,
		B:        got,
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  schedule.Config
		wantErr bool
	}{
		{"default", schedule.DefaultConfig(), false},
		{"one slot groups", schedule.Config{SlotsInEpoch: 5, ConsecutiveSlots: 1}, false},
		{"zero slots", schedule.Config{SlotsInEpoch: 0, ConsecutiveSlots: 4}, true},
		{"zero consecutive", schedule.Config{SlotsInEpoch: 8, ConsecutiveSlots: 0}, true},
		{"partial group", schedule.Config{SlotsInEpoch: 10, ConsecutiveSlots: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, schedule.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.EqualError(t, schedule.Config{SlotsInEpoch: 10, ConsecutiveSlots: 4}.Validate(),
		"10 slots in epoch not a multiple of 4 consecutive slots: invalid schedule config")
	assert.Equal(t, uint64(108000), schedule.DefaultConfig().Groups())
}

func TestCanonical(t *testing.T) {
	entries := schedule.Canonical(stake.Stakes{
		validatorA: 100,
		validatorB: 100,
		validatorC: 100,
		validatorD: 50,
		{0xff}:     1000,
	})

	assert.Equal(t, []schedule.Entry{
		{solana.Pubkey{0xff}, 1000},
		{validatorC, 100},
		{validatorB, 100},
		{validatorA, 100},
		{validatorD, 50},
	}, entries)
}

func TestSeed(t *testing.T) {
	seed := schedule.Seed(0x0102030405060708)
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, seed[:8])
	assert.Equal(t, make([]byte, 24), seed[8:])
	assert.Equal(t, [32]byte{}, schedule.Seed(0))
}

func TestStakeEpoch(t *testing.T) {
	assert.Equal(t, uint64(9), schedule.StakeEpoch(10))
	assert.Equal(t, uint64(0), schedule.StakeEpoch(1))
	assert.Equal(t, uint64(0), schedule.StakeEpoch(0))
}

func TestNewGolden(t *testing.T) {
	ls, err := schedule.New(stake.Stakes{
		validatorA: 500,
		validatorB: 300,
		validatorC: 200,
	}, 7, smallConfig())
	require.NoError(t, err)

	got := make([]string, 0, ls.Len())
	for _, leader := range ls.SlotLeaders() {
		got = append(got, leader.String()+"\n")
	}
	want := []string{
		"jwV7SyvqCSrVcKibYvurCCWr7DUmT7yRYPmY9QwvrGo\n",
		"jwV7SyvqCSrVcKibYvurCCWr7DUmT7yRYPmY9QwvrGo\n",
		"g35TxFqwMx95vCk63fTxGTHb6ei4W24qg5t2x6xD3cT\n",
		"g35TxFqwMx95vCk63fTxGTHb6ei4W24qg5t2x6xD3cT\n",
		"oqtkwi1j2wZuJSh74CMk7wk77nFUQDt1Qhf3Liweew9\n",
		"oqtkwi1j2wZuJSh74CMk7wk77nFUQDt1Qhf3Liweew9\n",
		"jwV7SyvqCSrVcKibYvurCCWr7DUmT7yRYPmY9QwvrGo\n",
		"jwV7SyvqCSrVcKibYvurCCWr7DUmT7yRYPmY9QwvrGo\n",
	}
	assertLines(t, want, got)

	assert.Equal(t, uint64(7), ls.Epoch())
	assert.Equal(t, []solana.Pubkey{validatorB, validatorA, validatorC, validatorB}, ls.GroupLeaders())
	assert.Equal(t, []schedule.Entry{{validatorB, 300}, {validatorA, 500}, {validatorC, 200}}, ls.Order())
	assert.Equal(t, map[solana.Pubkey]uint64{validatorA: 2, validatorB: 4, validatorC: 2}, ls.SlotCounts())
	assert.Equal(t, []uint64{0, 1, 6, 7}, ls.SlotsOf(validatorB))
	assert.Equal(t, []uint64{4, 5}, ls.SlotsOf(validatorC))
	assert.Empty(t, ls.SlotsOf(validatorD))
}

func TestNewTiesAndCycling(t *testing.T) {
	ls, err := schedule.New(stake.Stakes{
		validatorA: 100,
		validatorB: 100,
		validatorC: 100,
		validatorD: 50,
	}, 300, schedule.Config{SlotsInEpoch: 16, ConsecutiveSlots: 4})
	require.NoError(t, err)

	assert.Equal(t, []solana.Pubkey{validatorD, validatorC, validatorA, validatorB}, ls.GroupLeaders())
}

func TestNewEpochSensitive(t *testing.T) {
	stakes := stake.Stakes{validatorA: 500, validatorB: 300, validatorC: 200}

	ls, err := schedule.New(stakes, 8, smallConfig())
	require.NoError(t, err)
	assert.Equal(t, []solana.Pubkey{validatorB, validatorC, validatorA, validatorB}, ls.GroupLeaders())
}

func TestNewDeterministic(t *testing.T) {
	stakes := datagen.RandomStakes(1, 50, 1_000_000)
	config := schedule.Config{SlotsInEpoch: 4000, ConsecutiveSlots: 4}

	a, err := schedule.New(stakes, 99, config)
	require.NoError(t, err)

	// rebuilding the map changes its iteration order but not the schedule
	copied := make(stake.Stakes, len(stakes))
	for k, v := range stakes {
		copied[k] = v
	}
	b, err := schedule.New(copied, 99, config)
	require.NoError(t, err)

	assert.Equal(t, a.SlotLeaders(), b.SlotLeaders())
	assert.Equal(t, a.Order(), b.Order())
}

func TestNewInvariants(t *testing.T) {
	stakes := datagen.RandomStakes(2, 30, 1_000)
	config := schedule.Config{SlotsInEpoch: 400, ConsecutiveSlots: 4}

	ls, err := schedule.New(stakes, 12, config)
	require.NoError(t, err)

	leaders := ls.SlotLeaders()
	require.Len(t, leaders, int(config.SlotsInEpoch))

	// leaders change only at group boundaries
	for s := 1; s < len(leaders); s++ {
		if uint64(s)%config.ConsecutiveSlots != 0 {
			assert.Equal(t, leaders[s-1], leaders[s], "slot %d", s)
		}
	}

	// every scheduled leader has stake, counts add up to the epoch
	var total uint64
	for v, n := range ls.SlotCounts() {
		assert.Contains(t, stakes, v)
		assert.Zero(t, n%config.ConsecutiveSlots)
		assert.Len(t, ls.SlotsOf(v), int(n))
		total += n
	}
	assert.Equal(t, config.SlotsInEpoch, total)

	// 100 groups over 30 validators: the order is cycled, each leads 3 or 4 groups
	for _, n := range ls.SlotCounts() {
		assert.Contains(t, []uint64{12, 16}, n)
	}

	for s := range config.SlotsInEpoch {
		leader, ok := ls.Leader(s)
		require.True(t, ok)
		assert.Equal(t, leaders[s], leader)
	}
	_, ok := ls.Leader(config.SlotsInEpoch)
	assert.False(t, ok)
}

func TestNewSingleValidator(t *testing.T) {
	ls, err := schedule.New(stake.Stakes{validatorA: 1}, 5, smallConfig())
	require.NoError(t, err)
	for _, leader := range ls.SlotLeaders() {
		assert.Equal(t, validatorA, leader)
	}
}

func TestNewErrors(t *testing.T) {
	_, err := schedule.New(stake.Stakes{}, 1, smallConfig())
	assert.ErrorIs(t, err, schedule.ErrEmptyStakeSet)

	_, err = schedule.New(nil, 1, smallConfig())
	assert.ErrorIs(t, err, schedule.ErrEmptyStakeSet)

	_, err = schedule.New(stake.Stakes{validatorA: 1}, 1, schedule.Config{SlotsInEpoch: 9, ConsecutiveSlots: 2})
	assert.ErrorIs(t, err, schedule.ErrInvalidConfig)
}

func BenchmarkNew(b *testing.B) {
	stakes := datagen.RandomStakes(3, 2000, 1<<40)
	config := schedule.DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := schedule.New(stakes, uint64(i), config); err != nil {
			b.Fatal(err)
		}
	}
}
