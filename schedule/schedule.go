// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schedule derives the leader of every slot of an epoch from the
// stake table, by stake weighted sampling seeded with the epoch number.
package schedule

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/stakewatch/leadersched/log"
	"github.com/stakewatch/leadersched/schedule/shuffle"
	"github.com/stakewatch/leadersched/solana"
	"github.com/stakewatch/leadersched/stake"
)

var logger = log.WithContext("pkg", "schedule")

// ErrEmptyStakeSet is returned when no validator has active stake.
var ErrEmptyStakeSet = errors.New("no active stake")

// Entry is a validator with its active stake.
type Entry struct {
	Validator solana.Pubkey `json:"validator" yaml:"validator"`
	Stake     uint64        `json:"stake" yaml:"stake"`
}

// Canonical sorts the stake table descending by stake, ties descending by identity bytes.
// The order does not depend on map iteration, it is the only input ordering the sampler sees.
func Canonical(stakes stake.Stakes) []Entry {
	entries := make([]Entry, 0, len(stakes))
	for validator, amount := range stakes {
		entries = append(entries, Entry{validator, amount})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Stake, a.Stake); c != 0 {
			return c
		}
		return bytes.Compare(b.Validator[:], a.Validator[:])
	})
	return entries
}

// Seed returns the sampling seed of epoch: the epoch little-endian in the first 8 bytes, zeros after.
func Seed(epoch uint64) (seed [32]byte) {
	binary.LittleEndian.PutUint64(seed[:], epoch)
	return
}

// StakeEpoch returns the epoch whose active stake backs the schedule of target.
// The schedule of an epoch is published one epoch ahead, from the stake effective at that time.
// Epoch 0 is backed by the genesis stake.
func StakeEpoch(target uint64) uint64 {
	if target == 0 {
		return 0
	}
	return target - 1
}

// LeaderSchedule is the leader of every slot of one epoch.
// It is immutable once built and safe for concurrent reads.
type LeaderSchedule struct {
	epoch  uint64
	config Config
	order  []Entry         // sampled permutation of the stake table
	groups []solana.Pubkey // leader of every group of consecutive slots
}

// New builds the schedule of epoch.
func New(stakes stake.Stakes, epoch uint64, config Config) (ls *LeaderSchedule, err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		metricBuildCount().AddWithLabel(1, map[string]string{"status": status})
	}()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(stakes) == 0 {
		return nil, ErrEmptyStakeSet
	}
	start := time.Now()

	// Step 1: sort the stake table into its canonical order
	entries := Canonical(stakes)

	// Step 2: seed the generator with the epoch
	rng := shuffle.NewRand(Seed(epoch))

	// Step 3: sample all validators without replacement, weighted by stake
	weights := make([]uint64, len(entries))
	for i, e := range entries {
		weights[i] = e.Stake
	}
	perm, err := shuffle.Shuffle(weights, rng)
	if err != nil {
		return nil, err
	}
	order := make([]Entry, len(perm))
	for i, j := range perm {
		order[i] = entries[j]
	}

	// Step 4: assign groups of consecutive slots, cycling through the sampled order
	groups := make([]solana.Pubkey, config.Groups())
	for g := range groups {
		groups[g] = order[g%len(order)].Validator
	}

	metricBuildDuration().Observe(time.Since(start).Milliseconds())
	metricValidators().Set(int64(len(entries)))
	logger.Debug("built leader schedule", "epoch", epoch, "validators", len(entries), "slots", config.SlotsInEpoch, "elapsed", time.Since(start))

	return &LeaderSchedule{
		epoch:  epoch,
		config: config,
		order:  order,
		groups: groups,
	}, nil
}

// Epoch returns the epoch the schedule is for.
func (ls *LeaderSchedule) Epoch() uint64 { return ls.epoch }

// Config returns the slot parameters the schedule was built with.
func (ls *LeaderSchedule) Config() Config { return ls.config }

// Len returns the number of slots.
func (ls *LeaderSchedule) Len() uint64 { return ls.config.SlotsInEpoch }

// Leader returns the leader of slot, an index relative to the start of the epoch.
func (ls *LeaderSchedule) Leader(slot uint64) (solana.Pubkey, bool) {
	if slot >= ls.Len() {
		return solana.Pubkey{}, false
	}
	return ls.groups[slot/ls.config.ConsecutiveSlots], true
}

// SlotLeaders returns the leader of every slot in slot order.
func (ls *LeaderSchedule) SlotLeaders() []solana.Pubkey {
	leaders := make([]solana.Pubkey, 0, ls.Len())
	for _, leader := range ls.groups {
		for range ls.config.ConsecutiveSlots {
			leaders = append(leaders, leader)
		}
	}
	return leaders
}

// GroupLeaders returns the leader of every group of consecutive slots.
func (ls *LeaderSchedule) GroupLeaders() []solana.Pubkey {
	return slices.Clone(ls.groups)
}

// Order returns the sampled permutation of the stake table.
func (ls *LeaderSchedule) Order() []Entry {
	return slices.Clone(ls.order)
}

// SlotCounts returns the number of slots led by every scheduled validator.
func (ls *LeaderSchedule) SlotCounts() map[solana.Pubkey]uint64 {
	counts := make(map[solana.Pubkey]uint64, len(ls.order))
	for _, leader := range ls.groups {
		counts[leader] += ls.config.ConsecutiveSlots
	}
	return counts
}

// SlotsOf returns the slots led by validator in ascending order.
func (ls *LeaderSchedule) SlotsOf(validator solana.Pubkey) []uint64 {
	var slots []uint64
	for g, leader := range ls.groups {
		if leader != validator {
			continue
		}
		first := uint64(g) * ls.config.ConsecutiveSlots
		for s := first; s < first+ls.config.ConsecutiveSlots; s++ {
			slots = append(slots, s)
		}
	}
	return slots
}
