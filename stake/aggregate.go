// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/stakewatch/leadersched/log"
	"github.com/stakewatch/leadersched/metrics"
	"github.com/stakewatch/leadersched/solana"
)

var (
	logger = log.WithContext("pkg", "stake")

	metricActiveValidators = metrics.LazyLoadGauge("stake_active_validators")
	metricActiveRecords    = metrics.LazyLoadCounter("stake_active_records_count")
)

// ErrStakeOverflow is returned when the stake of a validator exceeds uint64.
var ErrStakeOverflow = errors.New("stake overflow")

// Stakes is the total active stake per validator.
// Iteration order is undefined, sort it before relying on any order.
type Stakes map[solana.Pubkey]uint64

// Total returns the sum of all stakes, ok is false if it overflows uint64.
func (s Stakes) Total() (total uint64, ok bool) {
	for _, stake := range s {
		var carry uint64
		total, carry = bits.Add64(total, stake, 0)
		if carry != 0 {
			return 0, false
		}
	}
	return total, true
}

// Aggregate sums the stake of every delegation active in epoch, keyed by validator.
// The result only depends on the multiset of records, not on their order.
func Aggregate(records []Delegation, epoch uint64) (Stakes, error) {
	stakes := make(Stakes)
	active := 0
	for i := range records {
		d := &records[i]
		if !d.IsActive(epoch) || d.Stake == 0 {
			continue
		}
		sum, carry := bits.Add64(stakes[d.Validator], d.Stake, 0)
		if carry != 0 {
			return nil, errors.Wrapf(ErrStakeOverflow, "validator %v", d.Validator)
		}
		stakes[d.Validator] = sum
		active++
	}

	metricActiveValidators().Set(int64(len(stakes)))
	metricActiveRecords().Add(int64(active))
	logger.Debug("aggregated stakes", "epoch", epoch, "records", len(records), "active", active, "validators", len(stakes))
	return stakes, nil
}
