// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"github.com/pkg/errors"

	"github.com/stakewatch/leadersched/solana"
)

// ErrInvalidConfig is returned for slot parameters that cannot form a schedule.
var ErrInvalidConfig = errors.New("invalid schedule config")

// Config holds the slot parameters of an epoch.
type Config struct {
	SlotsInEpoch     uint64 `json:"slotsInEpoch" yaml:"slotsInEpoch"`
	ConsecutiveSlots uint64 `json:"consecutiveSlots" yaml:"consecutiveSlots"` // slots a leader holds in a row
}

// DefaultConfig returns the mainnet slot parameters.
func DefaultConfig() Config {
	return Config{
		SlotsInEpoch:     solana.DefaultSlotsInEpoch,
		ConsecutiveSlots: solana.NumConsecutiveLeaderSlots,
	}
}

// Validate checks that every group of consecutive slots fits in the epoch.
func (c Config) Validate() error {
	if c.SlotsInEpoch == 0 {
		return errors.Wrap(ErrInvalidConfig, "zero slots in epoch")
	}
	if c.ConsecutiveSlots == 0 {
		return errors.Wrap(ErrInvalidConfig, "zero consecutive slots")
	}
	if c.SlotsInEpoch%c.ConsecutiveSlots != 0 {
		return errors.Wrapf(ErrInvalidConfig, "%d slots in epoch not a multiple of %d consecutive slots",
			c.SlotsInEpoch, c.ConsecutiveSlots)
	}
	return nil
}

// Groups returns the number of leader groups in an epoch.
func (c Config) Groups() uint64 {
	return c.SlotsInEpoch / c.ConsecutiveSlots
}
