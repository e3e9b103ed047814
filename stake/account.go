// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/stakewatch/leadersched/solana"
)

// ErrMalformedRecord is returned for stake account data that cannot be decoded.
var ErrMalformedRecord = errors.New("malformed stake account")

// Variants of the on-chain stake state.
const (
	StateUninitialized uint32 = iota
	StateInitialized
	StateStake
	StateRewardsPool
)

// Layout of the bincode encoded stake state.
const (
	tagSize = 4
	// rent_exempt_reserve, staker, withdrawer, lockup{unix_timestamp, epoch, custodian}
	metaSize = 8 + 32 + 32 + 8 + 8 + 32
	// voter, stake, activation_epoch, deactivation_epoch, warmup_cooldown_rate
	delegationSize = 32 + 8 + 8 + 8 + 8
	creditsSize    = 8

	delegationOffset = tagSize + metaSize

	// StakeAccountMinSize is the smallest buffer holding a delegated stake state.
	StakeAccountMinSize = delegationOffset + delegationSize + creditsSize
)

// defaultWarmupCooldownRate is written by EncodeAccount, the decoder ignores the field.
const defaultWarmupCooldownRate = 0.25

// DecodeAccount decodes the data of a stake program account.
// It returns nil without error for empty data and for accounts that do not delegate
// (uninitialized, initialized, rewards pool).
func DecodeAccount(data []byte) (*Delegation, error) {
	if len(data) == 0 {
		// system accounts reassigned to the stake program
		return nil, nil
	}
	if len(data) < tagSize {
		return nil, errors.Wrapf(ErrMalformedRecord, "%d bytes, too short for state tag", len(data))
	}

	switch tag := binary.LittleEndian.Uint32(data); tag {
	case StateUninitialized, StateInitialized, StateRewardsPool:
		return nil, nil
	case StateStake:
	default:
		return nil, errors.Wrapf(ErrMalformedRecord, "unknown state tag %d", tag)
	}

	if len(data) < StakeAccountMinSize {
		return nil, errors.Wrapf(ErrMalformedRecord, "%d bytes, want at least %d", len(data), StakeAccountMinSize)
	}

	b := data[delegationOffset:]
	return &Delegation{
		Validator:         solana.BytesToPubkey(b[:32]),
		Stake:             binary.LittleEndian.Uint64(b[32:]),
		ActivationEpoch:   binary.LittleEndian.Uint64(b[40:]),
		DeactivationEpoch: binary.LittleEndian.Uint64(b[48:]),
	}, nil
}

// EncodeAccount encodes d as a delegated stake state with zeroed meta data.
func EncodeAccount(d *Delegation) []byte {
	data := make([]byte, StakeAccountMinSize)
	binary.LittleEndian.PutUint32(data, StateStake)

	b := data[delegationOffset:]
	copy(b[:32], d.Validator[:])
	binary.LittleEndian.PutUint64(b[32:], d.Stake)
	binary.LittleEndian.PutUint64(b[40:], d.ActivationEpoch)
	binary.LittleEndian.PutUint64(b[48:], d.DeactivationEpoch)
	binary.LittleEndian.PutUint64(b[56:], math.Float64bits(defaultWarmupCooldownRate))
	return data
}
