// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakewatch/leadersched/solana"
)

func TestAccountLayout(t *testing.T) {
	assert.Equal(t, 124, delegationOffset)
	assert.Equal(t, 196, StakeAccountMinSize)
}

func TestDecodeAccount(t *testing.T) {
	d := &Delegation{
		Validator:         solana.Pubkey{1, 2, 3},
		Stake:             5_000_000_000,
		ActivationEpoch:   17,
		DeactivationEpoch: solana.NeverEpoch,
	}

	data := EncodeAccount(d)
	assert.Len(t, data, StakeAccountMinSize)

	got, err := DecodeAccount(data)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	// trailing bytes are allowed
	got, err = DecodeAccount(append(data, make([]byte, 4)...))
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDecodeAccountNoDelegation(t *testing.T) {
	got, err := DecodeAccount(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	for _, tag := range []uint32{StateUninitialized, StateInitialized, StateRewardsPool} {
		data := make([]byte, 200)
		binary.LittleEndian.PutUint32(data, tag)

		got, err := DecodeAccount(data)
		assert.NoError(t, err, "tag %d", tag)
		assert.Nil(t, got, "tag %d", tag)
	}
}

func TestDecodeAccountMalformed(t *testing.T) {
	unknown := make([]byte, StakeAccountMinSize)
	binary.LittleEndian.PutUint32(unknown, 9)

	tests := []struct {
		name string
		data []byte
	}{
		{"short tag", []byte{2, 0}},
		{"unknown tag", unknown},
		{"truncated", EncodeAccount(&Delegation{Stake: 1})[:StakeAccountMinSize-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAccount(tt.data)
			assert.ErrorIs(t, err, ErrMalformedRecord)
			assert.Nil(t, got)
		})
	}
}
