// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	fuzz "github.com/google/gofuzz"

	"github.com/stakewatch/leadersched/solana"
	"github.com/stakewatch/leadersched/stake"
)

func RandomPubkey() solana.Pubkey {
	var p solana.Pubkey

	rand.Read(p[:])
	return p
}

// RandomPubkeys returns n distinct random pubkeys.
func RandomPubkeys(n int) []solana.Pubkey {
	seen := make(map[solana.Pubkey]struct{}, n)
	keys := make([]solana.Pubkey, 0, n)
	for len(keys) < n {
		p := RandomPubkey()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		keys = append(keys, p)
	}
	return keys
}

// RandomStakes returns a stake table of n validators with non-zero stakes below max.
// The same seed always produces the same table.
func RandomStakes(seed int64, n int, max uint64) stake.Stakes {
	f := fuzz.NewWithSeed(seed)
	stakes := make(stake.Stakes, n)
	for len(stakes) < n {
		var (
			p     solana.Pubkey
			value uint64
		)
		f.Fuzz(&p)
		f.Fuzz(&value)
		stakes[p] = value%max + 1
	}
	return stakes
}

// ActiveDelegation returns a delegation of amount to validator which is active in epoch.
func ActiveDelegation(validator solana.Pubkey, amount, epoch uint64) stake.Delegation {
	return stake.Delegation{
		Validator:         validator,
		Stake:             amount,
		ActivationEpoch:   epoch - 1,
		DeactivationEpoch: solana.NeverEpoch,
	}
}
