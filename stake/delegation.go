// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stake decodes stake accounts into delegations and sums the stake
// backing every validator for an epoch.
package stake

import (
	"github.com/stakewatch/leadersched/solana"
)

// Delegation is the delegation state of one stake account.
type Delegation struct {
	Validator         solana.Pubkey // vote account the stake is delegated to
	Stake             uint64
	ActivationEpoch   uint64 // solana.NeverEpoch if never activated
	DeactivationEpoch uint64 // solana.NeverEpoch if never deactivated
}

// IsActive returns if the delegation counts toward the stake of epoch.
// Stake activated in epoch itself is not yet effective, stake deactivated
// in epoch still is.
func (d *Delegation) IsActive(epoch uint64) bool {
	if d.ActivationEpoch >= epoch {
		return false
	}
	if d.DeactivationEpoch < epoch {
		return false
	}
	return true
}
