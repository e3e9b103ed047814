// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epochs

import (
	"github.com/stakewatch/leadersched/schedule"
	"github.com/stakewatch/leadersched/solana"
)

type CurrentEpoch struct {
	Epoch    uint64 `json:"epoch"`
	Accounts int    `json:"accounts"`
}

type LeaderSchedule struct {
	Epoch            uint64          `json:"epoch"`
	SlotsInEpoch     uint64          `json:"slotsInEpoch"`
	ConsecutiveSlots uint64          `json:"consecutiveSlots"`
	Leaders          []solana.Pubkey `json:"leaders"`
}

type SlotLeader struct {
	Epoch  uint64        `json:"epoch"`
	Slot   uint64        `json:"slot"`
	Leader solana.Pubkey `json:"leader"`
}

type ValidatorSlots struct {
	Epoch     uint64        `json:"epoch"`
	Validator solana.Pubkey `json:"validator"`
	Slots     []uint64      `json:"slots"`
}

func convertSchedule(ls *schedule.LeaderSchedule) *LeaderSchedule {
	return &LeaderSchedule{
		Epoch:            ls.Epoch(),
		SlotsInEpoch:     ls.Config().SlotsInEpoch,
		ConsecutiveSlots: ls.Config().ConsecutiveSlots,
		Leaders:          ls.SlotLeaders(),
	}
}
