// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solana

import "math"

// Constants of the network.
const (
	DefaultSlotsInEpoch       uint64 = 432000 // slots in a mainnet epoch.
	NumConsecutiveLeaderSlots uint64 = 4      // slots a leader holds in a row.

	// NeverEpoch marks an activation or deactivation that never happened.
	NeverEpoch uint64 = math.MaxUint64
)

// StakeProgramID owner of all stake accounts.
var StakeProgramID = MustParsePubkey("Stake11111111111111111111111111111111111111")

// Well known RPC endpoints.
const (
	MainnetURL   = "https://api.mainnet-beta.solana.com"
	TestnetURL   = "https://api.testnet.solana.com"
	DevnetURL    = "https://api.devnet.solana.com"
	LocalhostURL = "http://localhost:8899"
)

// ClusterURL resolves a cluster alias into its RPC endpoint.
// Empty selects mainnet, unknown values are taken as an URL.
func ClusterURL(alias string) string {
	switch alias {
	case "", "m", "mainnet", "mainnet-beta":
		return MainnetURL
	case "t", "testnet":
		return TestnetURL
	case "d", "devnet":
		return DevnetURL
	case "l", "localhost":
		return LocalhostURL
	default:
		return alias
	}
}
