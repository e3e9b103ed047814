// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakewatch/leadersched/log"
	"github.com/stakewatch/leadersched/solana"
)

var (
	urlFlag = cli.StringFlag{
		Name:   "url, u",
		EnvVar: "LEADERSCHED_URL",
		Usage:  "JSON-RPC URL or moniker of the cluster (mainnet-beta|testnet|devnet|localhost, or their initials m|t|d|l)",
	}
	snapshotFlag = cli.StringFlag{
		Name:   "snapshot",
		EnvVar: "LEADERSCHED_SNAPSHOT",
		Usage:  "read stake accounts from a snapshot file (.json|.yaml|.yml, optionally .sz compressed) instead of the cluster",
	}
	epochFlag = cli.Uint64Flag{
		Name:  "epoch",
		Usage: "epoch to schedule (defaults to the epoch after the current one)",
	}
	slotsInEpochFlag = cli.Uint64Flag{
		Name:  "slots-in-epoch",
		Value: solana.DefaultSlotsInEpoch,
		Usage: "number of slots in an epoch",
	}
	consecutiveSlotsFlag = cli.Uint64Flag{
		Name:  "consecutive-slots",
		Value: solana.NumConsecutiveLeaderSlots,
		Usage: "number of consecutive slots assigned to a leader",
	}
	outFlag = cli.StringFlag{
		Name:  "out, o",
		Usage: "snapshot file to write, the format follows the extension",
	}
	countFlag = cli.Uint64Flag{
		Name:  "count",
		Value: 10,
		Usage: "number of consecutive epochs to schedule",
	}
	progressFlag = cli.BoolFlag{
		Name:  "progress",
		Usage: "show a progress bar on stderr",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8699",
		EnvVar: "LEADERSCHED_API_ADDR",
		Usage:  "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiCacheFlag = cli.IntFlag{
		Name:  "api-cache",
		Value: 16,
		Usage: "number of leader schedules kept in memory",
	}
	apiSnapshotTTLFlag = cli.DurationFlag{
		Name:  "api-snapshot-ttl",
		Value: time.Minute,
		Usage: "how long a fetched stake snapshot is reused",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables /admin endpoints on the API service",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  log.LegacyLevelInfo,
		EnvVar: "LEADERSCHED_VERBOSITY",
		Usage:  "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
)

var (
	sourceFlags = []cli.Flag{
		urlFlag,
		snapshotFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
	scheduleFlags = append([]cli.Flag{
		epochFlag,
		slotsInEpochFlag,
		consecutiveSlotsFlag,
	}, sourceFlags...)
)
