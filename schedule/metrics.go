// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import "github.com/stakewatch/leadersched/metrics"

var (
	metricBuildDuration = metrics.LazyLoadHistogram("schedule_build_duration_ms", metrics.BucketBuild)
	metricValidators    = metrics.LazyLoadGauge("schedule_validators")
	metricBuildCount    = metrics.LazyLoadCounterVec("schedule_build_count", []string{"status"})
)
