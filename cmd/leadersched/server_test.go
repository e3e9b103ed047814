// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakewatch/leadersched/api"
	"github.com/stakewatch/leadersched/api/epochs"
	"github.com/stakewatch/leadersched/metrics"
	"github.com/stakewatch/leadersched/schedule"
	"github.com/stakewatch/leadersched/snapshot"
	"github.com/stakewatch/leadersched/test"
)

func getJSON(url string, v any) error {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("status %d: %s", res.StatusCode, body)
	}
	return json.NewDecoder(res.Body).Decode(v)
}

func TestStartAPIServer(t *testing.T) {
	url, closeFunc, err := startAPIServer("127.0.0.1:0", snapshot.NewStaticSource(newSnapshot(6)), api.Options{
		Config:      schedule.Config{SlotsInEpoch: 8, ConsecutiveSlots: 2},
		CacheSize:   4,
		SnapshotTTL: time.Minute,
	})
	require.NoError(t, err)
	defer closeFunc()

	var current epochs.CurrentEpoch
	require.NoError(t, test.Retry(func() error {
		return getJSON(url+"epochs/current", &current)
	}, 10*time.Millisecond, 2*time.Second))
	assert.Equal(t, uint64(6), current.Epoch)
	assert.Equal(t, 3, current.Accounts)

	var leader epochs.SlotLeader
	require.NoError(t, getJSON(url+"epochs/7/leaders/2", &leader))
	assert.Equal(t, validatorA, leader.Leader)

	_, _, err = startAPIServer("127.0.0.1:0", snapshot.NewStaticSource(newSnapshot(6)), api.Options{
		Config: schedule.Config{SlotsInEpoch: 8, ConsecutiveSlots: 3},
	})
	assert.Error(t, err)
}

func TestStartMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("cmd_test_count").Add(1)

	url, closeFunc, err := startMetricsServer("127.0.0.1:0")
	require.NoError(t, err)
	defer closeFunc()
	assert.True(t, strings.HasSuffix(url, "/metrics"))

	var body string
	require.NoError(t, test.Retry(func() error {
		res, err := http.Get(url) //#nosec G107
		if err != nil {
			return err
		}
		defer res.Body.Close()
		b, err := io.ReadAll(res.Body)
		body = string(b)
		return err
	}, 10*time.Millisecond, 2*time.Second))
	assert.Contains(t, body, "leadersched_cmd_test_count 1")

	_, _, err = startMetricsServer("bad address")
	assert.Error(t, err)
}
