// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epochs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakewatch/leadersched/schedule"
	"github.com/stakewatch/leadersched/snapshot"
	"github.com/stakewatch/leadersched/solana"
	"github.com/stakewatch/leadersched/stake"
	"github.com/stakewatch/leadersched/test/datagen"
)

var (
	validatorA = solana.Pubkey{0x0a}
	validatorB = solana.Pubkey{0x0b}
	validatorC = solana.Pubkey{0x0c}
)

type countingSource struct {
	snap  *snapshot.Snapshot
	err   error
	calls atomic.Int32
}

func (s *countingSource) Fetch(context.Context) (*snapshot.Snapshot, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func newSnapshot(epoch uint64, stakes map[solana.Pubkey]uint64) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{Epoch: epoch}
	for validator, amount := range stakes {
		d := stake.Delegation{
			Validator:         validator,
			Stake:             amount,
			ActivationEpoch:   0,
			DeactivationEpoch: solana.NeverEpoch,
		}
		snap.Accounts = append(snap.Accounts, snapshot.Account{
			Pubkey: datagen.RandomPubkey(),
			Data:   stake.EncodeAccount(&d),
		})
	}
	return snap
}

func newServer(t *testing.T, source snapshot.Source, ttl time.Duration) (*httptest.Server, *Epochs) {
	e, err := New(source, schedule.Config{SlotsInEpoch: 8, ConsecutiveSlots: 2}, 4, ttl)
	require.NoError(t, err)

	router := mux.NewRouter()
	e.Mount(router, "/epochs")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, e
}

func httpGet(t *testing.T, url string, v any) int {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(body, v))
	}
	return res.StatusCode
}

func TestGetLeaders(t *testing.T) {
	source := &countingSource{snap: newSnapshot(6, map[solana.Pubkey]uint64{
		validatorA: 500,
		validatorB: 300,
		validatorC: 200,
	})}
	ts, _ := newServer(t, source, time.Hour)

	var got LeaderSchedule
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/epochs/7/leaders", &got))
	assert.Equal(t, LeaderSchedule{
		Epoch:            7,
		SlotsInEpoch:     8,
		ConsecutiveSlots: 2,
		Leaders: []solana.Pubkey{
			validatorB, validatorB, validatorA, validatorA,
			validatorC, validatorC, validatorB, validatorB,
		},
	}, got)

	var slot SlotLeader
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/epochs/7/leaders/4", &slot))
	assert.Equal(t, SlotLeader{Epoch: 7, Slot: 4, Leader: validatorC}, slot)

	var slots ValidatorSlots
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/epochs/7/validators/"+validatorB.String()+"/slots", &slots))
	assert.Equal(t, []uint64{0, 1, 6, 7}, slots.Slots)

	var stakes []schedule.Entry
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/epochs/7/stakes", &stakes))
	assert.Equal(t, []schedule.Entry{
		{Validator: validatorA, Stake: 500},
		{Validator: validatorB, Stake: 300},
		{Validator: validatorC, Stake: 200},
	}, stakes)

	var current CurrentEpoch
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/epochs/current", &current))
	assert.Equal(t, CurrentEpoch{Epoch: 6, Accounts: 3}, current)

	// the snapshot is fetched once within its ttl
	assert.Equal(t, int32(1), source.calls.Load())
}

func TestGetLeadersErrors(t *testing.T) {
	source := &countingSource{snap: newSnapshot(6, map[solana.Pubkey]uint64{validatorA: 1})}
	ts, _ := newServer(t, source, time.Hour)

	tests := []struct {
		path   string
		status int
	}{
		{"/epochs/x/leaders", http.StatusBadRequest},
		{"/epochs/-1/leaders", http.StatusBadRequest},
		{"/epochs/7/leaders/y", http.StatusBadRequest},
		{"/epochs/7/leaders/8", http.StatusNotFound},
		{"/epochs/7/validators/xyz/slots", http.StatusBadRequest},
		// nothing was active before genesis
		{"/epochs/0/leaders", http.StatusUnprocessableEntity},
		{"/epochs/7/leaders/7", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, httpGet(t, ts.URL+tt.path, nil))
		})
	}
}

func TestGetLeadersUnavailable(t *testing.T) {
	source := &countingSource{err: fmt.Errorf("%w: connection refused", snapshot.ErrInputUnavailable)}
	ts, _ := newServer(t, source, time.Hour)

	assert.Equal(t, http.StatusServiceUnavailable, httpGet(t, ts.URL+"/epochs/7/leaders", nil))
	assert.Equal(t, http.StatusServiceUnavailable, httpGet(t, ts.URL+"/epochs/current", nil))
	// failures are not cached
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestGetLeadersMalformed(t *testing.T) {
	snap := newSnapshot(6, map[solana.Pubkey]uint64{validatorA: 1})
	snap.Accounts = append(snap.Accounts, snapshot.Account{Pubkey: datagen.RandomPubkey(), Data: []byte{2, 0, 0, 0}})
	ts, _ := newServer(t, &countingSource{snap: snap}, time.Hour)

	assert.Equal(t, http.StatusBadGateway, httpGet(t, ts.URL+"/epochs/7/leaders", nil))
}

func TestSnapshotRefresh(t *testing.T) {
	source := &countingSource{snap: newSnapshot(6, map[solana.Pubkey]uint64{validatorA: 1})}
	_, e := newServer(t, source, 0)

	ls, err := e.leaderSchedule(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, validatorA, ls.GroupLeaders()[0])
	assert.True(t, e.schedules.Contains(scheduleKey{6, 7}))

	// same epoch keeps the cached schedules
	_, err = e.snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, e.schedules.Contains(scheduleKey{6, 7}))

	// a new epoch drops them
	source.snap = newSnapshot(7, map[solana.Pubkey]uint64{validatorB: 1})
	_, err = e.snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, e.schedules.Contains(scheduleKey{6, 7}))

	ls, err = e.leaderSchedule(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, validatorB, ls.GroupLeaders()[0])
}

type sequenceSource struct {
	snaps []*snapshot.Snapshot
	calls atomic.Int32
}

func (s *sequenceSource) Fetch(context.Context) (*snapshot.Snapshot, error) {
	i := int(s.calls.Add(1)) - 1
	return s.snaps[min(i, len(s.snaps)-1)], nil
}

func TestScheduleBuiltFromOneSnapshot(t *testing.T) {
	source := &sequenceSource{snaps: []*snapshot.Snapshot{
		newSnapshot(6, map[solana.Pubkey]uint64{validatorA: 1}),
		newSnapshot(7, map[solana.Pubkey]uint64{validatorB: 1}),
	}}
	_, e := newServer(t, source, 0)

	ls, err := e.leaderSchedule(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, validatorA, ls.GroupLeaders()[0])
	stale := ls

	ls, err = e.leaderSchedule(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, validatorB, ls.GroupLeaders()[0])

	// a build on the old snapshot finishing after the epoch change stays under its own key
	e.schedules.Add(scheduleKey{6, 7}, stale)

	ls, err = e.leaderSchedule(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, validatorB, ls.GroupLeaders()[0])
	assert.True(t, e.schedules.Contains(scheduleKey{7, 7}))
}

func TestNewInvalid(t *testing.T) {
	_, err := New(&countingSource{}, schedule.Config{SlotsInEpoch: 3, ConsecutiveSlots: 2}, 4, time.Second)
	assert.True(t, errors.Is(err, schedule.ErrInvalidConfig))

	_, err = New(&countingSource{}, schedule.DefaultConfig(), 0, time.Second)
	assert.Error(t, err)
}
