// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epochs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/stakewatch/leadersched/api/utils"
	"github.com/stakewatch/leadersched/cache"
	"github.com/stakewatch/leadersched/log"
	"github.com/stakewatch/leadersched/schedule"
	"github.com/stakewatch/leadersched/snapshot"
	"github.com/stakewatch/leadersched/solana"
	"github.com/stakewatch/leadersched/stake"
)

var logger = log.WithContext("pkg", "epochs")

// scheduleKey identifies a schedule by the snapshot epoch it was built from
// and the epoch it schedules.
type scheduleKey struct {
	current uint64
	target  uint64
}

type Epochs struct {
	source    snapshot.Source
	config    schedule.Config
	ttl       time.Duration
	schedules *cache.LRU[scheduleKey, *schedule.LeaderSchedule]

	mu        sync.Mutex
	snap      *snapshot.Snapshot
	fetchedAt time.Time
}

// New creates the epochs API. The snapshot of source is reused for ttl,
// up to cacheSize schedules are kept.
func New(source snapshot.Source, config schedule.Config, cacheSize int, ttl time.Duration) (*Epochs, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	schedules, err := cache.NewLRU[scheduleKey, *schedule.LeaderSchedule]("schedules", cacheSize)
	if err != nil {
		return nil, err
	}
	return &Epochs{
		source:    source,
		config:    config,
		ttl:       ttl,
		schedules: schedules,
	}, nil
}

// snapshot returns the cached snapshot, fetching a new one once expired.
// Schedules are dropped when the cluster moved to another epoch.
func (e *Epochs) snapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap != nil && time.Since(e.fetchedAt) < e.ttl {
		return e.snap, nil
	}
	snap, err := e.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if e.snap != nil && e.snap.Epoch != snap.Epoch {
		logger.Debug("epoch changed, purge schedules", "from", e.snap.Epoch, "to", snap.Epoch)
		e.schedules.Purge()
	}
	e.snap, e.fetchedAt = snap, time.Now()
	return snap, nil
}

// stakes returns the stake table backing the schedule of epoch.
func (e *Epochs) stakes(ctx context.Context, epoch uint64) (stake.Stakes, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Stakes(schedule.StakeEpoch(epoch))
}

func (e *Epochs) leaderSchedule(ctx context.Context, epoch uint64) (*schedule.LeaderSchedule, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return e.schedules.GetOrLoad(scheduleKey{snap.Epoch, epoch}, func(key scheduleKey) (*schedule.LeaderSchedule, error) {
		stakes, err := snap.Stakes(schedule.StakeEpoch(key.target))
		if err != nil {
			return nil, err
		}
		return schedule.New(stakes, key.target, e.config)
	})
}

// convertError maps domain errors to http errors.
func convertError(err error) error {
	switch {
	case errors.Is(err, snapshot.ErrInputUnavailable):
		return utils.HTTPError(err, http.StatusServiceUnavailable)
	case errors.Is(err, schedule.ErrEmptyStakeSet):
		return utils.HTTPError(err, http.StatusUnprocessableEntity)
	case errors.Is(err, stake.ErrMalformedRecord), errors.Is(err, stake.ErrStakeOverflow):
		return utils.HTTPError(err, http.StatusBadGateway)
	default:
		return err
	}
}

func (e *Epochs) handleGetCurrent(w http.ResponseWriter, req *http.Request) error {
	snap, err := e.snapshot(req.Context())
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &CurrentEpoch{Epoch: snap.Epoch, Accounts: len(snap.Accounts)})
}

func (e *Epochs) handleGetLeaders(w http.ResponseWriter, req *http.Request) error {
	epoch, err := utils.Uint64Var(req, "epoch")
	if err != nil {
		return err
	}
	ls, err := e.leaderSchedule(req.Context(), epoch)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, convertSchedule(ls))
}

func (e *Epochs) handleGetSlotLeader(w http.ResponseWriter, req *http.Request) error {
	epoch, err := utils.Uint64Var(req, "epoch")
	if err != nil {
		return err
	}
	slot, err := utils.Uint64Var(req, "slot")
	if err != nil {
		return err
	}
	ls, err := e.leaderSchedule(req.Context(), epoch)
	if err != nil {
		return convertError(err)
	}
	leader, ok := ls.Leader(slot)
	if !ok {
		return utils.NotFound(fmt.Errorf("slot %d out of range [0, %d)", slot, ls.Len()))
	}
	return utils.WriteJSON(w, &SlotLeader{Epoch: epoch, Slot: slot, Leader: leader})
}

func (e *Epochs) handleGetValidatorSlots(w http.ResponseWriter, req *http.Request) error {
	epoch, err := utils.Uint64Var(req, "epoch")
	if err != nil {
		return err
	}
	validator, err := solana.ParsePubkey(mux.Vars(req)["validator"])
	if err != nil {
		return utils.BadRequest(fmt.Errorf("validator: %w", err))
	}
	ls, err := e.leaderSchedule(req.Context(), epoch)
	if err != nil {
		return convertError(err)
	}
	slots := ls.SlotsOf(validator)
	if slots == nil {
		slots = []uint64{}
	}
	return utils.WriteJSON(w, &ValidatorSlots{Epoch: epoch, Validator: validator, Slots: slots})
}

func (e *Epochs) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	epoch, err := utils.Uint64Var(req, "epoch")
	if err != nil {
		return err
	}
	stakes, err := e.stakes(req.Context(), epoch)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, schedule.Canonical(stakes))
}

func (e *Epochs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/current").
		Methods(http.MethodGet).
		Name("epochs_get_current").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetCurrent))
	sub.Path("/{epoch}/leaders").
		Methods(http.MethodGet).
		Name("epochs_get_leaders").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetLeaders))
	sub.Path("/{epoch}/leaders/{slot}").
		Methods(http.MethodGet).
		Name("epochs_get_slot_leader").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetSlotLeader))
	sub.Path("/{epoch}/validators/{validator}/slots").
		Methods(http.MethodGet).
		Name("epochs_get_validator_slots").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetValidatorSlots))
	sub.Path("/{epoch}/stakes").
		Methods(http.MethodGet).
		Name("epochs_get_stakes").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetStakes))
}
