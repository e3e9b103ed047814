// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakewatch/leadersched/api"
	"github.com/stakewatch/leadersched/co"
	"github.com/stakewatch/leadersched/log"
	"github.com/stakewatch/leadersched/schedule"
	"github.com/stakewatch/leadersched/snapshot"
	"github.com/stakewatch/leadersched/snapshot/solrpc"
	"github.com/stakewatch/leadersched/solana"
	"github.com/stakewatch/leadersched/stake"
)

// Flags of the default action are also accepted before a command name,
// e.g. "leadersched --snapshot f.json stakes". The command's own value wins.
func isSet(ctx *cli.Context, name string) bool {
	return ctx.IsSet(name) || ctx.GlobalIsSet(name)
}

func stringFlag(ctx *cli.Context, name string) string {
	if !ctx.IsSet(name) && ctx.GlobalIsSet(name) {
		return ctx.GlobalString(name)
	}
	return ctx.String(name)
}

func uint64Flag(ctx *cli.Context, name string) uint64 {
	if !ctx.IsSet(name) && ctx.GlobalIsSet(name) {
		return ctx.GlobalUint64(name)
	}
	return ctx.Uint64(name)
}

func boolFlag(ctx *cli.Context, name string) bool {
	return ctx.Bool(name) || ctx.GlobalBool(name)
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(int(uint64Flag(ctx, verbosityFlag.Name))))

	var handler slog.Handler
	if boolFlag(ctx, jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) &&
			os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return lvl
}

// handleExitSignal returns a context cancelled on the first interrupt or terminate signal.
func handleExitSignal() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(exitSignalCh)

		select {
		case sig := <-exitSignalCh:
			logger.Info("exit signal received", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func scheduleConfig(ctx *cli.Context) (schedule.Config, error) {
	config := schedule.Config{
		SlotsInEpoch:     uint64Flag(ctx, slotsInEpochFlag.Name),
		ConsecutiveSlots: uint64Flag(ctx, consecutiveSlotsFlag.Name),
	}
	if err := config.Validate(); err != nil {
		return schedule.Config{}, err
	}
	return config, nil
}

// openSource selects where stake accounts are read from, a snapshot file or the cluster.
func openSource(ctx context.Context, c *cli.Context) (snapshot.Source, func(), error) {
	if path := stringFlag(c, snapshotFlag.Name); path != "" {
		if isSet(c, "url") {
			return nil, nil, fmt.Errorf("flags --%s and --%s are mutually exclusive", "url", snapshotFlag.Name)
		}
		logger.Debug("reading stake accounts from file", "path", path)
		return snapshot.NewFileSource(path), func() {}, nil
	}

	url := solana.ClusterURL(stringFlag(c, "url"))
	client, err := solrpc.Dial(ctx, url)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "dial cluster [%v]", url)
	}
	logger.Debug("reading stake accounts from cluster", "url", url)
	return client, client.Close, nil
}

// targetEpoch is the epoch given on the command line, or the one after the snapshot's.
func targetEpoch(ctx *cli.Context, snap *snapshot.Snapshot) uint64 {
	if isSet(ctx, epochFlag.Name) {
		return uint64Flag(ctx, epochFlag.Name)
	}
	return snap.Epoch + 1
}

func buildSchedule(snap *snapshot.Snapshot, epoch uint64, config schedule.Config) (*schedule.LeaderSchedule, error) {
	stakes, err := snap.Stakes(schedule.StakeEpoch(epoch))
	if err != nil {
		return nil, err
	}
	return schedule.New(stakes, epoch, config)
}

func printSchedule(w io.Writer, ls *schedule.LeaderSchedule) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "The leader schedule for %d will be:\n", ls.Epoch())
	for _, leader := range ls.SlotLeaders() {
		bw.WriteString(leader.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func printStakes(w io.Writer, epoch uint64, stakes stake.Stakes) error {
	bw := bufio.NewWriter(w)
	total, _ := stakes.Total()
	fmt.Fprintf(bw, "Stakes effective at epoch %d (%d validators, %d lamports):\n", epoch, len(stakes), total)
	for _, e := range schedule.Canonical(stakes) {
		fmt.Fprintf(bw, "%v %d\n", e.Validator, e.Stake)
	}
	return bw.Flush()
}

type slotTotal struct {
	validator solana.Pubkey
	slots     uint64
}

// sortTotals orders by slots descending, ties by validator descending.
func sortTotals(totals map[solana.Pubkey]uint64) []slotTotal {
	list := make([]slotTotal, 0, len(totals))
	for v, n := range totals {
		list = append(list, slotTotal{v, n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].slots != list[j].slots {
			return list[i].slots > list[j].slots
		}
		return list[i].validator.Compare(list[j].validator) > 0
	})
	return list
}

// maxRangeEpochs bounds the epochs scheduled by one range command.
const maxRangeEpochs = 1024

func checkRange(first, count uint64) error {
	if count == 0 || count > maxRangeEpochs {
		return errors.Errorf("count must be in [1, %d]", maxRangeEpochs)
	}
	if first > math.MaxUint64-(count-1) {
		return errors.Errorf("epochs from %d overflow with count %d", first, count)
	}
	return nil
}

// buildRange schedules count epochs starting at first, in parallel.
// onDone is called once per finished epoch, possibly concurrently.
func buildRange(
	snap *snapshot.Snapshot,
	first, count uint64,
	config schedule.Config,
	onDone func(),
) ([]*schedule.LeaderSchedule, error) {
	if err := checkRange(first, count); err != nil {
		return nil, err
	}
	schedules := make([]*schedule.LeaderSchedule, count)
	errs := make([]error, count)

	<-co.Parallel(func(queue chan<- func()) {
		for i := range count {
			queue <- func() {
				schedules[i], errs[i] = buildSchedule(snap, first+i, config)
				onDone()
			}
		}
	})

	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "epoch %d", first+uint64(i))
		}
	}
	return schedules, nil
}

func apiOptions(ctx *cli.Context, config schedule.Config, logLevel *slog.LevelVar) api.Options {
	reqLogger := &atomic.Bool{}
	reqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))

	opts := api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		Config:          config,
		CacheSize:       ctx.Int(apiCacheFlag.Name),
		SnapshotTTL:     ctx.Duration(apiSnapshotTTLFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger: reqLogger,
	}
	if ctx.Bool(enableAdminFlag.Name) {
		opts.LogLevel = logLevel
	}
	return opts
}

func startAPIServer(addr string, source snapshot.Source, opts api.Options) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	handler, err := api.New(source, opts)
	if err != nil {
		listener.Close()
		return "", nil, err
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
