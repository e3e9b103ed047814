// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	pb "gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakewatch/leadersched/log"
	"github.com/stakewatch/leadersched/metrics"
	"github.com/stakewatch/leadersched/schedule"
	"github.com/stakewatch/leadersched/snapshot"
	"github.com/stakewatch/leadersched/solana"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "leadersched")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "leadersched"
	app.Usage = "Leader schedule calculator for stake weighted clusters"
	app.Copyright = "2026 The VeChainThor developers"
	app.Flags = scheduleFlags
	app.Action = scheduleAction
	app.Commands = []cli.Command{
		{
			Name:   "schedule",
			Usage:  "print the leader of every slot in an epoch",
			Flags:  scheduleFlags,
			Action: scheduleAction,
		},
		{
			Name:   "stakes",
			Usage:  "print the stake of every validator used to schedule an epoch",
			Flags:  append([]cli.Flag{epochFlag}, sourceFlags...),
			Action: stakesAction,
		},
		{
			Name:   "dump",
			Usage:  "save the stake accounts of the cluster into a snapshot file",
			Flags:  append([]cli.Flag{outFlag}, sourceFlags...),
			Action: dumpAction,
		},
		{
			Name:   "range",
			Usage:  "schedule consecutive epochs and print the total slots of every validator",
			Flags:  append([]cli.Flag{countFlag, progressFlag}, scheduleFlags...),
			Action: rangeAction,
		},
		{
			Name:  "serve",
			Usage: "serve leader schedules over a JSON API",
			Flags: append([]cli.Flag{
				slotsInEpochFlag,
				consecutiveSlotsFlag,
				apiAddrFlag,
				apiCorsFlag,
				apiCacheFlag,
				apiSnapshotTTLFlag,
				enableAPILogsFlag,
				enableAdminFlag,
				enableMetricsFlag,
				metricsAddrFlag,
			}, sourceFlags...),
			Action: serveAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func scheduleAction(ctx *cli.Context) error {
	initLogger(ctx)
	config, err := scheduleConfig(ctx)
	if err != nil {
		return err
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	source, closeSource, err := openSource(exitCtx, ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	snap, err := source.Fetch(exitCtx)
	if err != nil {
		return err
	}
	epoch := targetEpoch(ctx, snap)
	logger.Debug("building leader schedule", "epoch", epoch, "accounts", len(snap.Accounts))

	ls, err := buildSchedule(snap, epoch, config)
	if err != nil {
		return errors.Wrapf(err, "schedule epoch %d", epoch)
	}
	return printSchedule(ctx.App.Writer, ls)
}

func stakesAction(ctx *cli.Context) error {
	initLogger(ctx)

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	source, closeSource, err := openSource(exitCtx, ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	snap, err := source.Fetch(exitCtx)
	if err != nil {
		return err
	}
	stakeEpoch := schedule.StakeEpoch(targetEpoch(ctx, snap))
	stakes, err := snap.Stakes(stakeEpoch)
	if err != nil {
		return err
	}
	return printStakes(ctx.App.Writer, stakeEpoch, stakes)
}

func dumpAction(ctx *cli.Context) error {
	initLogger(ctx)
	out := ctx.String("out")
	if out == "" {
		return errors.New("missing output file, use --out to specify")
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	source, closeSource, err := openSource(exitCtx, ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	snap, err := source.Fetch(exitCtx)
	if err != nil {
		return err
	}
	if err := snapshot.Save(out, snap); err != nil {
		return err
	}
	logger.Info("snapshot saved", "path", out, "epoch", snap.Epoch, "accounts", len(snap.Accounts))
	return nil
}

func rangeAction(ctx *cli.Context) error {
	initLogger(ctx)
	config, err := scheduleConfig(ctx)
	if err != nil {
		return err
	}
	count := ctx.Uint64(countFlag.Name)
	if err := checkRange(0, count); err != nil {
		return err
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	source, closeSource, err := openSource(exitCtx, ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	snap, err := source.Fetch(exitCtx)
	if err != nil {
		return err
	}
	first := targetEpoch(ctx, snap)

	bar := pb.New64(int64(count)).SetMaxWidth(90)
	bar.Output = os.Stderr
	bar.NotPrint = !ctx.Bool(progressFlag.Name)
	bar.Start()
	schedules, err := buildRange(snap, first, count, config, func() { bar.Increment() })
	bar.Finish()
	if err != nil {
		return err
	}

	totals := make(map[solana.Pubkey]uint64)
	for _, ls := range schedules {
		for v, n := range ls.SlotCounts() {
			totals[v] += n
		}
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "Slots per validator for epochs %d to %d:\n", first, first+count-1)
	for _, t := range sortTotals(totals) {
		fmt.Fprintf(w, "%v %d\n", t.validator, t.slots)
	}
	return nil
}

func serveAction(ctx *cli.Context) error {
	logLevel := initLogger(ctx)
	config, err := scheduleConfig(ctx)
	if err != nil {
		return err
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", url)
	}

	source, closeSource, err := openSource(exitCtx, ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	url, closeFunc, err := startAPIServer(ctx.String(apiAddrFlag.Name), source, apiOptions(ctx, config, logLevel))
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); closeFunc() }()
	logger.Info("API server started", "url", url)

	<-exitCtx.Done()
	return nil
}
