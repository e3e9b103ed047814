// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solrpc reads stake snapshots from a cluster's JSON-RPC endpoint.
package solrpc

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/stakewatch/leadersched/log"
	"github.com/stakewatch/leadersched/metrics"
	"github.com/stakewatch/leadersched/snapshot"
	"github.com/stakewatch/leadersched/solana"
)

const (
	methodGetEpochInfo       = "getEpochInfo"
	methodGetProgramAccounts = "getProgramAccounts"

	commitmentFinalized = "finalized"
	encodingBase64      = "base64"
)

var (
	logger = log.WithContext("pkg", "solrpc")

	metricCallDuration = metrics.LazyLoadHistogramVec("solrpc_call_duration_ms", []string{"method", "status"}, metrics.BucketHTTPReqs)
)

// EpochInfo is the result of getEpochInfo.
type EpochInfo struct {
	AbsoluteSlot     uint64 `json:"absoluteSlot"`
	BlockHeight      uint64 `json:"blockHeight"`
	Epoch            uint64 `json:"epoch"`
	SlotIndex        uint64 `json:"slotIndex"`
	SlotsInEpoch     uint64 `json:"slotsInEpoch"`
	TransactionCount uint64 `json:"transactionCount"`
}

type commitmentConfig struct {
	Commitment string `json:"commitment"`
}

type programAccountsConfig struct {
	Commitment string `json:"commitment"`
	Encoding   string `json:"encoding"`
}

type keyedAccount struct {
	Pubkey  solana.Pubkey `json:"pubkey"`
	Account struct {
		Data     [2]string     `json:"data"` // [payload, encoding]
		Lamports uint64        `json:"lamports"`
		Owner    solana.Pubkey `json:"owner"`
	} `json:"account"`
}

// Client reads stake accounts over JSON-RPC 2.0.
type Client struct {
	url string
	rpc *rpc.Client
}

// Dial connects to url, an http(s) endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	return DialWithHTTP(ctx, url, http.DefaultClient)
}

// DialWithHTTP is Dial with a custom http client.
func DialWithHTTP(ctx context.Context, url string, c *http.Client) (*Client, error) {
	rc, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(c))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to dial %s", url)
	}
	return &Client{url: url, rpc: rc}, nil
}

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	start := time.Now()
	err := c.rpc.CallContext(ctx, result, method, args...)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{
		"method": method,
		"status": status,
	})
	logger.Trace("rpc call", "url", c.url, "method", method, "elapsed", time.Since(start), "err", err)
	return err
}

// EpochInfo returns the finalized epoch info of the cluster.
func (c *Client) EpochInfo(ctx context.Context) (*EpochInfo, error) {
	var info EpochInfo
	if err := c.call(ctx, &info, methodGetEpochInfo, commitmentConfig{commitmentFinalized}); err != nil {
		return nil, errors.Wrap(err, "unable to retrieve epoch info")
	}
	return &info, nil
}

// StakeAccounts returns all finalized accounts owned by the stake program.
func (c *Client) StakeAccounts(ctx context.Context) ([]snapshot.Account, error) {
	var keyed []keyedAccount
	if err := c.call(ctx, &keyed, methodGetProgramAccounts,
		solana.StakeProgramID.String(),
		programAccountsConfig{commitmentFinalized, encodingBase64},
	); err != nil {
		return nil, errors.Wrap(err, "unable to retrieve stake accounts")
	}

	accounts := make([]snapshot.Account, 0, len(keyed))
	for _, ka := range keyed {
		if enc := ka.Account.Data[1]; enc != encodingBase64 {
			return nil, errors.Errorf("account %v: unexpected data encoding %q", ka.Pubkey, enc)
		}
		data, err := base64.StdEncoding.DecodeString(ka.Account.Data[0])
		if err != nil {
			return nil, errors.Wrapf(err, "account %v: unable to decode data", ka.Pubkey)
		}
		accounts = append(accounts, snapshot.Account{Pubkey: ka.Pubkey, Data: data})
	}
	return accounts, nil
}

// Fetch reads the current epoch and the stake accounts concurrently.
func (c *Client) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	var (
		info     *EpochInfo
		accounts []snapshot.Account
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = c.EpochInfo(ctx)
		return
	})
	g.Go(func() (err error) {
		accounts, err = c.StakeAccounts(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, snapshot.Unavailable(err)
	}

	logger.Debug("fetched snapshot", "url", c.url, "epoch", info.Epoch, "accounts", len(accounts))
	return &snapshot.Snapshot{Epoch: info.Epoch, Accounts: accounts}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}
