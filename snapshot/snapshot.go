// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package snapshot provides the stake program accounts a schedule is computed from.
package snapshot

import (
	"context"

	"github.com/pkg/errors"

	"github.com/stakewatch/leadersched/solana"
	"github.com/stakewatch/leadersched/stake"
)

// ErrInputUnavailable is wrapped by every failure to obtain a snapshot.
var ErrInputUnavailable = errors.New("input unavailable")

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return ErrInputUnavailable.Error() + ": " + e.cause.Error()
}

func (e *unavailableError) Unwrap() []error { return []error{ErrInputUnavailable, e.cause} }

// Unavailable marks err as a failure to obtain a snapshot. The result
// matches both ErrInputUnavailable and err.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return &unavailableError{err}
}

// Account is a raw account owned by the stake program.
type Account struct {
	Pubkey solana.Pubkey
	Data   []byte
}

// Snapshot is the set of stake accounts observed at an epoch.
type Snapshot struct {
	Epoch    uint64 // current epoch of the cluster when the accounts were read
	Accounts []Account
}

// Source fetches snapshots.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Delegations decodes every account, skipping those that do not delegate stake.
func (s *Snapshot) Delegations() ([]stake.Delegation, error) {
	delegations := make([]stake.Delegation, 0, len(s.Accounts))
	for _, acc := range s.Accounts {
		d, err := stake.DecodeAccount(acc.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "account %v", acc.Pubkey)
		}
		if d != nil {
			delegations = append(delegations, *d)
		}
	}
	return delegations, nil
}

// Stakes aggregates the stake active in epoch.
func (s *Snapshot) Stakes(epoch uint64) (stake.Stakes, error) {
	delegations, err := s.Delegations()
	if err != nil {
		return nil, err
	}
	return stake.Aggregate(delegations, epoch)
}

type staticSource struct {
	snap *Snapshot
}

// NewStaticSource returns a source always serving snap.
func NewStaticSource(snap *Snapshot) Source {
	return &staticSource{snap}
}

func (s *staticSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable(err)
	}
	return s.snap, nil
}
