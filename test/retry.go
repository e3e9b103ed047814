// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package test holds helpers shared by tests that talk to live servers.
package test

import (
	"fmt"
	"time"
)

// Retry calls fn every period until it succeeds or timeout elapses,
// in which case the last error is returned.
func Retry(fn func() error, period, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}
		time.Sleep(period)
	}
}
