// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"runtime"
)

// Parallel to run a batch of work using as many CPU as it can.
// cb enqueues the works and returns, the returned channel is closed
// once every enqueued work is done.
func Parallel(cb func(queue chan<- func())) <-chan struct{} {
	numWorkers := runtime.NumCPU()
	queue := make(chan func(), numWorkers*2)

	var goes Goes
	for range numWorkers {
		goes.Go(func() {
			for work := range queue {
				work()
			}
		})
	}

	cb(queue)
	close(queue)
	return goes.Done()
}
