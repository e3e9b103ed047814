// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	n := 50
	var done atomic.Int32
	fn := func() {
		time.Sleep(time.Millisecond * 20)
		done.Add(1)
	}

	startTime := time.Now()
	<-Parallel(func(queue chan<- func()) {
		for range n {
			queue <- fn
		}
	})
	t.Log("parallel", time.Since(startTime))

	assert.Equal(t, int32(n), done.Load())
}

func TestParallelEmpty(t *testing.T) {
	select {
	case <-Parallel(func(chan<- func()) {}):
	case <-time.After(time.Second):
		t.Fatal("parallel never finished")
	}
}

func TestGoes(t *testing.T) {
	var (
		goes  Goes
		count atomic.Int32
	)
	for range 10 {
		goes.Go(func() { count.Add(1) })
	}
	<-goes.Done()
	assert.Equal(t, int32(10), count.Load())
	goes.Wait()
}
