// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shuffle

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

const blockSize = 64

// Rand is a deterministic generator over the ChaCha20 keystream (RFC 8439),
// keyed by a 32-byte seed with an all-zero nonce and the block counter starting at 0.
// Every output consumes the next 8 keystream bytes as a little-endian integer.
type Rand struct {
	cipher *chacha20.Cipher
	block  [blockSize]byte
	pos    int
}

// NewRand creates the generator for seed.
func NewRand(seed [32]byte) *Rand {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// key and nonce sizes are fixed
		panic(err)
	}
	return &Rand{cipher: c, pos: blockSize}
}

// Uint64 returns the next 64 bits of the keystream.
func (r *Rand) Uint64() uint64 {
	if r.pos == blockSize {
		clear(r.block[:])
		r.cipher.XORKeyStream(r.block[:], r.block[:])
		r.pos = 0
	}
	v := binary.LittleEndian.Uint64(r.block[r.pos:])
	r.pos += 8
	return v
}

// Uint64n returns an unbiased value in [0, n).
// panic if n == 0
func (r *Rand) Uint64n(n uint64) uint64 {
	if n == 0 {
		panic("n must > 0")
	}
	// 2^64 mod n, values below it would over represent the low residues
	threshold := -n % n
	for {
		if x := r.Uint64(); x >= threshold {
			return x % n
		}
	}
}

// Intn returns an unbiased int in [0, n).
// panic if n <= 0
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("n must > 0")
	}
	return int(r.Uint64n(uint64(n)))
}
