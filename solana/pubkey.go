// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solana

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// PubkeyLength length of pubkey in bytes.
const PubkeyLength = 32

// Pubkey identity of an account or validator.
type Pubkey [PubkeyLength]byte

var (
	_ encoding.TextMarshaler   = Pubkey{}
	_ encoding.TextUnmarshaler = (*Pubkey)(nil)
)

// String implements the stringer interface, returns the base58 form.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// AbbrevString returns abbrev string presentation.
func (p Pubkey) AbbrevString() string {
	s := p.String()
	if len(s) <= 12 {
		return s
	}
	return fmt.Sprintf("%s…%s", s[:6], s[len(s)-4:])
}

// Bytes returns byte slice form of Pubkey.
func (p Pubkey) Bytes() []byte {
	return p[:]
}

// IsZero returns if Pubkey has all zero bytes.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// Compare orders pubkeys by their raw bytes.
func (p Pubkey) Compare(other Pubkey) int {
	return bytes.Compare(p[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePubkey convert base58 string presented pubkey into Pubkey type.
func ParsePubkey(s string) (Pubkey, error) {
	if s == "" {
		return Pubkey{}, errors.New("empty pubkey")
	}
	b, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("invalid pubkey %q: %w", s, err)
	}
	if len(b) != PubkeyLength {
		return Pubkey{}, fmt.Errorf("invalid pubkey %q: decoded length %d", s, len(b))
	}
	var p Pubkey
	copy(p[:], b)
	return p, nil
}

// MustParsePubkey convert string presented into Pubkey type, panic on error.
func MustParsePubkey(s string) Pubkey {
	p, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return p
}

// BytesToPubkey converts bytes slice into Pubkey.
// If b is larger than Pubkey length, b will be cropped (from the left).
// If b is smaller than Pubkey length, b will be extended (from the left).
func BytesToPubkey(b []byte) Pubkey {
	var p Pubkey
	if len(b) > PubkeyLength {
		b = b[len(b)-PubkeyLength:]
	}
	copy(p[PubkeyLength-len(b):], b)
	return p
}
