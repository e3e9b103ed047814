// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakewatch/leadersched/solana"
)

const snappyExt = ".sz"

type fileAccount struct {
	Pubkey solana.Pubkey `json:"pubkey" yaml:"pubkey"`
	Data   string        `json:"data" yaml:"data"` // base64
}

type fileSnapshot struct {
	Epoch    uint64        `json:"epoch" yaml:"epoch"`
	Accounts []fileAccount `json:"accounts" yaml:"accounts"`
}

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var codecs = map[string]codec{
	".json": {
		func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		json.Unmarshal,
	},
	".yaml": {yaml.Marshal, yaml.Unmarshal},
	".yml":  {yaml.Marshal, yaml.Unmarshal},
}

// format resolves the codec of path and whether it is snappy compressed,
// e.g. "stakes.json.sz".
func format(path string) (codec, bool, error) {
	compressed := strings.EqualFold(filepath.Ext(path), snappyExt)
	if compressed {
		path = path[:len(path)-len(snappyExt)]
	}
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return codec{}, false, errors.Errorf("unsupported snapshot format %q", ext)
	}
	return c, compressed, nil
}

// Load reads the snapshot file at path.
func Load(path string) (*Snapshot, error) {
	c, compressed, err := format(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		r = snappy.NewReader(f)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	var fs fileSnapshot
	if err := c.unmarshal(content, &fs); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	snap := &Snapshot{
		Epoch:    fs.Epoch,
		Accounts: make([]Account, 0, len(fs.Accounts)),
	}
	for _, acc := range fs.Accounts {
		data, err := base64.StdEncoding.DecodeString(acc.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s: account %v", path, acc.Pubkey)
		}
		snap.Accounts = append(snap.Accounts, Account{acc.Pubkey, data})
	}
	return snap, nil
}

// Save writes snap to path, the format is chosen by the file extension.
func Save(path string, snap *Snapshot) (err error) {
	c, compressed, err := format(path)
	if err != nil {
		return err
	}

	fs := fileSnapshot{
		Epoch:    snap.Epoch,
		Accounts: make([]fileAccount, 0, len(snap.Accounts)),
	}
	for _, acc := range snap.Accounts {
		fs.Accounts = append(fs.Accounts, fileAccount{acc.Pubkey, base64.StdEncoding.EncodeToString(acc.Data)})
	}
	content, err := c.marshal(&fs)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !compressed {
		_, err = f.Write(content)
		return err
	}
	w := snappy.NewBufferedWriter(f)
	if _, err := w.Write(content); err != nil {
		return err
	}
	return w.Close()
}

type fileSource struct {
	path string
}

// NewFileSource returns a source reading the snapshot file at path on every fetch.
func NewFileSource(path string) Source {
	return &fileSource{path}
}

func (s *fileSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable(err)
	}
	snap, err := Load(s.path)
	if err != nil {
		return nil, Unavailable(err)
	}
	return snap, nil
}
