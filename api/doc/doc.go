// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package doc embeds the OpenAPI description of the leader schedule API.
package doc

import (
	"embed"
	"sync"

	"gopkg.in/yaml.v3"
)

const specFile = "leadersched.yaml"

// FS serves the OpenAPI document under /doc.
//
//go:embed leadersched.yaml
var FS embed.FS

type info struct {
	Info struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
}

var loadInfo = sync.OnceValue(func() info {
	var i info
	content, err := FS.ReadFile(specFile)
	if err != nil {
		panic(err)
	}
	if err := yaml.Unmarshal(content, &i); err != nil {
		panic(err)
	}
	return i
})

// Version returns the API version declared in the document.
func Version() string {
	return loadInfo().Info.Version
}

// Title returns the API title declared in the document.
func Title() string {
	return loadInfo().Info.Title
}
