// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kraklabs/codescope/internal/config"
	"github.com/kraklabs/codescope/internal/embedding"
	"github.com/kraklabs/codescope/internal/store"
)

// project bundles the loaded config, the repository root, and an open
// store, the common dependency set every subcommand but init needs.
type project struct {
	cfg  *config.Config
	root string
	st   *store.Store
}

// openProject loads the config (explicit path, or discovered from cwd),
// opens the store beside it, and returns both.
func openProject(configPath string) (*project, error) {
	if configPath == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, err := config.Find(dir)
		if err != nil {
			return nil, fmt.Errorf("%w (run 'codescope init' first)", err)
		}
		configPath = found
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	root := filepath.Dir(filepath.Dir(configPath)) // .codescope/project.yaml -> repo root
	storePath := cfg.Store.Path
	if !filepath.IsAbs(storePath) {
		storePath = filepath.Join(root, storePath)
	}

	st, err := store.Open(storePath, nil)
	if err != nil {
		return nil, err
	}

	return &project{cfg: cfg, root: root, st: st}, nil
}

func (p *project) close() { _ = p.st.Close() }

// embeddingProvider builds the Provider named in the project config (spec
// SPEC_FULL §A.3/§C: "mock" or "ollama").
func (p *project) embeddingProvider() (embedding.Provider, error) {
	switch p.cfg.Embedding.Provider {
	case "", "mock":
		return embedding.NewMockProvider(), nil
	case "ollama":
		return embedding.NewOllamaProvider(p.cfg.Embedding.BaseURL, p.cfg.Embedding.Model, p.cfg.Embedding.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", p.cfg.Embedding.Provider)
	}
}
