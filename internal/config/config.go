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

// Package config defines the project configuration file
// .codescope/project.yaml, in the shape of vjache-cie's cmd/cie/config.go
// (Config/EmbeddingConfig/IndexingConfig), trimmed to a single-repo local
// tool: the enterprise-distributed CIEConfig (PrimaryHub/EdgeCache) and
// the narrative-generation LLMConfig/RolesConfig have no home in codescope
// and are dropped rather than carried as dead fields — see DESIGN.md.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/codescope/internal/cserr"
)

const configVersion = "1"

const (
	defaultConfigDir  = ".codescope"
	defaultConfigFile = "project.yaml"
)

// Config is the on-disk shape of .codescope/project.yaml.
type Config struct {
	Version   string          `yaml:"version"`
	Project   string          `yaml:"project"`
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	Indexing  IndexingConfig  `yaml:"indexing"`
}

// StoreConfig locates the persistent SQLite graph store (C2).
type StoreConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingConfig selects and parameterizes the embedding provider (C4).
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // "mock" or "ollama"
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// ChunkerConfig holds the document chunker settings (§4.3) written to the
// project file. The indexer does not read them: it chunks with the
// adapter package defaults (DefaultChunkSize, DefaultOverlap).
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// ResolverConfig parameterizes the stage-B semantic linker (§4.6.2).
type ResolverConfig struct {
	Threshold float64 `yaml:"threshold"`
	BatchSize int     `yaml:"batch_size"`
	TopK      int     `yaml:"top_k"`
}

// IndexingConfig parameterizes the file-walk pipeline (C5), layering the
// project's own exclude globs on top of the binary skip list of §4.3.
type IndexingConfig struct {
	BatchTarget int      `yaml:"batch_target"`
	MaxFileSize int64    `yaml:"max_file_size"`
	Exclude     []string `yaml:"exclude"`
}

// DefaultConfig returns the configuration written by `codescope init`,
// grounded on vjache-cie's DefaultConfig — the mock provider is preferred
// over the teacher's ollama-by-default so a fresh project is immediately
// exercisable without a running model server.
func DefaultConfig(project string) *Config {
	return &Config{
		Version: configVersion,
		Project: project,
		Store: StoreConfig{
			Path: filepath.Join(defaultConfigDir, "graph.db"),
		},
		Embedding: EmbeddingConfig{
			Provider:   getEnv("CODESCOPE_EMBEDDING_PROVIDER", "mock"),
			BaseURL:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
			Model:      getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
			Dimensions: 384,
		},
		Chunker: ChunkerConfig{
			ChunkSize: 1000,
			Overlap:   100,
		},
		Resolver: ResolverConfig{
			Threshold: 0.6,
			BatchSize: 32,
			TopK:      5,
		},
		Indexing: IndexingConfig{
			BatchTarget: 500,
			MaxFileSize: 1048576,
			Exclude: []string{
				".git/**",
				".codescope/**",
				"node_modules/**",
				"vendor/**",
				"dist/**",
				"build/**",
				"*.lock",
			},
		},
	}
}

// ConfigPath returns the path to the config file under dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, defaultConfigDir, defaultConfigFile)
}

// ConfigDir returns the path to the .codescope directory under dir.
func ConfigDir(dir string) string {
	return filepath.Join(dir, defaultConfigDir)
}

// Load reads and parses the config at path, applying environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from CLI-resolved project discovery
	if err != nil {
		return nil, cserr.New(cserr.IO, "config.Load: read", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cserr.New(cserr.Parse, "config.Load: unmarshal", err)
	}
	if cfg.Version != configVersion {
		return nil, cserr.New(cserr.Parse, "config.Load", fmt.Errorf("unsupported config version %q (expected %q)", cfg.Version, configVersion))
	}

	cfg.applyEnvOverrides()
	return &cfg, nil
}

// Save marshals cfg to YAML and writes it to path, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return cserr.New(cserr.IO, "config.Save: marshal", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return cserr.New(cserr.IO, "config.Save: mkdir", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return cserr.New(cserr.IO, "config.Save: write", err)
	}
	return nil
}

// Find searches the current directory and its ancestors for
// .codescope/project.yaml, mirroring vjache-cie's findConfigFile walk.
func Find(startDir string) (string, error) {
	dir := startDir
	for {
		path := ConfigPath(dir)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", cserr.New(cserr.IO, "config.Find", fmt.Errorf("no %s/%s found in %s or any parent directory", defaultConfigDir, defaultConfigFile, startDir))
}

// applyEnvOverrides lets CODESCOPE_EMBEDDING_PROVIDER, OLLAMA_HOST and
// OLLAMA_EMBED_MODEL override the file-based embedding configuration,
// matching vjache-cie's override model.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CODESCOPE_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_EMBED_MODEL"); v != "" {
		c.Embedding.Model = v
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
