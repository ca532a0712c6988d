// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config implements the configuration of the liveness analysis tools.
// Configuration is loaded from a yaml file and passed explicitly to the analyses;
// there is no ambient configuration state.
package config

import (
	"fmt"
	"os"

	"github.com/seqlabs/ir-go-tools/analysis/ir"
	"github.com/seqlabs/ir-go-tools/analysis/mutability"
	"gopkg.in/yaml.v3"
)

// Config contains the settings of the liveness analysis and its front-end tools.
// If some field is not defined in the config file, it will be empty/zero in the struct.
type Config struct {
	// LogLevel controls the verbosity of the tools (see LogLevel constants)
	LogLevel int `yaml:"log-level"`

	// NamingConvention enables the mutability rule that callees without the
	// mutation marker do not mutate their arguments
	NamingConvention bool `yaml:"naming-convention"`

	// MutationMarker overrides the identifier suffix of mutating callees
	MutationMarker string `yaml:"mutation-marker"`

	// PureFunctions lists additional callees treated as well-known pure
	PureFunctions []string `yaml:"pure-functions"`

	// MutabilitySeeds lists precomputed oracle answers loaded into the memo table
	MutabilitySeeds []MutabilitySeed `yaml:"mutability-seeds"`

	// PkgFilter restricts which packages the front-end tools analyze
	PkgFilter string `yaml:"pkg-filter"`

	sourceFile string
}

// A MutabilitySeed is one precomputed oracle entry in the config file. Kinds uses the
// textual kind names (int, float, ref, ...).
type MutabilitySeed struct {
	Callee     string   `yaml:"callee"`
	Kinds      []string `yaml:"kinds"`
	Unmodified []bool   `yaml:"unmodified"`
}

// NewDefault returns a config with default values.
func NewDefault() *Config {
	return &Config{LogLevel: int(InfoLevel)}
}

// Load reads a config from a yaml file.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", filename, err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %w", filename, err)
	}
	cfg.sourceFile = filename
	return cfg, nil
}

// SourceFile returns the file the config was loaded from, or "" for a default config.
func (c *Config) SourceFile() string {
	return c.sourceFile
}

// OracleConfig returns the mutability oracle configuration described by the config.
func (c *Config) OracleConfig() mutability.Config {
	return mutability.Config{
		NamingConvention: c.NamingConvention,
		MutationMarker:   c.MutationMarker,
		Pure:             c.PureFunctions,
	}
}

var kindByName = map[string]ir.ValueKind{
	"bool":    ir.Bool,
	"int":     ir.Int,
	"float":   ir.Float,
	"string":  ir.String,
	"symbol":  ir.Symbol,
	"tuple":   ir.Tuple,
	"number":  ir.Number,
	"value":   ir.Value,
	"array":   ir.Array,
	"map":     ir.Map,
	"ref":     ir.Ref,
	"closure": ir.Closure,
	"any":     ir.Any,
}

// SeedOracle loads the config's mutability seeds into the oracle's memo table.
func (c *Config) SeedOracle(o *mutability.Oracle) error {
	for _, seed := range c.MutabilitySeeds {
		kinds := make([]ir.ValueKind, len(seed.Kinds))
		for i, name := range seed.Kinds {
			k, ok := kindByName[name]
			if !ok {
				return fmt.Errorf("unknown value kind %q in seed for %q", name, seed.Callee)
			}
			kinds[i] = k
		}
		if err := o.Seed(seed.Callee, kinds, seed.Unmodified); err != nil {
			return err
		}
	}
	return nil
}
