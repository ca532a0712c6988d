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

package config

import (
	"path/filepath"
	"testing"

	"github.com/seqlabs/ir-go-tools/analysis/ir"
	"github.com/seqlabs/ir-go-tools/analysis/mutability"
	"golang.org/x/exp/slices"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != int(DebugLevel) {
		t.Errorf("expected log level %d, got %d", DebugLevel, cfg.LogLevel)
	}
	if !cfg.NamingConvention {
		t.Errorf("naming-convention should be enabled")
	}
	if !slices.Contains(cfg.PureFunctions, "blend") {
		t.Errorf("pure-functions should contain blend, got %v", cfg.PureFunctions)
	}
	if cfg.PkgFilter != "example.com/app" {
		t.Errorf("unexpected pkg-filter %q", cfg.PkgFilter)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "nope.yaml")); err == nil {
		t.Errorf("loading a missing file must fail")
	}
}

func TestSeedOracle(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	oracle := mutability.NewOracle(cfg.OracleConfig(), nil)
	if err := cfg.SeedOracle(oracle); err != nil {
		t.Fatal(err)
	}
	res, err := oracle.UnmodifiedPositions("digest", []ir.ValueKind{ir.Number, ir.Ref})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res, []bool{true, false}) {
		t.Errorf("seeded answer should be served from the memo, got %v", res)
	}
	if oracle.Evaluations() != 0 {
		t.Errorf("seeded queries should not run the evaluators")
	}
}

func TestSeedOracleUnknownKind(t *testing.T) {
	cfg := NewDefault()
	cfg.MutabilitySeeds = []MutabilitySeed{{Callee: "f", Kinds: []string{"wibble"}, Unmodified: []bool{true}}}
	if err := cfg.SeedOracle(mutability.NewOracle(cfg.OracleConfig(), nil)); err == nil {
		t.Errorf("unknown kind name must fail")
	}
}
