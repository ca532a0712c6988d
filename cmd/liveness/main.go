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

// liveness loads Go packages, bridges every function body to a control-flow graph and
// prints the per-block and per-statement liveness sets.
//
// Usage:
//
//	liveness [-config config.yaml] [-filter prefix] [-dot] package...
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/seqlabs/ir-go-tools/analysis/config"
	"github.com/seqlabs/ir-go-tools/analysis/liveness"
	"github.com/seqlabs/ir-go-tools/analysis/mutability"
	"github.com/seqlabs/ir-go-tools/analysis/render"
	"github.com/seqlabs/ir-go-tools/analysis/ssabridge"
	"github.com/seqlabs/ir-go-tools/internal/formatutil"
	"github.com/seqlabs/ir-go-tools/internal/graphutil"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

var (
	configPath = flag.String("config", "", "config file path")
	pkgFilter  = flag.String("filter", "", "only analyze functions whose package has this prefix (overrides config)")
	emitDot    = flag.Bool("dot", false, "print each function's control-flow graph in DOT format")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: liveness [flags] package...\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", formatutil.Red("error:"), err)
		os.Exit(1)
	}
}

func run(patterns []string) error {
	cfg := config.NewDefault()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *pkgFilter != "" {
		cfg.PkgFilter = *pkgFilter
	}
	logger := config.NewLogGroup(cfg)

	oracle := mutability.NewOracle(cfg.OracleConfig(), mutability.NewMemo())
	if err := cfg.SeedOracle(oracle); err != nil {
		return err
	}

	loadCfg := &packages.Config{Mode: packages.LoadAllSyntax}
	initial, err := packages.Load(loadCfg, patterns...)
	if err != nil {
		return fmt.Errorf("could not load packages: %w", err)
	}
	if packages.PrintErrors(initial) > 0 {
		return fmt.Errorf("errors while loading packages")
	}

	prog, _ := ssautil.AllPackages(initial, ssa.BuilderMode(0))
	prog.Build()

	funcs := make([]*ssa.Function, 0)
	for f := range ssautil.AllFunctions(prog) {
		if len(f.Blocks) == 0 {
			continue
		}
		if cfg.PkgFilter != "" {
			if f.Pkg == nil || !strings.HasPrefix(f.Pkg.Pkg.Path(), cfg.PkgFilter) {
				continue
			}
		}
		funcs = append(funcs, f)
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].String() < funcs[j].String() })
	logger.Infof("analyzing %d functions", len(funcs))

	for _, f := range funcs {
		if err := analyzeFunction(f, oracle, logger); err != nil {
			logger.Errorf("%s: %s", f.String(), err)
		}
	}
	return nil
}

func analyzeFunction(f *ssa.Function, oracle *mutability.Oracle, logger *config.LogGroup) error {
	g, refParams, err := ssabridge.FromFunction(f)
	if err != nil {
		return err
	}
	res, err := liveness.Compute(g, liveness.Options{
		Oracle:    oracle,
		RefParams: refParams,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	pkgPath := "?"
	if f.Pkg != nil {
		pkgPath = f.Pkg.Pkg.Path()
	}
	loops := len(graphutil.FindAllElementaryCycles(graphutil.NewBlockGraph(g)))
	fmt.Printf("%s (%s, %d blocks, %d loops)\n",
		formatutil.Bold(f.String()),
		formatutil.Faint(pkgPath),
		g.NumBlocks(), loops)
	fmt.Print(res.String())

	if *emitDot {
		b, err := render.ToDot(g, f.Name())
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	}
	return nil
}
