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

// Package mutability answers, for a call site, which argument positions the callee is
// known not to mutate. The answers are heuristic: a wrong answer loses analysis
// precision but never changes the behavior of the analyzed program, because consumers
// only use liveness to justify optimizations, not to execute code.
package mutability

import (
	"fmt"
	"strings"

	"github.com/seqlabs/ir-go-tools/analysis/ir"
)

// DefaultMutationMarker is the identifier suffix that marks a mutating callee when the
// naming-convention mode is enabled.
const DefaultMutationMarker = "!"

// DefaultTupleConstructor is the callee identity recognized as tuple construction.
const DefaultTupleConstructor = "tuple"

// Config carries the oracle settings. It is immutable for the lifetime of the oracle;
// per-run mutable state lives in the memo table.
type Config struct {
	// NamingConvention enables the rule that a callee without the mutation marker
	// is assumed not to mutate any argument
	NamingConvention bool

	// MutationMarker is the identifier suffix of mutating callees; defaults to "!"
	MutationMarker string

	// TupleConstructor is the callee identity of tuple construction; defaults to "tuple"
	TupleConstructor string

	// Pure lists additional callees treated as well-known pure
	Pure []string
}

type memoEntry struct {
	kinds      []ir.ValueKind
	unmodified []bool
}

// A Memo is the oracle's memoization table. It grows monotonically during one analysis
// run. A Memo may be shared across the call sites of one run, or seeded and reused by
// the caller across runs; it is not safe for concurrent writers.
type Memo struct {
	entries map[string][]memoEntry
}

// NewMemo returns an empty memo table.
func NewMemo() *Memo {
	return &Memo{entries: map[string][]memoEntry{}}
}

func (m *Memo) lookup(callee string, kinds []ir.ValueKind) ([]bool, bool) {
	for _, e := range m.entries[callee] {
		if kindsEqual(e.kinds, kinds) {
			return e.unmodified, true
		}
	}
	return nil, false
}

func (m *Memo) insert(callee string, kinds []ir.ValueKind, unmodified []bool) {
	m.entries[callee] = append(m.entries[callee], memoEntry{
		kinds:      append([]ir.ValueKind{}, kinds...),
		unmodified: unmodified,
	})
}

func kindsEqual(a, b []ir.ValueKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// An Oracle resolves unmodified argument positions for call sites. All configuration is
// explicit; there is no ambient state, so independent analysis runs can use independent
// oracles in parallel.
type Oracle struct {
	cfg   Config
	pure  map[string]bool
	memo  *Memo
	evals int
}

// NewOracle returns an oracle using the given configuration and memo table. A nil memo
// gets a fresh table.
func NewOracle(cfg Config, memo *Memo) *Oracle {
	if cfg.MutationMarker == "" {
		cfg.MutationMarker = DefaultMutationMarker
	}
	if cfg.TupleConstructor == "" {
		cfg.TupleConstructor = DefaultTupleConstructor
	}
	if memo == nil {
		memo = NewMemo()
	}
	pure := make(map[string]bool, len(wellKnownPure)+len(cfg.Pure))
	for f := range wellKnownPure {
		pure[f] = true
	}
	for _, f := range cfg.Pure {
		pure[f] = true
	}
	return &Oracle{cfg: cfg, pure: pure, memo: memo}
}

// Evaluations returns how many times the heuristic evaluators ran, i.e. the number of
// memo misses. Cached answers do not increment the counter.
func (o *Oracle) Evaluations() int {
	return o.evals
}

// Seed records a precomputed answer in the memo table.
func (o *Oracle) Seed(callee string, kinds []ir.ValueKind, unmodified []bool) error {
	if len(kinds) != len(unmodified) {
		return fmt.Errorf("mutability: seed for %q has %d kinds but %d positions",
			callee, len(kinds), len(unmodified))
	}
	o.memo.insert(callee, kinds, append([]bool{}, unmodified...))
	return nil
}

// UnmodifiedPositions returns one boolean per argument position, true meaning the
// callee never mutates that position for this argument-kind signature. The cascade is:
// memo hit, super-kind memo hit, well-known pure callee, tuple construction, naming
// convention, then the conservative by-value default.
func (o *Oracle) UnmodifiedPositions(callee string, kinds []ir.ValueKind) ([]bool, error) {
	// Conservative default: by-value kinds cannot be mutated through the call
	def := make([]bool, len(kinds))
	for i, k := range kinds {
		def[i] = k.ByValue()
	}
	if len(kinds) == 0 {
		return def, nil
	}

	if cached, ok := o.memo.lookup(callee, kinds); ok {
		if len(cached) != len(kinds) {
			return nil, fmt.Errorf("mutability: memo for %q caches %d positions, call site has %d",
				callee, len(cached), len(kinds))
		}
		return cached, nil
	}

	// Same callee with a compatible signature: adopt the answer and widen the memo
	// to the exact key
	for _, e := range o.memo.entries[callee] {
		if matchesSuperKinds(kinds, e.kinds) {
			if len(e.unmodified) != len(kinds) {
				return nil, fmt.Errorf("mutability: memo for %q caches %d positions, call site has %d",
					callee, len(e.unmodified), len(kinds))
			}
			o.memo.insert(callee, kinds, e.unmodified)
			return e.unmodified, nil
		}
	}

	o.evals++
	res := def
	switch {
	case o.pure[callee]:
		res = allUnmodified(len(kinds))
	case callee == o.cfg.TupleConstructor:
		// construction never mutates its operands
		res = allUnmodified(len(kinds))
	case o.cfg.NamingConvention && !strings.HasSuffix(callee, o.cfg.MutationMarker):
		res = allUnmodified(len(kinds))
	}
	o.memo.insert(callee, kinds, res)
	return res, nil
}

// matchesSuperKinds returns true when cached is a super-type signature of kinds.
func matchesSuperKinds(kinds, cached []ir.ValueKind) bool {
	if len(kinds) != len(cached) {
		return false
	}
	for i := range kinds {
		if !ir.SubKindOf(kinds[i], cached[i]) {
			return false
		}
	}
	return true
}

func allUnmodified(n int) []bool {
	res := make([]bool, n)
	for i := range res {
		res[i] = true
	}
	return res
}
