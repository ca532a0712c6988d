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

package liveness_test

import (
	"errors"
	"testing"

	"github.com/seqlabs/ir-go-tools/analysis/cfg"
	"github.com/seqlabs/ir-go-tools/analysis/ir"
	"github.com/seqlabs/ir-go-tools/analysis/liveness"
)

func v(id ir.VarID) *ir.Var { return &ir.Var{ID: id} }

func checkSet(t *testing.T, what string, got liveness.VarSet, want ...ir.VarID) {
	t.Helper()
	if !got.Equal(liveness.NewVarSet(want...)) {
		t.Errorf("%s: expected %v, got %v", what, want, got.Sorted())
	}
}

// twoBlockGraph builds
//
//	block A: x := read_input(); y := x + 1
//	block B: return y
func twoBlockGraph(t *testing.T) (*cfg.Graph, cfg.BlockID, cfg.BlockID) {
	t.Helper()
	g := cfg.NewGraph()
	a := g.AddBlock(
		cfg.Stmt{Index: 0, Node: &ir.Assign{
			LHS: v("x"),
			RHS: &ir.Call{Callee: "read_input"},
		}},
		cfg.Stmt{Index: 1, Node: &ir.Assign{
			LHS: v("y"),
			RHS: &ir.Call{Callee: "+", Args: []ir.Node{v("x"), &ir.Literal{Value: 1}}},
		}},
	)
	b := g.AddBlock(
		cfg.Stmt{Index: 2, Node: &ir.Return{Results: []ir.Node{v("y")}}},
	)
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.SetExit(b); err != nil {
		t.Fatal(err)
	}
	return g, a, b
}

func TestComputeTwoBlockScenario(t *testing.T) {
	g, a, b := twoBlockGraph(t)
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}

	blockA, err := res.Block(a)
	if err != nil {
		t.Fatal(err)
	}
	blockB, err := res.Block(b)
	if err != nil {
		t.Fatal(err)
	}

	checkSet(t, "def(A)", blockA.Def, "x", "y")
	checkSet(t, "use(A)", blockA.Use)
	checkSet(t, "live-out(A)", blockA.LiveOut, "y")
	checkSet(t, "live-in(A)", blockA.LiveIn)
	checkSet(t, "def(B)", blockB.Def)
	checkSet(t, "use(B)", blockB.Use, "y")
	checkSet(t, "live-out(B)", blockB.LiveOut)
}

func TestComputeStatementChaining(t *testing.T) {
	g, a, _ := twoBlockGraph(t)
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	blockA, _ := res.Block(a)
	for i, s := range blockA.Stmts {
		if i+1 < len(blockA.Stmts) {
			if !s.LiveOut.Equal(blockA.Stmts[i+1].LiveIn) {
				t.Errorf("live-out(stmt %d) should equal live-in(stmt %d)", i, i+1)
			}
		} else if !s.LiveOut.Equal(blockA.LiveOut) {
			t.Errorf("live-out of the last statement should equal the block's live-out")
		}
	}
	checkSet(t, "live-out(stmt 0)", blockA.Stmts[0].LiveOut, "x")
	checkSet(t, "live-in(stmt 1)", blockA.Stmts[1].LiveIn, "x")
}

func TestComputeDataflowEquation(t *testing.T) {
	g, _, _ := twoBlockGraph(t)
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	res.Recompute()
	for _, b := range res.Blocks() {
		want := b.Use.Copy()
		for _, x := range b.LiveOut.Sorted() {
			if !b.Def.Has(x) {
				want.Add(x)
			}
		}
		if !b.LiveIn.Equal(want) {
			t.Errorf("block %d: live-in %v, expected use ∪ (live-out − def) = %v",
				b.ID(), b.LiveIn.Sorted(), want.Sorted())
		}
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	g, a, b := twoBlockGraph(t)
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	blockA, _ := res.Block(a)
	blockB, _ := res.Block(b)
	inA, outA := blockA.LiveIn.Copy(), blockA.LiveOut.Copy()
	inB, outB := blockB.LiveIn.Copy(), blockB.LiveOut.Copy()

	res.Recompute()
	if !blockA.LiveIn.Equal(inA) || !blockA.LiveOut.Equal(outA) ||
		!blockB.LiveIn.Equal(inB) || !blockB.LiveOut.Equal(outB) {
		t.Errorf("recomputing without def/use changes must reach the same fixed point")
	}
}

func TestRecomputeAfterUseEdit(t *testing.T) {
	g, a, b := twoBlockGraph(t)
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	blockA, _ := res.Block(a)
	blockB, _ := res.Block(b)

	// a rewriting collaborator made block B read z as well
	blockB.Use.Add("z")
	blockB.Stmts[0].Use.Add("z")
	res.Recompute()

	checkSet(t, "live-out(A) after edit", blockA.LiveOut, "y", "z")
	checkSet(t, "live-in(A) after edit", blockA.LiveIn, "z")
}

func TestExitBlockLiveOutIsRefParams(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock(
		cfg.Stmt{Index: 0, Node: &ir.Entry{Params: []ir.VarID{"p", "r"}, RefParams: []ir.VarID{"r"}}},
		cfg.Stmt{Index: 1, Node: &ir.Assign{LHS: v("p"), RHS: &ir.Literal{Value: 3}}},
	)
	b1 := g.AddBlock(
		cfg.Stmt{Index: 2, Node: &ir.Return{Results: []ir.Node{v("p")}}},
	)
	if err := g.AddEdge(b0, b1); err != nil {
		t.Fatal(err)
	}
	if err := g.SetExit(b1); err != nil {
		t.Fatal(err)
	}
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	checkSet(t, "ref params", res.RefParams(), "r")
	exit, _ := res.Block(b1)
	checkSet(t, "live-out(exit)", exit.LiveOut, "r")
	// r flows backwards even though no statement reads it
	entry, _ := res.Block(b0)
	checkSet(t, "live-in(entry)", entry.LiveIn, "r")
}

func TestComputeLoop(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock(
		cfg.Stmt{Index: 0, Node: &ir.Assign{LHS: v("i"), RHS: &ir.Literal{Value: 0}}},
	)
	b1 := g.AddBlock(
		cfg.Stmt{Index: 1, Node: &ir.Branch{Cond: &ir.Call{Callee: "<", Args: []ir.Node{v("i"), v("n")}}}},
	)
	b2 := g.AddBlock(
		cfg.Stmt{Index: 2, Node: &ir.Assign{LHS: v("i"), RHS: &ir.Call{Callee: "+", Args: []ir.Node{v("i"), &ir.Literal{Value: 1}}}}},
	)
	b3 := g.AddBlock(
		cfg.Stmt{Index: 3, Node: &ir.Return{Results: []ir.Node{v("i")}}},
	)
	for _, e := range [][2]cfg.BlockID{{b0, b1}, {b1, b2}, {b1, b3}, {b2, b1}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.SetExit(b3); err != nil {
		t.Fatal(err)
	}
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}

	head, _ := res.Block(b1)
	checkSet(t, "live-in(loop head)", head.LiveIn, "i", "n")
	body, _ := res.Block(b2)
	checkSet(t, "live-out(loop body)", body.LiveOut, "i", "n")
	init, _ := res.Block(b0)
	checkSet(t, "live-in(init)", init.LiveIn, "n")
}

func TestMutatingCallArgument(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock(
		cfg.Stmt{Index: 0, Node: &ir.Call{Callee: "f", Args: []ir.Node{v("a")}}},
	)
	if err := g.SetExit(b0); err != nil {
		t.Fatal(err)
	}
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	block, _ := res.Block(b0)
	// f is not well-known pure and a is aliasable: read once, then written
	checkSet(t, "stmt use", block.Stmts[0].Use, "a")
	checkSet(t, "stmt def", block.Stmts[0].Def, "a")
}

func TestPureCallArgumentsOnlyRead(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock(
		cfg.Stmt{Index: 0, Node: &ir.Call{Callee: "max", Args: []ir.Node{v("a"), v("b")}}},
	)
	if err := g.SetExit(b0); err != nil {
		t.Fatal(err)
	}
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	block, _ := res.Block(b0)
	checkSet(t, "stmt use", block.Stmts[0].Use, "a", "b")
	checkSet(t, "stmt def", block.Stmts[0].Def)
}

func TestNestedFunctionDefinitionIsOpaque(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock(
		cfg.Stmt{Index: 0, Node: &ir.Assign{LHS: v("f"), RHS: &ir.FuncDef{Name: "inner"}}},
	)
	if err := g.SetExit(b0); err != nil {
		t.Fatal(err)
	}
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	block, _ := res.Block(b0)
	checkSet(t, "stmt def", block.Stmts[0].Def, "f")
	checkSet(t, "stmt use", block.Stmts[0].Use)
}

func TestAccessSummaryNode(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock(
		cfg.Stmt{Index: 0, Node: &ir.AccessSummary{
			Uses: []ir.VarID{"a", "b"},
			Defs: []ir.VarID{"c"},
		}},
	)
	if err := g.SetExit(b0); err != nil {
		t.Fatal(err)
	}
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	block, _ := res.Block(b0)
	checkSet(t, "stmt use", block.Stmts[0].Use, "a", "b")
	checkSet(t, "stmt def", block.Stmts[0].Def, "c")
}

// opaqueSwap is an extension node the walker does not know.
type opaqueSwap struct {
	a, b ir.VarID
}

func (*opaqueSwap) Kind() string { return "swap" }

type swapHandler struct{}

func (swapHandler) TryHandle(n ir.Node) ([]ir.Node, bool) {
	if s, ok := n.(*opaqueSwap); ok {
		return []ir.Node{&ir.AccessSummary{
			Uses: []ir.VarID{s.a, s.b},
			Defs: []ir.VarID{s.a, s.b},
		}}, true
	}
	return nil, false
}

func TestUnknownNodeFailsWithoutHandler(t *testing.T) {
	g := cfg.NewGraph()
	g.AddBlock(cfg.Stmt{Index: 0, Node: &opaqueSwap{a: "x", b: "y"}})
	_, err := liveness.Compute(g, liveness.Options{})
	var unsupported *liveness.UnsupportedNodeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedNodeError, got %v", err)
	}
	if unsupported.NodeKind != "swap" {
		t.Errorf("error should name the offending kind, got %q", unsupported.NodeKind)
	}
}

func TestUnknownNodeHandledByCallback(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock(cfg.Stmt{Index: 0, Node: &opaqueSwap{a: "x", b: "y"}})
	if err := g.SetExit(b0); err != nil {
		t.Fatal(err)
	}
	res, err := liveness.Compute(g, liveness.Options{Handler: swapHandler{}})
	if err != nil {
		t.Fatal(err)
	}
	block, _ := res.Block(b0)
	checkSet(t, "stmt use", block.Stmts[0].Use, "x", "y")
	checkSet(t, "stmt def", block.Stmts[0].Def, "x", "y")
}

func TestQueries(t *testing.T) {
	g, a, b := twoBlockGraph(t)
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := res.Block(42); !errors.Is(err, liveness.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown block, got %v", err)
	}

	stmt := res.FindStatement(1)
	if stmt.IsNone() {
		t.Fatal("statement with index 1 should be found")
	}
	checkSet(t, "found statement def", stmt.Value().Def, "y")
	if res.FindStatement(99).IsSome() {
		t.Error("statement with index 99 should not be found")
	}

	owner := res.FindBlockForStatement(2)
	if owner.IsNone() || owner.Value().ID() != b {
		t.Errorf("statement 2 should be owned by block %d", b)
	}
	if res.FindBlockForStatement(99).IsSome() {
		t.Error("no block should own statement 99")
	}

	native := g.Block(b).Stmts[0]
	s, err := res.Statement(native)
	if err != nil {
		t.Fatalf("lookup by CFG statement identity failed: %v", err)
	}
	checkSet(t, "resolved statement use", s.Use, "y")
	if _, err := res.Statement(cfg.Stmt{Index: 7, Node: &ir.NoOp{}}); !errors.Is(err, liveness.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign statement, got %v", err)
	}

	blockA, _ := res.Block(a)
	if !liveness.IsDefined("x", blockA) {
		t.Error("x should be defined in block A")
	}
	if liveness.IsDefined("x", blockA.Stmts[1]) {
		t.Error("x should not be defined in statement 1")
	}
}

func TestStringDump(t *testing.T) {
	g, _, _ := twoBlockGraph(t)
	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "block 0: def={x y} use={} live-in={} live-out={y}\n" +
		"  stmt 0 (assign): def={x} use={} live-in={} live-out={x}\n" +
		"  stmt 1 (assign): def={y} use={x} live-in={x} live-out={y}\n" +
		"block 1: def={} use={y} live-in={y} live-out={}\n" +
		"  stmt 2 (return): def={} use={y} live-in={y} live-out={}\n"
	if got := res.String(); got != want {
		t.Errorf("dump mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
