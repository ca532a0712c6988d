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

package render_test

import (
	"strings"
	"testing"

	"github.com/seqlabs/ir-go-tools/analysis/cfg"
	"github.com/seqlabs/ir-go-tools/analysis/render"
)

func TestToDot(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock()
	b1 := g.AddBlock()
	if err := g.AddEdge(b0, b1); err != nil {
		t.Fatal(err)
	}
	if err := g.SetExit(b1); err != nil {
		t.Fatal(err)
	}

	out, err := render.ToDot(g, "f")
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{"digraph f", "b0", "b1", "b0 -> b1"} {
		if !strings.Contains(s, want) {
			t.Errorf("DOT output should contain %q:\n%s", want, s)
		}
	}
}

func TestDirectedAdapterEdges(t *testing.T) {
	g := cfg.NewGraph()
	b0 := g.AddBlock()
	b1 := g.AddBlock()
	if err := g.AddEdge(b0, b1); err != nil {
		t.Fatal(err)
	}
	a := render.DirectedAdapter{Graph: g}
	if !a.HasEdgeFromTo(0, 1) || a.HasEdgeFromTo(1, 0) {
		t.Errorf("adapter edges should follow successor lists")
	}
	if !a.HasEdgeBetween(1, 0) {
		t.Errorf("HasEdgeBetween ignores direction")
	}
	if a.Edge(1, 0) != nil {
		t.Errorf("no directed edge 1 -> 0 exists")
	}
	nodes := a.Nodes()
	if nodes.Len() != 2 {
		t.Errorf("expected 2 nodes, got %d", nodes.Len())
	}
	count := 0
	for nodes.Next() {
		count++
	}
	if count != 2 {
		t.Errorf("iterator should visit 2 nodes, visited %d", count)
	}
}
