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

// Package render exports control-flow graphs in Graphviz DOT format.
package render

import (
	"fmt"

	"github.com/seqlabs/ir-go-tools/analysis/cfg"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
)

// ToDot marshals the graph in Graphviz DOT format under the given graph name.
func ToDot(g *cfg.Graph, name string) ([]byte, error) {
	return dot.Marshal(DirectedAdapter{Graph: g}, name, "", "  ")
}

// DirectedAdapter wraps a cfg.Graph to satisfy Gonum's graph.Directed interface, so
// that existing graph tooling can consume a control-flow graph directly.
type DirectedAdapter struct {
	Graph *cfg.Graph
}

var _ graph.Directed = DirectedAdapter{}

// Node implements the graph.Graph interface
func (a DirectedAdapter) Node(id int64) graph.Node {
	b := a.Graph.Block(cfg.BlockID(id))
	if b == nil {
		return nil
	}
	return blockNode{b: b, exit: a.Graph.Exit() == b.ID}
}

// Nodes returns the set of nodes in the graph
func (a DirectedAdapter) Nodes() graph.Nodes {
	ids := make([]cfg.BlockID, 0, a.Graph.NumBlocks())
	for _, b := range a.Graph.Blocks() {
		ids = append(ids, b.ID)
	}
	return a.newNodeSet(ids)
}

// From returns the set of nodes reachable from the id through one edge
func (a DirectedAdapter) From(id int64) graph.Nodes {
	b := a.Graph.Block(cfg.BlockID(id))
	if b == nil {
		return graph.Empty
	}
	return a.newNodeSet(b.Succs)
}

// To returns the set of nodes that reach the id through one edge
func (a DirectedAdapter) To(id int64) graph.Nodes {
	b := a.Graph.Block(cfg.BlockID(id))
	if b == nil {
		return graph.Empty
	}
	return a.newNodeSet(b.Preds)
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two
// node identifiers, in either direction
func (a DirectedAdapter) HasEdgeBetween(xid, yid int64) bool {
	return a.HasEdgeFromTo(xid, yid) || a.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo returns true when the graph has a directed edge uid -> vid
func (a DirectedAdapter) HasEdgeFromTo(uid, vid int64) bool {
	b := a.Graph.Block(cfg.BlockID(uid))
	if b == nil {
		return false
	}
	for _, s := range b.Succs {
		if int64(s) == vid {
			return true
		}
	}
	return false
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (a DirectedAdapter) Edge(uid, vid int64) graph.Edge {
	if !a.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return blockEdge{
		from: a.Node(uid).(blockNode),
		to:   a.Node(vid).(blockNode),
	}
}

func (a DirectedAdapter) newNodeSet(ids []cfg.BlockID) graph.Nodes {
	if len(ids) == 0 {
		return graph.Empty
	}
	return &nodeSet{adapter: a, ids: ids, cur: -1}
}

// blockNode wraps a basic block as a Gonum graph node.
type blockNode struct {
	b    *cfg.BasicBlock
	exit bool
}

// ID returns the id of the node
func (n blockNode) ID() int64 {
	return int64(n.b.ID)
}

// DOTID returns the name of the node in the DOT output
func (n blockNode) DOTID() string {
	return fmt.Sprintf("b%d", n.b.ID)
}

// Attributes returns the DOT attributes of the node
func (n blockNode) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{
		{Key: "label", Value: fmt.Sprintf("block %d (%d stmts)", n.b.ID, len(n.b.Stmts))},
	}
	if n.exit {
		attrs = append(attrs, encoding.Attribute{Key: "shape", Value: "doublecircle"})
	}
	return attrs
}

// nodeSet implements the graph.Nodes iterator over a list of block ids.
type nodeSet struct {
	adapter DirectedAdapter
	ids     []cfg.BlockID
	cur     int
}

// Next moves to the next node and reports whether one exists.
func (ns *nodeSet) Next() bool {
	if ns.cur+1 < len(ns.ids) {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of nodes remaining in the set
func (ns *nodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset rewinds the iterator
func (ns *nodeSet) Reset() {
	ns.cur = -1
}

// Node returns the current node in the set
func (ns *nodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.ids) {
		return nil
	}
	return ns.adapter.Node(int64(ns.ids[ns.cur]))
}

// blockEdge implements the graph.Edge interface
type blockEdge struct {
	from blockNode
	to   blockNode
}

// From returns the origin of the edge
func (e blockEdge) From() graph.Node { return e.from }

// To returns the destination of the edge
func (e blockEdge) To() graph.Node { return e.to }

// ReversedEdge returns a new value representing the reversed edge
func (e blockEdge) ReversedEdge() graph.Edge { return blockEdge{from: e.to, to: e.from} }
