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

// Package cfg provides the control-flow graph representation consumed by the liveness
// analysis. Blocks live in an arena addressed by BlockID; successor and predecessor
// lists hold ids, never owning links, so cyclic graphs carry no ownership cycles.
package cfg

import (
	"fmt"

	"github.com/seqlabs/ir-go-tools/analysis/ir"
)

// A BlockID is the stable handle of a basic block inside its Graph. Block 0 is the
// entry block.
type BlockID int

// NoBlock is the id of no block, used before an exit block has been designated.
const NoBlock BlockID = -1

// A Stmt is one statement of a basic block: an opaque content node and the stable
// index the statement carries in the surrounding program representation.
type Stmt struct {
	// Index is the statement's declared index, unique across the whole function
	Index int

	// Node is the content of the statement, read by the liveness walker
	Node ir.Node
}

// A BasicBlock is a maximal straight-line statement sequence with one entry and one
// exit. Statement order is program order and is significant for backward propagation.
type BasicBlock struct {
	ID    BlockID
	Stmts []Stmt
	Succs []BlockID
	Preds []BlockID
}

// A Graph is the arena of basic blocks of one function body.
type Graph struct {
	blocks []*BasicBlock
	exit   BlockID

	// dfo caches the depth-first numbering; nil when it must be recomputed
	dfo []BlockID
}

// NewGraph returns an empty graph with no designated exit block.
func NewGraph() *Graph {
	return &Graph{exit: NoBlock}
}

// AddBlock appends a new block holding the given statements and returns its id.
func (g *Graph) AddBlock(stmts ...Stmt) BlockID {
	id := BlockID(len(g.blocks))
	g.blocks = append(g.blocks, &BasicBlock{ID: id, Stmts: stmts})
	g.dfo = nil
	return id
}

// AddStmt appends a statement to the block identified by b.
func (g *Graph) AddStmt(b BlockID, index int, node ir.Node) error {
	block := g.Block(b)
	if block == nil {
		return fmt.Errorf("cfg: no block with id %d", b)
	}
	block.Stmts = append(block.Stmts, Stmt{Index: index, Node: node})
	return nil
}

// AddEdge adds a control-flow edge between two blocks of the graph. Both endpoint
// lists are updated.
func (g *Graph) AddEdge(from, to BlockID) error {
	f, t := g.Block(from), g.Block(to)
	if f == nil || t == nil {
		return fmt.Errorf("cfg: edge %d -> %d references a missing block", from, to)
	}
	f.Succs = append(f.Succs, to)
	t.Preds = append(t.Preds, from)
	g.dfo = nil
	return nil
}

// SetExit designates the final block of the graph. The liveness solver pins that
// block's live-out to the reference-parameter set.
func (g *Graph) SetExit(b BlockID) error {
	if g.Block(b) == nil {
		return fmt.Errorf("cfg: no block with id %d", b)
	}
	g.exit = b
	return nil
}

// Exit returns the designated exit block, or NoBlock if none has been set.
func (g *Graph) Exit() BlockID {
	return g.exit
}

// Block returns the block with the given id, or nil if the id is out of range.
func (g *Graph) Block(id BlockID) *BasicBlock {
	if id < 0 || int(id) >= len(g.blocks) {
		return nil
	}
	return g.blocks[id]
}

// Blocks returns the blocks of the graph in arena order. The slice is owned by the
// graph and must not be modified.
func (g *Graph) Blocks() []*BasicBlock {
	return g.blocks
}

// NumBlocks returns the number of blocks in the graph.
func (g *Graph) NumBlocks() int {
	return len(g.blocks)
}

// DepthFirstOrder returns the blocks in reverse post-order of a depth-first search
// from the entry block. Blocks unreachable from the entry are appended in arena order.
// The result is cached until the graph changes.
func (g *Graph) DepthFirstOrder() []BlockID {
	if g.dfo != nil {
		return g.dfo
	}
	visited := make([]bool, len(g.blocks))
	post := make([]BlockID, 0, len(g.blocks))
	var visit func(id BlockID)
	visit = func(id BlockID) {
		visited[id] = true
		for _, s := range g.blocks[id].Succs {
			if !visited[s] {
				visit(s)
			}
		}
		post = append(post, id)
	}
	if len(g.blocks) > 0 {
		visit(0)
	}
	order := make([]BlockID, 0, len(g.blocks))
	for i := len(post) - 1; i >= 0; i-- {
		order = append(order, post[i])
	}
	for i := range g.blocks {
		if !visited[i] {
			order = append(order, BlockID(i))
		}
	}
	g.dfo = order
	return order
}
