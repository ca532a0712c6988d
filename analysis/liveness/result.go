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

package liveness

import (
	"fmt"

	"github.com/seqlabs/ir-go-tools/analysis/cfg"
	"github.com/seqlabs/ir-go-tools/analysis/ir"
	fn "github.com/seqlabs/ir-go-tools/internal/funcutil"
)

// A Statement holds the access and liveness sets of one CFG statement. Statements are
// owned by their block and live as long as the BlockLiveness that owns the block.
type Statement struct {
	// Def is the set of variables written by the statement
	Def VarSet
	// Use is the set of variables read by the statement before any write
	Use VarSet
	// LiveIn is the set of variables whose value may be read at or after the statement
	LiveIn VarSet
	// LiveOut is the set of variables whose value may be read after the statement
	LiveOut VarSet

	stmt cfg.Stmt
}

// Index returns the statement's declared CFG index.
func (s *Statement) Index() int {
	return s.stmt.Index
}

// Node returns the statement's content node.
func (s *Statement) Node() ir.Node {
	return s.stmt.Node
}

// DefSet implements DefScope.
func (s *Statement) DefSet() VarSet {
	return s.Def
}

// A Block holds the aggregated access and liveness sets of one basic block, and the
// per-statement results in program order.
type Block struct {
	Def     VarSet
	Use     VarSet
	LiveIn  VarSet
	LiveOut VarSet

	// Stmts are the block's statements in program order
	Stmts []*Statement

	block *cfg.BasicBlock
}

// ID returns the id of the underlying CFG block.
func (b *Block) ID() cfg.BlockID {
	return b.block.ID
}

// DefSet implements DefScope.
func (b *Block) DefSet() VarSet {
	return b.Def
}

// A DefScope is any scope with a def set: a Block or a Statement.
type DefScope interface {
	DefSet() VarSet
}

// IsDefined returns true when v is written within the scope.
func IsDefined(v ir.VarID, scope DefScope) bool {
	return scope.DefSet().Has(v)
}

// BlockLiveness is the result of one liveness computation. It owns one Block per CFG
// block and one Statement per CFG statement, and borrows the graph it was computed
// from. Once returned it is an immutable snapshot until Recompute is requested.
type BlockLiveness struct {
	graph     *cfg.Graph
	blocks    map[cfg.BlockID]*Block
	refParams VarSet
}

// Graph returns the CFG the result was computed from.
func (r *BlockLiveness) Graph() *cfg.Graph {
	return r.graph
}

// RefParams returns the reference parameters the exit block's live-out is pinned to.
func (r *BlockLiveness) RefParams() VarSet {
	return r.refParams
}

// Block returns the result block for the CFG block id, or an error wrapping
// ErrNotFound when the id does not belong to the graph.
func (r *BlockLiveness) Block(id cfg.BlockID) (*Block, error) {
	if b, ok := r.blocks[id]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("block %d: %w", id, ErrNotFound)
}

// Blocks returns the result blocks in arena order.
func (r *BlockLiveness) Blocks() []*Block {
	res := make([]*Block, 0, len(r.blocks))
	for _, b := range r.graph.Blocks() {
		res = append(res, r.blocks[b.ID])
	}
	return res
}

// Statement resolves a CFG statement to its result by scanning all blocks, and returns
// an error wrapping ErrNotFound when no statement of the graph matches.
func (r *BlockLiveness) Statement(stmt cfg.Stmt) (*Statement, error) {
	for _, b := range r.graph.Blocks() {
		for _, s := range r.blocks[b.ID].Stmts {
			if s.stmt == stmt {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("statement %d: %w", stmt.Index, ErrNotFound)
}

// FindStatement locates a statement by its declared CFG index.
func (r *BlockLiveness) FindStatement(index int) fn.Optional[*Statement] {
	for _, b := range r.graph.Blocks() {
		for _, s := range r.blocks[b.ID].Stmts {
			if s.stmt.Index == index {
				return fn.Some(s)
			}
		}
	}
	return fn.None[*Statement]()
}

// FindBlockForStatement locates the block containing the statement with the declared
// CFG index.
func (r *BlockLiveness) FindBlockForStatement(index int) fn.Optional[*Block] {
	for _, b := range r.graph.Blocks() {
		for _, s := range r.blocks[b.ID].Stmts {
			if s.stmt.Index == index {
				return fn.Some(r.blocks[b.ID])
			}
		}
	}
	return fn.None[*Block]()
}
