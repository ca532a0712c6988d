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

// Package graphutil implements graph algorithms over control-flow graphs.
package graphutil

import (
	"github.com/seqlabs/ir-go-tools/analysis/cfg"
)

// A BlockGraph is an edge-set view of a control-flow graph that supports taking
// subgraphs, for the algorithms that need to restrict the node set. It implements
// graph.Iterator from yourbasic/graph.
type BlockGraph struct {
	// The order of the original graph; stays constant across subgraphs so node
	// indices remain consistent
	order int

	// Keys are the node ids present in this (sub)graph, sorted
	Keys []int

	// Edges is an adjacency set: Edges[x][y] means there is an edge x -> y
	Edges map[int]map[int]bool
}

// NewBlockGraph returns the block graph of g.
func NewBlockGraph(g *cfg.Graph) BlockGraph {
	n := g.NumBlocks()
	keys := make([]int, 0, n)
	edges := make(map[int]map[int]bool, n)
	for _, b := range g.Blocks() {
		id := int(b.ID)
		keys = append(keys, id)
		edges[id] = map[int]bool{}
		for _, s := range b.Succs {
			edges[id][int(s)] = true
		}
	}
	return BlockGraph{order: n, Keys: keys, Edges: edges}
}

// Subgraph returns the graph restricted to the nodes in include. Only edges with both
// endpoints included are kept. The order stays that of the original graph, so node
// indices are consistent across subgraphs.
func Subgraph(original BlockGraph, include []int) BlockGraph {
	inset := make(map[int]bool, len(include))
	keys := make([]int, len(include))
	for j, i := range include {
		keys[j] = i
		inset[i] = true
	}

	edges := make(map[int]map[int]bool, len(include))
	for _, i := range include {
		edges[i] = map[int]bool{}
		for e := range original.Edges[i] {
			if inset[e] {
				edges[i][e] = true
			}
		}
	}

	return BlockGraph{order: original.order, Keys: keys, Edges: edges}
}

// Order implements the graph.Iterator interface for the BlockGraph
func (bg BlockGraph) Order() int {
	return bg.order
}

// Visit implements the graph.Iterator interface for the BlockGraph
func (bg BlockGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for w := range bg.Edges[v] {
		if do(w, 1) {
			return true
		}
	}
	return false
}
