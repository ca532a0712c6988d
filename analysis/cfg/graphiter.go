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

package cfg

import "github.com/yourbasic/graph"

// Order implements graph.Iterator so that a Graph can be fed directly to the
// yourbasic/graph algorithms.
func (g *Graph) Order() int {
	return len(g.blocks)
}

// Visit implements graph.Iterator. Edge costs are always 1.
func (g *Graph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v < 0 || v >= len(g.blocks) {
		return false
	}
	for _, s := range g.blocks[v].Succs {
		if do(int(s), 1) {
			return true
		}
	}
	return false
}

// StronglyConnected returns the strongly connected components of the graph. Components
// with more than one block (or a block with a self edge) correspond to loops.
func (g *Graph) StronglyConnected() [][]int {
	return graph.StrongComponents(g)
}
