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

// solve runs the two-phase backward fixed point. Phase 1 iterates over the blocks in
// reverse depth-first order until no block's live-in grows; phase 2 then propagates
// liveness through each block's statements in reverse program order. Termination is
// guaranteed because the sets grow monotonically and are bounded by the finite set of
// variables of the function.
func (r *BlockLiveness) solve() {
	order := r.graph.DepthFirstOrder()
	exit := r.graph.Exit()

	for changed := true; changed; {
		changed = false
		for i := len(order) - 1; i >= 0; i-- {
			b := r.blocks[order[i]]

			out := NewVarSet()
			if b.block.ID == exit {
				// The caller observes reference parameters after return, so they
				// stay live past the exit block regardless of successors
				out = r.refParams.Copy()
			} else {
				for _, succ := range b.block.Succs {
					out.UnionWith(r.blocks[succ].LiveIn)
				}
			}
			b.LiveOut = out

			in := b.Use.Copy()
			for v := range out {
				if !b.Def.Has(v) {
					in.Add(v)
				}
			}
			if len(in) != len(b.LiveIn) {
				changed = true
			}
			b.LiveIn = in
		}
	}

	for _, b := range r.blocks {
		out := b.LiveOut
		for i := len(b.Stmts) - 1; i >= 0; i-- {
			s := b.Stmts[i]
			s.LiveOut = out.Copy()
			in := s.Use.Copy()
			for v := range out {
				if !s.Def.Has(v) {
					in.Add(v)
				}
			}
			s.LiveIn = in
			out = in
		}
	}
}

// Recompute clears every block-level and statement-level live-in/live-out set and
// reruns both solver phases. Use it after a collaborator altered def/use sets by
// rewriting statement contents.
func (r *BlockLiveness) Recompute() {
	for _, b := range r.blocks {
		b.LiveIn = nil
		b.LiveOut = nil
		for _, s := range b.Stmts {
			s.LiveIn = nil
			s.LiveOut = nil
		}
	}
	r.solve()
}
