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

/*
Package liveness computes, for every block and statement of a control-flow graph, the
sets of variables defined, used, live-in and live-out.

The analysis runs in two stages. A recursive walk over each statement's content node
classifies every variable touch as a read or a write, at statement and at block
granularity, consulting the mutability oracle at call sites to decide which arguments
may be written by the callee. A backward fixed-point solver then propagates liveness
between blocks in reverse depth-first order, and once converged, through each block's
statements in reverse program order.

Assuming a graph g built with the cfg package, the typical use is:

	res, err := liveness.Compute(g, liveness.Options{})
	if err != nil { ... }
	b, err := res.Block(id)
	if err != nil { ... }
	out := b.LiveOut

The returned [BlockLiveness] is an immutable snapshot of the analysis: consumers only
read it. When a collaborator rewrites statement contents and updates def/use sets, it
asks for a [BlockLiveness.Recompute], which clears and re-solves all live sets.

The analysis is single-threaded. To analyze independent functions in parallel, use one
oracle memo table per function, or guard a shared table externally.
*/
package liveness
