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
	"strings"

	fn "github.com/seqlabs/ir-go-tools/internal/funcutil"

	"github.com/seqlabs/ir-go-tools/analysis/ir"
)

func formatSet(s VarSet) string {
	parts := fn.Map(s.Sorted(), func(v ir.VarID) string { return string(v) })
	return "{" + strings.Join(parts, " ") + "}"
}

// String returns a deterministic dump of the result: blocks in arena order, each with
// its def/use/live sets followed by its statements. This is a debugging affordance for
// collaborators and tests, not part of the analytical contract.
func (r *BlockLiveness) String() string {
	var sb strings.Builder
	for _, block := range r.graph.Blocks() {
		b := r.blocks[block.ID]
		fmt.Fprintf(&sb, "block %d: def=%s use=%s live-in=%s live-out=%s\n",
			block.ID, formatSet(b.Def), formatSet(b.Use), formatSet(b.LiveIn), formatSet(b.LiveOut))
		for _, s := range b.Stmts {
			fmt.Fprintf(&sb, "  stmt %d (%s): def=%s use=%s live-in=%s live-out=%s\n",
				s.stmt.Index, s.stmt.Node.Kind(),
				formatSet(s.Def), formatSet(s.Use), formatSet(s.LiveIn), formatSet(s.LiveOut))
		}
	}
	return sb.String()
}
