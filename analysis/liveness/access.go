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

	"github.com/seqlabs/ir-go-tools/analysis/ir"
)

// recordAccess classifies one variable touch into the def/use sets of the current
// statement and block. Accesses outside any block belong to dead code and are dropped.
//
// The statement-level and block-level rules are intentionally asymmetric: within a
// statement, a read after a write is an error (the statement representation never
// rereads a just-written temporary), while at the block level a read after an earlier
// write is silently satisfied by that write and must not escape as a live-in
// dependency. The surrounding pass pipeline relies on this asymmetry.
func (st *walkState) recordAccess(v ir.VarID, isRead bool) error {
	if st.cur == nil {
		return nil
	}
	if len(st.cur.Stmts) == 0 {
		return fmt.Errorf("%w: variable %q in block %d", ErrMalformedAccess, v, st.cur.ID())
	}
	stmt := st.cur.Stmts[len(st.cur.Stmts)-1]

	// Statement level
	switch {
	case stmt.Def.Has(v):
		if isRead {
			return fmt.Errorf("%w: variable %q in statement %d", ErrReadAfterWrite, v, stmt.Index())
		}
		// already written, nothing to record
	case stmt.Use.Has(v):
		if !isRead {
			stmt.Def.Add(v)
		}
	case isRead:
		stmt.Use.Add(v)
	default:
		stmt.Def.Add(v)
	}

	// Block level: an earlier write in the block shadows the read
	if isRead {
		if !st.cur.Def.Has(v) {
			st.cur.Use.Add(v)
		}
	} else {
		st.cur.Def.Add(v)
	}
	return nil
}
